package vgatext

// ReportFault prints the final diagnostic for a fatal condition on the
// installed console. It is the fault path's only use of the display.
//
// It is valid only after the interrupt table has been installed at startup
// (kmain.Platform.InitInterrupts has returned); a fault taken earlier never
// reaches here.
//
// Hazard: the console lock is not reentrant. If the fault interrupted code
// that was holding the console (in the middle of a Print, say), ReportFault
// spins on the lock forever and the diagnostic is never shown. Callers
// prevent this by not faulting while they hold the console.
func ReportFault(v any) {
	Default().Printf("%v\n", v)
}

// Recover is deferred at the top of a boot or test function. A panic that
// reaches it is reported with ReportFault and then passed to halt, which must
// not return.
func Recover(halt func(v any)) {
	if r := recover(); r != nil {
		ReportFault(r)
		halt(r)
	}
}
