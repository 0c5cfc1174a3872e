package emu

import (
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const ptyQueueLen = 256

// PTY is a pseudo-terminal standing in for the serial line. A host program
// such as screen or minicom attaches to Name. Writes never block the
// guest: while nobody drains the line, output past the queue is dropped.
type PTY struct {
	master *os.File
	slave  *os.File
	name   string

	queue   chan []byte
	closed  chan struct{}
	once    sync.Once
	dropped atomic.Int64
	wg      sync.WaitGroup
}

// OpenPTY allocates a pseudo-terminal in raw mode
func OpenPTY() (*PTY, error) {
	master, slave, name, err := openPTY()
	if err != nil {
		return nil, err
	}
	p := &PTY{
		master: master,
		slave:  slave,
		name:   name,
		queue:  make(chan []byte, ptyQueueLen),
		closed: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.pump()
	return p, nil
}

// Name returns the path of the terminal side, e.g. /dev/pts/4
func (p *PTY) Name() string { return p.name }

// Dropped returns how many bytes were discarded because the queue was full
func (p *PTY) Dropped() int64 { return p.dropped.Load() }

// Write queues b for the line
func (p *PTY) Write(b []byte) (int, error) {
	buf := append([]byte(nil), b...)
	select {
	case <-p.closed:
		return 0, os.ErrClosed
	default:
	}
	select {
	case p.queue <- buf:
	default:
		p.dropped.Add(int64(len(b)))
	}
	return len(b), nil
}

// Read reads what the host program typed
func (p *PTY) Read(b []byte) (int, error) {
	return p.master.Read(b)
}

// Close stops the pump and releases both sides. It does not wait for a host
// program to drain the line.
func (p *PTY) Close() error {
	var err error
	p.once.Do(func() {
		close(p.closed)
		// The pump may be blocked on a full line with nobody reading;
		// closing the master fails that write and lets it exit
		p.master.SetWriteDeadline(time.Now())
		err = p.master.Close()
		p.wg.Wait()
		if p.slave != nil {
			p.slave.Close()
		}
	})
	return err
}

func (p *PTY) pump() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closed:
			return
		case buf := <-p.queue:
			if _, err := p.master.Write(buf); err != nil {
				p.dropped.Add(int64(len(buf)))
			}
		}
	}
}
