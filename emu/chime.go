package emu

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/phroun/vgatext/exitdev"
)

const chimeRate = beep.SampleRate(48000)

const (
	bellDuration   = 400 * time.Millisecond
	bellAttack     = 5 * time.Millisecond
	buzzDuration   = 300 * time.Millisecond
	buzzAttack     = 10 * time.Millisecond
	buzzRelease    = 60 * time.Millisecond
	chimeMaxLength = 2 * time.Second
)

// wave shapes
type wave int

const (
	waveSine wave = iota
	waveSaw
)

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     wave
	rate     beep.SampleRate
}

func newOscillator(freq float64, d time.Duration, w wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{freq: freq, duration: rate.N(d), wave: w, rate: rate}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case waveSaw:
			v = 2.0 * (o.phase - 0.5)
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope ramps a stream in over attack and out over release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = float64(remaining) / float64(e.release)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Tone returns the sound for an exit code: a bell for success and a low
// buzz for anything else
func Tone(code exitdev.Code, rate beep.SampleRate) beep.Streamer {
	if code == exitdev.Success {
		fund := newEnvelope(newOscillator(880, bellDuration, waveSine, rate), bellDuration, bellAttack, bellDuration*3/4, rate)
		over := newEnvelope(newOscillator(1760, bellDuration, waveSine, rate), bellDuration, bellAttack, bellDuration/3, rate)
		return volume(beep.Mix(volume(fund, 0.7), volume(over, 0.3)), 0.5)
	}
	buzz := newEnvelope(newOscillator(100, buzzDuration, waveSaw, rate), buzzDuration, buzzAttack, buzzRelease, rate)
	return volume(buzz, 0.4)
}

// Chime plays a Tone on the host's speaker. The speaker is opened on first
// use; if that fails the chime stays silent.
type Chime struct {
	once sync.Once
	err  error
}

// Init opens the speaker
func (c *Chime) Init() error {
	c.once.Do(func() {
		c.err = speaker.Init(chimeRate, chimeRate.N(100*time.Millisecond))
	})
	return c.err
}

// Play sounds the tone for code and waits for it to finish
func (c *Chime) Play(code exitdev.Code) error {
	if err := c.Init(); err != nil {
		return err
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(Tone(code, chimeRate), beep.Callback(func() {
		close(done)
	})))
	select {
	case <-done:
	case <-time.After(chimeMaxLength):
	}
	return nil
}
