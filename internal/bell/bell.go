// Package bell rings the terminal bell as a best-effort audible signal.
//
// Callers always discard the returned error: a missing or muted terminal
// must never change control flow.
package bell

import (
	"errors"
	"io"
	"time"
)

// Tone is one beep. Terminals cannot pick a frequency, so Freq is kept only
// for ringers that can; Duration is the pause after the beep.
type Tone struct {
	Freq     int
	Duration time.Duration
}

// Alarm is the single long tone used when an alarm fires.
var Alarm = []Tone{{Freq: 1000, Duration: 500 * time.Millisecond}}

// PhaseEnd is the rising double tone played when a focus phase completes.
var PhaseEnd = []Tone{
	{Freq: 800, Duration: 300 * time.Millisecond},
	{Freq: 1000, Duration: 300 * time.Millisecond},
}

// Ringer plays a sequence of tones.
type Ringer interface {
	Ring(tones ...Tone) error
}

// Terminal writes BEL characters to W.
type Terminal struct {
	W io.Writer
	// Sleep pauses between tones; defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Ring writes one BEL per tone.
func (t Terminal) Ring(tones ...Tone) error {
	if t.W == nil {
		return errors.New("bell: no terminal")
	}
	sleep := t.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for _, tone := range tones {
		if _, err := t.W.Write([]byte{'\a'}); err != nil {
			return err
		}
		sleep(tone.Duration)
	}
	return nil
}

// Silent never makes a sound.
type Silent struct{}

// Ring does nothing.
func (Silent) Ring(...Tone) error { return nil }
