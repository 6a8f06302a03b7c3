// Package pulsetrain synthesizes PDM line signals.
//
// It is the encoding counterpart of package pdm and is used to generate test
// signals and sample captures.
package pulsetrain

import (
	"pdm/pkg/pdm"
	"pdm/pkg/port"
)

// Train builds the transitions of a line, in sample numbers.
type Train struct {
	polarity pdm.Polarity
	pos      uint64
	active   bool
	samples  []port.Sample
}

// New starts an inactive line at sample 0.
func New(p pdm.Polarity) *Train {
	t := &Train{polarity: p}
	t.samples = append(t.samples, port.Sample{Index: 0, Level: t.level(false)})
	return t
}

// level returns the raw line level of the active state.
func (t *Train) level(active bool) port.Level {
	l := port.Low
	if active {
		l = port.High
	}
	if t.polarity == pdm.ActiveLow {
		l = l.Invert()
	}
	return l
}

func (t *Train) set(active bool, n uint64) *Train {
	if active != t.active {
		t.active = active
		t.samples = append(t.samples, port.Sample{Index: t.pos, Level: t.level(active)})
	}
	t.pos += n
	return t
}

// Active drives the line active for n samples.
func (t *Train) Active(n uint64) *Train {
	return t.set(true, n)
}

// Inactive releases the line for n samples.
func (t *Train) Inactive(n uint64) *Train {
	return t.set(false, n)
}

// Pos returns the current sample number.
func (t *Train) Pos() uint64 {
	return t.pos
}

// Samples returns the initial sample followed by all transitions.
// A still active line is released at the current position.
func (t *Train) Samples() []port.Sample {
	if t.active {
		t.Inactive(0)
	}
	return append([]port.Sample(nil), t.samples...)
}

// Timing holds the durations of a frame in microseconds.
type Timing struct {
	// Pulse is the active time between two bits.
	Pulse uint
	// Zero and One are the inactive times of the bits.
	Zero uint
	One  uint
	// Idle is the inactive time before the leadin.
	Idle uint
	// Leadin and Leadout are the active times of the leader pulses.
	Leadin  uint
	Leadout uint
	// Header is the inactive time between leadin and the first bit pulse.
	Header uint
	// Trailer is the inactive time between the last bit pulse and the leadout.
	Trailer uint
}

// DefaultTiming derives frame timing from the nominal bit times of c, chosen
// to be recognized by a decoder with the same configuration:
// pulse = zero, leaders = 4*one, idle = header = 2*one, trailer = 30*zero.
func DefaultTiming(c pdm.Config) Timing {
	return Timing{
		Pulse:   c.ZeroTime,
		Zero:    c.ZeroTime,
		One:     c.OneTime,
		Idle:    2 * c.OneTime,
		Leadin:  4 * c.OneTime,
		Leadout: 4 * c.OneTime,
		Header:  2 * c.OneTime,
		Trailer: 30 * c.ZeroTime,
	}
}

// Samples converts us microseconds to a sample count at samplerate.
func Samples(samplerate uint64, us uint) uint64 {
	return samplerate * uint64(us) / 1_000_000
}

// Frame encodes bits as one complete frame: idle, leadin, header, a pulse
// before and after every bit space, trailer and leadout.
func Frame(samplerate uint64, p pdm.Polarity, tm Timing, bits []uint) []port.Sample {
	n := func(us uint) uint64 { return Samples(samplerate, us) }

	t := New(p).
		Inactive(n(tm.Idle)).
		Active(n(tm.Leadin)).
		Inactive(n(tm.Header))

	for _, b := range bits {
		t.Active(n(tm.Pulse))
		if b == 0 {
			t.Inactive(n(tm.Zero))
		} else {
			t.Inactive(n(tm.One))
		}
	}

	return t.Active(n(tm.Pulse)).
		Inactive(n(tm.Trailer)).
		Active(n(tm.Leadout)).
		Samples()
}
