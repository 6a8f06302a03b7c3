package pdm

import (
	"pdm/pkg/port"
)

// active converts a raw line level to the active state.
// From hereon everything is active high.
func active(p Polarity, l port.Level) port.Level {
	if p == ActiveLow {
		return l.Invert()
	}
	return l
}

// edgeTracker measures the timing of the active (high) and inactive (low) periods.
type edgeTracker struct {
	// pin is the last active state of the line.
	pin port.Level
	// lastpos is the sample number of the last detected edge.
	lastpos uint64

	falling     uint64
	lastfalling uint64
	rising      uint64
	lastrising  uint64

	// highwidth is the duration of the last active period (samples).
	highwidth int64
	// lowwidth is the duration of the last inactive period (samples).
	lowwidth int64
}

// start initializes all edge timestamps to the first sample.
func (e *edgeTracker) start(pos uint64, pin port.Level) {
	*e = edgeTracker{
		pin:         pin,
		lastpos:     pos,
		falling:     pos,
		lastfalling: pos,
		rising:      pos,
		lastrising:  pos,
	}
}

// update handles a new active state at sample pos and returns the detected edge.
// An unchanged state is not an edge and leaves the tracker untouched.
func (e *edgeTracker) update(pos uint64, pin port.Level) (port.Edge, bool) {
	var edge port.Edge

	switch {
	case pin == port.Low && e.pin == port.High:
		edge = port.Falling
		e.lastfalling = e.falling
		e.falling = pos
		e.highwidth = int64(e.falling - e.rising)
	case pin == port.High && e.pin == port.Low:
		edge = port.Rising
		e.lastrising = e.rising
		e.rising = pos
		e.lowwidth = int64(e.rising - e.falling)
	default:
		return edge, false
	}

	e.pin = pin
	e.lastpos = pos
	return edge, true
}
