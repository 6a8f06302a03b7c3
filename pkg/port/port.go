// Package port holds the definition of a single logic line and its transitions.
package port

// Level is the raw logic level of the line.
type Level int

const (
	// Low indicates a logical 0.
	Low Level = 0
	// High indicates a logical 1.
	High Level = 1
)

// Invert returns the opposite level.
func (l Level) Invert() Level {
	if l == Low {
		return High
	}
	return Low
}

// Edge indicates the type of change to the line state.
//
// Note that for active low lines a low line level results in a high active
// state, so the edge type is relative to the active state, not the raw level.
type Edge int

const (
	_ Edge = iota
	// Rising indicates an inactive to active event (low to high).
	Rising
	// Falling indicates an active to inactive event (high to low).
	Falling
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	}
	return "none"
}

// Sample is one observation of the line.
type Sample struct {
	// Index is the sample number the level was observed at.
	Index uint64
	// Level is the raw line level at Index.
	Level Level
}
