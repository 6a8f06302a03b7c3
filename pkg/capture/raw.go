package capture

import (
	"bufio"
	"fmt"
	"io"

	"pdm/pkg/port"
)

// Raw reads a binary capture with one byte per sample.
// Only the changes of the selected channel are returned.
type Raw struct {
	r       *bufio.Reader
	mask    byte
	pos     uint64
	level   port.Level
	started bool
}

// NewRaw returns a cursor reading channel (bit 0..7) of a raw capture.
func NewRaw(r io.Reader, channel uint) (*Raw, error) {
	if channel > 7 {
		return nil, fmt.Errorf("%w: raw channel %d, expected 0..7", ErrFormat, channel)
	}
	return &Raw{r: bufio.NewReader(r), mask: 1 << channel}, nil
}

// Next returns the first sample or the next level change, or io.EOF.
func (r *Raw) Next() (port.Sample, error) {
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return port.Sample{}, err
		}

		level := port.Low
		if b&r.mask != 0 {
			level = port.High
		}

		pos := r.pos
		r.pos++

		if !r.started || level != r.level {
			r.started = true
			r.level = level
			return port.Sample{Index: pos, Level: level}, nil
		}
	}
}
