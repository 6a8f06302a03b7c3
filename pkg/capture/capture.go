// Package capture reads logic captures of a single line and provides them as
// sample cursors for the decoder.
package capture

import (
	"errors"
	"fmt"
	"io"

	"pdm/pkg/port"
)

var (
	// ErrSyntax is returned for malformed capture lines.
	ErrSyntax = errors.New("invalid capture syntax")
	// ErrOrder is returned if the sample numbers are decreasing.
	ErrOrder = errors.New("sample number out of order")
	// ErrFormat is returned for unsupported capture formats.
	ErrFormat = errors.New("unsupported capture format")
)

const (
	// FormatTransitions is a text file with one "<sample> <level>" pair per line.
	FormatTransitions = "transitions"
	// FormatRaw is a binary file with one byte per sample, one bit per channel.
	FormatRaw = "raw"
)

// Cursor is the sample source consumed by the decoder.
type Cursor interface {
	Next() (port.Sample, error)
}

// Open returns a cursor reading r in the given format.
// channel selects the bit of a raw capture and is ignored for transitions.
func Open(format string, r io.Reader, channel uint) (Cursor, error) {
	switch format {
	case FormatTransitions:
		return NewTransitions(r), nil
	case FormatRaw:
		return NewRaw(r, channel)
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// Slice is a cursor over samples held in memory.
type Slice struct {
	samples []port.Sample
	pos     int
}

// NewSlice returns a cursor over samples.
func NewSlice(samples []port.Sample) *Slice {
	return &Slice{samples: samples}
}

// Next returns the next sample or io.EOF.
func (s *Slice) Next() (port.Sample, error) {
	if s.pos >= len(s.samples) {
		return port.Sample{}, io.EOF
	}
	smp := s.samples[s.pos]
	s.pos++
	return smp, nil
}
