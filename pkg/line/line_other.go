//go:build !linux

package line

import (
	"io"

	"pdm/pkg/port"
)

// Line is not available without GPIO character devices.
type Line struct{}

// Open always fails with ErrNotSupported.
func Open(c Config) (*Line, error) {
	return nil, ErrNotSupported
}

// Next returns io.EOF.
func (l *Line) Next() (port.Sample, error) {
	return port.Sample{}, io.EOF
}

// Close does nothing.
func (l *Line) Close() error {
	return nil
}
