// Package line watches a GPIO line and provides its edges as a sample cursor.
//
// Kernel edge timestamps are converted to sample numbers at a fixed
// samplerate, relative to the time the line was opened.
package line

import (
	"errors"
	"math/bits"
	"time"
)

var (
	// ErrInvalidParam is returned for an unknown bias setting.
	ErrInvalidParam = errors.New("invalid parameters")
	// ErrNotSupported is returned on systems without GPIO character devices.
	ErrNotSupported = errors.New("gpio lines are not supported on this system")
)

const (
	BiasNone     = "none"
	BiasPullUp   = "pullup"
	BiasPullDown = "pulldown"
)

// Config defines the watched line.
type Config struct {
	// Chip is the gpio chip name, e.g. gpiochip0.
	Chip string
	// Offset is the line number on the chip.
	Offset int
	// Bias is one of none, pullup or pulldown.
	Bias string
	// Debounce is the kernel debounce period, 0 disables debouncing.
	Debounce time.Duration
	// SampleRate is the time base of the sample numbers (Hz).
	SampleRate uint64
	// Buffer is the number of edges queued for the reader.
	Buffer int
}

// SampleIndex converts the elapsed time d to a sample number at samplerate.
// Negative durations are sample 0.
func SampleIndex(d time.Duration, samplerate uint64) uint64 {
	if d <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(d), samplerate)
	if hi >= uint64(time.Second) {
		// the quotient does not fit, more than 584 years at 1 GHz
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, uint64(time.Second))
	return q
}
