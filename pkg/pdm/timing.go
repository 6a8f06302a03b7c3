package pdm

import (
	"fmt"
)

// Polarity defines which raw line level is treated as active.
type Polarity int

const (
	// ActiveLow treats a low line level as active (e.g. IR receivers idling high).
	ActiveLow Polarity = iota
	// ActiveHigh treats a high line level as active.
	ActiveHigh
)

func (p Polarity) String() string {
	switch p {
	case ActiveLow:
		return "active-low"
	case ActiveHigh:
		return "active-high"
	}
	return fmt.Sprintf("polarity(%d)", int(p))
}

// ParsePolarity converts "active-low" or "active-high" to a Polarity.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "active-low":
		return ActiveLow, nil
	case "active-high":
		return ActiveHigh, nil
	}
	return 0, fmt.Errorf("%w: polarity %q", ErrInvalidOption, s)
}

// Endianness defines the order bits are packed into hex digits and words.
type Endianness int

const (
	// Little shifts every received bit in from the right.
	Little Endianness = iota
	// Big places every received bit at the current bit position.
	Big
)

func (e Endianness) String() string {
	switch e {
	case Little:
		return "little"
	case Big:
		return "big"
	}
	return fmt.Sprintf("endianness(%d)", int(e))
}

// ParseEndianness converts "little" or "big" to an Endianness.
func ParseEndianness(s string) (Endianness, error) {
	switch s {
	case "little":
		return Little, nil
	case "big":
		return Big, nil
	}
	return 0, fmt.Errorf("%w: endianness %q", ErrInvalidOption, s)
}

// Config holds the bit timing of the decoder.
// Durations are nominal values in microseconds, a zero value disables the
// corresponding classification.
type Config struct {
	Polarity Polarity
	// ZeroTime is the nominal inactive time of a zero bit (us).
	ZeroTime uint
	// OneTime is the nominal inactive time of a one bit (us).
	OneTime uint
	// Tolerance widens the zero and narrows the one threshold (percent).
	Tolerance float64
	Endian    Endianness
}

// DefaultConfig returns the default timing: active low, 400us zero, 800us one,
// 20% tolerance, little endian.
func DefaultConfig() Config {
	return Config{
		Polarity:  ActiveLow,
		ZeroTime:  400,
		OneTime:   800,
		Tolerance: 20,
		Endian:    Little,
	}
}

// Validate checks the option ranges.
func (c Config) Validate() error {
	switch {
	case c.Polarity != ActiveLow && c.Polarity != ActiveHigh:
		return fmt.Errorf("%w: %v", ErrInvalidOption, c.Polarity)
	case c.Endian != Little && c.Endian != Big:
		return fmt.Errorf("%w: %v", ErrInvalidOption, c.Endian)
	case c.Tolerance < 0 || c.Tolerance >= 100:
		return fmt.Errorf("%w: tolerance %v%% out of range [0,100)", ErrInvalidOption, c.Tolerance)
	}
	return nil
}

// Thresholds are the classification limits in samples.
type Thresholds struct {
	// Zero is the upper limit of a zero bit, derived from ZeroTime+tolerance.
	Zero int64
	// One is the lower limit of a one bit, derived from OneTime-tolerance.
	One int64
}

// CalcThresholds derives the sample thresholds from the nominal bit times.
// Both are towards the middle of the range: Zero is calculated from
// ZeroTime+tolerance and One from OneTime-tolerance.
func CalcThresholds(samplerate uint64, c Config) Thresholds {
	var t Thresholds
	tolerance := c.Tolerance / 100

	if c.ZeroTime != 0 {
		t.Zero = int64(float64(samplerate)*float64(c.ZeroTime)*(1+tolerance)/1e6) + 1
	}
	if c.OneTime != 0 {
		t.One = int64(float64(samplerate)*float64(c.OneTime)*(1-tolerance)/1e6) - 1
	}
	return t
}
