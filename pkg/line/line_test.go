package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleIndex(t *testing.T) {
	assert.Equal(t, uint64(0), SampleIndex(0, 1_000_000))
	assert.Equal(t, uint64(0), SampleIndex(-time.Second, 1_000_000))
	assert.Equal(t, uint64(400), SampleIndex(400*time.Microsecond, 1_000_000))
	assert.Equal(t, uint64(399), SampleIndex(400*time.Microsecond-time.Nanosecond, 1_000_000))
	assert.Equal(t, uint64(44_100), SampleIndex(time.Second, 44_100))
}

func TestSampleIndexLongRun(t *testing.T) {
	// a year at 1 GHz overflows a 64 bit product of nanoseconds and rate
	year := 365 * 24 * time.Hour
	assert.Equal(t, uint64(year.Seconds())*1_000_000_000, SampleIndex(year, 1_000_000_000))
}
