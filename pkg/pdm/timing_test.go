package pdm_test

import (
	"math"
	"testing"

	"pdm/pkg/pdm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCalcThresholdsDefaults(t *testing.T) {
	th := pdm.CalcThresholds(1_000_000, pdm.DefaultConfig())

	assert.Equal(t, int64(481), th.Zero)
	assert.Equal(t, int64(639), th.One)
}

func TestCalcThresholdsDisabled(t *testing.T) {
	c := pdm.DefaultConfig()
	c.ZeroTime = 0
	assert.Equal(t, pdm.Thresholds{Zero: 0, One: 639}, pdm.CalcThresholds(1_000_000, c))

	c = pdm.DefaultConfig()
	c.OneTime = 0
	assert.Equal(t, pdm.Thresholds{Zero: 481, One: 0}, pdm.CalcThresholds(1_000_000, c))
}

func TestCalcThresholdsNoTolerance(t *testing.T) {
	c := pdm.DefaultConfig()
	c.Tolerance = 0

	th := pdm.CalcThresholds(2_000_000, c)
	assert.Equal(t, int64(801), th.Zero)
	assert.Equal(t, int64(1599), th.One)
}

func TestCalcThresholdsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := pdm.Config{
			ZeroTime:  rapid.UintRange(0, 100_000).Draw(t, "zero"),
			OneTime:   rapid.UintRange(0, 100_000).Draw(t, "one"),
			Tolerance: rapid.Float64Range(0, 99).Draw(t, "tolerance"),
		}
		rate := rapid.Uint64Range(0, 100_000_000).Draw(t, "rate")

		assert.Equal(t, pdm.CalcThresholds(rate, c), pdm.CalcThresholds(rate, c))
	})
}

// The zero threshold stays below the one threshold once the sample rate
// resolves the gap between zero+tolerance and one-tolerance.
func TestCalcThresholdsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		zero := rapid.UintRange(1, 2000).Draw(t, "zero")
		one := 2*zero + rapid.UintRange(0, 5000).Draw(t, "extra")
		tolerance := rapid.Float64Range(0, 30).Draw(t, "tolerance")

		tol := tolerance / 100
		gap := float64(one)*(1-tol) - float64(zero)*(1+tol)
		require.Greater(t, gap, 0.0)

		minRate := uint64(math.Ceil(4e6/gap)) + 1
		rate := minRate + rapid.Uint64Range(0, 10_000_000).Draw(t, "rate")

		th := pdm.CalcThresholds(rate, pdm.Config{ZeroTime: zero, OneTime: one, Tolerance: tolerance})
		assert.Less(t, th.Zero, th.One, "rate %d: %+v", rate, th)
	})
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, pdm.DefaultConfig().Validate())

	for name, c := range map[string]pdm.Config{
		"negative tolerance": {Tolerance: -1},
		"full tolerance":     {Tolerance: 100},
		"polarity":           {Polarity: pdm.Polarity(7)},
		"endianness":         {Endian: pdm.Endianness(-1)},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.Validate(), pdm.ErrInvalidOption)
		})
	}
}

func TestParseOptions(t *testing.T) {
	p, err := pdm.ParsePolarity("active-high")
	require.NoError(t, err)
	assert.Equal(t, pdm.ActiveHigh, p)
	assert.Equal(t, "active-high", p.String())

	p, err = pdm.ParsePolarity("active-low")
	require.NoError(t, err)
	assert.Equal(t, pdm.ActiveLow, p)

	_, err = pdm.ParsePolarity("high")
	assert.ErrorIs(t, err, pdm.ErrInvalidOption)

	e, err := pdm.ParseEndianness("big")
	require.NoError(t, err)
	assert.Equal(t, pdm.Big, e)
	assert.Equal(t, "big", e.String())

	_, err = pdm.ParseEndianness("middle")
	assert.ErrorIs(t, err, pdm.ErrInvalidOption)
}
