package pdm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pushAll(a *accumulator, bits []uint, from uint64) []Annotation {
	var hex []Annotation
	for i, b := range bits {
		if h, ok := a.push(b, from+uint64(i)+1); ok {
			hex = append(hex, h)
		}
	}
	return hex
}

// Little endian shifts every bit in from the right, so the first received bit
// ends up most significant. Big endian fills from bit 0 upwards.
func TestAccumulatorEndianness(t *testing.T) {
	little := accumulator{endian: Little}
	hex := pushAll(&little, []uint{1, 0, 1, 1}, 0)
	assert.Equal(t, []Annotation{{Start: 0, End: 4, Kind: Hex, Text: "b"}}, hex)
	assert.Equal(t, "0xb", little.emit(4).Text)

	big := accumulator{endian: Big}
	hex = pushAll(&big, []uint{1, 0, 1, 1}, 0)
	assert.Equal(t, []Annotation{{Start: 0, End: 4, Kind: Hex, Text: "d"}}, hex)
	assert.Equal(t, "0xd", big.emit(4).Text)
}

func TestAccumulatorNibbleSpans(t *testing.T) {
	a := accumulator{endian: Little}
	a.reset(100)

	hex := pushAll(&a, []uint{0, 1, 0, 1, 1, 1, 1, 0}, 100)
	assert.Equal(t, []Annotation{
		{Start: 100, End: 104, Kind: Hex, Text: "5"},
		{Start: 104, End: 108, Kind: Hex, Text: "e"},
	}, hex)
	assert.Equal(t, Annotation{Start: 100, End: 200, Kind: Word, Text: "0x5e"}, a.emit(200))
}

func TestAccumulatorResetClears(t *testing.T) {
	a := accumulator{endian: Little}

	hex := pushAll(&a, []uint{1, 1, 1, 1}, 0)
	assert.Equal(t, "f", hex[0].Text)

	// an incomplete nibble is dropped by reset as well
	pushAll(&a, []uint{1, 1}, 4)
	a.reset(10)

	hex = pushAll(&a, []uint{0, 0, 0, 1}, 10)
	assert.Equal(t, []Annotation{{Start: 10, End: 14, Kind: Hex, Text: "1"}}, hex)
	assert.Equal(t, "0x1", a.emit(20).Text)
}

func TestAccumulatorWordIsUnbounded(t *testing.T) {
	a := accumulator{endian: Little}
	bits := make([]uint, 100)
	for i := range bits {
		bits[i] = 1
	}
	pushAll(&a, bits, 0)

	w := a.emit(100).Text
	assert.Len(t, w, 2+25)
	assert.Equal(t, "0xfffffffffffffffffffffffff", w)

	// emit does not clear the word
	assert.Equal(t, w, a.emit(200).Text)
}

func TestAccumulatorEmptyWord(t *testing.T) {
	a := accumulator{endian: Big}
	a.reset(5)
	assert.Equal(t, Annotation{Start: 5, End: 9, Kind: Word, Text: "0x0"}, a.emit(9))
}
