package pdm

import (
	"math/big"
	"strconv"
)

// accumulator builds up hex digits and words from the decoded bits.
type accumulator struct {
	endian Endianness

	nibble     uint8
	nibbleBits uint
	nibbleFrom uint64

	word     big.Int
	wordBits int
	wordFrom uint64
}

// push adds a bit received at sample now.
// Every fourth bit completes a nibble, which is returned as Hex annotation.
func (a *accumulator) push(bit uint, now uint64) (Annotation, bool) {
	if a.endian == Little {
		a.nibble = a.nibble<<1 | uint8(bit)
		a.word.Lsh(&a.word, 1)
		a.word.SetBit(&a.word, 0, bit)
	} else {
		a.nibble |= uint8(bit) << a.nibbleBits
		a.word.SetBit(&a.word, a.wordBits, bit)
	}
	a.nibbleBits++
	a.wordBits++

	if a.nibbleBits < 4 {
		return Annotation{}, false
	}

	h := Annotation{
		Start: a.nibbleFrom,
		End:   now,
		Kind:  Hex,
		Text:  strconv.FormatUint(uint64(a.nibble), 16),
	}
	a.nibbleFrom = now
	a.nibbleBits = 0
	a.nibble = 0
	return h, true
}

// reset starts a new word at sample now.
func (a *accumulator) reset(now uint64) {
	a.nibble = 0
	a.nibbleBits = 0
	a.nibbleFrom = now
	a.word.SetInt64(0)
	a.wordBits = 0
	a.wordFrom = now
}

// emit returns the accumulated word ending at sample now.
// The word is kept, only reset clears it.
func (a *accumulator) emit(now uint64) Annotation {
	return Annotation{
		Start: a.wordFrom,
		End:   now,
		Kind:  Word,
		Text:  "0x" + a.word.Text(16),
	}
}
