package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBits(t *testing.T) {
	bits, err := parseBits("0101_1 0")
	require.NoError(t, err)
	assert.Equal(t, []uint{0, 1, 0, 1, 1, 0}, bits)

	_, err = parseBits("012")
	assert.Error(t, err)
}
