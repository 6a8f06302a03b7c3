package render

import (
	"bytes"
	"errors"
	"testing"

	"pdm/pkg/pdm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadin = pdm.Annotation{Start: 5000, End: 7000, Kind: pdm.Leader, Text: "leadin"}

func TestText(t *testing.T) {
	var b bytes.Buffer
	r, err := New(FormatText, &b)
	require.NoError(t, err)

	r.Put(leadin)
	r.Put(pdm.Annotation{Start: 7000, End: 21400, Kind: pdm.Word, Text: "0x5"})
	require.NoError(t, r.Err())

	assert.Equal(t,
		"     5000-     7000 bits      leader leadin\n"+
			"     7000-    21400 hexword   word   0x5\n",
		b.String())
}

func TestJSON(t *testing.T) {
	var b bytes.Buffer
	r, err := New(FormatJSON, &b)
	require.NoError(t, err)

	r.Put(leadin)
	require.NoError(t, r.Err())
	assert.JSONEq(t, `{"start":5000,"end":7000,"kind":"leader","text":"leadin"}`, b.String())
}

type brokenWriter struct{ n int }

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("disk full")
}

func TestStickyError(t *testing.T) {
	w := &brokenWriter{}
	r := NewText(w)
	r.Put(leadin)
	r.Put(leadin)

	assert.EqualError(t, r.Err(), "disk full")
	assert.Equal(t, 1, w.n)
}

func TestUnknownFormat(t *testing.T) {
	_, err := New("vcd", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrFormat)
}
