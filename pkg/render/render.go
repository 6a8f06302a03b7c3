// Package render writes decoder annotations as text or JSON lines.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"pdm/pkg/pdm"
)

// ErrFormat is returned for unknown output formats.
var ErrFormat = errors.New("unsupported output format")

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer is an annotation sink writing to an output stream.
// The first write error is kept and stops all further output.
type Renderer interface {
	pdm.Sink
	Err() error
}

// New returns a renderer for format.
func New(format string, w io.Writer) (Renderer, error) {
	switch format {
	case FormatText:
		return NewText(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// Text renders one annotation per line:
//
//	   5000-     7000 bits      leader leadin
type Text struct {
	w   io.Writer
	err error
}

// NewText returns a text renderer writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Put writes a.
func (t *Text) Put(a pdm.Annotation) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%9d-%9d %-9s %-6s %s\n", a.Start, a.End, a.Kind.Row(), a.Kind, a.Text)
}

// Err returns the first write error.
func (t *Text) Err() error {
	return t.err
}

// JSON renders one JSON object per line.
type JSON struct {
	enc *json.Encoder
	err error
}

// NewJSON returns a JSON lines renderer writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

// Put writes a.
func (j *JSON) Put(a pdm.Annotation) {
	if j.err != nil {
		return
	}
	j.err = j.enc.Encode(a)
}

// Err returns the first write error.
func (j *JSON) Err() error {
	return j.err
}
