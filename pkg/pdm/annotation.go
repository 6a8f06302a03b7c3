package pdm

import (
	"fmt"
)

// Kind is the annotation class.
type Kind int

const (
	// Bit annotates a decoded bit ("0" or "1").
	Bit Kind = iota
	// Leader annotates a "leadin" or "leadout" pulse.
	Leader
	// Hex annotates a completed nibble as a single hex digit.
	Hex
	// Word annotates the accumulated word between leadin and leadout.
	Word
)

var kindNames = [...]string{"bit", "leader", "hex", "word"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Row returns the name of the display row the kind belongs to.
// Bits and leaders share a row.
func (k Kind) Row() string {
	switch k {
	case Bit, Leader:
		return "bits"
	case Hex:
		return "hexdigits"
	case Word:
		return "hexword"
	}
	return ""
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Annotation is one decoded event, spanning the samples [Start, End].
type Annotation struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
}

func (a Annotation) String() string {
	return fmt.Sprintf("%d-%d %s %s", a.Start, a.End, a.Kind, a.Text)
}

// Sink receives the annotations of a decoder in emission order.
type Sink interface {
	Put(Annotation)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Annotation)

// Put calls f(a).
func (f SinkFunc) Put(a Annotation) {
	f(a)
}

// Collector is a Sink which keeps all annotations in memory.
type Collector struct {
	Annotations []Annotation
}

// Put appends a to the collected annotations.
func (c *Collector) Put(a Annotation) {
	c.Annotations = append(c.Annotations, a)
}

// Filter returns the texts of all collected annotations of the given kind.
func (c *Collector) Filter(k Kind) []string {
	var s []string
	for _, a := range c.Annotations {
		if a.Kind == k {
			s = append(s, a.Text)
		}
	}
	return s
}

// Tee returns a Sink which forwards every annotation to all sinks, in order.
// Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	var s []Sink
	for _, sink := range sinks {
		if sink != nil {
			s = append(s, sink)
		}
	}
	return tee(s)
}

type tee []Sink

func (t tee) Put(a Annotation) {
	for _, s := range t {
		s.Put(a)
	}
}
