// Package pdm decodes Pulse Distance Modulation on a single logic line.
//
// PDM conveys bit information by different 'off' times of an alternating
// signal. For example, a signal might be active for 400us and then inactive
// for a length of time in which 400us represents a zero and 800us represents
// a one. A long active pulse (leadin) starts a word, a long inactive gap
// followed by a long active pulse (leadout) ends it.
//
// The decoder outputs bits, hex digits and arbitrary-length hex words as
// annotations. It does not demodulate a carrier.
package pdm

import (
	"errors"
	"fmt"
	"io"

	"pdm/pkg/port"

	"github.com/womat/debug"
)

var (
	// ErrNoSampleRate is returned if decoding is started without a time base.
	ErrNoSampleRate = errors.New("cannot decode without samplerate")
	// ErrInvalidOption is returned for out of range decoder options.
	ErrInvalidOption = errors.New("invalid decoder option")
)

// Cursor is the source of line samples.
// The first call of Next returns the initial sample, every further call blocks
// until the line level changes. Next returns io.EOF at the end of the stream.
type Cursor interface {
	Next() (port.Sample, error)
}

// Decoder is the PDM state machine of one continuous sample stream.
type Decoder struct {
	config     Config
	sink       Sink
	samplerate uint64
	thresholds Thresholds

	started bool
	edges   edgeTracker
	acc     accumulator
}

// New validates the timing configuration and returns a decoder which sends
// the annotations to sink.
func New(c Config, sink Sink) (*Decoder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = SinkFunc(func(Annotation) {})
	}

	d := &Decoder{
		config: c,
		sink:   sink,
	}
	d.Reset()
	return d, nil
}

// Reset drops all decoding state, the next sample starts a new stream.
func (d *Decoder) Reset() {
	d.started = false
	d.edges = edgeTracker{}
	d.acc = accumulator{endian: d.config.Endian}
}

// SetSampleRate defines the time base (Hz) and recalculates the thresholds.
func (d *Decoder) SetSampleRate(rate uint64) {
	d.samplerate = rate
	d.thresholds = CalcThresholds(rate, d.config)
}

// SampleRate returns the time base in Hz.
func (d *Decoder) SampleRate() uint64 {
	return d.samplerate
}

// Thresholds returns the thresholds in use.
func (d *Decoder) Thresholds() Thresholds {
	return d.thresholds
}

// Config returns the timing configuration.
func (d *Decoder) Config() Config {
	return d.config
}

// Decode reads samples from c until the end of the stream.
// The end of the stream (io.EOF) is not an error.
func (d *Decoder) Decode(c Cursor) error {
	if d.samplerate == 0 {
		return ErrNoSampleRate
	}

	debug.DebugLog.Printf("decoding at %d Hz, %v, thresholds zero %d one %d samples",
		d.samplerate, d.config.Polarity, d.thresholds.Zero, d.thresholds.One)

	for {
		s, err := c.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading sample: %w", err)
		}
		if err = d.Feed(s); err != nil {
			return err
		}
	}
}

// Feed processes one sample. The first sample after New or Reset initializes
// the edge timing, every further sample is expected to be a level change.
func (d *Decoder) Feed(s port.Sample) error {
	if d.samplerate == 0 {
		return ErrNoSampleRate
	}

	pin := active(d.config.Polarity, s.Level)

	if !d.started {
		d.started = true
		d.edges.start(s.Index, pin)
		d.acc.reset(s.Index)
		return nil
	}

	edge, ok := d.edges.update(s.Index, pin)
	if !ok {
		return nil
	}

	switch edge {
	case port.Rising:
		d.rising()
	case port.Falling:
		d.falling()
	}
	return nil
}

// rising measures the time the input was off/low and decides if the bit is a
// zero or a one.
func (d *Decoder) rising() {
	e, t := &d.edges, d.thresholds

	var bit uint
	switch {
	case e.lowwidth > t.Zero && 2*e.lowwidth <= 3*t.One && e.highwidth <= 2*t.One:
		bit = 1
	case e.lowwidth < t.Zero:
		bit = 0
	default:
		debug.TraceLog.Printf("no bit at %d: low %d high %d samples", e.rising, e.lowwidth, e.highwidth)
		return
	}

	d.put(Annotation{Start: e.lastrising, End: e.rising, Kind: Bit, Text: fmt.Sprint(bit)})

	if h, ok := d.acc.push(bit, e.rising); ok {
		d.put(h)
	}
}

// falling measures the time the input was active/high and labels leadin and
// leadout periods. A crude measurement of 'much longer than a one' is used.
func (d *Decoder) falling() {
	e, t := &d.edges, d.thresholds

	if e.highwidth < 2*t.One {
		return
	}

	if e.lowwidth >= 20*t.Zero && e.lowwidth < 100*t.Zero {
		debug.TraceLog.Printf("leadout at %d", e.falling)
		d.put(Annotation{Start: e.rising, End: e.falling, Kind: Leader, Text: "leadout"})
		d.put(d.acc.emit(e.falling))
		return
	}

	debug.TraceLog.Printf("leadin at %d", e.falling)
	d.put(Annotation{Start: e.rising, End: e.falling, Kind: Leader, Text: "leadin"})
	d.acc.reset(e.falling)
}

func (d *Decoder) put(a Annotation) {
	d.sink.Put(a)
}
