//go:build linux

package line

import (
	"fmt"
	"io"
	"sync"
	"time"

	"pdm/pkg/port"

	"github.com/warthog618/gpiod"
	"github.com/womat/debug"
	"golang.org/x/sys/unix"
)

// Line represents a single requested and watched line.
type Line struct {
	chip       *gpiod.Chip
	gpiodLine  *gpiod.Line
	samplerate uint64
	// base is the monotonic kernel time of sample 0.
	base time.Duration

	initial port.Sample
	started bool

	// C receives the edges converted to samples.
	C    chan port.Sample
	quit chan struct{}
	once sync.Once
}

// Open requests control of a single line and watches it for both edges.
// If granted, control is maintained until the Line is closed.
func Open(c Config) (*Line, error) {
	var bias gpiod.LineReqOption

	switch c.Bias {
	case BiasPullUp:
		bias = gpiod.WithPullUp
	case BiasPullDown:
		bias = gpiod.WithPullDown
	case BiasNone, "":
	default:
		return nil, fmt.Errorf("%w: bias %q", ErrInvalidParam, c.Bias)
	}
	if c.SampleRate == 0 {
		return nil, fmt.Errorf("%w: samplerate 0", ErrInvalidParam)
	}

	chip, err := gpiod.NewChip(c.Chip)
	if err != nil {
		return nil, err
	}

	l := &Line{
		chip:       chip,
		samplerate: c.SampleRate,
		C:          make(chan port.Sample, c.Buffer),
		quit:       make(chan struct{}),
	}

	var ts unix.Timespec
	if err = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		_ = chip.Close()
		return nil, err
	}
	l.base = time.Duration(ts.Nano())

	opts := []gpiod.LineReqOption{gpiod.AsInput, gpiod.WithBothEdges, gpiod.WithEventHandler(l.handler)}
	if bias != nil {
		opts = append(opts, bias)
	}
	if c.Debounce > 0 {
		opts = append(opts, gpiod.WithDebounce(c.Debounce))
	}

	if l.gpiodLine, err = chip.RequestLine(c.Offset, opts...); err != nil {
		_ = chip.Close()
		return nil, err
	}

	v, err := l.gpiodLine.Value()
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	l.initial = port.Sample{Index: 0, Level: port.Level(v)}

	debug.InfoLog.Printf("watching %s line %d at %d Hz", c.Chip, c.Offset, c.SampleRate)
	return l, nil
}

// handler converts the kernel event and sends it to channel C.
func (l *Line) handler(evt gpiod.LineEvent) {
	s := port.Sample{Index: SampleIndex(evt.Timestamp-l.base, l.samplerate)}

	switch evt.Type {
	case gpiod.LineEventRisingEdge:
		s.Level = port.High
	case gpiod.LineEventFallingEdge:
		s.Level = port.Low
	default:
		debug.ErrorLog.Printf("invalid line event type: %v", evt.Type)
		return
	}

	select {
	case l.C <- s:
	case <-l.quit:
	}
}

// Next returns the level at Open as first sample, then blocks until the next
// edge. It returns io.EOF after Close.
func (l *Line) Next() (port.Sample, error) {
	if !l.started {
		l.started = true
		return l.initial, nil
	}

	s, open := <-l.C
	if !open {
		return port.Sample{}, io.EOF
	}
	return s, nil
}

// Close releases the line and the chip.
// It must not be called from the context of the event handler.
func (l *Line) Close() error {
	var err error

	l.once.Do(func() {
		close(l.quit)
		if l.gpiodLine != nil {
			err = l.gpiodLine.Close()
		}
		if e := l.chip.Close(); err == nil {
			err = e
		}
		close(l.C)
	})
	return err
}
