package capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pdm/pkg/port"
)

// sampleRateKey is the comment key carrying the time base of a transitions file.
const sampleRateKey = "samplerate"

// Transitions reads the text transitions format:
//
//	# samplerate=1000000
//	0 1
//	5000 0
//	7000 1
//
// The first pair is the initial level of the line, every further pair is a
// level change. Empty lines and lines starting with # are ignored.
type Transitions struct {
	scanner    *bufio.Scanner
	line       int
	last       uint64
	started    bool
	samplerate uint64

	// peeked holds a sample read ahead by SampleRate.
	peeked    *port.Sample
	peekedErr error
}

// NewTransitions returns a cursor reading the transitions format from r.
func NewTransitions(r io.Reader) *Transitions {
	return &Transitions{scanner: bufio.NewScanner(r)}
}

// SampleRate returns the samplerate declared in the header comments, or 0.
// The header ends with the first sample.
func (t *Transitions) SampleRate() uint64 {
	if !t.started && t.peeked == nil && t.peekedErr == nil {
		s, err := t.read()
		t.peeked, t.peekedErr = &s, err
	}
	return t.samplerate
}

// Next returns the next sample or io.EOF.
func (t *Transitions) Next() (port.Sample, error) {
	if t.peeked != nil || t.peekedErr != nil {
		s, err := *t.peeked, t.peekedErr
		t.peeked, t.peekedErr = nil, nil
		return s, err
	}
	return t.read()
}

func (t *Transitions) read() (port.Sample, error) {
	for t.scanner.Scan() {
		t.line++
		text := strings.TrimSpace(t.scanner.Text())

		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			if err := t.header(text); err != nil {
				return port.Sample{}, err
			}
			continue
		}

		s, err := t.parse(text)
		if err != nil {
			return port.Sample{}, err
		}
		t.started = true
		t.last = s.Index
		return s, nil
	}

	if err := t.scanner.Err(); err != nil {
		return port.Sample{}, err
	}
	return port.Sample{}, io.EOF
}

// header handles "# key=value" comments.
func (t *Transitions) header(text string) error {
	key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(text, "#")), "=")
	if !ok || strings.TrimSpace(key) != sampleRateKey {
		return nil
	}

	rate, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: line %d: samplerate %q", ErrSyntax, t.line, value)
	}
	if !t.started {
		t.samplerate = rate
	}
	return nil
}

func (t *Transitions) parse(text string) (port.Sample, error) {
	f := strings.Fields(text)
	if len(f) != 2 {
		return port.Sample{}, fmt.Errorf("%w: line %d: expected \"<sample> <level>\", got %q", ErrSyntax, t.line, text)
	}

	index, err := strconv.ParseUint(f[0], 10, 64)
	if err != nil {
		return port.Sample{}, fmt.Errorf("%w: line %d: sample %q", ErrSyntax, t.line, f[0])
	}

	var level port.Level
	switch f[1] {
	case "0":
		level = port.Low
	case "1":
		level = port.High
	default:
		return port.Sample{}, fmt.Errorf("%w: line %d: level %q", ErrSyntax, t.line, f[1])
	}

	if t.started && index < t.last {
		return port.Sample{}, fmt.Errorf("%w: line %d: %d after %d", ErrOrder, t.line, index, t.last)
	}

	return port.Sample{Index: index, Level: level}, nil
}

// WriteTransitions writes samples in the transitions format.
// A samplerate of 0 omits the header.
func WriteTransitions(w io.Writer, samplerate uint64, samples []port.Sample) error {
	bw := bufio.NewWriter(w)

	if samplerate != 0 {
		if _, err := fmt.Fprintf(bw, "# %s=%d\n", sampleRateKey, samplerate); err != nil {
			return err
		}
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(bw, "%d %d\n", s.Index, s.Level); err != nil {
			return err
		}
	}
	return bw.Flush()
}
