// Package wordlog saves decoded words to CSV files.
//
// The file name is a strftime pattern, e.g. /var/log/pdm/%Y-%m-%d.csv creates
// daily files. A file is kept open until the pattern yields a new name.
package wordlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"pdm/pkg/pdm"

	"github.com/lestrrat-go/strftime"
	"github.com/womat/debug"
)

// header is the first row of every new file.
var header = []string{"time", "start", "end", "word"}

// Log is an annotation sink appending every Word annotation to a CSV file.
type Log struct {
	pattern *strftime.Strftime
	// now returns the wall clock time, replaced in tests.
	now func() time.Time

	mu   sync.Mutex
	name string
	file *os.File
}

// New returns a word log writing to files named by the strftime pattern.
func New(pattern string) (*Log, error) {
	p, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid word log pattern %q: %w", pattern, err)
	}
	return &Log{pattern: p, now: time.Now}, nil
}

// Put saves a if it is a Word annotation. Errors are logged.
func (l *Log) Put(a pdm.Annotation) {
	if a.Kind != pdm.Word {
		return
	}
	if err := l.Write(l.now(), a); err != nil {
		debug.ErrorLog.Printf("word log: %v", err)
	}
}

// Write appends the word a received at t.
func (l *Log) Write(t time.Time, a pdm.Annotation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	created, err := l.open(l.pattern.FormatString(t))
	if err != nil {
		return err
	}

	w := csv.NewWriter(l.file)
	if created {
		_ = w.Write(header)
	}
	_ = w.Write([]string{
		t.Format(time.RFC3339),
		strconv.FormatUint(a.Start, 10),
		strconv.FormatUint(a.End, 10),
		a.Text,
	})
	w.Flush()
	return w.Error()
}

// open switches to file name and reports whether the file is new.
func (l *Log) open(name string) (bool, error) {
	if l.file != nil && name == l.name {
		return false, nil
	}
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}

	if dir := filepath.Dir(name); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}

	_, err := os.Stat(name)
	created := os.IsNotExist(err)

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return false, err
	}

	debug.DebugLog.Printf("opened word log %s", name)
	l.file, l.name = f, name
	return created, nil
}

// Close closes the current file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file, l.name = nil, ""
	return err
}
