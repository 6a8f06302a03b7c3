package app

import (
	"sync"
	"time"

	"pdm/pkg/pdm"
)

// word is a decoded word as served by the words web service.
type word struct {
	Time  time.Time `json:"time"`
	Start uint64    `json:"start"`
	End   uint64    `json:"end"`
	Word  string    `json:"word"`
}

// wordStore keeps the last decoded words. It is an annotation sink.
type wordStore struct {
	sync.Mutex
	size  int
	words []word
	// total is the number of words received since start
	total uint64
	now   func() time.Time
}

func newWordStore(size int) *wordStore {
	if size <= 0 {
		size = 1
	}
	return &wordStore{size: size, now: time.Now}
}

// Put stores a if it is a Word annotation, dropping the oldest word if full.
func (s *wordStore) Put(a pdm.Annotation) {
	if a.Kind != pdm.Word {
		return
	}

	s.Lock()
	defer s.Unlock()

	if len(s.words) == s.size {
		copy(s.words, s.words[1:])
		s.words = s.words[:s.size-1]
	}
	s.words = append(s.words, word{Time: s.now(), Start: a.Start, End: a.End, Word: a.Text})
	s.total++
}

// Get returns a copy of the stored words, oldest first.
func (s *wordStore) Get() []word {
	s.Lock()
	defer s.Unlock()

	return append([]word{}, s.words...)
}

// Stats returns the number of received words and the time of the last one.
func (s *wordStore) Stats() (uint64, time.Time) {
	s.Lock()
	defer s.Unlock()

	if len(s.words) == 0 {
		return s.total, time.Time{}
	}
	return s.total, s.words[len(s.words)-1].Time
}
