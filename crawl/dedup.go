package crawl

import (
	"sync"

	"github.com/fwojciec/wikitxt"
	"github.com/fwojciec/wikitxt/bloom"
)

// TargetSet remembers which article titles were already queued.
// The bloom filter answers first; its hits are confirmed against the exact
// set of titles so a unique target is never reported as a duplicate.
// It is safe for concurrent use by multiple goroutines.
type TargetSet struct {
	mu     sync.Mutex
	seen   *bloom.Filter
	titles map[string]struct{}
}

// NewTargetSet creates a TargetSet sized for n expected targets
// with the given false positive rate.
func NewTargetSet(n uint, fpRate float64) *TargetSet {
	if n == 0 {
		n = 1
	}
	return &TargetSet{
		seen:   bloom.NewFilter(n, fpRate),
		titles: make(map[string]struct{}, n),
	}
}

// Add records the target's title.
// Returns false if the title has already been seen.
func (s *TargetSet) Add(target wikitxt.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := target.Title()
	if s.seen.TestAndAdd(title) {
		if _, ok := s.titles[title]; ok {
			return false
		}
	}
	s.titles[title] = struct{}{}
	return true
}
