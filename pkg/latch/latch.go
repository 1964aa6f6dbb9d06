// Package latch provides one-shot latches keyed by string, used to make sure a
// rendered view triggers its generation request at most once.
package latch

import (
	"sync"
	"time"
)

type Set struct {
	mu    sync.Mutex
	fired map[string]time.Time
	ttl   time.Duration
	now   func() time.Time
}

// New creates a latch set. Acquired keys are forgotten after ttl.
func New(ttl time.Duration) *Set {
	return &Set{
		fired: make(map[string]time.Time),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Acquire fires the latch for key and reports whether this call fired it.
func (s *Set) Acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	if _, ok := s.fired[key]; ok {
		return false
	}
	s.fired[key] = now
	return true
}

// Prune forgets expired keys and returns how many were removed.
func (s *Set) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked(s.now())
}

func (s *Set) pruneLocked(now time.Time) int {
	n := 0
	for k, at := range s.fired {
		if now.Sub(at) >= s.ttl {
			delete(s.fired, k)
			n++
		}
	}
	return n
}
