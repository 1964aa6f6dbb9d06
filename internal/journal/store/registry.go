package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"dairytale/internal/journal/domain"
	"dairytale/internal/journal/repository"
	"dairytale/pkg/logger"
)

// Registry hands out one Store per profile, loading it from the repository on first use.
type Registry struct {
	mu       sync.Mutex
	stores   map[string]*Store
	lastUsed map[string]time.Time
	held     map[string]int
	repo     repository.StorageRepository
	log      *logger.Logger
	now      func() time.Time
}

func NewRegistry(repo repository.StorageRepository, log *logger.Logger) *Registry {
	return &Registry{
		stores:   make(map[string]*Store),
		lastUsed: make(map[string]time.Time),
		held:     make(map[string]int),
		repo:     repo,
		log:      log.With("service", "JournalStore"),
		now:      time.Now,
	}
}

// For returns the store of profileID. A snapshot that cannot be decoded is
// logged and replaced by an empty journal.
func (r *Registry) For(ctx context.Context, profileID string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[profileID]; ok {
		r.lastUsed[profileID] = r.now()
		return s, nil
	}

	s := New(profileID, r.repo, r.log)
	raw, err := r.repo.Load(ctx, profileID, domain.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load journal for profile %s: %w", profileID, err)
	}
	if raw != nil {
		var snap domain.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			r.log.Warn("discarding unreadable journal snapshot", "profile_id", profileID, "error", err)
		} else {
			s.restore(snap)
		}
	}

	r.stores[profileID] = s
	r.lastUsed[profileID] = r.now()
	return s, nil
}

// EvictIdle drops the cached stores not handed out for longer than idle and
// returns how many were dropped. Stores write through, so the next For call
// reloads the same state from the repository.
func (r *Registry) EvictIdle(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, at := range r.lastUsed {
		if now.Sub(at) < idle || r.held[id] > 0 {
			continue
		}
		delete(r.stores, id)
		delete(r.lastUsed, id)
		evicted++
	}
	return evicted
}

// Hold keeps the cached store of profileID from being evicted until the
// returned release func is called. Release marks the store as just used.
func (r *Registry) Hold(profileID string) (release func()) {
	r.mu.Lock()
	r.held[profileID]++
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.held[profileID]--; r.held[profileID] <= 0 {
				delete(r.held, profileID)
			}
			if _, ok := r.stores[profileID]; ok {
				r.lastUsed[profileID] = r.now()
			}
		})
	}
}

// Drop deletes the persisted journal of profileID and forgets its cached
// store. The next For call starts from an empty journal.
func (r *Registry) Drop(ctx context.Context, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.repo.Delete(ctx, profileID, domain.StorageKey); err != nil {
		return fmt.Errorf("delete journal for profile %s: %w", profileID, err)
	}
	delete(r.stores, profileID)
	delete(r.lastUsed, profileID)
	return nil
}
