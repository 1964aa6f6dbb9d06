package scheduler

import (
	"sync"
	"time"

	"dairytale/pkg/logger"
)

// StoreCache is the part of the store registry the janitor needs
type StoreCache interface {
	EvictIdle(idle time.Duration) int
}

// LatchPruner forgets expired one-shot latches
type LatchPruner interface {
	Prune() int
}

// Janitor periodically drops cached journals that have gone idle and
// expired generation latches, keeping memory bounded by active profiles.
type Janitor struct {
	stores   StoreCache
	latches  LatchPruner
	idle     time.Duration
	interval time.Duration
	log      *logger.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewJanitor creates a janitor that sweeps every interval
func NewJanitor(stores StoreCache, latches LatchPruner, idle, interval time.Duration, log *logger.Logger) *Janitor {
	return &Janitor{
		stores:   stores,
		latches:  latches,
		idle:     idle,
		interval: interval,
		log:      log.With("service", "Janitor"),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop
func (j *Janitor) Start() {
	j.log.Info("starting janitor", "interval", j.interval, "idle", j.idle)

	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stopChan:
				j.log.Info("janitor stopped")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
	<-j.done
}

// Sweep runs one eviction pass
func (j *Janitor) Sweep() {
	stores := j.stores.EvictIdle(j.idle)
	latches := j.latches.Prune()
	if stores > 0 || latches > 0 {
		j.log.Debug("janitor sweep", "evicted_stores", stores, "pruned_latches", latches)
	}
}
