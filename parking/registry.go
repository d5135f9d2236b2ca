package parking

import (
	"context"
	"log"
	"sync"
	"time"

	"kerbside/models"
)

// SlotFetcher is the read side of the store the registry polls.
type SlotFetcher interface {
	AllSlots(ctx context.Context) ([]models.Slot, error)
}

// Registry keeps the latest identifier → vacancy mapping for
// presentation. A background poll replaces the map on a fixed cadence;
// a new cycle starts only after the previous one resolves. Locally
// initiated toggles are applied optimistically and reconciled when the
// mutation confirms or rolls back.
type Registry struct {
	fetch    SlotFetcher
	interval time.Duration

	mu      sync.RWMutex
	slots   map[string]bool
	pending map[string]bool

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

const DefaultPollInterval = time.Second

func NewRegistry(fetch SlotFetcher, interval time.Duration) *Registry {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Registry{
		fetch:    fetch,
		interval: interval,
		slots:    make(map[string]bool),
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. Calling Start twice is a no-op.
func (reg *Registry) Start(ctx context.Context) {
	reg.startOnce.Do(func() {
		ctx, reg.cancel = context.WithCancel(ctx)
		go reg.run(ctx)
	})
}

// Stop cancels the polling loop and waits for the in-flight cycle.
func (reg *Registry) Stop() {
	if reg.cancel == nil {
		return
	}
	reg.cancel()
	<-reg.done
}

func (reg *Registry) run(ctx context.Context) {
	defer close(reg.done)

	reg.Refresh(ctx)
	ticker := time.NewTicker(reg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Ticks dropped while a slow fetch is in flight keep the
			// loop single-flight.
			reg.Refresh(ctx)
		}
	}
}

// Refresh runs one poll cycle: fetch every slot and replace the map,
// keeping the optimistic value for identifiers with an in-flight
// toggle. A fetch error empties the view.
func (reg *Registry) Refresh(ctx context.Context) {
	slots, err := reg.fetch.AllSlots(ctx)
	if err != nil {
		log.Printf("registry: slot fetch failed: %v", err)
		slots = nil
	}

	latest := make(map[string]bool, len(slots))
	for _, s := range slots {
		latest[s.SlotID] = s.Vacancy
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	for id, vacancy := range reg.pending {
		latest[id] = vacancy
	}
	reg.slots = latest
}

// Snapshot returns a copy of the current occupancy view.
func (reg *Registry) Snapshot() map[string]bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make(map[string]bool, len(reg.slots))
	for id, vacancy := range reg.slots {
		out[id] = vacancy
	}
	return out
}

// BeginToggle applies a local toggle optimistically and marks the
// identifier in-flight so polls do not overwrite it.
func (reg *Registry) BeginToggle(slotID string, vacancy bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.pending[slotID] = vacancy
	reg.slots[slotID] = vacancy
}

// Confirm clears the in-flight mark after the mutation succeeded.
func (reg *Registry) Confirm(slotID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.pending, slotID)
}

// Rollback restores the pre-toggle value after the mutation failed.
func (reg *Registry) Rollback(slotID string, previous bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.pending, slotID)
	reg.slots[slotID] = previous
}
