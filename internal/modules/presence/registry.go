// README: In-memory registry of connected drivers and their last-known coordinates.
package presence

import (
	"context"
	"log"
	"sync"
	"time"

	"courier/internal/types"
)

type Entry struct {
	DriverID int64
	Position types.Point
	LastSeen time.Time
}

// Registry tracks who is online and where, for the assignment search.
// It lives for the process lifetime and is never persisted; a restart
// empties it and drivers repopulate it with their next location ping.
type Registry struct {
	mu         sync.RWMutex
	entries    map[int64]Entry
	staleAfter time.Duration
	sweepEvery time.Duration
	now        func() time.Time
}

func NewRegistry(staleAfter, sweepEvery time.Duration) *Registry {
	return &Registry{
		entries:    make(map[int64]Entry),
		staleAfter: staleAfter,
		sweepEvery: sweepEvery,
		now:        time.Now,
	}
}

// Update upserts the driver's last-known position. Called on every
// location ping.
func (r *Registry) Update(driverID int64, pos types.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[driverID] = Entry{DriverID: driverID, Position: pos, LastSeen: r.now()}
}

func (r *Registry) Remove(driverID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, driverID)
}

// Snapshot returns a copy of all current entries. The assignment search
// iterates the copy, so writes arriving mid-search never invalidate it.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// RunSweeper evicts entries whose last ping is older than staleAfter.
// A driver whose client crashed without a clean disconnect would
// otherwise stay listed with dead coordinates forever.
func (r *Registry) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(r.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.sweep(); n > 0 {
				log.Printf("presence: evicted %d stale driver(s)", n)
			}
		}
	}
}

func (r *Registry) sweep() int {
	cutoff := r.now().Add(-r.staleAfter)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.entries {
		if e.LastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}
