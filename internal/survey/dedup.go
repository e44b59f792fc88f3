package survey

import (
	"sort"
	"sync"
)

// Eviction thresholds for the processed-update set. Telegram retries
// deliveries, so every handled update id is remembered until the set grows
// past the high-water mark, at which point the numerically smallest half is
// dropped. This leans on update_id being roughly time-ordered; if Telegram
// ever changed that, eviction could discard recent entries.
const (
	dedupHighWater  = 10000
	dedupEvictCount = 5000
)

// UpdateDedup is a bounded set of already-processed update ids. It is shared
// across concurrent webhook deliveries and guards its own state.
type UpdateDedup struct {
	mu        sync.Mutex
	seen      map[int64]struct{}
	highWater int
	evict     int
}

// NewUpdateDedup builds an empty deduplicator with the default bounds.
func NewUpdateDedup() *UpdateDedup {
	return &UpdateDedup{
		seen:      make(map[int64]struct{}),
		highWater: dedupHighWater,
		evict:     dedupEvictCount,
	}
}

// Seen reports whether the update id was already recorded.
func (d *UpdateDedup) Seen(updateID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[updateID]
	return ok
}

// Record remembers an update id, evicting old entries when over capacity.
func (d *UpdateDedup) Record(updateID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(updateID)
}

// Observe records the update id and reports whether this is its first
// delivery. The check and the record happen under one lock so two concurrent
// deliveries of the same update cannot both observe it as fresh.
func (d *UpdateDedup) Observe(updateID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[updateID]; ok {
		return false
	}
	d.record(updateID)
	return true
}

func (d *UpdateDedup) record(updateID int64) {
	d.seen[updateID] = struct{}{}
	if len(d.seen) <= d.highWater {
		return
	}
	ids := make([]int64, 0, len(d.seen))
	for id := range d.seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids[:d.evict] {
		delete(d.seen, id)
	}
}

// Len returns the current set size.
func (d *UpdateDedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
