// Package cache keeps the console's in-memory copy of one collection,
// in fetch/create order, together with the record currently open in the
// detail view.
//
// Mutations are applied only after the corresponding API call succeeded;
// a failed load leaves the cache as it was.
package cache

import (
	"context"
	"slices"
	"sync"
)

// Identified is anything keyed by a string id.
type Identified interface {
	GetID() string
}

// Loader fetches records from the API.
type Loader[T Identified] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
}

// Cache keeps a loaded collection and the selected record.
type Cache[T Identified] struct {
	mu       sync.RWMutex
	loader   Loader[T]
	items    []T
	resident bool

	selected    T
	hasSelected bool
}

// New returns an empty cache backed by loader.
func New[T Identified](loader Loader[T]) *Cache[T] {
	return &Cache[T]{loader: loader}
}

// LoadAll replaces the cache with the full collection.
func (c *Cache[T]) LoadAll(ctx context.Context) ([]T, error) {
	items, err := c.loader.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = dedupe(items)
	c.resident = true
	return slices.Clone(c.items), nil
}

// LoadOne fetches a single record and remembers it as selected. The
// collection is left untouched.
func (c *Cache[T]) LoadOne(ctx context.Context, id string) (T, error) {
	rec, err := c.loader.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Select(rec)
	return rec, nil
}

// Insert appends rec. A record whose id is already cached replaces the
// cached copy in place so ids stay unique.
func (c *Cache[T]) Insert(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(rec.GetID()); i >= 0 && rec.GetID() != "" {
		c.items[i] = rec
		return
	}
	c.items = append(c.items, rec)
}

// RemoveAt drops the records at the given positions of the current order.
// Positions are sorted and removed highest first, so one batch never shifts
// a position it has yet to remove. Out-of-range and repeated positions are
// ignored.
func (c *Cache[T]) RemoveAt(indices ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeAt(indices)
}

func (c *Cache[T]) removeAt(indices []int) {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for i := len(sorted) - 1; i >= 0; i-- {
		idx := sorted[i]
		if idx < 0 || idx >= len(c.items) {
			continue
		}
		c.items = slices.Delete(c.items, idx, idx+1)
	}
}

// RemoveIDs resolves ids against the current order first and then removes
// them in one RemoveAt batch.
func (c *Cache[T]) RemoveIDs(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		if i := c.indexOf(id); i >= 0 {
			indices = append(indices, i)
		}
	}
	c.removeAt(indices)

	if c.hasSelected && slices.Contains(ids, c.selected.GetID()) {
		var zero T
		c.selected, c.hasSelected = zero, false
	}
}

// ReplaceSelected overwrites the cached copy of rec and makes it the
// selected record. It reports whether the collection was resident and
// held the record; otherwise the next LoadAll picks the change up.
func (c *Cache[T]) ReplaceSelected(rec T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selected, c.hasSelected = rec, true
	if !c.resident {
		return false
	}
	i := c.indexOf(rec.GetID())
	if i < 0 {
		return false
	}
	c.items[i] = rec
	return true
}

func (c *Cache[T]) Select(rec T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected, c.hasSelected = rec, true
}

func (c *Cache[T]) Selected() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected, c.hasSelected
}

// Find is a linear scan by id.
func (c *Cache[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Cache[T]) IndexOf(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id)
}

func (c *Cache[T]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(r T) bool { return r.GetID() == id })
}

// Items returns a copy of the cached records.
func (c *Cache[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len is the number of cached records.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Resident reports whether the full collection has been loaded.
func (c *Cache[T]) Resident() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resident
}

// Clear forgets everything, e.g. after the session changed.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.items, c.resident = nil, false
	c.selected, c.hasSelected = zero, false
}

func dedupe[T Identified](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.GetID()]; ok {
			continue
		}
		seen[it.GetID()] = struct{}{}
		out = append(out, it)
	}
	return out
}
