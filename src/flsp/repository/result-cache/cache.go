// Package resultcache holds recent analysis results keyed by document fingerprint.
package resultcache

import (
	"sync"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	"github.com/uber-go/tally"
)

// DefaultCapacity is used when a non-positive capacity is configured.
const DefaultCapacity = 5

// Entry is an immutable cached result. Key distinguishes results computed for the
// same text, such as different slicing criteria.
type Entry[T any] struct {
	Fingerprint entity.Fingerprint
	Key         string
	Result      T
}

// Cache is a fixed capacity ring of entries with FIFO eviction. Hits do not refresh an entry.
type Cache[T any] interface {
	// Get returns the most recently pushed entry matching predicate.
	Get(predicate func(Entry[T]) bool) (Entry[T], bool)
	// Lookup returns the most recent entry for fingerprint and key.
	Lookup(fingerprint entity.Fingerprint, key string) (Entry[T], bool)
	// Push appends entry, evicting the oldest one when the cache is full.
	Push(entry Entry[T])
	// Len returns the number of cached entries.
	Len() int
	// Capacity returns the maximum number of entries.
	Capacity() int
}

type ring[T any] struct {
	mu      sync.Mutex
	entries []Entry[T]
	head    int // index of the oldest entry
	count   int
	stats   tally.Scope
}

// New returns an empty cache holding at most capacity entries.
func New[T any](capacity int, stats tally.Scope) Cache[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if stats == nil {
		stats = tally.NoopScope
	}
	return &ring[T]{
		entries: make([]Entry[T], capacity),
		stats:   stats,
	}
}

func (r *ring[T]) Get(predicate func(Entry[T]) bool) (Entry[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := r.count - 1; i >= 0; i-- {
		e := r.entries[(r.head+i)%len(r.entries)]
		if predicate(e) {
			r.stats.Counter("hits").Inc(1)
			return e, true
		}
	}
	r.stats.Counter("misses").Inc(1)
	var zero Entry[T]
	return zero, false
}

func (r *ring[T]) Lookup(fingerprint entity.Fingerprint, key string) (Entry[T], bool) {
	return r.Get(func(e Entry[T]) bool {
		return e.Fingerprint == fingerprint && e.Key == key
	})
}

func (r *ring[T]) Push(entry Entry[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count < len(r.entries) {
		r.entries[(r.head+r.count)%len(r.entries)] = entry
		r.count++
	} else {
		r.entries[r.head] = entry
		r.head = (r.head + 1) % len(r.entries)
		r.stats.Counter("evictions").Inc(1)
	}
	r.stats.Gauge("size").Update(float64(r.count))
}

func (r *ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *ring[T]) Capacity() int {
	return len(r.entries)
}
