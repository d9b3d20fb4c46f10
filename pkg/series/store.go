package series

import (
	"sync"
	"sync/atomic"
	"time"
)

// Sample is one (timestamp, value) pair. Samples are appended and read as a
// unit, so a reader never observes a timestamp without its value.
type Sample struct {
	Time  time.Time
	Value float64
}

// Window bounds a query to [Start, Cutoff], inclusive on both ends.
type Window struct {
	Start  time.Time
	Cutoff time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.Cutoff)
}

// DefaultFieldCapacity is the per-field ring capacity used when the
// configured capacity is not positive.
const DefaultFieldCapacity = 10000

// Store absorbs a high-frequency stream of decoded values and serves
// time-windowed queries without unbounded memory growth. Each field key owns
// a fixed-capacity ring buffer; the oldest sample is evicted once capacity
// is reached. Append is driven by a single producer; Query and Latest may be
// called concurrently from any goroutine.
type Store struct {
	mu       sync.RWMutex
	fields   map[string]*history
	capacity int

	paused   atomic.Bool
	pausedAt atomic.Int64
}

// history is one field's bounded sample ring.
type history struct {
	mu    sync.Mutex
	buf   []Sample
	start int
	count int
}

// NewStore creates a Store with the given per-field ring capacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultFieldCapacity
	}
	return &Store{
		fields:   make(map[string]*history),
		capacity: capacity,
	}
}

// Capacity returns the per-field ring capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append pushes one sample onto the field's ring, evicting the oldest entry
// if the ring is full. Append never fails; capacity limits are handled by
// eviction, not rejection.
func (s *Store) Append(key string, t time.Time, value float64) {
	h := s.field(key)
	h.mu.Lock()
	if h.count < cap(h.buf) {
		h.buf = append(h.buf, Sample{Time: t, Value: value})
		h.count++
	} else {
		h.buf[h.start] = Sample{Time: t, Value: value}
		h.start = (h.start + 1) % h.count
	}
	h.mu.Unlock()
}

func (s *Store) field(key string) *history {
	s.mu.RLock()
	h, ok := s.fields[key]
	s.mu.RUnlock()
	if ok {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok = s.fields[key]; ok {
		return h
	}
	h = &history{buf: make([]Sample, 0, s.capacity)}
	s.fields[key] = h
	return h
}

// Query returns the field's samples with timestamps inside the window, in
// ascending time order. The result is a copy; it does not alias the ring.
func (s *Store) Query(key string, w Window) []Sample {
	s.mu.RLock()
	h, ok := s.fields[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Samples are in append order, which is ascending time for a well-formed
	// producer; a linear scan from the logical start keeps the common
	// trailing-window case cheap without assuming strict monotonicity.
	var out []Sample
	for i := 0; i < h.count; i++ {
		sample := h.buf[(h.start+i)%h.count]
		if w.Contains(sample.Time) {
			out = append(out, sample)
		}
	}
	return out
}

// Latest returns the most recently appended sample for the field.
func (s *Store) Latest(key string) (Sample, bool) {
	s.mu.RLock()
	h, ok := s.fields[key]
	s.mu.RUnlock()
	if !ok {
		return Sample{}, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count == 0 {
		return Sample{}, false
	}
	return h.buf[(h.start+h.count-1)%h.count], true
}

// Clear removes all entries for the given fields, or every field when none
// are named.
func (s *Store) Clear(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) == 0 {
		s.fields = make(map[string]*history)
		return
	}
	for _, k := range keys {
		delete(s.fields, k)
	}
}

// Keys returns the field keys currently held, in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	return keys
}

// NumFields returns the number of field keys currently held.
func (s *Store) NumFields() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

// NumSamples returns the total retained sample count across all fields.
func (s *Store) NumSamples() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, h := range s.fields {
		h.mu.Lock()
		total += h.count
		h.mu.Unlock()
	}
	return total
}

// Pause marks the store paused and records the instant. Ingestion continues
// to append; pause is a policy signal for consumers computing live windows,
// not a change to the store's own semantics. Pausing an already paused store
// keeps the original instant.
func (s *Store) Pause() {
	if s.paused.CompareAndSwap(false, true) {
		s.pausedAt.Store(time.Now().UnixNano())
	}
}

// Resume clears the paused signal.
func (s *Store) Resume() {
	s.paused.Store(false)
}

// IsPaused reports whether the store is paused.
func (s *Store) IsPaused() bool {
	return s.paused.Load()
}

// PausedAt returns the pause instant. The second return is false when the
// store is not paused.
func (s *Store) PausedAt() (time.Time, bool) {
	if !s.paused.Load() {
		return time.Time{}, false
	}
	return time.Unix(0, s.pausedAt.Load()), true
}
