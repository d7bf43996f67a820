package ptw

import "sync"

// scheduleEntry is a registry row: the block plus its human-readable
// name, spec.md section 4.9.
type scheduleEntry struct {
	block Block
	name  string
}

// Schedule is the registry mapping reference IDs to named block trees,
// plus its owned IntervalCache, spec.md section 2/4.9. Per spec.md
// section 5 ("Shared-resource policy"), every access to the entry map
// (Set, Remove, Get and the lookups done by Evaluate and Reference
// resolution) is serialized with a single exclusive mutex. Cache reads
// and writes are not made under that mutex; they rely on the LRU
// store's own locking. Block evaluation itself takes no lock, since
// block trees are treated as immutable during evaluation.
type Schedule struct {
	mu      sync.Mutex
	entries map[string]scheduleEntry
	cache   *IntervalCache
}

// NewSchedule constructs an empty registry. cacheOpts is optional; the
// zero value selects DefaultCacheOptions.
func NewSchedule(cacheOpts ...CacheOptions) *Schedule {
	opts := DefaultCacheOptions()
	if len(cacheOpts) > 0 {
		opts = cacheOpts[0]
	}
	return &Schedule{
		entries: make(map[string]scheduleEntry),
		cache:   NewIntervalCache(opts),
	}
}

// Set inserts or replaces a named block under id, spec.md section 4.9.
// overwrite defaults to true when omitted.
func (s *Schedule) Set(id, name string, block Block, overwrite ...bool) error {
	if !alphaNumID.MatchString(id) {
		return &InvalidIDError{ID: id}
	}
	ow := true
	if len(overwrite) > 0 {
		ow = overwrite[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists && !ow {
		return &ValidationError{Field: "id", Msg: "id " + id + " already registered and overwrite is false"}
	}
	s.entries[id] = scheduleEntry{block: block, name: name}
	return nil
}

// Get returns the block registered under id, and whether it exists.
func (s *Schedule) Get(id string) (Block, bool) {
	entry, ok := s.get(id)
	if !ok {
		return nil, false
	}
	return entry.block, true
}

// get reads an entry under s.mu; it is the lookup helper used by
// Reference resolution and the public Get/Evaluate paths.
func (s *Schedule) get(id string) (scheduleEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

// Remove deletes id from the registry, reporting whether it was present.
func (s *Schedule) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Evaluate looks up id, checks the cache, evaluates on a miss, and
// caches the result when cacheAfter is true (default) and the result
// is small enough, spec.md section 4.9.
func (s *Schedule) Evaluate(id string, start, end int64, cacheAfter ...bool) ([]Interval, error) {
	entry, ok := s.get(id)
	if !ok {
		return nil, &ReferenceError{ID: id, Reason: "not found"}
	}

	shouldCache := true
	if len(cacheAfter) > 0 {
		shouldCache = cacheAfter[0]
	}

	hash := entry.block.Hash()
	if cached, hit := s.cache.Get(hash, start, end); hit {
		return cached, nil
	}

	intervals, err := entry.block.Evaluate(start, end, s, true)
	if err != nil {
		return nil, wrapf(err, "evaluating registered schedule %q", id)
	}

	if shouldCache {
		s.cache.Set(hash, start, end, intervals)
	}
	return intervals, nil
}

// EvaluateTimestamp looks up id and delegates directly to the block.
func (s *Schedule) EvaluateTimestamp(id string, t int64) (bool, error) {
	entry, ok := s.get(id)
	if !ok {
		return false, &ReferenceError{ID: id, Reason: "not found"}
	}
	result, err := entry.block.EvaluateTimestamp(t, s)
	if err != nil {
		return false, wrapf(err, "evaluating registered schedule %q", id)
	}
	return result, nil
}

// Cache exposes the registry's owned IntervalCache, mainly for tests
// and diagnostics.
func (s *Schedule) Cache() *IntervalCache { return s.cache }
