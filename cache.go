package ptw

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheMaxSize and DefaultCacheMaxRangesPerEntry are the
// defaults from spec.md section 4.8.
const (
	DefaultCacheMaxSize           = 10
	DefaultCacheMaxRangesPerEntry = 10_000
)

// CacheOptions configures an IntervalCache.
type CacheOptions struct {
	MaxSize           int
	MaxRangesPerEntry int
}

// DefaultCacheOptions returns the spec.md section 4.8 defaults.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{MaxSize: DefaultCacheMaxSize, MaxRangesPerEntry: DefaultCacheMaxRangesPerEntry}
}

type cacheKey struct {
	hash  uint64
	start int64
	end   int64
}

// IntervalCache is keyed on (block-hash, start, end) with LRU eviction
// and best-effort subset extraction from wider cached entries, spec.md
// section 4.8. It is built on hashicorp/golang-lru/v2 rather than a
// hand-rolled linear eviction scan: true-LRU recency tracking is
// exactly the "evict the entry with the smallest lastAccessed" policy
// the spec describes, and the generic cache already gives it to us.
// Subset lookup (spec.md section 4.8 step 2: "scan entries whose key
// begins with block.hash_") uses the library's Keys(), which does not
// itself disturb recency, followed by a Peek/Get of the matching entry.
type IntervalCache struct {
	opts  CacheOptions
	store *lru.Cache[cacheKey, []Interval]
}

// NewIntervalCache constructs a cache with the given options, falling
// back to DefaultCacheOptions for zero fields.
func NewIntervalCache(opts CacheOptions) *IntervalCache {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultCacheMaxSize
	}
	if opts.MaxRangesPerEntry <= 0 {
		opts.MaxRangesPerEntry = DefaultCacheMaxRangesPerEntry
	}
	store, _ := lru.New[cacheKey, []Interval](opts.MaxSize)
	return &IntervalCache{opts: opts, store: store}
}

// Get implements spec.md section 4.8 Get: exact key, else subset
// extraction from a wider cached range for the same block hash, else
// miss (nil, false).
func (c *IntervalCache) Get(hash uint64, start, end int64) ([]Interval, bool) {
	exact := cacheKey{hash: hash, start: start, end: end}
	if v, ok := c.store.Get(exact); ok {
		return cloneIntervals(v), true
	}

	var bestKey cacheKey
	found := false
	for _, k := range c.store.Keys() {
		if k.hash != hash {
			continue
		}
		if k.start <= start && k.end >= end {
			if !found || (k.end-k.start) < (bestKey.end-bestKey.start) {
				bestKey = k
				found = true
			}
		}
	}
	if !found {
		return nil, false
	}
	wide, ok := c.store.Get(bestKey)
	if !ok {
		return nil, false
	}
	return clipSubset(wide, start, end), true
}

// clipSubset extracts and clips the portion of a sorted interval list
// that overlaps [start, end], via binary search plus per-element
// clipping (spec.md section 4.8 step 2).
func clipSubset(wide []Interval, start, end int64) []Interval {
	lo := sort.Search(len(wide), func(i int) bool { return wide[i].End >= start })
	hi := sort.Search(len(wide), func(i int) bool { return wide[i].Start > end })
	var out []Interval
	for i := lo; i < hi; i++ {
		iv := wide[i]
		if iv.End < start || iv.Start > end {
			continue
		}
		out = append(out, Interval{Start: clipInt64(iv.Start, start, end), End: clipInt64(iv.End, start, end)})
	}
	return out
}

// Set inserts a defensive copy, dropping any existing entry for this
// hash that the new range strictly contains, per spec.md section 4.8
// Set. Results wider than MaxRangesPerEntry are never stored (still
// returned by the caller, just not cached).
func (c *IntervalCache) Set(hash uint64, start, end int64, intervals []Interval) {
	if len(intervals) > c.opts.MaxRangesPerEntry {
		return
	}
	for _, k := range c.store.Keys() {
		if k.hash != hash {
			continue
		}
		if k.start >= start && k.end <= end && k != (cacheKey{hash: hash, start: start, end: end}) {
			c.store.Remove(k)
		}
	}
	c.store.Add(cacheKey{hash: hash, start: start, end: end}, cloneIntervals(intervals))
}

// Len returns the number of cached entries.
func (c *IntervalCache) Len() int { return c.store.Len() }

// Purge clears the cache.
func (c *IntervalCache) Purge() { c.store.Purge() }
