package ptw

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// blockGroup orders children of And/Or blocks so cheap predicates run
// first (spec.md section 4.6: "sort children by a blockGroup tag
// (Field -> Condition -> Reference) before evaluation").
type blockGroup uint8

const (
	groupField blockGroup = iota
	groupCondition
	groupReference
)

// Block is the tagged-sum AST node described in spec.md section 4
// ("Block-tree polymorphism... A systems-language implementation should
// prefer a tagged sum type with a match over node kinds, or a single
// trait/interface"). This module takes the interface route: every
// concrete node (TimeField, WeekDayField, ..., AndBlock, OrBlock,
// NotBlock, Reference) implements Block, and the set of implementers is
// closed to this package.
type Block interface {
	// Evaluate walks the block over [start, end] (inclusive UTC ms)
	// and returns the sorted interval list. registry may be nil unless
	// the tree contains a Reference. merge seeds the root's merge
	// argument (spec.md section 3 default: true).
	Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error)

	// EvaluateTimestamp reports whether t is covered by the block.
	EvaluateTimestamp(t int64, registry *Schedule) (bool, error)

	// Hash returns the memoized structural hash (spec.md section 4:
	// "invalidated whenever the node or any direct property it depends
	// on changes").
	Hash() uint64

	// Clone returns a deep, independent copy.
	Clone() Block

	MergeState() MergeState
	SetMergeState(MergeState)

	String() string

	evalCtx(start, end int64, ctx *refCtx, merge bool) ([]Interval, error)
	evalTimestampCtx(t int64, ctx *refCtx) (bool, error)
	blockGroup() blockGroup
	hashBytes() []byte
}

// refCtx threads the registry and the set of Reference IDs currently
// being resolved through a single Evaluate call, so Reference can
// detect cycles (spec.md section 9: "an implementation SHOULD detect
// cycles... returning a ReferenceError("cycle") on re-entry").
type refCtx struct {
	registry *Schedule
	visited  map[string]struct{}
}

func newRefCtx(registry *Schedule) *refCtx {
	return &refCtx{registry: registry, visited: make(map[string]struct{})}
}

func evaluateRoot(b Block, start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return b.evalCtx(start, end, newRefCtx(registry), merge)
}

func evaluateTimestampRoot(b Block, t int64, registry *Schedule) (bool, error) {
	return b.evalTimestampCtx(t, newRefCtx(registry))
}

// base is embedded by every concrete Block implementation. It owns the
// merge-state annotation and a memoized structural hash, mirroring the
// "invalidate the cache whenever a direct property changes" invariant
// from spec.md section 3.
type base struct {
	merge      MergeState
	hashCached bool
	hashValue  uint64
}

func (b *base) MergeState() MergeState { return b.merge }

func (b *base) SetMergeState(m MergeState) {
	b.merge = m
	b.invalidate()
}

func (b *base) invalidate() {
	b.hashCached = false
}

// computeHash digests self.hashBytes() through xxhash (hashCached
// memoizes the result). kind tags the
// node type so structurally-different nodes with coincidentally equal
// byte payloads still hash differently.
func computeHash(self Block, kind byte) uint64 {
	h := xxhash.New()
	h.Write([]byte{kind, byte(self.MergeState())})
	h.Write(self.hashBytes())
	return h.Sum64()
}

func hashCached(self Block, b *base, kind byte) uint64 {
	if b.hashCached {
		return b.hashValue
	}
	b.hashValue = computeHash(self, kind)
	b.hashCached = true
	return b.hashValue
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// sortByGroup stable-sorts children so Field < Condition < Reference,
// per spec.md section 4.6.
func sortByGroup(children []Block) []Block {
	out := make([]Block, len(children))
	copy(out, children)
	// Insertion sort: child counts are small (typical expressions have
	// a handful of terms) and stability keeps children of the same group
	// in their written order.
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j-1].blockGroup() > out[j].blockGroup() {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}
