package ptw

import "strings"

// AndBlock intersects its children's interval lists, spec.md section
// 4.6: the block resolves its own merge state against the incoming
// mergeArg and passes the resolved value to each child (which may
// override it again), and it short-circuits to [] as soon as any
// child yields [].
type AndBlock struct {
	base
	children []Block
}

func NewAndBlock(children []Block) *AndBlock {
	return &AndBlock{children: append([]Block(nil), children...)}
}

func (b *AndBlock) Children() []Block { return append([]Block(nil), b.children...) }

func (b *AndBlock) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(b, start, end, registry, merge)
}

func (b *AndBlock) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(b, t, registry)
}

func (b *AndBlock) evalCtx(start, end int64, ctx *refCtx, merge bool) ([]Interval, error) {
	if len(b.children) == 0 {
		return nil, nil
	}
	effMerge := b.base.merge.resolve(merge)
	ordered := sortByGroup(b.children)
	results := make([][]Interval, 0, len(ordered))
	for _, c := range ordered {
		iv, err := c.evalCtx(start, end, ctx, effMerge)
		if err != nil {
			return nil, err
		}
		if len(iv) == 0 {
			return nil, nil
		}
		results = append(results, iv)
	}
	return intersectIntervals(results, effMerge), nil
}

func (b *AndBlock) evalTimestampCtx(t int64, ctx *refCtx) (bool, error) {
	for _, c := range b.children {
		ok, err := c.evalTimestampCtx(t, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return len(b.children) > 0, nil
}

func (b *AndBlock) Hash() uint64 { return hashCached(b, &b.base, 'A') }

func (b *AndBlock) hashBytes() []byte { return hashBytesOfChildren(b.children) }

func (b *AndBlock) Clone() Block {
	children := make([]Block, len(b.children))
	for i, c := range b.children {
		children[i] = c.Clone()
	}
	return &AndBlock{base: base{merge: b.merge}, children: children}
}

func (b *AndBlock) blockGroup() blockGroup { return groupCondition }

func (b *AndBlock) String() string {
	parts := make([]string, len(b.children))
	for i, c := range b.children {
		parts[i] = c.String()
	}
	return b.merge.String() + "(" + strings.Join(parts, " AND ") + ")"
}

// OrBlock unions its children's interval lists, spec.md section 4.6.
type OrBlock struct {
	base
	children []Block
}

func NewOrBlock(children []Block) *OrBlock {
	return &OrBlock{children: append([]Block(nil), children...)}
}

func (b *OrBlock) Children() []Block { return append([]Block(nil), b.children...) }

func (b *OrBlock) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(b, start, end, registry, merge)
}

func (b *OrBlock) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(b, t, registry)
}

func (b *OrBlock) evalCtx(start, end int64, ctx *refCtx, merge bool) ([]Interval, error) {
	if len(b.children) == 0 {
		return nil, nil
	}
	effMerge := b.base.merge.resolve(merge)
	ordered := sortByGroup(b.children)
	var results [][]Interval
	for _, c := range ordered {
		iv, err := c.evalCtx(start, end, ctx, effMerge)
		if err != nil {
			return nil, err
		}
		if len(iv) > 0 {
			results = append(results, iv)
		}
	}
	if len(results) == 0 {
		return nil, nil
	}
	return unionIntervals(results, effMerge), nil
}

func (b *OrBlock) evalTimestampCtx(t int64, ctx *refCtx) (bool, error) {
	for _, c := range b.children {
		ok, err := c.evalTimestampCtx(t, ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (b *OrBlock) Hash() uint64 { return hashCached(b, &b.base, 'O') }

func (b *OrBlock) hashBytes() []byte { return hashBytesOfChildren(b.children) }

func (b *OrBlock) Clone() Block {
	children := make([]Block, len(b.children))
	for i, c := range b.children {
		children[i] = c.Clone()
	}
	return &OrBlock{base: base{merge: b.merge}, children: children}
}

func (b *OrBlock) blockGroup() blockGroup { return groupCondition }

func (b *OrBlock) String() string {
	parts := make([]string, len(b.children))
	for i, c := range b.children {
		parts[i] = c.String()
	}
	return b.merge.String() + "(" + strings.Join(parts, " OR ") + ")"
}

// NotBlock complements its (optional) single child against the domain,
// spec.md section 4.6: absent child -> [domain]; otherwise sweep-line
// complement.
type NotBlock struct {
	base
	child Block
}

func NewNotBlock(child Block) *NotBlock {
	return &NotBlock{child: child}
}

func (b *NotBlock) Child() Block { return b.child }

func (b *NotBlock) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(b, start, end, registry, merge)
}

func (b *NotBlock) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(b, t, registry)
}

func (b *NotBlock) evalCtx(start, end int64, ctx *refCtx, merge bool) ([]Interval, error) {
	effMerge := b.base.merge.resolve(merge)
	if b.child == nil {
		return []Interval{{Start: start, End: end}}, nil
	}
	child, err := b.child.evalCtx(start, end, ctx, effMerge)
	if err != nil {
		return nil, err
	}
	return complementIntervals(child, start, end, effMerge), nil
}

func (b *NotBlock) evalTimestampCtx(t int64, ctx *refCtx) (bool, error) {
	if b.child == nil {
		return true, nil
	}
	ok, err := b.child.evalTimestampCtx(t, ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (b *NotBlock) Hash() uint64 { return hashCached(b, &b.base, 'N') }

func (b *NotBlock) hashBytes() []byte {
	if b.child == nil {
		return nil
	}
	return hashBytesOfChildren([]Block{b.child})
}

func (b *NotBlock) Clone() Block {
	var child Block
	if b.child != nil {
		child = b.child.Clone()
	}
	return &NotBlock{base: base{merge: b.merge}, child: child}
}

func (b *NotBlock) blockGroup() blockGroup { return groupCondition }

func (b *NotBlock) String() string {
	inner := "()"
	if b.child != nil {
		inner = b.child.String()
	}
	return b.merge.String() + "NOT " + inner
}

func hashBytesOfChildren(children []Block) []byte {
	var buf []byte
	for _, c := range children {
		h := c.Hash()
		buf = appendInt64(buf, int64(h))
	}
	return buf
}
