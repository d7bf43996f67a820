package ptw

import "regexp"

var alphaNumID = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Reference is a REF[...] block: delegation to a named entry in the
// schedule registry, spec.md section 4.5.
type Reference struct {
	base
	id string
}

// NewReference validates id against [A-Za-z0-9]+ per spec.md section 6.
func NewReference(id string) (*Reference, error) {
	if !alphaNumID.MatchString(id) {
		return nil, &InvalidIDError{ID: id}
	}
	return &Reference{id: id}, nil
}

func (r *Reference) ID() string { return r.id }

func (r *Reference) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(r, start, end, registry, merge)
}

func (r *Reference) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(r, t, registry)
}

func (r *Reference) evalCtx(start, end int64, ctx *refCtx, merge bool) ([]Interval, error) {
	if ctx.registry == nil {
		return nil, &ReferenceError{ID: r.id, Reason: "no schedule provided"}
	}
	entry, ok := ctx.registry.get(r.id)
	if !ok {
		return nil, &ReferenceError{ID: r.id, Reason: "not found"}
	}
	if _, seen := ctx.visited[r.id]; seen {
		return nil, &ReferenceError{ID: r.id, Reason: "cycle"}
	}
	ctx.visited[r.id] = struct{}{}
	defer delete(ctx.visited, r.id)

	effMerge := r.base.merge.resolve(merge)
	ivs, err := entry.block.evalCtx(start, end, ctx, effMerge)
	if err != nil {
		return nil, wrapf(err, "resolving REF[%s]", r.id)
	}
	return ivs, nil
}

func (r *Reference) evalTimestampCtx(t int64, ctx *refCtx) (bool, error) {
	if ctx.registry == nil {
		return false, &ReferenceError{ID: r.id, Reason: "no schedule provided"}
	}
	entry, ok := ctx.registry.get(r.id)
	if !ok {
		return false, &ReferenceError{ID: r.id, Reason: "not found"}
	}
	if _, seen := ctx.visited[r.id]; seen {
		return false, &ReferenceError{ID: r.id, Reason: "cycle"}
	}
	ctx.visited[r.id] = struct{}{}
	defer delete(ctx.visited, r.id)

	ok, err := entry.block.evalTimestampCtx(t, ctx)
	if err != nil {
		return false, wrapf(err, "resolving REF[%s]", r.id)
	}
	return ok, nil
}

func (r *Reference) Hash() uint64 { return hashCached(r, &r.base, 'R') }

func (r *Reference) hashBytes() []byte { return []byte(r.id) }

func (r *Reference) Clone() Block {
	return &Reference{base: base{merge: r.merge}, id: r.id}
}

func (r *Reference) blockGroup() blockGroup { return groupReference }

func (r *Reference) String() string {
	return r.merge.String() + "REF[" + r.id + "]"
}
