package ptw

import (
	"strings"
	"time"
)

// MonthField matches months 1-12, spec.md section 3.
type MonthField struct {
	base
	values []NumericConstraint
	bm     *bitmap
}

const (
	monthMin = 1
	monthMax = 12
)

func NewMonthField(values []NumericConstraint) (*MonthField, error) {
	bm, err := compileBitmap("month", values, monthMin, monthMax)
	if err != nil {
		return nil, err
	}
	return &MonthField{values: append([]NumericConstraint(nil), values...), bm: bm}, nil
}

func (f *MonthField) GetValue(i int) (NumericConstraint, error) {
	if i < 0 || i >= len(f.values) {
		return NumericConstraint{}, &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

func (f *MonthField) AddValue(c NumericConstraint) error {
	if err := c.validate("month", monthMin, monthMax); err != nil {
		return err
	}
	f.values = append(f.values, c)
	c.each(monthMin, monthMax, f.bm.set)
	f.invalidate()
	return nil
}

func (f *MonthField) RemoveValue(i int) error {
	if i < 0 || i >= len(f.values) {
		return &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	f.values = append(f.values[:i], f.values[i+1:]...)
	bm, err := compileBitmap("month", f.values, monthMin, monthMax)
	if err != nil {
		return err
	}
	f.bm = bm
	f.invalidate()
	return nil
}

func (f *MonthField) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(f, start, end, registry, merge)
}

func (f *MonthField) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(f, t, registry)
}

func (f *MonthField) evalCtx(start, end int64, _ *refCtx, merge bool) ([]Interval, error) {
	if len(f.values) == 0 {
		return nil, nil
	}
	// Correct all-set fast path; spec.md section 9 flags the teacher
	// lineage's 12-bit check (cache[0] === 0xFFF) as a bug that never
	// fires. bitmap.allSet computes the real mask for a 2-byte field.
	if f.bm.allSet() {
		return []Interval{{Start: start, End: end}}, nil
	}
	effMerge := f.base.merge.resolve(merge)
	return monthWalk(start, end, effMerge, f.bm.isSet), nil
}

func (f *MonthField) evalTimestampCtx(t int64, _ *refCtx) (bool, error) {
	month := int(time.UnixMilli(t).UTC().Month())
	return f.bm.isSet(month), nil
}

func (f *MonthField) Hash() uint64 { return hashCached(f, &f.base, 'M') }

func (f *MonthField) hashBytes() []byte {
	var buf []byte
	for _, c := range f.values {
		buf = append(buf, byte(c.Kind))
		buf = appendUint32(buf, uint32(int32(c.Value)))
		buf = appendUint32(buf, uint32(int32(c.Start)))
		buf = appendUint32(buf, uint32(int32(c.End)))
		buf = appendUint32(buf, uint32(int32(c.A)))
		buf = append(buf, byte(c.Op))
		buf = appendUint32(buf, uint32(int32(c.B)))
	}
	return buf
}

func (f *MonthField) Clone() Block {
	return &MonthField{base: base{merge: f.merge}, values: append([]NumericConstraint(nil), f.values...), bm: compileBitmapMustClone(f.bm)}
}

func (f *MonthField) blockGroup() blockGroup { return groupField }

func (f *MonthField) String() string {
	parts := make([]string, len(f.values))
	for i, c := range f.values {
		parts[i] = c.String()
	}
	return f.merge.String() + "M[" + strings.Join(parts, ",") + "]"
}
