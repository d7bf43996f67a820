package ptw

import (
	"strings"
	"time"
)

// YearField matches calendar years in [-9999, 9999], spec.md section 3.
type YearField struct {
	base
	values []NumericConstraint
	bm     *bitmap
}

const (
	yearMin = -9999
	yearMax = 9999
)

func NewYearField(values []NumericConstraint) (*YearField, error) {
	bm, err := compileBitmap("year", values, yearMin, yearMax)
	if err != nil {
		return nil, err
	}
	return &YearField{values: append([]NumericConstraint(nil), values...), bm: bm}, nil
}

func (f *YearField) GetValue(i int) (NumericConstraint, error) {
	if i < 0 || i >= len(f.values) {
		return NumericConstraint{}, &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

func (f *YearField) AddValue(c NumericConstraint) error {
	if err := c.validate("year", yearMin, yearMax); err != nil {
		return err
	}
	f.values = append(f.values, c)
	c.each(yearMin, yearMax, f.bm.set)
	f.invalidate()
	return nil
}

func (f *YearField) RemoveValue(i int) error {
	if i < 0 || i >= len(f.values) {
		return &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	f.values = append(f.values[:i], f.values[i+1:]...)
	bm, err := compileBitmap("year", f.values, yearMin, yearMax)
	if err != nil {
		return err
	}
	f.bm = bm
	f.invalidate()
	return nil
}

func (f *YearField) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(f, start, end, registry, merge)
}

func (f *YearField) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(f, t, registry)
}

func (f *YearField) evalCtx(start, end int64, _ *refCtx, merge bool) ([]Interval, error) {
	if len(f.values) == 0 {
		return nil, nil
	}
	if f.bm.allSet() {
		return []Interval{{Start: start, End: end}}, nil
	}
	effMerge := f.base.merge.resolve(merge)
	return yearWalk(start, end, effMerge, f.bm.isSet), nil
}

func (f *YearField) evalTimestampCtx(t int64, _ *refCtx) (bool, error) {
	year := time.UnixMilli(t).UTC().Year()
	return f.bm.isSet(year), nil
}

func (f *YearField) Hash() uint64 { return hashCached(f, &f.base, 'Y') }

func (f *YearField) hashBytes() []byte {
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

func (f *YearField) Clone() Block {
	return &YearField{base: base{merge: f.merge}, values: append([]NumericConstraint(nil), f.values...), bm: compileBitmapMustClone(f.bm)}
}

func (f *YearField) blockGroup() blockGroup { return groupField }

func (f *YearField) String() string {
	parts := make([]string, len(f.values))
	for i, c := range f.values {
		parts[i] = c.String()
	}
	return f.merge.String() + "Y[" + strings.Join(parts, ",") + "]"
}
