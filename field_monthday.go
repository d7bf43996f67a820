package ptw

import (
	"strings"
	"time"
)

// MonthDayField matches day-of-month 1-31, spec.md section 3. Days
// 29-31 are silently absent in months that don't have them: because
// dayWalk only ever visits real calendar days, a nonexistent day-of-
// month value is simply never tested against the bitmap (spec.md
// section 4.2 edge case note).
type MonthDayField struct {
	base
	values []NumericConstraint
	bm     *bitmap
}

const (
	monthDayMin = 1
	monthDayMax = 31
)

func NewMonthDayField(values []NumericConstraint) (*MonthDayField, error) {
	bm, err := compileBitmap("monthday", values, monthDayMin, monthDayMax)
	if err != nil {
		return nil, err
	}
	return &MonthDayField{values: append([]NumericConstraint(nil), values...), bm: bm}, nil
}

func (f *MonthDayField) GetValue(i int) (NumericConstraint, error) {
	if i < 0 || i >= len(f.values) {
		return NumericConstraint{}, &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

func (f *MonthDayField) AddValue(c NumericConstraint) error {
	if err := c.validate("monthday", monthDayMin, monthDayMax); err != nil {
		return err
	}
	f.values = append(f.values, c)
	c.each(monthDayMin, monthDayMax, f.bm.set)
	f.invalidate()
	return nil
}

func (f *MonthDayField) RemoveValue(i int) error {
	if i < 0 || i >= len(f.values) {
		return &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	f.values = append(f.values[:i], f.values[i+1:]...)
	bm, err := compileBitmap("monthday", f.values, monthDayMin, monthDayMax)
	if err != nil {
		return err
	}
	f.bm = bm
	f.invalidate()
	return nil
}

func (f *MonthDayField) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(f, start, end, registry, merge)
}

func (f *MonthDayField) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(f, t, registry)
}

func (f *MonthDayField) evalCtx(start, end int64, _ *refCtx, merge bool) ([]Interval, error) {
	if len(f.values) == 0 {
		return nil, nil
	}
	if f.bm.allSet() {
		return []Interval{{Start: start, End: end}}, nil
	}
	effMerge := f.base.merge.resolve(merge)
	return dayWalk(start, end, effMerge, func(t time.Time) int { return t.Day() }, f.bm.isSet), nil
}

func (f *MonthDayField) evalTimestampCtx(t int64, _ *refCtx) (bool, error) {
	day := time.UnixMilli(t).UTC().Day()
	return f.bm.isSet(day), nil
}

func (f *MonthDayField) Hash() uint64 { return hashCached(f, &f.base, 'D') }

func (f *MonthDayField) hashBytes() []byte {
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

func (f *MonthDayField) Clone() Block {
	return &MonthDayField{base: base{merge: f.merge}, values: append([]NumericConstraint(nil), f.values...), bm: compileBitmapMustClone(f.bm)}
}

func (f *MonthDayField) blockGroup() blockGroup { return groupField }

func (f *MonthDayField) String() string {
	parts := make([]string, len(f.values))
	for i, c := range f.values {
		parts[i] = c.String()
	}
	return f.merge.String() + "MD[" + strings.Join(parts, ",") + "]"
}
