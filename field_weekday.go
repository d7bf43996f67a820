package ptw

import (
	"strings"
	"time"
)

// WeekDayField matches ISO weekdays 1 (Monday) through 7 (Sunday),
// spec.md section 3. Its bitmap-and-calendar-walk shape is a direct
// generalization of cespare/cron's fixed 7-bit day-of-week field, which
// this module's author traced through Schedule.matchesDay and the
// dowOffset/dows constants in the teacher repo.
type WeekDayField struct {
	base
	values []NumericConstraint
	bm     *bitmap
}

const (
	weekDayMin = 1
	weekDayMax = 7
)

// NewWeekDayField constructs a WeekDayField, validating every
// constraint against [1, 7].
func NewWeekDayField(values []NumericConstraint) (*WeekDayField, error) {
	bm, err := compileBitmap("weekday", values, weekDayMin, weekDayMax)
	if err != nil {
		return nil, err
	}
	return &WeekDayField{values: append([]NumericConstraint(nil), values...), bm: bm}, nil
}

func (f *WeekDayField) GetValue(i int) (NumericConstraint, error) {
	if i < 0 || i >= len(f.values) {
		return NumericConstraint{}, &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

func (f *WeekDayField) AddValue(c NumericConstraint) error {
	if err := c.validate("weekday", weekDayMin, weekDayMax); err != nil {
		return err
	}
	f.values = append(f.values, c)
	c.each(weekDayMin, weekDayMax, f.bm.set)
	f.invalidate()
	return nil
}

func (f *WeekDayField) RemoveValue(i int) error {
	if i < 0 || i >= len(f.values) {
		return &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	f.values = append(f.values[:i], f.values[i+1:]...)
	bm, err := compileBitmap("weekday", f.values, weekDayMin, weekDayMax)
	if err != nil {
		return err
	}
	f.bm = bm
	f.invalidate()
	return nil
}

func (f *WeekDayField) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(f, start, end, registry, merge)
}

func (f *WeekDayField) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(f, t, registry)
}

func (f *WeekDayField) evalCtx(start, end int64, _ *refCtx, merge bool) ([]Interval, error) {
	if len(f.values) == 0 {
		return nil, nil
	}
	if f.bm.allSet() {
		return []Interval{{Start: start, End: end}}, nil
	}
	effMerge := f.base.merge.resolve(merge)
	return dayWalk(start, end, effMerge, isoWeekday, f.bm.isSet), nil
}

func (f *WeekDayField) evalTimestampCtx(t int64, _ *refCtx) (bool, error) {
	day := time.UnixMilli(t).UTC()
	return f.bm.isSet(isoWeekday(day)), nil
}

func (f *WeekDayField) Hash() uint64 {
	return hashCached(f, &f.base, 'W')
}

func (f *WeekDayField) hashBytes() []byte {
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

func (f *WeekDayField) Clone() Block {
	return &WeekDayField{base: base{merge: f.merge}, values: append([]NumericConstraint(nil), f.values...), bm: compileBitmapMustClone(f.bm)}
}

func (f *WeekDayField) blockGroup() blockGroup { return groupField }

func (f *WeekDayField) String() string {
	parts := make([]string, len(f.values))
	for i, c := range f.values {
		parts[i] = c.String()
	}
	return f.merge.String() + "WD[" + strings.Join(parts, ",") + "]"
}

// compileBitmapMustClone deep-copies a bitmap (used by Clone).
func compileBitmapMustClone(b *bitmap) *bitmap {
	nb := &bitmap{min: b.min, max: b.max, bits: append([]byte(nil), b.bits...)}
	return nb
}
