package ptw

import (
	"sort"
	"strings"
	"time"
)

// DateTimeInterval is a DateTimeField element: an arbitrary UTC
// millisecond interval, start <= end (spec.md section 3).
type DateTimeInterval struct {
	Start int64
	End   int64
}

func (r DateTimeInterval) validate() error {
	if r.Start > r.End {
		return &ValidationError{Field: "datetime", Msg: "datetime interval start must not exceed end"}
	}
	return nil
}

// DateTimeField stores a list of arbitrary UTC-ms intervals, spec.md
// section 3/4.4. It shares its sorted-slice-and-clip evaluation
// strategy with DateField but without the midnight/end-of-day
// validation DateField enforces.
type DateTimeField struct {
	base
	values []DateTimeInterval
}

func NewDateTimeField(values []DateTimeInterval) (*DateTimeField, error) {
	for _, v := range values {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	return &DateTimeField{values: append([]DateTimeInterval(nil), values...)}, nil
}

func (f *DateTimeField) GetValue(i int) (DateTimeInterval, error) {
	if i < 0 || i >= len(f.values) {
		return DateTimeInterval{}, &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

func (f *DateTimeField) AddValue(v DateTimeInterval) error {
	if err := v.validate(); err != nil {
		return err
	}
	f.values = append(f.values, v)
	f.invalidate()
	return nil
}

func (f *DateTimeField) RemoveValue(i int) error {
	if i < 0 || i >= len(f.values) {
		return &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	f.values = append(f.values[:i], f.values[i+1:]...)
	f.invalidate()
	return nil
}

func (f *DateTimeField) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(f, start, end, registry, merge)
}

func (f *DateTimeField) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(f, t, registry)
}

func (f *DateTimeField) evalCtx(start, end int64, _ *refCtx, merge bool) ([]Interval, error) {
	if len(f.values) == 0 {
		return nil, nil
	}
	sorted := append([]DateTimeInterval(nil), f.values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	effMerge := f.base.merge.resolve(merge)
	if effMerge {
		merged := make([]DateTimeInterval, 0, len(sorted))
		cur := sorted[0]
		for _, r := range sorted[1:] {
			if r.Start <= cur.End+1 {
				if r.End > cur.End {
					cur.End = r.End
				}
				continue
			}
			merged = append(merged, cur)
			cur = r
		}
		merged = append(merged, cur)
		sorted = merged
	}

	lo := sort.Search(len(sorted), func(i int) bool { return sorted[i].End >= start })
	hi := sort.Search(len(sorted), func(i int) bool { return sorted[i].Start > end })

	var out []Interval
	for i := lo; i < hi; i++ {
		r := sorted[i]
		if r.End < start || r.Start > end {
			continue
		}
		out = append(out, Interval{Start: clipInt64(r.Start, start, end), End: clipInt64(r.End, start, end)})
	}
	return out, nil
}

func (f *DateTimeField) evalTimestampCtx(t int64, _ *refCtx) (bool, error) {
	for _, r := range f.values {
		if t >= r.Start && t <= r.End {
			return true, nil
		}
	}
	return false, nil
}

func (f *DateTimeField) Hash() uint64 { return hashCached(f, &f.base, 't') }

func (f *DateTimeField) hashBytes() []byte {
	var buf []byte
	for _, r := range f.values {
		buf = appendInt64(buf, r.Start)
		buf = appendInt64(buf, r.End)
	}
	return buf
}

func (f *DateTimeField) Clone() Block {
	return &DateTimeField{base: base{merge: f.merge}, values: append([]DateTimeInterval(nil), f.values...)}
}

func (f *DateTimeField) blockGroup() blockGroup { return groupField }

func formatDateTime(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	return t.Format("2006-01-02T15:04:05.000")
}

func (f *DateTimeField) String() string {
	parts := make([]string, len(f.values))
	for i, r := range f.values {
		parts[i] = formatDateTime(r.Start) + ".." + formatDateTime(r.End)
	}
	return f.merge.String() + "DT[" + strings.Join(parts, ",") + "]"
}
