package ptw

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateRange is a whole-day-span element of a DateField: start is UTC
// midnight of day D1, end is 23:59:59.999 UTC of day D2 >= D1 (spec.md
// section 3).
type DateRange struct {
	Start int64
	End   int64
}

func isUTCMidnight(ms int64) bool {
	return ((ms % msPerDay) + msPerDay) % msPerDay == 0
}

func isUTCEndOfDay(ms int64) bool {
	return ((ms % msPerDay) + msPerDay) % msPerDay == msPerDay-1
}

func (r DateRange) validate() error {
	if !isUTCMidnight(r.Start) {
		return &ValidationError{Field: "date", Msg: "date range start must fall exactly at UTC midnight"}
	}
	if !isUTCEndOfDay(r.End) {
		return &ValidationError{Field: "date", Msg: "date range end must fall exactly at UTC 23:59:59.999"}
	}
	if r.Start > r.End {
		return &ValidationError{Field: "date", Msg: "date range start must not exceed end"}
	}
	return nil
}

// DateOfYMD returns the UTC-midnight millisecond timestamp for y-m-d.
func DateOfYMD(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

// DateField stores a list of whole-day intervals, spec.md section 3/4.4.
type DateField struct {
	base
	values []DateRange
}

func NewDateField(values []DateRange) (*DateField, error) {
	for _, v := range values {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	return &DateField{values: append([]DateRange(nil), values...)}, nil
}

func (f *DateField) GetValue(i int) (DateRange, error) {
	if i < 0 || i >= len(f.values) {
		return DateRange{}, &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	return f.values[i], nil
}

func (f *DateField) AddValue(v DateRange) error {
	if err := v.validate(); err != nil {
		return err
	}
	f.values = append(f.values, v)
	f.invalidate()
	return nil
}

func (f *DateField) RemoveValue(i int) error {
	if i < 0 || i >= len(f.values) {
		return &IndexOutOfBoundsError{Index: i, Len: len(f.values)}
	}
	f.values = append(f.values[:i], f.values[i+1:]...)
	f.invalidate()
	return nil
}

func sortedDateRanges(values []DateRange) []DateRange {
	out := append([]DateRange(nil), values...)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func premergeDateRanges(sorted []DateRange) []DateRange {
	if len(sorted) == 0 {
		return nil
	}
	out := make([]DateRange, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.Start <= cur.End+1 {
			if r.End > cur.End {
				cur.End = r.End
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}

// clipAndSliceDateRanges implements spec.md section 4.4 steps 3-4: a
// predicate-based binary search for the first range intersecting
// domainStart and the last intersecting domainEnd, then clipping.
func clipAndSliceDateRanges(sorted []DateRange, domainStart, domainEnd int64) []Interval {
	if len(sorted) == 0 {
		return nil
	}
	// first index whose End >= domainStart
	lo := sort.Search(len(sorted), func(i int) bool { return sorted[i].End >= domainStart })
	// first index whose Start > domainEnd (exclusive upper bound)
	hi := sort.Search(len(sorted), func(i int) bool { return sorted[i].Start > domainEnd })

	var out []Interval
	for i := lo; i < hi; i++ {
		r := sorted[i]
		if r.End < domainStart || r.Start > domainEnd {
			continue
		}
		out = append(out, Interval{
			Start: clipInt64(r.Start, domainStart, domainEnd),
			End:   clipInt64(r.End, domainStart, domainEnd),
		})
	}
	return out
}

func (f *DateField) Evaluate(start, end int64, registry *Schedule, merge bool) ([]Interval, error) {
	return evaluateRoot(f, start, end, registry, merge)
}

func (f *DateField) EvaluateTimestamp(t int64, registry *Schedule) (bool, error) {
	return evaluateTimestampRoot(f, t, registry)
}

func (f *DateField) evalCtx(start, end int64, _ *refCtx, merge bool) ([]Interval, error) {
	if len(f.values) == 0 {
		return nil, nil
	}
	sorted := sortedDateRanges(f.values)
	effMerge := f.base.merge.resolve(merge)
	if effMerge {
		sorted = premergeDateRanges(sorted)
	}
	return clipAndSliceDateRanges(sorted, start, end), nil
}

func (f *DateField) evalTimestampCtx(t int64, _ *refCtx) (bool, error) {
	for _, r := range f.values {
		if t >= r.Start && t <= r.End {
			return true, nil
		}
	}
	return false, nil
}

func (f *DateField) Hash() uint64 { return hashCached(f, &f.base, 'd') }

func (f *DateField) hashBytes() []byte {
	var buf []byte
	for _, r := range f.values {
		buf = appendInt64(buf, r.Start)
		buf = appendInt64(buf, r.End)
	}
	return buf
}

func (f *DateField) Clone() Block {
	return &DateField{base: base{merge: f.merge}, values: append([]DateRange(nil), f.values...)}
}

func (f *DateField) blockGroup() blockGroup { return groupField }

func formatDate(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

func (f *DateField) String() string {
	parts := make([]string, len(f.values))
	for i, r := range f.values {
		start := formatDate(r.Start)
		endDay := formatDate(r.End)
		if start == endDay {
			parts[i] = start
		} else {
			parts[i] = start + ".." + endDay
		}
	}
	return f.merge.String() + "D[" + strings.Join(parts, ",") + "]"
}
