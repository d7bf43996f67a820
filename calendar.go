package ptw

import "time"

const dayMillis int64 = 86_400_000

func clipInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runAccumulator collects calendar-walk output, either extending an
// open run (merge on) or emitting one interval per unit (merge off),
// per spec.md section 4.2 step 4: "If the effective merge is off, never
// extend a run — emit each unit independently."
type runAccumulator struct {
	merge   bool
	out     []Interval
	open    bool
	runFrom int64
	runTo   int64
}

func (r *runAccumulator) hit(clippedStart, clippedEnd int64) {
	if r.merge && r.open && clippedStart <= r.runTo+1 {
		if clippedEnd > r.runTo {
			r.runTo = clippedEnd
		}
		return
	}
	r.flush()
	r.open = true
	r.runFrom = clippedStart
	r.runTo = clippedEnd
}

func (r *runAccumulator) flush() {
	if r.open {
		r.out = append(r.out, Interval{Start: r.runFrom, End: r.runTo})
		r.open = false
	}
}

// dayWalk iterates UTC calendar days from domainStart to domainEnd
// inclusive, clipping each day's [start, end] to the domain, and
// emits/extends intervals according to test(valueOf(day)).
func dayWalk(domainStart, domainEnd int64, merge bool, valueOf func(t time.Time) int, test func(v int) bool) []Interval {
	acc := &runAccumulator{merge: merge}
	startDay := time.UnixMilli(domainStart).UTC()
	startDay = time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.UnixMilli(domainEnd).UTC()
	endDay = time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 0, 0, 0, 0, time.UTC)

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		dayStart := day.UnixMilli()
		dayEnd := dayStart + dayMillis - 1
		cs := clipInt64(dayStart, domainStart, domainEnd)
		ce := clipInt64(dayEnd, domainStart, domainEnd)
		if test(valueOf(day)) {
			acc.hit(cs, ce)
		} else {
			acc.flush()
		}
	}
	acc.flush()
	return acc.out
}

// monthWalk iterates UTC calendar months spanning year boundaries via a
// single yearIdx*12+monthIdx counter, per spec.md section 4.2
// ("MonthField: month indices are walked via yearIdx*12 + monthIdx to
// span year boundaries cleanly").
func monthWalk(domainStart, domainEnd int64, merge bool, test func(month int) bool) []Interval {
	acc := &runAccumulator{merge: merge}
	startT := time.UnixMilli(domainStart).UTC()
	endT := time.UnixMilli(domainEnd).UTC()

	cur := startT.Year()*12 + int(startT.Month()) - 1
	last := endT.Year()*12 + int(endT.Month()) - 1

	for idx := cur; idx <= last; idx++ {
		year := idx / 12
		month := time.Month(idx%12 + 1)
		monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Millisecond)
		cs := clipInt64(monthStart.UnixMilli(), domainStart, domainEnd)
		ce := clipInt64(monthEnd.UnixMilli(), domainStart, domainEnd)
		if test(int(month)) {
			acc.hit(cs, ce)
		} else {
			acc.flush()
		}
	}
	acc.flush()
	return acc.out
}

// yearWalk iterates UTC calendar years.
func yearWalk(domainStart, domainEnd int64, merge bool, test func(year int) bool) []Interval {
	acc := &runAccumulator{merge: merge}
	startYear := time.UnixMilli(domainStart).UTC().Year()
	endYear := time.UnixMilli(domainEnd).UTC().Year()

	for year := startYear; year <= endYear; year++ {
		yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		yearEnd := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
		cs := clipInt64(yearStart.UnixMilli(), domainStart, domainEnd)
		ce := clipInt64(yearEnd.UnixMilli(), domainStart, domainEnd)
		if test(year) {
			acc.hit(cs, ce)
		} else {
			acc.flush()
		}
	}
	acc.flush()
	return acc.out
}

// isoWeekday returns t's ISO weekday: Monday=1 ... Sunday=7, per
// spec.md section 3 ("WeekDayField: ... 1=Monday, 7=Sunday, ISO
// convention").
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
