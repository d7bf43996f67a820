package ptw

import "sort"

// sweepEvent is an open/close marker used by intersectIntervals and
// unionIntervals. Ties at the same time order starts before ends so
// that zero-width boundaries (a single-instant interval) are still
// counted as active at that instant, per spec.md section 4.7.
type sweepEvent struct {
	at    int64
	delta int
	block int
}

// mergeAdjacent coalesces a sorted, non-decreasing-by-start interval
// list when adjacent or overlapping: next.Start <= prev.End + 1.
func mergeAdjacent(in []Interval) []Interval {
	if len(in) == 0 {
		return in
	}
	out := make([]Interval, 0, len(in))
	cur := in[0]
	for _, iv := range in[1:] {
		if iv.Start <= cur.End+1 {
			if iv.End > cur.End {
				cur.End = iv.End
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	out = append(out, cur)
	return out
}

// appendInterval appends iv to out, coalescing with the last element
// when merge is true and the two touch or overlap.
func appendInterval(out []Interval, iv Interval, merge bool) []Interval {
	if merge && len(out) > 0 {
		last := &out[len(out)-1]
		if iv.Start <= last.End+1 {
			if iv.End > last.End {
				last.End = iv.End
			}
			return out
		}
	}
	return append(out, iv)
}

// intersectIntervals computes the sweep-line intersection of len(blocks)
// interval lists: an output interval exists wherever all blocks are
// simultaneously active. Per spec.md section 4.7, ties order START
// before END so zero-width boundaries are included.
func intersectIntervals(blocks [][]Interval, merge bool) []Interval {
	n := len(blocks)
	if n == 0 {
		return nil
	}
	for _, b := range blocks {
		if len(b) == 0 {
			return nil
		}
	}

	events := make([]sweepEvent, 0)
	for bi, list := range blocks {
		for _, iv := range list {
			events = append(events, sweepEvent{at: iv.Start, delta: 1, block: bi})
			events = append(events, sweepEvent{at: iv.End + 1, delta: -1, block: bi})
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		// starts (delta>0) before ends (delta<0) at equal times.
		return events[i].delta > events[j].delta
	})

	active := make([]int, n)
	activeCount := 0
	var out []Interval
	var runStart int64
	inRun := false

	for _, ev := range events {
		allActiveBefore := activeCount == n
		if ev.delta > 0 {
			active[ev.block]++
			if active[ev.block] == 1 {
				activeCount++
			}
		} else {
			active[ev.block]--
			if active[ev.block] == 0 {
				activeCount--
			}
		}
		allActiveAfter := activeCount == n

		if !allActiveBefore && allActiveAfter {
			runStart = ev.at
			inRun = true
		} else if allActiveBefore && !allActiveAfter && inRun {
			out = appendInterval(out, Interval{Start: runStart, End: ev.at - 1}, merge)
			inRun = false
		}
	}
	return out
}

// unionIntervals computes the sweep-line union of all block interval
// lists: output intervals cover any point where at least one block is
// active.
func unionIntervals(blocks [][]Interval, merge bool) []Interval {
	events := make([]sweepEvent, 0)
	any := false
	for _, list := range blocks {
		for _, iv := range list {
			any = true
			events = append(events, sweepEvent{at: iv.Start, delta: 1})
			events = append(events, sweepEvent{at: iv.End + 1, delta: -1})
		}
	}
	if !any {
		return nil
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta > events[j].delta
	})

	activeCount := 0
	var out []Interval
	var runStart int64

	for _, ev := range events {
		before := activeCount
		activeCount += ev.delta
		if before == 0 && activeCount > 0 {
			runStart = ev.at
		} else if before > 0 && activeCount == 0 {
			out = appendInterval(out, Interval{Start: runStart, End: ev.at - 1}, merge)
		}
	}
	return out
}

// complementIntervals emits the gaps of a sorted, non-overlapping input
// list against [domainStart, domainEnd], inclusive endpoints throughout.
func complementIntervals(in []Interval, domainStart, domainEnd int64, merge bool) []Interval {
	var out []Interval
	cursor := domainStart
	for _, iv := range in {
		s, e := iv.Start, iv.End
		if e < domainStart || s > domainEnd {
			continue
		}
		if s > domainEnd {
			break
		}
		if cursor < s {
			gapEnd := s - 1
			if gapEnd > domainEnd {
				gapEnd = domainEnd
			}
			if cursor <= gapEnd {
				out = appendInterval(out, Interval{Start: cursor, End: gapEnd}, merge)
			}
		}
		if e+1 > cursor {
			cursor = e + 1
		}
		if cursor > domainEnd {
			return out
		}
	}
	if cursor <= domainEnd {
		out = appendInterval(out, Interval{Start: cursor, End: domainEnd}, merge)
	}
	return out
}
