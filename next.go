package ptw

// NextAfter finds the earliest UTC millisecond timestamp strictly
// greater than after at which b is "on", searching forward in
// exponentially growing windows and reusing Evaluate rather than
// re-deriving calendar stepping logic.
//
// This is the block-tree generalization of cespare/cron's
// Schedule.Next, which steps a time.Time forward one calendar unit at
// a time (advanceMonth/advanceDay/advanceHour/advanceMinute) until all
// five cron fields match. A block tree has no fixed field set to step
// through — Reference and condition nodes make "the next unit" an
// evaluator-level question — so instead of stepping units this walks
// successively larger Evaluate windows until a hit appears or
// maxSearch is exceeded, returning ok=false in the latter case (the
// schedule is satisfiable nowhere in [after+1, after+maxSearch]).
func NextAfter(b Block, after int64, registry *Schedule, maxSearch int64) (int64, bool, error) {
	if maxSearch <= 0 {
		maxSearch = int64(400*365) * dayMillis
	}
	cursor := after + 1
	window := dayMillis
	searched := int64(0)

	for searched < maxSearch {
		if window > maxSearch-searched {
			window = maxSearch - searched
		}
		end := cursor + window - 1
		intervals, err := b.Evaluate(cursor, end, registry, true)
		if err != nil {
			return 0, false, err
		}
		for _, iv := range intervals {
			if iv.Start >= cursor {
				return iv.Start, true, nil
			}
		}
		searched += window
		cursor = end + 1
		window *= 2
	}
	return 0, false, nil
}
