package ptw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcMillis(y int, m time.Month, d, h, min, s, ms int) int64 {
	return time.Date(y, m, d, h, min, s, ms*int(time.Millisecond/time.Nanosecond), time.UTC).UnixMilli()
}

func TestWeekDayFieldAlgebraic(t *testing.T) {
	// WD[2n+1] with n >= 1 matches weekdays 3, 5, 7: over a Mon-Sun week
	// that is Wed, Fri, Sun.
	f, err := NewWeekDayField([]NumericConstraint{Algebraic(2, AlgebraicPlus, 1)})
	require.NoError(t, err)

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)   // Monday
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999) // Sunday

	ivs, err := f.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	require.Len(t, ivs, 3)

	days := []time.Weekday{time.Wednesday, time.Friday, time.Sunday}
	for i, iv := range ivs {
		day := time.UnixMilli(iv.Start).UTC()
		assert.Equal(t, days[i], day.Weekday())
	}
}

func TestWeekDayFieldMergeOff(t *testing.T) {
	// Scenario 4: #WD[1..5] over one ISO week expects 5 single-day
	// intervals, not one merged block.
	f, err := NewWeekDayField([]NumericConstraint{Range(1, 5)})
	require.NoError(t, err)
	f.SetMergeState(MergeExplicitOff)

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)

	ivs, err := f.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	assert.Len(t, ivs, 5)
	for _, iv := range ivs {
		assert.Equal(t, iv.End-iv.Start, msPerDay-1)
	}
}

func TestWeekDayFieldEvaluateTimestamp(t *testing.T) {
	f, err := NewWeekDayField([]NumericConstraint{Single(1)})
	require.NoError(t, err)
	mon := utcMillis(2024, time.January, 1, 12, 0, 0, 0)
	tue := utcMillis(2024, time.January, 2, 12, 0, 0, 0)
	ok, err := f.EvaluateTimestamp(mon, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.EvaluateTimestamp(tue, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWeekDayFieldAllSetFastPath(t *testing.T) {
	f, err := NewWeekDayField([]NumericConstraint{Range(1, 7)})
	require.NoError(t, err)
	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)
	ivs, err := f.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []Interval{{Start: start, End: end}}, ivs)
}

func TestWeekDayFieldRejectsOutOfRange(t *testing.T) {
	_, err := NewWeekDayField([]NumericConstraint{Single(8)})
	require.Error(t, err)
}

func TestWeekDayFieldMutators(t *testing.T) {
	f, err := NewWeekDayField([]NumericConstraint{Single(1)})
	require.NoError(t, err)
	h1 := f.Hash()

	require.NoError(t, f.AddValue(Single(2)))
	h2 := f.Hash()
	assert.NotEqual(t, h1, h2)

	v, err := f.GetValue(1)
	require.NoError(t, err)
	assert.Equal(t, Single(2), v)

	_, err = f.GetValue(5)
	var ioob *IndexOutOfBoundsError
	require.ErrorAs(t, err, &ioob)

	require.NoError(t, f.RemoveValue(0))
	h3 := f.Hash()
	assert.NotEqual(t, h2, h3)
}
