package ptw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleSetGetRemove(t *testing.T) {
	reg := NewSchedule()
	wd, err := NewWeekDayField([]NumericConstraint{Range(1, 5)})
	require.NoError(t, err)

	require.NoError(t, reg.Set("weekdays", "Weekdays", wd))
	got, ok := reg.Get("weekdays")
	require.True(t, ok)
	assert.Equal(t, wd.Hash(), got.Hash())

	_, ok = reg.Get("missing")
	assert.False(t, ok)

	assert.True(t, reg.Remove("weekdays"))
	assert.False(t, reg.Remove("weekdays"))
}

func TestScheduleSetRejectsInvalidID(t *testing.T) {
	reg := NewSchedule()
	wd, err := NewWeekDayField([]NumericConstraint{Single(1)})
	require.NoError(t, err)
	err = reg.Set("bad id!", "x", wd)
	assert.Error(t, err)
}

func TestScheduleSetOverwriteFalseRejectsDuplicate(t *testing.T) {
	reg := NewSchedule()
	a, err := NewWeekDayField([]NumericConstraint{Single(1)})
	require.NoError(t, err)
	b, err := NewWeekDayField([]NumericConstraint{Single(2)})
	require.NoError(t, err)

	require.NoError(t, reg.Set("x", "X", a))
	err = reg.Set("x", "X", b, false)
	assert.Error(t, err)

	require.NoError(t, reg.Set("x", "X", b, true))
	got, _ := reg.Get("x")
	assert.Equal(t, b.Hash(), got.Hash())
}

func TestScheduleEvaluateUsesCache(t *testing.T) {
	reg := NewSchedule()
	wd, err := NewWeekDayField([]NumericConstraint{Range(1, 5)})
	require.NoError(t, err)
	require.NoError(t, reg.Set("weekdays", "Weekdays", wd))

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)

	ivs, err := reg.Evaluate("weekdays", start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, ivs)
	assert.Equal(t, 1, reg.Cache().Len())

	again, err := reg.Evaluate("weekdays", start, end)
	require.NoError(t, err)
	assert.Equal(t, ivs, again)
}

func TestScheduleEvaluateMissingID(t *testing.T) {
	reg := NewSchedule()
	_, err := reg.Evaluate("nope", 0, 100)
	assert.Error(t, err)
	var refErr *ReferenceError
	assert.ErrorAs(t, err, &refErr)
}

func TestReferenceCycleDetection(t *testing.T) {
	reg := NewSchedule()
	refA, err := NewReference("a")
	require.NoError(t, err)
	refB, err := NewReference("b")
	require.NoError(t, err)

	require.NoError(t, reg.Set("a", "A", refB))
	require.NoError(t, reg.Set("b", "B", refA))

	_, err = reg.Evaluate("a", 0, 100)
	require.Error(t, err)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "cycle", refErr.Reason)
}

func TestReferenceMissingTarget(t *testing.T) {
	ref, err := NewReference("ghost")
	require.NoError(t, err)
	_, err = ref.Evaluate(0, 100, NewSchedule(), true)
	assert.Error(t, err)
}

func TestReferenceNilRegistry(t *testing.T) {
	ref, err := NewReference("x")
	require.NoError(t, err)
	_, err = ref.Evaluate(0, 100, nil, true)
	assert.Error(t, err)
}
