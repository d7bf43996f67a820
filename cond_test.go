package ptw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessHoursScenario(t *testing.T) {
	// Scenario 1: T[9:00..17:00] AND WD[1..5] over Mon-Sun 2024-01-01..07.
	block, err := ParseExpression("T[9:00..17:00] AND WD[1..5]")
	require.NoError(t, err)

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)
	ivs, err := block.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	require.Len(t, ivs, 5)
	for i, iv := range ivs {
		dayStart := utcMillis(2024, time.January, i+1, 0, 0, 0, 0)
		assert.Equal(t, dayStart+9*3_600_000, iv.Start)
		assert.Equal(t, dayStart+17*3_600_000, iv.End)
	}
}

func TestAndBlockShortCircuitsOnEmptyChild(t *testing.T) {
	empty, err := NewMonthField(nil)
	require.NoError(t, err)
	full, err := NewWeekDayField([]NumericConstraint{Range(1, 7)})
	require.NoError(t, err)
	and := NewAndBlock([]Block{empty, full})

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)
	ivs, err := and.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	assert.Nil(t, ivs)
}

func TestOrBlockEmptyYieldsEmpty(t *testing.T) {
	or := NewOrBlock(nil)
	ivs, err := or.Evaluate(0, 100, nil, true)
	require.NoError(t, err)
	assert.Nil(t, ivs)
}

func TestNotBlockNoChildYieldsDomain(t *testing.T) {
	not := NewNotBlock(nil)
	ivs, err := not.Evaluate(0, 100, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []Interval{{Start: 0, End: 100}}, ivs)
}

func TestDoubleNotLaw(t *testing.T) {
	wd, err := NewWeekDayField([]NumericConstraint{Range(1, 5)})
	require.NoError(t, err)
	inner := NewNotBlock(wd.Clone())
	outer := NewNotBlock(inner)

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)

	got, err := outer.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	want, err := wd.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeMorgan(t *testing.T) {
	a, err := NewWeekDayField([]NumericConstraint{Range(1, 3)})
	require.NoError(t, err)
	b, err := NewWeekDayField([]NumericConstraint{Range(2, 5)})
	require.NoError(t, err)

	notAnd := NewNotBlock(NewAndBlock([]Block{a.Clone(), b.Clone()}))
	orNot := NewOrBlock([]Block{NewNotBlock(a.Clone()), NewNotBlock(b.Clone())})

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 7, 23, 59, 59, 999)

	left, err := notAnd.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	right, err := orNot.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	assert.Equal(t, left, right)
}

func TestMergeAnnotationPropagation(t *testing.T) {
	// #(~T[9:00..17:00] AND WD[1..5]): the outer node is forced off, but
	// its T child is forced on and must be evaluated with its own
	// override rather than inheriting the outer's off state.
	block, err := ParseExpression("#(~T[9:00..17:00] AND WD[1..5])")
	require.NoError(t, err)
	and, ok := block.(*AndBlock)
	require.True(t, ok)
	assert.Equal(t, MergeExplicitOff, and.MergeState())
	children := and.Children()
	require.Len(t, children, 2)
	var timeChild *TimeField
	for _, c := range children {
		if tf, ok := c.(*TimeField); ok {
			timeChild = tf
		}
	}
	require.NotNil(t, timeChild)
	assert.Equal(t, MergeExplicitOn, timeChild.MergeState())
}

func TestBlockGroupOrdering(t *testing.T) {
	ref, err := NewReference("x")
	require.NoError(t, err)
	wd, err := NewWeekDayField([]NumericConstraint{Single(1)})
	require.NoError(t, err)
	and := NewAndBlock([]Block{ref, wd})

	ordered := sortByGroup(and.children)
	assert.Equal(t, groupField, ordered[0].blockGroup())
	assert.Equal(t, groupReference, ordered[1].blockGroup())
}
