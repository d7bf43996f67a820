package ptw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFieldValidation(t *testing.T) {
	midnight := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	eod := utcMillis(2024, time.January, 1, 23, 59, 59, 999)
	_, err := NewDateField([]DateRange{{Start: midnight, End: eod}})
	require.NoError(t, err)

	_, err = NewDateField([]DateRange{{Start: midnight + 1, End: eod}})
	require.Error(t, err)
	_, err = NewDateField([]DateRange{{Start: midnight, End: eod - 1}})
	require.Error(t, err)
}

func TestDateFieldClipAndSlice(t *testing.T) {
	d1s := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	d1e := utcMillis(2024, time.January, 1, 23, 59, 59, 999)
	d2s := utcMillis(2024, time.January, 10, 0, 0, 0, 0)
	d2e := utcMillis(2024, time.January, 10, 23, 59, 59, 999)

	f, err := NewDateField([]DateRange{{Start: d2s, End: d2e}, {Start: d1s, End: d1e}})
	require.NoError(t, err)

	ivs, err := f.Evaluate(d1s, d2e, nil, true)
	require.NoError(t, err)
	require.Len(t, ivs, 2)
	assert.Equal(t, d1s, ivs[0].Start)
	assert.Equal(t, d2s, ivs[1].Start)

	// Narrower domain excludes the second range entirely.
	ivs, err = f.Evaluate(d1s, d1e, nil, true)
	require.NoError(t, err)
	require.Len(t, ivs, 1)
}

func TestDateFieldHolidayExclusionScenario(t *testing.T) {
	// Scenario 3: businesshours AND NOT holidays.
	reg := NewSchedule()
	bh, err := ParseExpression("T[9:00..17:00] AND WD[1..5]")
	require.NoError(t, err)
	require.NoError(t, reg.Set("businesshours", "Business Hours", bh))

	holidayStart := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	holidayEnd := utcMillis(2024, time.January, 1, 23, 59, 59, 999)
	holidays, err := NewDateField([]DateRange{{Start: holidayStart, End: holidayEnd}})
	require.NoError(t, err)
	require.NoError(t, reg.Set("holidays", "Holidays", holidays))

	expr, err := ParseExpression("REF[businesshours] AND NOT REF[holidays]")
	require.NoError(t, err)

	start := utcMillis(2024, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2024, time.January, 2, 23, 59, 59, 999)
	ivs, err := expr.Evaluate(start, end, reg, true)
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	assert.Equal(t, utcMillis(2024, time.January, 2, 9, 0, 0, 0), ivs[0].Start)
	assert.Equal(t, utcMillis(2024, time.January, 2, 17, 0, 0, 0), ivs[0].End)
}
