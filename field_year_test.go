package ptw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearFieldRange(t *testing.T) {
	f, err := NewYearField([]NumericConstraint{Range(2020, 2022)})
	require.NoError(t, err)
	start := utcMillis(2019, time.January, 1, 0, 0, 0, 0)
	end := utcMillis(2023, time.December, 31, 23, 59, 59, 999)
	ivs, err := f.Evaluate(start, end, nil, true)
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	assert.Equal(t, utcMillis(2020, time.January, 1, 0, 0, 0, 0), ivs[0].Start)
	assert.Equal(t, utcMillis(2022, time.December, 31, 23, 59, 59, 999), ivs[0].End)
}

func TestYearFieldNegativeYears(t *testing.T) {
	_, err := NewYearField([]NumericConstraint{Single(-9999)})
	require.NoError(t, err)
	_, err = NewYearField([]NumericConstraint{Single(-10000)})
	require.Error(t, err)
	_, err = NewYearField([]NumericConstraint{Single(10000)})
	require.Error(t, err)
}
