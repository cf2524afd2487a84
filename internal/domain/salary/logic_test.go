package salary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestCovers(t *testing.T) {
	from := date(2025, time.January, 1)
	to := datePtr(2025, time.June, 30)

	tests := []struct {
		name string
		to   *time.Time
		asOf time.Time
		want bool
	}{
		{"before start", to, date(2024, time.December, 31), false},
		{"on start", to, date(2025, time.January, 1), true},
		{"inside", to, date(2025, time.March, 15), true},
		{"on end", to, date(2025, time.June, 30), true},
		{"after end", to, date(2025, time.July, 1), false},
		{"open row covers far future", nil, date(2030, time.January, 1), true},
		{"open row before start", nil, date(2024, time.June, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Covers(from, tt.to, tt.asOf))
		})
	}
}

func TestCloseBoundary(t *testing.T) {
	got := CloseBoundary(date(2025, time.July, 1))
	assert.Equal(t, date(2025, time.June, 30), got)

	// Month and year boundaries.
	assert.Equal(t, date(2024, time.December, 31), CloseBoundary(date(2025, time.January, 1)))
}

func TestClosedRowAndSuccessorNeverOverlap(t *testing.T) {
	// A 100 salary superseded by 120 on July 1: the old row must cover
	// June 30 and not July 1, the new row the reverse.
	oldFrom := date(2025, time.January, 1)
	newFrom := date(2025, time.July, 1)
	oldTo := CloseBoundary(newFrom)

	assert.True(t, Covers(oldFrom, &oldTo, date(2025, time.June, 30)))
	assert.False(t, Covers(oldFrom, &oldTo, date(2025, time.July, 1)))
	assert.True(t, Covers(newFrom, nil, date(2025, time.July, 1)))
	assert.False(t, Covers(newFrom, nil, date(2025, time.June, 30)))
}

func TestValidateNew(t *testing.T) {
	from := date(2025, time.March, 1)

	require.NoError(t, ValidateNew(5000, from, nil, nil))
	require.NoError(t, ValidateNew(5000, from, datePtr(2025, time.March, 31), nil))
	require.NoError(t, ValidateNew(5000, from, nil, datePtr(2025, time.March, 1)))

	assert.Error(t, ValidateNew(0, from, nil, nil))
	assert.Error(t, ValidateNew(-100, from, nil, nil))
	assert.Error(t, ValidateNew(5000, from, datePtr(2025, time.February, 28), nil))
	assert.Error(t, ValidateNew(5000, from, nil, datePtr(2025, time.April, 1)))
}
