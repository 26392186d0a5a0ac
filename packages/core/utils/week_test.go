package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekID(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-10-14", "16/10/2024"}, // Monday
		{"2024-10-16", "16/10/2024"}, // Wednesday
		{"2024-10-19", "16/10/2024"}, // Saturday
		{"2024-10-20", "16/10/2024"}, // Sunday belongs to the week before
		{"2024-12-30", "01/01/2025"}, // crosses the year
	}
	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.want, WeekID(d), tt.date)
	}
}

func TestParseWeekID(t *testing.T) {
	wed, err := ParseWeekID("16/10/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, wed.Weekday())

	_, err = ParseWeekID("17/10/2024")
	assert.ErrorIs(t, err, ErrNotWednesday)

	_, err = ParseWeekID("2024-10-16")
	assert.ErrorIs(t, err, ErrMalformedWeek)

	_, err = ParseWeekID("")
	assert.ErrorIs(t, err, ErrMalformedWeek)
}
