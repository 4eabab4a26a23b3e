package listings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	testCases := []struct {
		name        string
		now         time.Time
		daysAhead   int
		expectedEnd time.Time
	}{
		{
			name:      "lands exactly on a Tuesday",
			now:       time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), // Tuesday
			daysAhead: 21,
			// 2024-01-23 is a Tuesday already.
			expectedEnd: time.Date(2024, 1, 23, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:      "advances to the following Tuesday",
			now:       time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), // Monday
			daysAhead: 14,
			// 2024-01-15 is a Monday, next Tuesday is the 16th.
			expectedEnd: time.Date(2024, 1, 16, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:        "zero days ahead still reaches a Tuesday",
			now:         time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), // Wednesday
			daysAhead:   0,
			expectedEnd: time.Date(2024, 1, 9, 23, 59, 59, 999000000, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := Window(tc.now, tc.daysAhead)

			expectedStart := time.Date(tc.now.Year(), tc.now.Month(), tc.now.Day(), 0, 0, 0, 0, time.UTC)
			assert.Equal(t, expectedStart, start)
			assert.Equal(t, tc.expectedEnd, end)
			assert.Equal(t, time.Tuesday, end.Weekday())
		})
	}
}
