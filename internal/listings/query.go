package listings

import (
	"time"

	"github.com/joshhunt/marquee/internal/config"
)

// DefaultQuery builds the standard query: today through the first Tuesday at
// least daysAhead days out, against the configured ranked theaters.
func DefaultQuery(now time.Time) Query {
	from, to := Window(now, config.DaysAhead)
	return Query{
		FromDate: from,
		ToDate:   to,
		Theaters: config.Theaters,
	}
}

// Window returns the date bounds for a listing query: start of today through
// end of the first Tuesday at least daysAhead days from now. New releases
// land on Thursdays here, so extending to a Tuesday always shows the full
// final week without a ragged edge.
func Window(now time.Time, daysAhead int) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	end := start.AddDate(0, 0, daysAhead)
	for end.Weekday() != time.Tuesday {
		end = end.AddDate(0, 0, 1)
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999000000, end.Location())

	return start, end
}
