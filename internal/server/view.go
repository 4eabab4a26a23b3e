package server

import (
	"sort"
	"time"

	"github.com/joshhunt/marquee/internal/listings"
)

// daysAheadOption is one entry in the date range picker.
type daysAheadOption struct {
	Days     int
	Label    string
	Selected bool
}

var daysAheadChoices = []struct {
	Days  int
	Label string
}{
	{7, "1 week"},
	{14, "2 weeks"},
	{21, "3 weeks"},
	{28, "4 weeks"},
}

// movieView is a MovieScreenings annotated with the visitor's preferences.
type movieView struct {
	listings.MovieScreenings
	Seen     bool
	Collapse bool
}

type theaterView struct {
	TheaterName string
	Movies      []movieView
}

type theaterOption struct {
	listings.TheaterNode
	Selected bool
}

// listingsView is the full template model for the index page.
type listingsView struct {
	Screenings       []theaterView
	Theaters         []theaterOption
	DaysAhead        int
	DaysAheadOptions []daysAheadOption

	StaticSiteHashCreatedAt    time.Time
	StaticQueriesCreatedAt     time.Time
	BoxOfficeScheduleCreatedAt time.Time
}

// buildView folds the visitor's preferences into the aggregated result:
// seen or duplicate movies collapse, seen duplicates disappear entirely, and
// within each theater unseen movies come first, duplicates next, seen last.
func buildView(result *listings.Listings, seenIDs, selectedTheaters []string, days int) *listingsView {
	seen := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	view := &listingsView{
		Screenings: make([]theaterView, 0, len(result.Screenings)),
		DaysAhead:  days,

		StaticSiteHashCreatedAt:    result.StaticSiteHashCreatedAt,
		StaticQueriesCreatedAt:     result.StaticQueriesCreatedAt,
		BoxOfficeScheduleCreatedAt: result.BoxOfficeScheduleCreatedAt,
	}

	for _, theater := range result.Screenings {
		tv := theaterView{
			TheaterName: theater.TheaterName,
			Movies:      make([]movieView, 0, len(theater.Movies)),
		}

		for _, movie := range theater.Movies {
			isSeen := seen[movie.MovieID]
			if isSeen && movie.IsAtEarlierTheater {
				continue
			}
			tv.Movies = append(tv.Movies, movieView{
				MovieScreenings: movie,
				Seen:            isSeen,
				Collapse:        isSeen || movie.IsAtEarlierTheater,
			})
		}

		sort.SliceStable(tv.Movies, func(i, j int) bool {
			return movieViewRank(tv.Movies[i]) < movieViewRank(tv.Movies[j])
		})
		view.Screenings = append(view.Screenings, tv)
	}

	for _, option := range daysAheadChoices {
		view.DaysAheadOptions = append(view.DaysAheadOptions, daysAheadOption{
			Days:     option.Days,
			Label:    option.Label,
			Selected: option.Days == days,
		})
	}

	view.Theaters = theaterOptions(result.Theaters, selectedTheaters)

	return view
}

// movieViewRank orders unseen before duplicates before seen.
func movieViewRank(m movieView) int {
	switch {
	case m.Seen:
		return 2
	case m.IsAtEarlierTheater:
		return 1
	default:
		return 0
	}
}

// theaterOptions orders the full theater list by the visitor's ranking;
// unselected theaters sort after all selected ones.
func theaterOptions(nodes []listings.TheaterNode, selected []string) []theaterOption {
	rank := func(id string) int {
		for i, sel := range selected {
			if sel == id {
				return i
			}
		}
		return len(selected)
	}

	options := make([]theaterOption, 0, len(nodes))
	for _, node := range nodes {
		options = append(options, theaterOption{
			TheaterNode: node,
			Selected:    rank(node.ID) < len(selected),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return rank(options[i].ID) < rank(options[j].ID)
	})

	return options
}
