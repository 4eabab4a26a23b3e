package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/joshhunt/marquee/internal/cache"
)

type scheduleRequest struct {
	Circuit   int               `json:"circuit"`
	Theaters  []scheduleTheater `json:"theaters"`
	MovieIDs  []string          `json:"movieIds"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Nin       []string          `json:"nin"`
	Sin       []string          `json:"sin"`
	WebsiteID string            `json:"websiteId"`
}

type scheduleTheater struct {
	ID       string `json:"id"`
	TimeZone string `json:"timeZone"`
}

// Schedule fetches showtimes for the query's theaters and date range. The API
// is called with the complete movie ID universe; the date range does the
// filtering. Cached for an hour keyed by the full query plus ID set, since
// showtimes and ticketing availability change much faster than metadata.
//
// The response map is reshaped into ordered slices: days ascending within a
// movie, movies by their first screening time within a theater (movies with
// no screenings last), theaters by their rank in query.Theaters. A theater
// the query never ranked sorts after all ranked ones.
func (c *Client) Schedule(ctx context.Context, query Query, allMovieIDs []string) ([]TheaterSchedule, time.Time, error) {
	keyData, err := json.Marshal(struct {
		Query       Query    `json:"query"`
		AllMovieIDs []string `json:"allMovieIds"`
	}{query, allMovieIDs})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("encoding schedule cache key: %w", err)
	}

	return cachedFetch(c, "schedule_cache", string(keyData), cache.ScheduleTTL, func() ([]TheaterSchedule, error) {
		theaters := make([]scheduleTheater, 0, len(query.Theaters))
		for _, id := range query.Theaters {
			theaters = append(theaters, scheduleTheater{ID: id, TimeZone: c.timeZone})
		}

		request := scheduleRequest{
			Circuit:   c.circuitID,
			Theaters:  theaters,
			MovieIDs:  allMovieIDs,
			From:      query.FromDate.Format(time.RFC3339),
			To:        query.ToDate.Format(time.RFC3339),
			Nin:       []string{},
			Sin:       []string{},
			WebsiteID: c.websiteID,
		}

		var response scheduleResponse
		url := c.baseURL + "/api/gatsby-source-boxofficeapi/schedule"
		if err := c.postJSON(ctx, "schedule", url, request, &response); err != nil {
			return nil, err
		}

		return reshapeSchedule(response, query.Theaters), nil
	})
}

// reshapeSchedule turns the nested response maps into deterministic ordered
// slices.
func reshapeSchedule(response scheduleResponse, rankedTheaters []string) []TheaterSchedule {
	result := make([]TheaterSchedule, 0, len(response))

	for theaterID, screeningsForTheater := range response {
		movies := make([]MovieSchedule, 0, len(screeningsForTheater.Schedule))

		for movieID, movieDays := range screeningsForTheater.Schedule {
			days := make([]DaySchedule, 0, len(movieDays))
			for day, screenings := range movieDays {
				days = append(days, DaySchedule{Day: day, Screenings: screenings})
			}
			sort.Slice(days, func(i, j int) bool {
				return days[i].Day < days[j].Day
			})

			movies = append(movies, MovieSchedule{MovieID: movieID, Days: days})
		}

		// Map iteration order is random; fix a base order before the stable
		// sort by screening time so ties stay deterministic.
		sort.Slice(movies, func(i, j int) bool {
			return movies[i].MovieID < movies[j].MovieID
		})
		sort.SliceStable(movies, func(i, j int) bool {
			a, aOK := firstScreeningTime(movies[i])
			b, bOK := firstScreeningTime(movies[j])
			if !aOK {
				return false
			}
			if !bOK {
				return true
			}
			return a.Before(b)
		})

		result = append(result, TheaterSchedule{TheaterID: theaterID, Movies: movies})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TheaterID < result[j].TheaterID
	})
	sort.SliceStable(result, func(i, j int) bool {
		return theaterRank(result[i].TheaterID, rankedTheaters) < theaterRank(result[j].TheaterID, rankedTheaters)
	})

	return result
}

func firstScreeningTime(movie MovieSchedule) (time.Time, bool) {
	if len(movie.Days) == 0 || len(movie.Days[0].Screenings) == 0 {
		return time.Time{}, false
	}
	return movie.Days[0].Screenings[0].StartsAt, true
}

// theaterRank returns the theater's position in the ranked list. Unranked
// theaters sort after all ranked ones.
func theaterRank(theaterID string, ranked []string) int {
	for i, id := range ranked {
		if id == theaterID {
			return i
		}
	}
	return len(ranked)
}
