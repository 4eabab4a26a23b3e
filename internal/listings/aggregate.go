package listings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joshhunt/marquee/internal/errors"
)

// Display formats for day and screening labels.
const (
	dayFormat  = "Mon 2 Jan"
	timeFormat = "3:04 pm"
)

// FetchMovieData runs the full aggregation: resolve the site build hash, load
// the static query documents, extract movie and theater metadata, fetch the
// schedule for every known movie ID, then join schedule entries against
// metadata by ID.
//
// A movie playing at several theaters appears under each of them; only the
// first occurrence (by the query's theater ranking) has IsAtEarlierTheater
// false. A scheduled theater or movie with no metadata node means the
// upstream sources disagree, and the whole call fails with a NotFoundError
// carrying the offending ID; there are no partial results.
func (c *Client) FetchMovieData(ctx context.Context, query Query) (*Listings, error) {
	siteHash, siteHashCreatedAt, err := c.SiteHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving site build hash: %w", err)
	}

	staticQueries, staticQueriesCreatedAt, err := c.StaticQueries(ctx, siteHash)
	if err != nil {
		return nil, fmt.Errorf("loading static queries: %w", err)
	}

	var (
		wg             sync.WaitGroup
		moviesMetadata []MovieNode
		theatersMeta   []TheaterNode
		moviesErr      error
		theatersErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		moviesMetadata, moviesErr = MoviesMetadata(staticQueries)
	}()
	go func() {
		defer wg.Done()
		theatersMeta, theatersErr = TheatersMetadata(staticQueries)
	}()
	wg.Wait()
	if moviesErr != nil {
		return nil, moviesErr
	}
	if theatersErr != nil {
		return nil, theatersErr
	}

	allMovieIDs := make([]string, 0, len(moviesMetadata))
	for _, movie := range moviesMetadata {
		allMovieIDs = append(allMovieIDs, movie.ID)
	}

	schedule, scheduleCreatedAt, err := c.Schedule(ctx, query, allMovieIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}

	screenings, err := c.joinSchedule(schedule, moviesMetadata, theatersMeta)
	if err != nil {
		return nil, err
	}

	return &Listings{
		Screenings:                 screenings,
		Theaters:                   theatersMeta,
		StaticSiteHashCreatedAt:    siteHashCreatedAt,
		StaticQueriesCreatedAt:     staticQueriesCreatedAt,
		BoxOfficeScheduleCreatedAt: scheduleCreatedAt,
	}, nil
}

func (c *Client) joinSchedule(schedule []TheaterSchedule, movies []MovieNode, theaters []TheaterNode) ([]TheaterScreenings, error) {
	moviesByID := make(map[string]MovieNode, len(movies))
	for _, movie := range movies {
		moviesByID[movie.ID] = movie
	}
	theatersByID := make(map[string]TheaterNode, len(theaters))
	for _, theater := range theaters {
		theatersByID[theater.ID] = theater
	}

	seenMovies := make(map[string]bool)
	result := make([]TheaterScreenings, 0, len(schedule))

	for _, theaterData := range schedule {
		theater, ok := theatersByID[theaterData.TheaterID]
		if !ok {
			return nil, errors.NewNotFoundError("theater", theaterData.TheaterID)
		}

		theaterResult := TheaterScreenings{
			TheaterID:   theater.ID,
			TheaterName: theater.Name,
			Movies:      make([]MovieScreenings, 0, len(theaterData.Movies)),
		}

		for _, movieData := range theaterData.Movies {
			movie, ok := moviesByID[movieData.MovieID]
			if !ok {
				return nil, errors.NewNotFoundError("movie", movieData.MovieID)
			}

			movieResult := MovieScreenings{
				MovieID:            movie.ID,
				MovieURL:           c.baseURL + movie.Path,
				Title:              movie.Title,
				Path:               movie.Path,
				IsAtEarlierTheater: seenMovies[movie.ID],
				Days:               make([]DayScreenings, 0, len(movieData.Days)),
			}
			seenMovies[movie.ID] = true

			for _, dayData := range movieData.Days {
				movieResult.Days = append(movieResult.Days, buildDay(dayData))
			}
			padScreeningTimes(movieResult.Days)

			theaterResult.Movies = append(theaterResult.Movies, movieResult)
		}

		result = append(result, theaterResult)
	}

	return result, nil
}

func buildDay(dayData DaySchedule) DayScreenings {
	formattedDate := dayData.Day
	if date, err := time.Parse("2006-01-02", dayData.Day); err == nil {
		formattedDate = date.Format(dayFormat)
	}

	day := DayScreenings{
		Date:          dayData.Day,
		FormattedDate: formattedDate,
		Screenings:    make([]ScreeningTime, 0, len(dayData.Screenings)),
	}

	for _, screening := range dayData.Screenings {
		day.Screenings = append(day.Screenings, ScreeningTime{
			StartsAt:      screening.StartsAt,
			FormattedTime: screening.StartsAt.Format(timeFormat),
			URL:           ticketingURL(screening),
		})
	}

	return day
}

func ticketingURL(screening Screening) string {
	for _, ticketing := range screening.Data.Ticketing {
		if len(ticketing.URLs) > 0 {
			return ticketing.URLs[0]
		}
	}
	return ""
}

// padScreeningTimes left-pads formatted times so the Nth screening of each
// day lines up in a column across the movie's days. Pure presentation over
// already-computed screening data.
func padScreeningTimes(days []DayScreenings) {
	var widths []int
	for _, day := range days {
		for i, screening := range day.Screenings {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(screening.FormattedTime) > widths[i] {
				widths[i] = len(screening.FormattedTime)
			}
		}
	}

	for _, day := range days {
		for i := range day.Screenings {
			screening := &day.Screenings[i]
			if pad := widths[i] - len(screening.FormattedTime); pad > 0 {
				screening.FormattedTime = strings.Repeat(" ", pad) + screening.FormattedTime
			}
		}
	}
}
