package listings

import (
	"encoding/json"
	"time"
)

// Query describes one aggregation request. The order of Theaters is a
// ranking: it decides display order and which theater claims a movie first
// when the same movie plays at several of them.
type Query struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`
	Theaters []string  `json:"theaters"`
}

// MovieNode is a movie's static metadata as published in the site's build
// output. ID is the stable identifier used to join against schedule data.
type MovieNode struct {
	ID            string   `json:"id"`
	Path          string   `json:"path"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originalTitle"`
	Certificate   string   `json:"certificate"`
	Direction     []string `json:"direction"`
	Genres        string   `json:"genres"`
	Poster        string   `json:"poster"`
	Runtime       *int     `json:"runtime"`
	Synopsis      string   `json:"synopsis"`
}

// TheaterNode is a theater's static metadata.
type TheaterNode struct {
	Typename string `json:"__typename"`
	ID       string `json:"id"`
	Path     string `json:"path"`
	Name     string `json:"name"`
	TimeZone string `json:"timeZone"`
}

// StaticQueries is the ordered collection of pre-rendered query result
// documents the static site was built against. Individual documents are kept
// raw; the extractors in metadata.go decode the two shapes we care about.
type StaticQueries []json.RawMessage

// pageData is the slice of the page-data manifest we need: the list of
// static query hashes referenced by the film listing page.
type pageData struct {
	StaticQueryHashes []string `json:"staticQueryHashes"`
}

type moviesDocument struct {
	Data struct {
		AllMovie struct {
			Nodes []MovieNode `json:"nodes"`
		} `json:"allMovie"`
	} `json:"data"`
}

type theatersDocument struct {
	Data struct {
		AllTheater struct {
			Nodes []TheaterNode `json:"nodes"`
		} `json:"allTheater"`
	} `json:"data"`
}

// Screening is a single showing as returned by the box office API.
type Screening struct {
	ID        string        `json:"id"`
	StartsAt  time.Time     `json:"startsAt"`
	Tags      []string      `json:"tags"`
	IsExpired bool          `json:"isExpired"`
	Data      ScreeningData `json:"data"`
}

// ScreeningData carries the ticketing links for a screening.
type ScreeningData struct {
	Ticketing []Ticketing `json:"ticketing"`
}

// Ticketing is one ticket vendor's links for a screening.
type Ticketing struct {
	URLs     []string `json:"urls"`
	Type     string   `json:"type"`
	Provider string   `json:"provider"`
}

// scheduleResponse is the raw API shape: theaterId -> movieId -> day -> screenings.
type scheduleResponse map[string]struct {
	Schedule map[string]map[string][]Screening `json:"schedule"`
}

// TheaterSchedule is the reshaped schedule for one theater, movies ordered by
// earliest screening.
type TheaterSchedule struct {
	TheaterID string          `json:"theaterId"`
	Movies    []MovieSchedule `json:"movies"`
}

// MovieSchedule is one movie's screenings at a theater, grouped by day.
type MovieSchedule struct {
	MovieID string        `json:"movieId"`
	Days    []DaySchedule `json:"days"`
}

// DaySchedule is the screenings of one calendar day, in API (chronological) order.
type DaySchedule struct {
	Day        string      `json:"day"`
	Screenings []Screening `json:"screenings"`
}

// Listings is the aggregated result: schedule joined against metadata, plus
// the full theater list for preference UIs and the freshness timestamp of
// each cached layer. It is recomputed on every call and never cached itself.
type Listings struct {
	Screenings []TheaterScreenings
	Theaters   []TheaterNode

	StaticSiteHashCreatedAt    time.Time
	StaticQueriesCreatedAt     time.Time
	BoxOfficeScheduleCreatedAt time.Time
}

// TheaterScreenings is one theater's block in the aggregated result.
type TheaterScreenings struct {
	TheaterID   string
	TheaterName string
	Movies      []MovieScreenings
}

// MovieScreenings is one movie at one theater. IsAtEarlierTheater marks the
// occurrence as a duplicate of one already listed under a higher-ranked
// theater; no occurrence is dropped, presentation layers decide what to hide.
type MovieScreenings struct {
	MovieID            string
	MovieURL           string
	Title              string
	Path               string
	IsAtEarlierTheater bool
	Days               []DayScreenings
}

// DayScreenings is one calendar day of showings for a movie.
type DayScreenings struct {
	Date          string
	FormattedDate string
	Screenings    []ScreeningTime
}

// ScreeningTime is a single showing ready for display. FormattedTime may be
// left-padded so times line up in columns across a movie's days.
type ScreeningTime struct {
	StartsAt      time.Time
	FormattedTime string
	URL           string
}
