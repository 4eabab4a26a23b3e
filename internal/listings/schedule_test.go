package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screeningAt(ts string) Screening {
	startsAt, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return Screening{
		StartsAt: startsAt,
		Data: ScreeningData{
			Ticketing: []Ticketing{{URLs: []string{"https://tickets.example/" + ts}}},
		},
	}
}

func TestReshapeScheduleMovieOrdering(t *testing.T) {
	response := scheduleResponse{
		"T1": {Schedule: map[string]map[string][]Screening{
			"late":  {"2024-01-02": {screeningAt("2024-01-02T21:00:00Z")}},
			"early": {"2024-01-02": {screeningAt("2024-01-02T18:00:00Z")}},
			"empty": {},
		}},
	}

	result := reshapeSchedule(response, []string{"T1"})
	require.Len(t, result, 1)
	require.Len(t, result[0].Movies, 3)

	assert.Equal(t, "early", result[0].Movies[0].MovieID)
	assert.Equal(t, "late", result[0].Movies[1].MovieID)
	assert.Equal(t, "empty", result[0].Movies[2].MovieID, "movie with no screenings sorts last")
}

func TestReshapeScheduleDayOrdering(t *testing.T) {
	response := scheduleResponse{
		"T1": {Schedule: map[string]map[string][]Screening{
			"m1": {
				"2024-01-05": {screeningAt("2024-01-05T19:00:00Z")},
				"2024-01-02": {screeningAt("2024-01-02T18:00:00Z"), screeningAt("2024-01-02T20:00:00Z")},
				"2024-01-03": {screeningAt("2024-01-03T19:00:00Z")},
			},
		}},
	}

	result := reshapeSchedule(response, []string{"T1"})
	days := result[0].Movies[0].Days
	require.Len(t, days, 3)
	assert.Equal(t, "2024-01-02", days[0].Day)
	assert.Equal(t, "2024-01-03", days[1].Day)
	assert.Equal(t, "2024-01-05", days[2].Day)

	// Screenings within a day keep API order.
	require.Len(t, days[0].Screenings, 2)
	assert.True(t, days[0].Screenings[0].StartsAt.Before(days[0].Screenings[1].StartsAt))
}

func TestReshapeScheduleTheaterOrdering(t *testing.T) {
	schedule := map[string]map[string][]Screening{
		"m1": {"2024-01-02": {screeningAt("2024-01-02T18:00:00Z")}},
	}
	response := scheduleResponse{
		"T3": {Schedule: schedule},
		"T1": {Schedule: schedule},
		"T2": {Schedule: schedule},
	}

	result := reshapeSchedule(response, []string{"T2", "T1", "T3"})
	require.Len(t, result, 3)
	assert.Equal(t, "T2", result[0].TheaterID)
	assert.Equal(t, "T1", result[1].TheaterID)
	assert.Equal(t, "T3", result[2].TheaterID)
}

func TestReshapeScheduleUnrankedTheaterSortsLast(t *testing.T) {
	schedule := map[string]map[string][]Screening{
		"m1": {"2024-01-02": {screeningAt("2024-01-02T18:00:00Z")}},
	}
	response := scheduleResponse{
		"UNRANKED": {Schedule: schedule},
		"T1":       {Schedule: schedule},
	}

	result := reshapeSchedule(response, []string{"T1"})
	require.Len(t, result, 2)
	assert.Equal(t, "T1", result[0].TheaterID)
	assert.Equal(t, "UNRANKED", result[1].TheaterID)
}

func TestSchedule(t *testing.T) {
	var requests atomic.Int64
	var lastRequest scheduleRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gatsby-source-boxofficeapi/schedule", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastRequest))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"T1": {"schedule": {"m1": {"2024-01-02": [
				{"startsAt": "2024-01-02T18:00:00Z", "data": {"ticketing": [{"urls": ["https://tickets.example/1"]}]}}
			]}}}
		}`)
	})
	server := newIPv4TestServer(t, mux)
	client := New(newTestCache(t),
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL),
		WithCircuitID(101077),
		WithWebsiteID("website-id"),
		WithTimeZone("Europe/London"),
	)

	query := Query{
		FromDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2024, 1, 8, 23, 59, 59, 0, time.UTC),
		Theaters: []string{"T1"},
	}

	schedule, createdAt, err := client.Schedule(context.Background(), query, []string{"m1", "m2"})
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, "T1", schedule[0].TheaterID)
	assert.False(t, createdAt.IsZero())

	// Request carries the circuit, per-theater timezones, the complete movie
	// ID universe and RFC3339 date bounds.
	assert.Equal(t, 101077, lastRequest.Circuit)
	assert.Equal(t, []scheduleTheater{{ID: "T1", TimeZone: "Europe/London"}}, lastRequest.Theaters)
	assert.Equal(t, []string{"m1", "m2"}, lastRequest.MovieIDs)
	assert.Equal(t, "2024-01-01T00:00:00Z", lastRequest.From)
	assert.Equal(t, "2024-01-08T23:59:59Z", lastRequest.To)
	assert.Equal(t, "website-id", lastRequest.WebsiteID)
	assert.NotNil(t, lastRequest.Nin)
	assert.NotNil(t, lastRequest.Sin)

	// Same query + ID set hits the cache.
	_, _, err = client.Schedule(context.Background(), query, []string{"m1", "m2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), requests.Load())

	// A different movie ID set is a different cache key.
	_, _, err = client.Schedule(context.Background(), query, []string{"m1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), requests.Load())
}
