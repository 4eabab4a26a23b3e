package render

import (
	"strings"
	"testing"

	"github.com/joshhunt/marquee/internal/listings"
	"github.com/stretchr/testify/assert"
)

func sampleListings() *listings.Listings {
	return &listings.Listings{
		Screenings: []listings.TheaterScreenings{
			{
				TheaterName: "Theater A",
				Movies: []listings.MovieScreenings{
					{
						MovieID:  "m1",
						MovieURL: "https://example.com/foo",
						Title:    "Foo",
						Days: []listings.DayScreenings{
							{
								FormattedDate: "Tue 2 Jan",
								Screenings: []listings.ScreeningTime{
									{FormattedTime: "6:00 pm", URL: "https://tickets.example/1"},
									{FormattedTime: "8:00 pm", URL: "https://tickets.example/2"},
								},
							},
						},
					},
				},
			},
			{
				TheaterName: "Theater B",
				Movies: []listings.MovieScreenings{
					{
						MovieID:            "m1",
						Title:              "Foo",
						IsAtEarlierTheater: true,
					},
				},
			},
		},
	}
}

func TestTerminal(t *testing.T) {
	var out strings.Builder
	Terminal(&out, sampleListings(), nil)

	rendered := out.String()
	assert.Contains(t, rendered, "Theater A")
	assert.Contains(t, rendered, "Theater B")
	assert.Contains(t, rendered, "Foo")
	assert.Contains(t, rendered, "6:00 pm, ")
	assert.Contains(t, rendered, "\x1b]8;;https://tickets.example/1\x1b\\")
}

func TestTerminalHidesSeenDuplicates(t *testing.T) {
	var out strings.Builder
	Terminal(&out, sampleListings(), map[string]bool{"m1": true})

	rendered := out.String()
	// Seen at the primary theater: still printed (dimmed). Seen duplicate at
	// the later theater: dropped entirely.
	assert.Equal(t, 1, strings.Count(rendered, "Foo"))
}

func TestHyperlink(t *testing.T) {
	assert.Equal(t, "\x1b]8;;https://example.com\x1b\\text\x1b]8;;\x1b\\", Hyperlink("https://example.com", "text"))
	assert.Equal(t, "plain", Hyperlink("", "plain"))
}
