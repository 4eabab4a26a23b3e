// Package render prints aggregated listings to the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshhunt/marquee/internal/listings"
)

var (
	theaterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))
	dimStyle = lipgloss.NewStyle().
			Faint(true)
)

// Hyperlink wraps text in an OSC 8 terminal hyperlink escape sequence.
func Hyperlink(url, text string) string {
	if url == "" {
		return text
	}
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// Terminal writes the listings to w. Movies marked seen, and duplicate
// occurrences at lower-ranked theaters, are dimmed; a movie that is both is
// not printed at all.
func Terminal(w io.Writer, result *listings.Listings, seen map[string]bool) {
	for _, theater := range result.Screenings {
		fmt.Fprintln(w, theaterStyle.Render(theater.TheaterName))

		for _, movie := range theater.Movies {
			isSeen := seen[movie.MovieID]
			if isSeen && movie.IsAtEarlierTheater {
				continue
			}

			title := Hyperlink(movie.MovieURL, movie.Title)
			if isSeen || movie.IsAtEarlierTheater {
				title = dimStyle.Render(title)
			}
			fmt.Fprintln(w, "  "+title)

			for _, day := range movie.Days {
				times := make([]string, 0, len(day.Screenings))
				for _, screening := range day.Screenings {
					times = append(times, Hyperlink(screening.URL, screening.FormattedTime))
				}
				fmt.Fprintln(w, "    "+dateStyle.Render(day.FormattedDate)+" - "+strings.Join(times, ", "))
			}
		}

		fmt.Fprintln(w)
	}
}
