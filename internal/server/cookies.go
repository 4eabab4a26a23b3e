package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/joshhunt/marquee/internal/config"
)

// All preferences live in comma-separated cookies with a one year expiry, so
// a returning visitor keeps their theater ranking and seen list without any
// server-side state.

const cookieMaxAge = 365 * 24 * 60 * 60

func cookieList(r *http.Request, name string) []string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return strings.Split(cookie.Value, ",")
}

func setCookieList(w http.ResponseWriter, name string, values []string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    strings.Join(values, ","),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
	})
}

// seenMovieIDs returns the visitor's seen movie IDs.
func seenMovieIDs(r *http.Request) []string {
	return cookieList(r, "seenMovieIds")
}

// theaters returns the visitor's ranked theater IDs, falling back to the
// configured default ranking.
func theaters(r *http.Request) []string {
	if ids := cookieList(r, "theaters"); ids != nil {
		return ids
	}
	return config.Theaters
}

// daysAhead returns how far ahead the visitor wants listings.
func daysAhead(r *http.Request) int {
	cookie, err := r.Cookie("daysAhead")
	if err != nil || cookie.Value == "" {
		return config.DaysAhead
	}
	days, err := strconv.Atoi(cookie.Value)
	if err != nil {
		return config.DaysAhead
	}
	return days
}

// toggle removes value from values if present, appends it otherwise.
func toggle(values []string, value string) []string {
	result := make([]string, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v == value {
			found = true
			continue
		}
		result = append(result, v)
	}
	if !found {
		result = append(result, value)
	}
	return result
}
