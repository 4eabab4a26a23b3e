// Package config holds global configuration for marquee.
package config

import (
	"github.com/spf13/viper"
)

// Default upstream identifiers. The circuit and website IDs are the values
// the upstream site itself sends to the box office API; they only change if
// the cinema chain migrates CMS tenants.
const (
	DefaultCircuitID = 101077
	DefaultWebsiteID = "V2Vic2l0ZU1hbmFnZXJXZWJzaXRlOmIyNWQwN2RkLTczYTYtNDg1Ny1iODAzLWZiMmMyM2NiYjFkYQ=="

	DefaultBaseURL       = "https://www.everymancinema.com"
	DefaultAssetsBaseURL = "https://cms-assets.webediamovies.pro/prod/everyman"
	DefaultTimeZone      = "Europe/London"

	DefaultDaysAhead = 21

	DefaultServerPort = 3000
)

// DefaultTheatersRanked is the default theater preference order. Position in
// this list decides both display order and which theater "claims" a movie
// first for deduplication.
var DefaultTheatersRanked = []string{
	"G029X", // Stratford
	"X0X5P", // King's Cross
	"X11NT", // Broadgate
	"X0VPB", // Canary Wharf
}

// Global configuration variables
var (
	// CircuitID identifies the cinema chain in the box office API.
	CircuitID int
	// WebsiteID is the opaque website identifier the schedule API expects.
	WebsiteID string
	// BaseURL is the origin of the upstream site.
	BaseURL string
	// AssetsBaseURL is the CDN prefix hosting the static site's build output.
	AssetsBaseURL string
	// TimeZone is the IANA zone annotated on every theater in schedule requests.
	TimeZone string
	// Theaters is the ranked list of theater IDs to query by default.
	Theaters []string
	// DaysAhead is how far ahead of today the default date window reaches.
	DaysAhead int
	// DebugDir is where raw upstream responses get dumped; empty disables dumps.
	DebugDir string
	// ServerPort is the web UI's listen port.
	ServerPort int
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("listings.circuit_id", DefaultCircuitID)
	viper.SetDefault("listings.website_id", DefaultWebsiteID)
	viper.SetDefault("listings.base_url", DefaultBaseURL)
	viper.SetDefault("listings.assets_base_url", DefaultAssetsBaseURL)
	viper.SetDefault("listings.timezone", DefaultTimeZone)
	viper.SetDefault("listings.theaters", DefaultTheatersRanked)
	viper.SetDefault("listings.days_ahead", DefaultDaysAhead)
	viper.SetDefault("server.port", DefaultServerPort)

	CircuitID = viper.GetInt("listings.circuit_id")
	WebsiteID = viper.GetString("listings.website_id")
	BaseURL = viper.GetString("listings.base_url")
	AssetsBaseURL = viper.GetString("listings.assets_base_url")
	TimeZone = viper.GetString("listings.timezone")
	Theaters = viper.GetStringSlice("listings.theaters")
	DaysAhead = viper.GetInt("listings.days_ahead")
	DebugDir = viper.GetString("debug.dir")
	ServerPort = viper.GetInt("server.port")
}

// SetDebugDir sets the raw-response dump directory.
func SetDebugDir(dir string) {
	DebugDir = dir
}
