// Package listings fetches and aggregates a cinema chain's film listing data.
//
// Three upstream sources get joined into one result: movie metadata and
// theater metadata recovered from the static site's build output, and
// per-theater/per-movie/per-day showtimes from the box office API. Each
// source is cached independently with its own TTL; the aggregate itself is
// recomputed on every call.
package listings

import (
	"net/http"
	"time"

	"github.com/joshhunt/marquee/internal/cache"
	"github.com/joshhunt/marquee/internal/config"
	"github.com/joshhunt/marquee/internal/ratelimit"
)

const defaultRatePerSecond = 4

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client runs the aggregation pipeline against one upstream site.
type Client struct {
	httpClient    HTTPDoer
	cache         *cache.DB
	rateLimiter   *ratelimit.Limiter
	baseURL       string
	assetsBaseURL string
	circuitID     int
	websiteID     string
	timeZone      string
	debugDir      string
	now           func() time.Time
}

// New creates a listings client backed by the given cache. Upstream
// identifiers default to the configured values.
func New(cacheDB *cache.DB, opts ...Option) *Client {
	client := &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		cache:         cacheDB,
		rateLimiter:   ratelimit.New("listings", defaultRatePerSecond),
		baseURL:       config.BaseURL,
		assetsBaseURL: config.AssetsBaseURL,
		circuitID:     config.CircuitID,
		websiteID:     config.WebsiteID,
		timeZone:      config.TimeZone,
		debugDir:      config.DebugDir,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets the upstream site origin.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = trimSlash(base)
		}
	}
}

// WithAssetsBaseURL sets the CDN prefix hosting the static site's build output.
func WithAssetsBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.assetsBaseURL = trimSlash(base)
		}
	}
}

// WithDebugDir sets the directory raw upstream responses are dumped to.
// An empty string disables dumps.
func WithDebugDir(dir string) Option {
	return func(client *Client) {
		client.debugDir = dir
	}
}

// WithCircuitID sets the cinema chain identifier sent to the box office API.
func WithCircuitID(id int) Option {
	return func(client *Client) {
		if id != 0 {
			client.circuitID = id
		}
	}
}

// WithWebsiteID sets the opaque website identifier the schedule API expects.
func WithWebsiteID(id string) Option {
	return func(client *Client) {
		if id != "" {
			client.websiteID = id
		}
	}
}

// WithTimeZone sets the IANA zone annotated on theaters in schedule requests.
func WithTimeZone(zone string) Option {
	return func(client *Client) {
		if zone != "" {
			client.timeZone = zone
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(client *Client) {
		if now != nil {
			client.now = now
		}
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
