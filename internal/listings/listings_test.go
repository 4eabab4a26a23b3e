package listings

import (
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/joshhunt/marquee/internal/cache"
	"github.com/joshhunt/marquee/internal/ratelimit"
	"github.com/joshhunt/marquee/internal/testutil"
	"github.com/stretchr/testify/require"
)

// newIPv4TestServer starts a test server bound to IPv4 loopback to avoid IPv6 listener issues.
func newIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	t.Cleanup(server.Close)
	return server
}

func newTestCache(t *testing.T) *cache.DB {
	t.Helper()

	env := testutil.NewTestEnv(t)
	db, err := cache.Open(filepath.Join(env.RootDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close cache database: %v", err)
		}
	})

	return db
}

// newTestClient builds a client pointing both the site and the asset CDN at
// the given test server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	return New(newTestCache(t),
		WithHTTPClient(server.Client()),
		WithBaseURL(server.URL),
		WithAssetsBaseURL(server.URL+"/assets"),
		WithRateLimiter(ratelimit.NewWithBurst("test", 1000, 1000)),
	)
}
