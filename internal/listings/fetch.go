package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// do performs a single upstream request. No retries: a failed call or non-2xx
// status propagates to the caller, who owns retry policy.
func (c *Client) do(ctx context.Context, method, name, url string, body []byte) ([]byte, string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s response: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := respBody
		if len(preview) > 512 {
			preview = preview[:512]
		}
		return nil, "", fmt.Errorf("%s: unexpected status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(preview)))
	}

	contentType := resp.Header.Get("Content-Type")
	c.writeDebug(name, contentType, respBody)

	return respBody, contentType, nil
}

// getJSON GETs url and decodes the JSON response into target.
func (c *Client) getJSON(ctx context.Context, name, url string, target any) error {
	body, contentType, err := c.do(ctx, http.MethodGet, name, url, nil)
	if err != nil {
		return err
	}
	if !isJSONContentType(contentType) {
		return fmt.Errorf("%s: expected JSON response, got %q", name, contentType)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decoding %s response: %w", name, err)
	}
	return nil
}

// getText GETs url and returns the response body as text.
func (c *Client) getText(ctx context.Context, name, url string) (string, error) {
	body, _, err := c.do(ctx, http.MethodGet, name, url, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postJSON POSTs payload to url and decodes the JSON response into target.
func (c *Client) postJSON(ctx context.Context, name, url string, payload, target any) error {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", name, err)
	}

	respBody, contentType, err := c.do(ctx, http.MethodPost, name, url, reqBody)
	if err != nil {
		return err
	}
	if !isJSONContentType(contentType) {
		return fmt.Errorf("%s: expected JSON response, got %q", name, contentType)
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("decoding %s response: %w", name, err)
	}
	return nil
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(contentType, "json")
}

// writeDebug dumps a raw upstream response for diagnostics. Best-effort: a
// failed write is logged and never surfaces to the caller.
func (c *Client) writeDebug(name, contentType string, body []byte) {
	if c.debugDir == "" {
		return
	}

	filename := name
	if isJSONContentType(contentType) && !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}

	if err := os.MkdirAll(c.debugDir, 0o755); err != nil {
		slog.Warn("Failed to create debug directory", "dir", c.debugDir, "error", err)
		return
	}

	path := filepath.Join(c.debugDir, filename)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		slog.Warn("Failed to write debug response", "path", path, "error", err)
	}
}

// cachedFetch looks up key in the given cache table, falling back to fetch on
// a miss or expiry. Returns the value plus when it was stored; fresh fetches
// report the store time directly instead of re-reading the cache. A failed
// cache write degrades to an uncached fetch rather than failing the call.
func cachedFetch[T any](c *Client, table, key string, ttl time.Duration, fetch func() (T, error)) (T, time.Time, error) {
	var zero T

	cached, storedAt, ok, err := c.cache.Get(table, key, ttl)
	if err != nil {
		return zero, time.Time{}, fmt.Errorf("cache lookup failed: %w", err)
	}
	if ok {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err != nil {
			slog.Warn("Failed to unmarshal cached data, will refetch", "table", table, "key", key, "error", err)
		} else {
			slog.Debug("Cache hit", "table", table, "key", key)
			return result, storedAt, nil
		}
	}

	slog.Debug("Cache miss, fetching data", "table", table, "key", key)
	data, err := fetch()
	if err != nil {
		return zero, time.Time{}, err
	}

	storedAt = c.now().UTC()
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", table, "key", key, "error", err)
	} else if at, err := c.cache.Set(table, key, string(jsonData)); err != nil {
		slog.Warn("Failed to cache data", "table", table, "key", key, "error", err)
	} else {
		storedAt = at
	}

	return data, storedAt, nil
}
