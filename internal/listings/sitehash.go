package listings

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/joshhunt/marquee/internal/cache"
	"github.com/joshhunt/marquee/internal/errors"
)

const siteHashCacheKey = "static-site-hash"

// buildHashPattern captures the build hash segment from the CDN asset path
// the film listing page prefetches, e.g.
// cms-assets.webediamovies.pro/prod/everyman/{HASH}/public/...
var buildHashPattern = regexp.MustCompile(`cms-assets\.webediamovies\.pro/prod/everyman/([A-Za-z0-9]+)/public`)

// SiteHash resolves the current static-site build hash by scraping the film
// listing page for a <link> whose href embeds it. The hash identifies the
// deployed build, so it is cached for a day; a site redeploy shows up on the
// next expiry. Also returns when the hash was stored.
func (c *Client) SiteHash(ctx context.Context) (string, time.Time, error) {
	return cachedFetch(c, "site_hash_cache", siteHashCacheKey, cache.SiteHashTTL, func() (string, error) {
		page, err := c.getText(ctx, "film-listing-html-page", c.baseURL+"/film-listing/")
		if err != nil {
			return "", err
		}

		hash := extractBuildHash(page)
		if hash == "" {
			return "", errors.NewNotFoundError("site build hash", "")
		}
		return hash, nil
	})
}

// extractBuildHash walks the page's link elements and returns the first href
// matching the CDN build path, or "" when none match.
func extractBuildHash(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var hash string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if hash != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "link" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if match := buildHashPattern.FindStringSubmatch(attr.Val); match != nil {
					hash = match[1]
					return
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return hash
}
