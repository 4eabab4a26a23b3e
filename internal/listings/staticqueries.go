package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/joshhunt/marquee/internal/cache"
)

// StaticQueries fetches the full set of pre-rendered query documents for the
// given site build. The cache key incorporates the build hash, so a redeploy
// invalidates this layer along with the hash itself. On a miss the page-data
// manifest is fetched first, then every referenced query document in
// parallel; any single failure fails the whole load, there are no partial
// collections.
func (c *Client) StaticQueries(ctx context.Context, siteHash string) (StaticQueries, time.Time, error) {
	cacheKey := "static-queries-" + siteHash

	return cachedFetch(c, "static_query_cache", cacheKey, cache.StaticQueryTTL, func() (StaticQueries, error) {
		var manifest pageData
		manifestURL := fmt.Sprintf("%s/%s/public/page-data/film-listing/page-data.json", c.assetsBaseURL, siteHash)
		if err := c.getJSON(ctx, "film-listing-page-data", manifestURL, &manifest); err != nil {
			return nil, err
		}

		queries := make(StaticQueries, len(manifest.StaticQueryHashes))
		errs := make([]error, len(manifest.StaticQueryHashes))

		var wg sync.WaitGroup
		for i, queryHash := range manifest.StaticQueryHashes {
			wg.Add(1)
			go func(i int, queryHash string) {
				defer wg.Done()

				var doc json.RawMessage
				name := "film-listing-static-query-" + queryHash
				url := fmt.Sprintf("%s/%s/public/page-data/sq/d/%s.json", c.assetsBaseURL, siteHash, queryHash)
				if err := c.getJSON(ctx, name, url, &doc); err != nil {
					errs[i] = err
					return
				}
				queries[i] = doc
			}(i, queryHash)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}

		return queries, nil
	})
}
