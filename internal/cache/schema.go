package cache

// SQL schemas for cache tables.
// All cache tables use "cache_key" as the primary key column for consistency.

// SiteHashCacheSchema holds the current static-site build hash (TTL one day).
const SiteHashCacheSchema = `
CREATE TABLE IF NOT EXISTS site_hash_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_site_hash_cached_at ON site_hash_cache(cached_at);
`

// StaticQueryCacheSchema holds static query documents keyed by build hash (TTL two days).
const StaticQueryCacheSchema = `
CREATE TABLE IF NOT EXISTS static_query_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_static_query_cached_at ON static_query_cache(cached_at);
`

// ScheduleCacheSchema holds box office schedule responses keyed by the full
// query plus movie ID set (TTL one hour, showtimes change often).
const ScheduleCacheSchema = `
CREATE TABLE IF NOT EXISTS schedule_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_schedule_cached_at ON schedule_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SiteHashCacheSchema,
	StaticQueryCacheSchema,
	ScheduleCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names.
// Used to prevent SQL injection when interpolating table names.
var ValidCacheTableNames = map[string]bool{
	"site_hash_cache":    true,
	"static_query_cache": true,
	"schedule_cache":     true,
}
