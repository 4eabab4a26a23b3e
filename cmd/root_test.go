package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/joshhunt/marquee/internal/cache"
	"github.com/joshhunt/marquee/internal/config"
)

func TestCacheTableForLayerMatchesWhitelist(t *testing.T) {
	for layer, table := range cacheTableForLayer {
		assert.True(t, cache.ValidCacheTableNames[table],
			"layer %q maps to unknown cache table %q", layer, table)
	}
}

func TestUpdateGlobalConfig(t *testing.T) {
	cli := &CLI{
		CacheDBFile: "/tmp/test-cache.db",
		PrefsFile:   "/tmp/test-prefs.json",
		DebugDir:    "/tmp/debug",
	}

	updateGlobalConfig(cli)

	assert.Equal(t, "/tmp/test-cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "/tmp/test-prefs.json", viper.GetString("prefs.file"))
	assert.Equal(t, "/tmp/debug", config.DebugDir)
}
