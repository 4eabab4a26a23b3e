package prefs

import (
	"path/filepath"
	"testing"

	"github.com/joshhunt/marquee/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)

	p, err := Load(env.Path("does-not-exist.json"))
	require.NoError(t, err)
	assert.Empty(t, p.SeenMovieIDs)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := filepath.Join(env.RootDir(), "nested", "prefs.json")

	p := &Prefs{SeenMovieIDs: []string{"m1", "m2"}}
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, loaded.SeenMovieIDs)
}

func TestLoadMalformedFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("prefs.json", "{not json")

	_, err := Load(env.Path("prefs.json"))
	assert.Error(t, err)
}

func TestSeenSetAndSetSeen(t *testing.T) {
	p := &Prefs{SeenMovieIDs: []string{"m1", "m3"}}

	seen := p.SeenSet()
	assert.True(t, seen["m1"])
	assert.False(t, seen["m2"])

	seen["m2"] = true
	seen["m1"] = false
	p.SetSeen(seen)
	assert.Equal(t, []string{"m2", "m3"}, p.SeenMovieIDs)
}
