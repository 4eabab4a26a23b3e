package listings

import (
	"encoding/json"
	"testing"

	"github.com/joshhunt/marquee/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawDocs(docs ...string) StaticQueries {
	queries := make(StaticQueries, 0, len(docs))
	for _, doc := range docs {
		queries = append(queries, json.RawMessage(doc))
	}
	return queries
}

const moviesDoc = `{"data":{"allMovie":{"nodes":[
	{"id":"m1","path":"/foo","title":"Foo"},
	{"id":"m2","path":"/bar","title":"Bar"}
]}}}`

const theatersDoc = `{"data":{"allTheater":{"nodes":[
	{"__typename":"Theater","id":"t1","name":"Stratford"},
	{"__typename":"Theater","id":"t2","name":"King's Cross"}
]}}}`

func TestMoviesMetadata(t *testing.T) {
	t.Run("finds the movie document among unrelated ones", func(t *testing.T) {
		queries := rawDocs(
			`{"data":{"settings":{"adsLocation":[]}}}`,
			`{"data":{"allMovie":{"nodes":[]}}}`,
			moviesDoc,
		)

		movies, err := MoviesMetadata(queries)
		require.NoError(t, err)
		require.Len(t, movies, 2)
		assert.Equal(t, "m1", movies[0].ID)
		assert.Equal(t, "Foo", movies[0].Title)
		assert.Equal(t, "/bar", movies[1].Path)
	})

	t.Run("documents with conflicting shapes are skipped", func(t *testing.T) {
		queries := rawDocs(
			`{"data":{"allMovie":"not an object"}}`,
			moviesDoc,
		)

		movies, err := MoviesMetadata(queries)
		require.NoError(t, err)
		assert.Len(t, movies, 2)
	})

	t.Run("no movie document is fatal", func(t *testing.T) {
		queries := rawDocs(`{"data":{"allMovie":{"nodes":[]}}}`, theatersDoc)

		_, err := MoviesMetadata(queries)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("empty collection", func(t *testing.T) {
		_, err := MoviesMetadata(nil)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestTheatersMetadata(t *testing.T) {
	t.Run("finds the theater document", func(t *testing.T) {
		queries := rawDocs(moviesDoc, theatersDoc)

		theaters, err := TheatersMetadata(queries)
		require.NoError(t, err)
		require.Len(t, theaters, 2)
		assert.Equal(t, "t1", theaters[0].ID)
		assert.Equal(t, "Stratford", theaters[0].Name)
	})

	t.Run("requires the Theater type discriminator", func(t *testing.T) {
		queries := rawDocs(`{"data":{"allTheater":{"nodes":[{"__typename":"Venue","id":"t1"}]}}}`)

		_, err := TheatersMetadata(queries)
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("no theater document is fatal", func(t *testing.T) {
		_, err := TheatersMetadata(rawDocs(moviesDoc))
		assert.True(t, errors.IsNotFoundError(err))
	})
}
