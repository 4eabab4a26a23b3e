package listings

import (
	"encoding/json"

	"github.com/joshhunt/marquee/internal/errors"
)

// Metadata extractors. The static query collection is a bag of loosely-typed
// documents whose order and composition change between site builds; exactly
// one document is expected to carry the movie nodes and one the theater
// nodes. All upstream shape assumptions live here so shape drift fails loudly
// at this seam instead of corrupting the join downstream.

// MoviesMetadata locates the movie metadata nodes within the static query
// collection.
func MoviesMetadata(queries StaticQueries) ([]MovieNode, error) {
	for _, raw := range queries {
		var doc moviesDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			// Not every document matches this shape; keep looking.
			continue
		}
		if len(doc.Data.AllMovie.Nodes) > 0 {
			return doc.Data.AllMovie.Nodes, nil
		}
	}
	return nil, errors.NewNotFoundError("movie metadata", "")
}

// TheatersMetadata locates the theater metadata nodes within the static query
// collection. The type discriminator on the first node guards against other
// documents that happen to carry an allTheater field.
func TheatersMetadata(queries StaticQueries) ([]TheaterNode, error) {
	for _, raw := range queries {
		var doc theatersDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		nodes := doc.Data.AllTheater.Nodes
		if len(nodes) > 0 && nodes[0].Typename == "Theater" {
			return nodes, nil
		}
	}
	return nil, errors.NewNotFoundError("theater metadata", "")
}
