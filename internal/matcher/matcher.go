// Package matcher resolves free text to a scripted intent via nearest-neighbor
// search over question embeddings.
package matcher

import (
	"github.com/rs/zerolog"

	"supportbot/internal/catalog"
	"supportbot/internal/domain"
	"supportbot/internal/index"
)

// Matcher combines the embedder, the vector index and the intent catalog.
type Matcher struct {
	embedder  domain.Embedder
	index     *index.Flat
	catalog   *catalog.Catalog
	threshold float32
	log       zerolog.Logger
}

// New creates a Matcher. The threshold is a squared L2 distance; a top-1 hit
// at or above it counts as no match.
func New(embedder domain.Embedder, idx *index.Flat, cat *catalog.Catalog, threshold float32, log zerolog.Logger) *Matcher {
	return &Matcher{embedder: embedder, index: idx, catalog: cat, threshold: threshold, log: log}
}

// Match returns the catalog entry nearest to text, or nil when the nearest
// question is farther than the threshold. Embedding and search failures are
// logged and reported as no match so the caller can fall back to the
// generative responder.
func (m *Matcher) Match(text string) *domain.QuestionEntry {
	vec, err := m.embedder.Embed(text)
	if err != nil {
		m.log.Error().Err(err).Str("stage", "embed").Msg("intent matching failed")
		return nil
	}
	dists, positions, err := m.index.Search(vec, 1)
	if err != nil {
		m.log.Error().Err(err).Str("stage", "search").Msg("intent matching failed")
		return nil
	}
	if len(positions) == 0 {
		return nil
	}
	best, dist := positions[0], dists[0]
	if dist >= m.threshold {
		m.log.Info().Float32("distance", dist).Msg("no intent matched within threshold")
		return nil
	}
	entry, ok := m.catalog.At(best)
	if !ok {
		m.log.Error().Int("position", best).Msg("index position missing from catalog")
		return nil
	}
	m.log.Info().
		Str("intent", entry.Intent).
		Str("sub_intent", entry.SubIntent).
		Float32("distance", dist).
		Msg("matched intent")
	return &entry
}
