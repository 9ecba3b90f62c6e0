package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/arkival/ragcore/core"
)

// similarityThreshold filters semantic matches. Vectors are L2-normalized at
// generation time, so cosine similarity reduces to a dot product.
const similarityThreshold = 0.5

// semanticSearch embeds the query with the same provider used at ingestion
// and scans stored vectors for cosine similarity above the threshold.
func (s *Searcher) semanticSearch(ctx context.Context, query string, opts Options) ([]core.SearchResult, error) {
	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	var results []core.SearchResult
	s.store.ForEach(func(doc *core.KnowledgeDocument) bool {
		if !opts.admits(doc) {
			return true
		}

		similarity := dotProduct(queryVector, doc.Vector)
		if similarity > similarityThreshold {
			results = append(results, core.SearchResult{
				Document:    doc,
				Score:       similarity,
				MatchType:   core.MatchSemantic,
				Highlights:  leadingSentences(doc.Content),
				Explanation: fmt.Sprintf("semantic similarity %.2f", similarity),
			})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float64 {
	var sum float64
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
