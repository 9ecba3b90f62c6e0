package search

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
)

// keywordSearch runs TF-IDF scoring over the global inverted index.
//
// For each query term found in a candidate document:
//
//	tf  = positions of term in the document / distinct terms in the document
//	idf = ln(totalDocuments / documentsContainingTerm)
//
// Contributions are summed across query terms. Only filter-qualifying
// documents with a non-zero score are returned, sorted descending.
func (s *Searcher) keywordSearch(query string, opts Options) []core.SearchResult {
	terms := index.Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	total := s.store.Len()
	if total == 0 {
		return nil
	}

	scores := make(map[core.ID]float64)
	matched := make(map[core.ID][]string)

	for _, term := range terms {
		ids := s.store.PostingList(term)
		if len(ids) == 0 {
			continue
		}
		idf := math.Log(float64(total) / float64(len(ids)))

		for _, id := range ids {
			doc, ok := s.store.Get(id)
			if !ok || !opts.admits(doc) {
				continue
			}
			if len(doc.TermPositions) == 0 {
				continue
			}

			tf := float64(len(doc.TermPositions[term])) / float64(len(doc.TermPositions))
			scores[id] += tf * idf
			matched[id] = append(matched[id], term)
		}
	}

	results := make([]core.SearchResult, 0, len(scores))
	for id, score := range scores {
		if score <= 0 {
			continue
		}
		doc, ok := s.store.Get(id)
		if !ok {
			continue
		}
		results = append(results, core.SearchResult{
			Document:    doc,
			Score:       score,
			MatchType:   core.MatchExact,
			Highlights:  highlightMatches(doc.Content, terms),
			Explanation: fmt.Sprintf("matched terms: %s", strings.Join(matched[id], ", ")),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
