package search

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/arkival/ragcore/ai"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
)

// Merge weights for the hybrid strategy. Keyword evidence carries more
// weight than semantic proximity; documents found by both get the sum.
const (
	keywordWeight      = 0.6
	semanticWeight     = 0.4
	qualityBoostFactor = 0.2
)

// Searcher runs keyword, semantic and hybrid retrieval over a document store.
type Searcher struct {
	store    *index.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over the given store and embedder.
func NewSearcher(store *index.Store, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs a knowledge search with the given options.
// In hybrid mode the keyword and semantic strategies run concurrently over
// the store (both are read-only) and their results are merged; otherwise
// only the keyword strategy runs. Results are sorted by score descending and
// truncated to opts.Limit.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs a search with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, opts Options, monitor SearchMonitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	if !opts.Hybrid {
		results := s.keywordSearch(query, opts)
		monitor.AfterKeywordSearch(results)
		results = truncate(results, opts.Limit)
		monitor.Finish(results)
		return results, nil
	}

	var (
		keywordResults  []core.SearchResult
		semanticResults []core.SearchResult
	)

	// The two strategies are independent read-only passes over the store,
	// so they can run in parallel without locking between them.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keywordResults = s.keywordSearch(query, opts)
		return nil
	})
	g.Go(func() error {
		var err error
		semanticResults, err = s.semanticSearch(gctx, query, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	monitor.AfterKeywordSearch(keywordResults)
	monitor.AfterSemanticSearch(semanticResults)

	results := s.merge(keywordResults, semanticResults, monitor)
	results = truncate(results, opts.Limit)
	monitor.Finish(results)

	return results, nil
}

// merge combines the two result sets. Keyword-only matches contribute
// score*0.6 and keep their exact tag; semantic-only matches contribute
// score*0.4 and keep their semantic tag; documents found by both strategies
// have the weighted contributions summed and are retagged hybrid. Every
// merged score then gets a quality boost.
func (s *Searcher) merge(keyword, semantic []core.SearchResult, monitor SearchMonitor) []core.SearchResult {
	merged := make(map[core.ID]*core.SearchResult, len(keyword)+len(semantic))
	order := make([]core.ID, 0, len(keyword)+len(semantic))

	for _, r := range keyword {
		r.Score *= keywordWeight
		merged[r.Document.Id] = &r
		order = append(order, r.Document.Id)
	}

	for _, r := range semantic {
		if existing, ok := merged[r.Document.Id]; ok {
			existing.Score += r.Score * semanticWeight
			existing.MatchType = core.MatchHybrid
			existing.Explanation = existing.Explanation + "; " + r.Explanation
			monitor.HybridHit(existing.Document)
			continue
		}
		r.Score *= semanticWeight
		merged[r.Document.Id] = &r
		order = append(order, r.Document.Id)
	}

	results := make([]core.SearchResult, 0, len(merged))
	for _, id := range order {
		r := merged[id]
		quality := core.QualityScore(r.Document.Metadata.Quality)
		r.Score *= 1 + quality*qualityBoostFactor

		switch r.MatchType {
		case core.MatchExact:
			monitor.KeywordHit(r.Document)
		case core.MatchSemantic:
			monitor.SemanticHit(r.Document)
		}
		results = append(results, *r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

func truncate(results []core.SearchResult, limit int) []core.SearchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
