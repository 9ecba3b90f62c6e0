package search

import (
	"context"
	"math"
	"testing"

	"github.com/arkival/ragcore/ai/mock"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearcher(t *testing.T) {
	store := index.NewStore()
	embedder := mock.NewMockEmbedder()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(store, embedder)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(store, embedder, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewSearcher(nil, embedder)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(store, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSearch_SingleStrategyKeepsProvenance(t *testing.T) {
	// kwDoc matches the query term but is semantically orthogonal; semDoc
	// has similarity 0.6 but never contains the term. Neither is found by
	// both strategies, so neither may be retagged hybrid.
	queryVec := unitVec(map[int]float64{0: 1})
	kwDoc := newDoc("kw", "zookeeper coordinates distributed locks.",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{2: 1}), goodQuality)
	semDoc := newDoc("sem", "consensus services coordinate cluster state.",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{0: 0.6, 1: 0.8}), goodQuality)

	searcher, _ := newTestSearcher(t, kwDoc, semDoc)
	searcher.embedder = &mock.MockEmbedder{
		EmbedTextFunc: func(context.Context, string) ([]float32, error) {
			return queryVec, nil
		},
	}

	results, err := searcher.Search(context.Background(), "zookeeper", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	tags := map[core.ID]core.MatchType{}
	for _, r := range results {
		tags[r.Document.Id] = r.MatchType
	}
	assert.Equal(t, core.MatchExact, tags[kwDoc.Id])
	assert.Equal(t, core.MatchSemantic, tags[semDoc.Id])
}

func TestSearch_BothStrategiesRetagHybrid(t *testing.T) {
	content := "Zookeeper coordinates distributed locks."
	both := newDoc("both", content,
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{0: 1}), goodQuality)
	// A second doc keeps idf above zero for the query term.
	filler := newDoc("filler", "etcd stores cluster configuration.",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{4: 1}), goodQuality)

	searcher, _ := newTestSearcher(t, both, filler)
	searcher.embedder = &mock.MockEmbedder{
		EmbedTextFunc: func(context.Context, string) ([]float32, error) {
			return unitVec(map[int]float64{0: 1}), nil
		},
	}

	results, err := searcher.Search(context.Background(), "zookeeper", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, core.MatchHybrid, r.MatchType)
	assert.Contains(t, r.Explanation, "matched terms")
	assert.Contains(t, r.Explanation, "semantic similarity")

	// keyword: tf = 1/4 distinct terms, idf = ln(2/1); semantic: 1.0;
	// weighted sum then quality boosted.
	quality := core.QualityScore(goodQuality)
	keywordScore := (1.0 / 4.0) * math.Log(2)
	want := (keywordScore*keywordWeight + 1.0*semanticWeight) * (1 + quality*qualityBoostFactor)
	assert.InDelta(t, want, r.Score, 1e-5)
}

func TestSearch_HybridCompleteness(t *testing.T) {
	// Every document found by either strategy appears exactly once.
	queryVec := unitVec(map[int]float64{0: 1})
	docs := []*core.KnowledgeDocument{
		newDoc("kw only", "zookeeper ensembles need odd node counts.",
			core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{3: 1}), goodQuality),
		newDoc("sem only", "consensus requires a quorum of voters.",
			core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{0: 0.9, 1: 0.43589}), goodQuality),
		newDoc("both", "zookeeper elects a leader via consensus votes.",
			core.TypeBestPractice, core.SourceForum, queryVec, goodQuality),
	}

	searcher, _ := newTestSearcher(t, docs...)
	searcher.embedder = &mock.MockEmbedder{
		EmbedTextFunc: func(context.Context, string) ([]float32, error) {
			return queryVec, nil
		},
	}

	results, err := searcher.Search(context.Background(), "zookeeper", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 3)

	seen := map[core.ID]int{}
	for _, r := range results {
		seen[r.Document.Id]++
	}
	for _, doc := range docs {
		assert.Equal(t, 1, seen[doc.Id], "document %q must appear exactly once", doc.Title)
	}
}

func TestSearch_QualityBoostReranks(t *testing.T) {
	// Same keyword score, different quality: the higher-quality document
	// must rank first after the boost.
	perfect := core.QualityMetrics{Reliability: 1, Relevance: 1, Recency: 1, Authority: 1, Completeness: 1}
	plain := newDoc("plain", "sharding splits data across nodes",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{7: 1}), goodQuality)
	polished := newDoc("polished", "sharding spreads load across machines",
		core.TypeBestPractice, core.SourceInternal, unitVec(map[int]float64{8: 1}), perfect)
	filler := newDoc("filler", "compaction reclaims disk space",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{10: 1}), goodQuality)

	searcher, _ := newTestSearcher(t, plain, polished, filler)
	searcher.embedder = &mock.MockEmbedder{
		EmbedTextFunc: func(context.Context, string) ([]float32, error) {
			return unitVec(map[int]float64{9: 1}), nil
		},
	}

	opts := DefaultOptions()
	opts.MinQuality = 0

	results, err := searcher.Search(context.Background(), "sharding", opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, polished.Id, results[0].Document.Id)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_LimitTruncates(t *testing.T) {
	var docs []*core.KnowledgeDocument
	contents := []string{
		"replication copies data. replication adds safety.",
		"replication lags behind writes sometimes.",
		"replication factor three is common.",
		"replication needs monitoring everywhere.",
	}
	for i, content := range contents {
		docs = append(docs, newDoc(string(rune('a'+i)), content,
			core.TypeBestPractice, core.SourceForum, nil, goodQuality))
	}

	searcher, _ := newTestSearcher(t, docs...)

	opts := DefaultOptions()
	opts.Limit = 2

	results, err := searcher.Search(context.Background(), "replication", opts)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_MonitorCallbacks(t *testing.T) {
	content := "Zookeeper coordinates distributed locks."
	doc := newDoc("doc", content, core.TypeBestPractice, core.SourceForum,
		unitVec(map[int]float64{0: 1}), goodQuality)
	filler := newDoc("filler", "etcd stores cluster configuration.",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{4: 1}), goodQuality)

	searcher, _ := newTestSearcher(t, doc, filler)
	searcher.embedder = &mock.MockEmbedder{
		EmbedTextFunc: func(context.Context, string) ([]float32, error) {
			return unitVec(map[int]float64{0: 1}), nil
		},
	}

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(context.Background(), "zookeeper", DefaultOptions(), monitor)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "zookeeper", monitor.started)
	assert.Equal(t, 1, monitor.keywordResults)
	assert.Equal(t, 1, monitor.semanticResults)
	assert.Equal(t, 1, monitor.hybridHits)
	assert.Equal(t, 1, monitor.finished)
}

type recordingMonitor struct {
	started         string
	keywordResults  int
	semanticResults int
	keywordHits     int
	semanticHits    int
	hybridHits      int
	finished        int
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)                            { m.started = query }
func (m *recordingMonitor) AfterKeywordSearch(rs []core.SearchResult)     { m.keywordResults = len(rs) }
func (m *recordingMonitor) AfterSemanticSearch(rs []core.SearchResult)    { m.semanticResults = len(rs) }
func (m *recordingMonitor) KeywordHit(_ *core.KnowledgeDocument)          { m.keywordHits++ }
func (m *recordingMonitor) SemanticHit(_ *core.KnowledgeDocument)         { m.semanticHits++ }
func (m *recordingMonitor) HybridHit(_ *core.KnowledgeDocument)           { m.hybridHits++ }
func (m *recordingMonitor) Finish(rs []core.SearchResult)                 { m.finished = len(rs) }

func TestDotProduct_Bounds(t *testing.T) {
	a := unitVec(map[int]float64{0: 0.6, 1: 0.8})
	b := unitVec(map[int]float64{0: 1})

	assert.InDelta(t, 0.6, dotProduct(a, b), 1e-6)
	assert.InDelta(t, 1.0, dotProduct(a, a), 1e-6)

	neg := unitVec(map[int]float64{0: -1})
	sim := dotProduct(a, neg)
	assert.GreaterOrEqual(t, sim, -1.0-1e-9)
	assert.LessOrEqual(t, sim, 1.0+1e-9)
	assert.True(t, math.Abs(sim+0.6) < 1e-6)
}
