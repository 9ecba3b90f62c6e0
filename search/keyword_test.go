package search

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/arkival/ragcore/ai/mock"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goodQuality scores 0.745, above the 0.7 default threshold.
var goodQuality = core.QualityMetrics{
	Reliability:  0.9,
	Relevance:    0.5,
	Recency:      0.8,
	Authority:    0.8,
	Completeness: 0.7,
}

// unitVec builds a 384-dimensional unit vector from sparse components.
func unitVec(components map[int]float64) []float32 {
	v := make([]float32, core.VectorDim)
	var norm float64
	for dim, val := range components {
		v[dim] = float32(val)
		norm += val * val
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for dim := range components {
			v[dim] = float32(float64(v[dim]) / norm)
		}
	}
	return v
}

func newDoc(title, content string, typ core.DocumentType, source core.SourceType, vector []float32, quality core.QualityMetrics) *core.KnowledgeDocument {
	if vector == nil {
		vector = make([]float32, core.VectorDim)
	}
	return &core.KnowledgeDocument{
		Id:             core.IDFromContent(string(source) + "|" + title),
		Type:           typ,
		Title:          title,
		Content:        content,
		Source:         source,
		Metadata:       core.DocumentMetadata{Author: "tester", Quality: quality},
		Vector:         vector,
		RelevanceScore: 0.5,
		CreatedAt:      time.Now().UTC(),
	}
}

func newTestSearcher(t *testing.T, docs ...*core.KnowledgeDocument) (*Searcher, *index.Store) {
	t.Helper()
	store := index.NewStore()
	for _, doc := range docs {
		require.NoError(t, store.Add(doc))
	}
	searcher, err := NewSearcher(store, mock.NewMockEmbedder())
	require.NoError(t, err)
	return searcher, store
}

func TestKeywordSearch_RanksByTermFrequency(t *testing.T) {
	// Doc X contains "idempotent" twice, Y once, Z not at all.
	docX := newDoc("X", "Idempotent retries are safe. Idempotent consumers dedupe.",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)
	docY := newDoc("Y", "Idempotent retries are safe. Consumers should dedupe.",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)
	docZ := newDoc("Z", "Caching strategies for read heavy workloads.",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)

	searcher, _ := newTestSearcher(t, docX, docY, docZ)

	results := searcher.keywordSearch("idempotent", DefaultOptions())
	require.Len(t, results, 2, "non-containing doc must not appear")

	assert.Equal(t, docX.Id, results[0].Document.Id)
	assert.Equal(t, docY.Id, results[1].Document.Id)
	assert.Greater(t, results[0].Score, results[1].Score)

	for _, r := range results {
		assert.Equal(t, core.MatchExact, r.MatchType)
		assert.NotEmpty(t, r.Highlights)
		assert.Contains(t, r.Explanation, "idempotent")
	}
}

func TestKeywordSearch_TFIDFValue(t *testing.T) {
	docA := newDoc("A", "pooling reduces handshake overhead",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)
	docB := newDoc("B", "batching amortizes request costs",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)

	searcher, _ := newTestSearcher(t, docA, docB)

	results := searcher.keywordSearch("pooling", DefaultOptions())
	require.Len(t, results, 1)

	// tf = 1/4 distinct terms, idf = ln(2/1)
	want := (1.0 / 4.0) * math.Log(2)
	assert.InDelta(t, want, results[0].Score, 1e-9)
}

func TestKeywordSearch_Filters(t *testing.T) {
	match := newDoc("match", "idempotent handlers",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)
	wrongType := newDoc("wrong type", "idempotent consumers",
		core.TypeTutorial, core.SourceForum, nil, goodQuality)
	wrongSource := newDoc("wrong source", "idempotent endpoints",
		core.TypeBestPractice, core.SourceInternal, nil, goodQuality)
	lowQuality := newDoc("low quality", "idempotent retries",
		core.TypeBestPractice, core.SourceForum, nil, core.QualityMetrics{Relevance: 0.5})

	searcher, _ := newTestSearcher(t, match, wrongType, wrongSource, lowQuality)

	opts := Options{
		Types:      []core.DocumentType{core.TypeBestPractice},
		Sources:    []core.SourceType{core.SourceForum},
		MinQuality: 0.7,
		Limit:      10,
	}

	results := searcher.keywordSearch("idempotent", opts)
	require.Len(t, results, 1)
	assert.Equal(t, match.Id, results[0].Document.Id)
}

func TestKeywordSearch_EmptyQuery(t *testing.T) {
	doc := newDoc("doc", "some indexed content here",
		core.TypeBestPractice, core.SourceForum, nil, goodQuality)
	searcher, _ := newTestSearcher(t, doc)

	assert.Nil(t, searcher.keywordSearch("", DefaultOptions()))
	assert.Nil(t, searcher.keywordSearch("??", DefaultOptions()))
}

func TestKeywordSearch_EmptyStore(t *testing.T) {
	searcher, _ := newTestSearcher(t)
	assert.Nil(t, searcher.keywordSearch("anything", DefaultOptions()))
}

func TestSearch_NonHybridIsKeywordOnly(t *testing.T) {
	// Semantically close but term-free doc must not appear without hybrid.
	kwDoc := newDoc("kw", "zookeeper coordinates distributed locks",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{2: 1}), goodQuality)
	semDoc := newDoc("sem", "consensus services coordinate cluster state",
		core.TypeBestPractice, core.SourceForum, unitVec(map[int]float64{0: 1}), goodQuality)

	searcher, _ := newTestSearcher(t, kwDoc, semDoc)
	searcher.embedder = &mock.MockEmbedder{
		EmbedTextFunc: func(context.Context, string) ([]float32, error) {
			return unitVec(map[int]float64{0: 1}), nil
		},
	}

	opts := DefaultOptions()
	opts.Hybrid = false

	results, err := searcher.Search(context.Background(), "zookeeper", opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, kwDoc.Id, results[0].Document.Id)
	assert.Equal(t, core.MatchExact, results[0].MatchType)
}
