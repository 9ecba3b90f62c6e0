// Copyright 2025 Arkival Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ragcore is the facade over the hybrid knowledge engine: an
// in-memory inverted+vector index, keyword/semantic/hybrid search, RAG
// context synthesis, external source fetching, and optional BadgerDB
// persistence.
package ragcore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arkival/ragcore/ai"
	"github.com/arkival/ragcore/ai/hashembed"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/fetch"
	"github.com/arkival/ragcore/index"
	"github.com/arkival/ragcore/ingestion"
	"github.com/arkival/ragcore/rag"
	"github.com/arkival/ragcore/search"
	"github.com/arkival/ragcore/storage"
	"github.com/arkival/ragcore/storage/badger"
)

// ErrRepositoryRequired is returned by persistence operations on an engine
// configured without a repository.
var ErrRepositoryRequired = errors.New("document repository required")

// DefaultCacheSize is the number of query results the engine caches.
const DefaultCacheSize = 512

// Engine ties the subsystems together behind the public operations.
type Engine struct {
	store    *index.Store
	repo     storage.DocumentRepository
	embedder ai.Embedder
	searcher *search.Searcher
	registry *fetch.Registry
	pipeline *ingestion.Pipeline
	cache    *lru.Cache[string, []core.SearchResult]

	onDocumentAdded func(*core.KnowledgeDocument)
	logger          *slog.Logger

	backend *badger.Backend // non-nil only when the engine opened it
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	embedder  ai.Embedder
	repo      storage.DocumentRepository
	cacheSize int
	logger    *slog.Logger
	hook      func(*core.KnowledgeDocument)
	fetchers  []fetch.Fetcher
}

// WithEmbedder sets the embedding provider.
// Default is the deterministic hash embedder.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithRepository attaches a document repository for persistence. The caller
// keeps ownership of the repository's backend.
func WithRepository(repo storage.DocumentRepository) EngineOption {
	return func(o *engineOptions) {
		o.repo = repo
	}
}

// WithCacheSize sets the query cache capacity. Values below 1 fall back to
// the default.
func WithCacheSize(size int) EngineOption {
	return func(o *engineOptions) {
		if size >= 1 {
			o.cacheSize = size
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDocumentAddedHook registers a callback invoked after each document is
// added to the index. The hook runs synchronously on the adding goroutine.
func WithDocumentAddedHook(hook func(*core.KnowledgeDocument)) EngineOption {
	return func(o *engineOptions) {
		o.hook = hook
	}
}

// WithFetcher registers an external source fetcher.
func WithFetcher(f fetch.Fetcher) EngineOption {
	return func(o *engineOptions) {
		o.fetchers = append(o.fetchers, f)
	}
}

// NewEngine creates an engine with an empty in-memory index.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		embedder:  hashembed.New(),
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store := index.NewStore()

	searcher, err := search.NewSearcher(store, options.embedder,
		search.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(options.logger)}
	if options.repo != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithRepository(options.repo))
	}
	pipeline, err := ingestion.NewPipeline(store, options.embedder, pipelineOpts...)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, []core.SearchResult](options.cacheSize)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	registry := fetch.NewRegistry(fetch.WithLogger(options.logger))
	for _, f := range options.fetchers {
		registry.Register(f)
	}

	return &Engine{
		store:           store,
		repo:            options.repo,
		embedder:        options.embedder,
		searcher:        searcher,
		registry:        registry,
		pipeline:        pipeline,
		cache:           cache,
		onDocumentAdded: options.hook,
		logger:          options.logger,
	}, nil
}

// Open creates an engine backed by a BadgerDB database at filePath and loads
// the persisted knowledge base into the index. The engine owns the backend
// and closes it on Close.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	engine, err := NewEngine(append(opts, WithRepository(repo))...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	engine.backend = backend

	if _, err := engine.LoadKnowledgeBase(context.Background()); err != nil {
		engine.Close()
		return nil, err
	}
	return engine, nil
}

// SearchKnowledge runs a query through the searcher, serving repeats from
// the cache. Cache hits still count as document accesses.
func (e *Engine) SearchKnowledge(ctx context.Context, query string, opts search.Options) ([]core.SearchResult, error) {
	key := opts.CacheKey(query)

	if results, ok := e.cache.Get(key); ok {
		e.touch(results)
		e.logger.Debug("query cache hit", "query", query)
		return results, nil
	}

	results, err := e.searcher.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	e.touch(results)
	e.cache.Add(key, results)
	return results, nil
}

// GenerateRAGContext searches for the query and synthesizes the top results
// into a narrative context block.
func (e *Engine) GenerateRAGContext(ctx context.Context, query, roleHint string) (*core.RAGContext, error) {
	results, err := e.SearchKnowledge(ctx, query, rag.ContextOptions())
	if err != nil {
		return nil, err
	}
	return rag.Synthesize(query, roleHint, results), nil
}

// GetDocument returns the indexed document with the given ID.
func (e *Engine) GetDocument(id core.ID) (*core.KnowledgeDocument, bool) {
	return e.store.Get(id)
}

// AddDocument validates and indexes a document, writes it through to the
// repository when one is configured, and invalidates the query cache.
func (e *Engine) AddDocument(ctx context.Context, doc *core.KnowledgeDocument) error {
	if err := e.store.Add(doc); err != nil {
		return err
	}

	if e.repo != nil {
		if err := e.repo.PutDocuments(ctx, doc); err != nil {
			return err
		}
	}

	e.notifyAdded(doc)
	e.cache.Purge()
	return nil
}

// SaveKnowledgeBase persists every indexed document. Returns the number of
// documents written.
func (e *Engine) SaveKnowledgeBase(ctx context.Context) (int, error) {
	if e.repo == nil {
		return 0, ErrRepositoryRequired
	}

	var docs []*core.KnowledgeDocument
	e.store.ForEach(func(doc *core.KnowledgeDocument) bool {
		docs = append(docs, doc)
		return true
	})

	if len(docs) == 0 {
		return 0, nil
	}
	if err := e.repo.PutDocuments(ctx, docs...); err != nil {
		return 0, err
	}

	e.logger.Info("knowledge base saved", "documents", len(docs))
	return len(docs), nil
}

// LoadKnowledgeBase rebuilds the index from the repository. Documents that
// fail validation are logged and skipped. Returns the number of documents
// loaded.
func (e *Engine) LoadKnowledgeBase(ctx context.Context) (int, error) {
	if e.repo == nil {
		return 0, ErrRepositoryRequired
	}

	var loaded int
	err := e.repo.ForEachDocument(ctx, func(doc *core.KnowledgeDocument) bool {
		if addErr := e.store.Add(doc); addErr != nil {
			e.logger.Warn("skipping stored document", "id", doc.Id, "err", addErr)
			return true
		}
		loaded++
		return true
	})
	if err != nil {
		return loaded, err
	}

	e.cache.Purge()
	e.logger.Info("knowledge base loaded", "documents", loaded)
	return loaded, nil
}

// IngestItems runs raw items through the ingestion pipeline. Items that
// fail are logged and skipped; the returned slice holds the documents that
// made it into the index.
func (e *Engine) IngestItems(ctx context.Context, items ...ingestion.Item) ([]*core.KnowledgeDocument, error) {
	docs, err := e.pipeline.Ingest(ctx, items...)
	if len(docs) > 0 {
		for _, doc := range docs {
			e.notifyAdded(doc)
		}
		e.cache.Purge()
	}
	return docs, err
}

// FetchExternalKnowledge pulls items for the query from one source and
// ingests them. A source that yields nothing, whether missing, throttled,
// or failing, results in an empty slice rather than an error.
func (e *Engine) FetchExternalKnowledge(ctx context.Context, query string, source core.SourceType) ([]*core.KnowledgeDocument, error) {
	items := e.registry.Fetch(ctx, query, source)
	if len(items) == 0 {
		return nil, nil
	}
	return e.IngestItems(ctx, items...)
}

// Close releases the worker pool and, when the engine opened its own
// backend, the underlying database.
func (e *Engine) Close() error {
	e.pipeline.Release()

	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Error("error closing repository", "err", err)
			return err
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

func (e *Engine) touch(results []core.SearchResult) {
	if len(results) == 0 {
		return
	}
	ids := make([]core.ID, len(results))
	for i, r := range results {
		ids[i] = r.Document.Id
	}
	e.store.Touch(time.Now().UTC(), ids...)
}

func (e *Engine) notifyAdded(doc *core.KnowledgeDocument) {
	if e.onDocumentAdded != nil {
		e.onDocumentAdded(doc)
	}
}
