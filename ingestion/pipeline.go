package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/arkival/ragcore/ai"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/index"
	"github.com/arkival/ragcore/storage"
)

// Pipeline ingests batches of raw items into the index. Document creation
// (embedding included) runs on a worker pool; indexing is serialized. A
// failing item is logged and skipped, never failing the batch.
type Pipeline struct {
	store    *index.Store
	repo     storage.DocumentRepository
	embedder ai.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for document creation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithRepository enables write-through of ingested documents to persistent
// storage. Without it the pipeline only populates the in-memory index.
func WithRepository(repo storage.DocumentRepository) Option {
	return func(p *Pipeline) error {
		p.repo = repo
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store *index.Store, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:    store,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest creates documents for the given items in parallel and adds the
// successful ones to the index, preserving item order. It returns the
// documents that made it in.
func (p *Pipeline) Ingest(ctx context.Context, items ...Item) ([]*core.KnowledgeDocument, error) {
	if len(items) == 0 {
		return nil, nil
	}

	created := make([]*core.KnowledgeDocument, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			doc, err := CreateDocument(ctx, item.Payload, item.Type, item.Source, p.embedder)
			if err != nil {
				p.logger.Warn("skipping item",
					"title", item.Payload.Title, "source", item.Source, "err", err)
				return
			}
			created[i] = doc
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Warn("skipping item",
				"title", item.Payload.Title, "source", item.Source, "err", submitErr)
		}
	}
	wg.Wait()

	docs := make([]*core.KnowledgeDocument, 0, len(items))
	for _, doc := range created {
		if doc == nil {
			continue
		}
		if err := p.store.Add(doc); err != nil {
			p.logger.Warn("skipping document", "title", doc.Title, "err", err)
			continue
		}
		docs = append(docs, doc)
	}

	if p.repo != nil && len(docs) > 0 {
		if err := p.repo.PutDocuments(ctx, docs...); err != nil {
			return docs, err
		}
	}
	return docs, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
