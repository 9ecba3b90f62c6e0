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


package fetch

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/ingestion"
)

// Fetcher retrieves raw items from one external source.
type Fetcher interface {
	// Source identifies the source this fetcher serves.
	Source() core.SourceType

	// Fetch retrieves items matching the query.
	Fetch(ctx context.Context, query string) ([]ingestion.Item, error)
}

// Default per-source limit: one request per second with a small burst.
const (
	defaultRateLimit = rate.Limit(1)
	defaultBurst     = 2
)

type entry struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// Registry dispatches fetch requests to registered fetchers, one per source,
// with a rate limiter in front of each. Every failure mode (unknown source,
// rate-limit denial, fetcher error) is logged and yields an empty result,
// never an error. External sources are best-effort by contract.
type Registry struct {
	mu      sync.RWMutex
	entries map[core.SourceType]*entry

	limit  rate.Limit
	burst  int
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// WithRateLimit sets the per-source rate limit applied to fetchers
// registered after the option takes effect.
func WithRateLimit(limit rate.Limit, burst int) RegistryOption {
	return func(r *Registry) {
		if burst < 1 {
			burst = 1
		}
		r.limit = limit
		r.burst = burst
	}
}

// NewRegistry creates an empty fetcher registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[core.SourceType]*entry),
		limit:   defaultRateLimit,
		burst:   defaultBurst,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a fetcher for its source, replacing any previous one. The
// new fetcher gets a fresh limiter.
func (r *Registry) Register(f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[f.Source()] = &entry{
		fetcher: f,
		limiter: rate.NewLimiter(r.limit, r.burst),
	}
}

// Sources lists the sources with a registered fetcher.
func (r *Registry) Sources() []core.SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]core.SourceType, 0, len(r.entries))
	for source := range r.entries {
		sources = append(sources, source)
	}
	return sources
}

// Fetch retrieves items for the query from the given source. The call never
// blocks on the limiter: a denied request is dropped, not queued.
func (r *Registry) Fetch(ctx context.Context, query string, source core.SourceType) []ingestion.Item {
	r.mu.RLock()
	e, ok := r.entries[source]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("no fetcher registered", "source", source)
		return nil
	}

	if !e.limiter.Allow() {
		r.logger.Warn("fetch rate limited", "source", source, "query", query)
		return nil
	}

	items, err := e.fetcher.Fetch(ctx, query)
	if err != nil {
		r.logger.Warn("fetch failed", "source", source, "query", query, "err", err)
		return nil
	}
	return items
}
