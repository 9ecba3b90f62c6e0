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


package storage

import (
	"context"

	"github.com/arkival/ragcore/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for persisting knowledge documents.
type DocumentRepository interface {
	Repository

	// PutDocuments writes one or more documents, overwriting existing
	// entries with the same ID.
	PutDocuments(ctx context.Context, docs ...*core.KnowledgeDocument) error

	// GetDocument returns the document with the given ID.
	// Returns ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id core.ID) (*core.KnowledgeDocument, error)

	// ForEachDocument calls fn for every stored document. Iteration stops
	// when fn returns false.
	ForEachDocument(ctx context.Context, fn func(doc *core.KnowledgeDocument) bool) error
}
