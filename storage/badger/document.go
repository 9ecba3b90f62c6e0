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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op: the repository holds no resources of its own and the
// backend is closed by its owner.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutDocuments writes one or more documents, overwriting existing entries
// with the same ID.
func (r *DocumentRepository) PutDocuments(ctx context.Context, docs ...*core.KnowledgeDocument) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			key := makeDocumentKey(doc.Id)
			value := storage.MarshalDocument(doc)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument returns the document with the given ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.KnowledgeDocument, error) {
	var doc *core.KnowledgeDocument

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ForEachDocument calls fn for every stored document. Records that fail to
// deserialize are logged and skipped so one corrupt entry cannot block a
// full load.
func (r *DocumentRepository) ForEachDocument(ctx context.Context, fn func(doc *core.KnowledgeDocument) bool) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var doc *core.KnowledgeDocument
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				r.backend.logger.Warn("skipping unreadable document",
					"key", string(item.Key()), "err", err)
				continue
			}

			if !fn(doc) {
				return nil
			}
		}
		return nil
	}, false)
}
