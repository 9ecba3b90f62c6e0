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


// Package storage provides the persistence abstraction for the knowledge
// engine.
//
// Repository interfaces decouple the engine from the storage backend. Public
// constructors in backend packages return these interfaces so alternative
// backends can be swapped in without touching consumers:
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// All repository implementations must be thread-safe, and all methods accept
// a context.Context for cancellation.
package storage
