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


// Package search provides hybrid keyword and semantic search over the
// knowledge store.
//
// The Searcher type implements a multi-strategy retrieval algorithm:
//   - Keyword search using TF-IDF over the global inverted index
//   - Semantic search using vector cosine similarity
//   - A weighted hybrid merge with quality-adjusted reranking
//
// In hybrid mode the two strategies run concurrently; both are read-only
// passes over the store.
package search
