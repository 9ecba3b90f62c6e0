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


// Package ai defines the embedding provider abstraction for the knowledge
// engine.
//
// Three implementations are provided:
//   - ai/hashembed: a deterministic, dependency-free fallback used when no
//     embedding model is configured
//   - ai/openai: a real embedding model behind any OpenAI-compatible API
//   - ai/mock: a test double with injectable behavior
package ai
