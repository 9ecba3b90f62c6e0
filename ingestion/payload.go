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


package ingestion

import (
	"time"

	"github.com/arkival/ragcore/core"
)

// RawPayload is the ingestion contract: the fields an external source must
// supply before a document can be created. Everything beyond Title and Body
// is optional signal.
// JSON tags define the on-disk format consumed by the CLI ingest command.
type RawPayload struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`

	// Community signals, used for reliability and authority derivation.
	Score      int     `json:"score,omitempty"`      // votes, stars, or equivalent
	Verified   bool    `json:"verified,omitempty"`   // accepted answer, maintainer-reviewed, peer-reviewed
	Citations  int     `json:"citations,omitempty"`  // citation count where the source tracks one
	Reputation float64 `json:"reputation,omitempty"` // author reputation on the source platform

	Tags         []string `json:"tags,omitempty"`
	Language     string   `json:"language,omitempty"`
	Framework    string   `json:"framework,omitempty"`
	Version      string   `json:"version,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Item pairs a payload with its classification, ready for ingestion.
type Item struct {
	Payload RawPayload        `json:"payload"`
	Type    core.DocumentType `json:"type"`
	Source  core.SourceType   `json:"source"`
}
