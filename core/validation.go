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


package core

import (
	"fmt"
	"slices"
)

// ValidateDocument validates a KnowledgeDocument according to domain rules.
//
// Validation rules:
//   - Title and Content must not be empty
//   - Type and Source must belong to their closed sets
//   - Every quality metric must be in [0,1]
//   - Vector must have exactly VectorDim entries
//
// NOT validated:
//   - TermPositions (rebuilt by the index store, never trusted as input)
//   - Lifecycle fields (LastAccessed/AccessCount mutate during normal use)
func ValidateDocument(doc *KnowledgeDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if err := ValidateDocumentType(doc.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := ValidateSourceType(doc.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := ValidateQualityMetrics(doc.Metadata.Quality); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if len(doc.Vector) != VectorDim {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidDocument, ErrInvalidVectorDim, len(doc.Vector), VectorDim)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType belongs to the closed set.
func ValidateDocumentType(t DocumentType) error {
	if !slices.Contains(AllDocumentTypes(), t) {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, t)
	}
	return nil
}

// ValidateSourceType validates that a SourceType belongs to the closed set.
func ValidateSourceType(s SourceType) error {
	if !slices.Contains(AllSourceTypes(), s) {
		return fmt.Errorf("%w: %q", ErrInvalidSourceType, s)
	}
	return nil
}

// ValidateQualityMetrics checks every metric lies in [0,1].
func ValidateQualityMetrics(m QualityMetrics) error {
	for _, v := range []float64{m.Reliability, m.Relevance, m.Recency, m.Authority, m.Completeness} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: value %f", ErrInvalidQualityMetric, v)
		}
	}
	return nil
}
