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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a KnowledgeDocument failed validation.
	ErrInvalidDocument = errors.New("invalid knowledge document")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidDocumentType indicates a value outside the closed document type set.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidSourceType indicates a value outside the closed source type set.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrInvalidQualityMetric indicates a quality metric outside [0,1].
	ErrInvalidQualityMetric = errors.New("quality metric out of range")

	// ErrInvalidVectorDim indicates an embedding whose length is not VectorDim.
	ErrInvalidVectorDim = errors.New("invalid vector dimension")
)
