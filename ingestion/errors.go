package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when an index store is not provided.
	ErrStoreRequired = errors.New("index store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
