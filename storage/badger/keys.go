package badger

import (
	"fmt"

	"github.com/arkival/ragcore/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "kdoc"
)

// makeDocumentKey generates a key for a knowledge document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
