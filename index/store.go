package index

import (
	"fmt"
	"sync"
	"time"

	"github.com/arkival/ragcore/core"
)

// Store owns the authoritative in-memory set of knowledge documents and the
// two indices derived from them: the global inverted index (term -> set of
// document ids) and the vector index (id -> embedding).
//
// All mutation is serialized against queries; a document's local index and
// vector entry are built before the document is linked into the global
// structures, so no query ever observes a half-indexed document.
type Store struct {
	mu       sync.RWMutex
	docs     map[core.ID]*core.KnowledgeDocument
	postings map[string]map[core.ID]struct{}
	vectors  map[core.ID][]float32
	dim      int
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{
		docs:     make(map[core.ID]*core.KnowledgeDocument),
		postings: make(map[string]map[core.ID]struct{}),
		vectors:  make(map[core.ID][]float32),
	}
}

// Add inserts or overwrites a document by id, building its local inverted
// index from Content and registering its terms and vector in the global
// indices. Repeated identical input is idempotent.
//
// Known limitation, carried over from the original design: re-adding an id
// with different content does not retract the old content's postings from
// the global index. Re-adding the exact pointer already linked keeps its
// original TermPositions snapshot as well, since queries read that field
// without holding the store lock.
func (s *Store) Add(doc *core.KnowledgeDocument) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	// Build the per-document index outside the lock; it depends only on the
	// document itself.
	positions := TermPositions(Tokenize(doc.Content))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(doc.Vector)
	} else if len(doc.Vector) != s.dim {
		return fmt.Errorf("%w: got %d, store holds %d-dimensional vectors",
			core.ErrInvalidVectorDim, len(doc.Vector), s.dim)
	}

	// Assign TermPositions only while the pointer is unreachable to queries;
	// once linked, the field must stay immutable.
	if s.docs[doc.Id] != doc {
		doc.TermPositions = positions
		s.docs[doc.Id] = doc
	}
	s.vectors[doc.Id] = doc.Vector
	for term := range positions {
		set, ok := s.postings[term]
		if !ok {
			set = make(map[core.ID]struct{})
			s.postings[term] = set
		}
		set[doc.Id] = struct{}{}
	}

	return nil
}

// Get returns the document with the given id, or false if it is unknown.
func (s *Store) Get(id core.ID) (*core.KnowledgeDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// PostingList returns the ids of documents containing the given term.
func (s *Store) PostingList(term string) []core.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.postings[term]
	if len(set) == 0 {
		return nil
	}
	ids := make([]core.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// ForEach calls fn for every document until fn returns false.
// The iteration holds a read lock; fn must not call back into the store.
func (s *Store) ForEach(fn func(*core.KnowledgeDocument) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if !fn(doc) {
			return
		}
	}
}

// Touch records a search hit on the given documents, updating their access
// statistics. Unknown ids are ignored.
func (s *Store) Touch(now time.Time, ids ...core.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		doc, ok := s.docs[id]
		if !ok {
			continue
		}
		doc.LastAccessed = now
		doc.AccessCount++
	}
}
