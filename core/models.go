package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// VectorDim is the fixed embedding dimension shared by every document in a
// knowledge base. Cosine similarity is only defined when all vectors agree
// on this length.
const VectorDim = 384

// ID is a unique identifier for knowledge documents.
// It is derived from document content using BLAKE2b hashing, so re-ingesting
// the same payload produces the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SemanticHashOf returns a short hex fingerprint of the raw ingested payload.
// It is used for deduplication and change detection across re-fetches.
func SemanticHashOf(title, content, author string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(author))
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentType categorizes a knowledge document. The set is closed.
type DocumentType string

const (
	TypeCommonPractice      DocumentType = "common_practice"
	TypeProfessionalAdvice  DocumentType = "professional_advice"
	TypeResearchPaper       DocumentType = "research_paper"
	TypeExperimental        DocumentType = "experimental"
	TypeBestPractice        DocumentType = "best_practice"
	TypeAntiPattern         DocumentType = "anti_pattern"
	TypeCaseStudy           DocumentType = "case_study"
	TypeTutorial            DocumentType = "tutorial"
	TypeAPIDocumentation    DocumentType = "api_documentation"
	TypeArchitecturePattern DocumentType = "architecture_pattern"
)

// AllDocumentTypes returns the closed set of document types.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		TypeCommonPractice,
		TypeProfessionalAdvice,
		TypeResearchPaper,
		TypeExperimental,
		TypeBestPractice,
		TypeAntiPattern,
		TypeCaseStudy,
		TypeTutorial,
		TypeAPIDocumentation,
		TypeArchitecturePattern,
	}
}

// SourceType identifies the origin of a document. The set is closed and is
// used for authority weighting at ingestion time.
type SourceType string

const (
	SourceForum         SourceType = "forum"
	SourceCodeHost      SourceType = "code_host"
	SourcePaperArchive  SourceType = "paper_archive"
	SourceInternal      SourceType = "internal"
	SourceDocumentation SourceType = "documentation"
)

// AllSourceTypes returns the closed set of source types.
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceForum,
		SourceCodeHost,
		SourcePaperArchive,
		SourceInternal,
		SourceDocumentation,
	}
}

// QualityMetrics holds per-document quality signals, each in [0,1].
// Relevance starts neutral (0.5) and is an extension point for usage-based
// refinement; no code path recomputes it automatically.
type QualityMetrics struct {
	Reliability  float64
	Relevance    float64
	Recency      float64
	Authority    float64
	Completeness float64
}

// DocumentMetadata carries descriptive and provenance fields for a document.
type DocumentMetadata struct {
	Author       string
	PublishedAt  time.Time
	Citations    int
	Quality      QualityMetrics
	Tags         []string
	Language     string
	Framework    string
	Version      string
	Dependencies []string
}

// KnowledgeDocument is the atomic unit of knowledge.
// Content is the field all indexing operates on. TermPositions is the
// per-document inverted index built once at ingestion; it is never mutated
// independently of Content.
type KnowledgeDocument struct {
	Id             ID
	Type           DocumentType
	Title          string
	Content        string
	Source         SourceType
	Metadata       DocumentMetadata
	Vector         []float32        // fixed-length embedding, always VectorDim
	TermPositions  map[string][]int // term -> ordinal positions in Content
	SemanticHash   string
	RelevanceScore float64 // mutable running score, initialized to 0.5
	CreatedAt      time.Time
	LastAccessed   time.Time
	AccessCount    int
}

// MatchType tags which retrieval strategy produced a search result.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchSemantic MatchType = "semantic"
	MatchFuzzy    MatchType = "fuzzy"
	MatchHybrid   MatchType = "hybrid"
)

// SearchResult is a scored document reference. Derived, never persisted.
type SearchResult struct {
	Document    *KnowledgeDocument
	Score       float64
	MatchType   MatchType
	Highlights  []string
	Explanation string
}

// RAGContext is a synthesized narrative assembled from top search results,
// intended as input to a downstream reasoning consumer. Derived, never
// persisted.
type RAGContext struct {
	Query      string
	Documents  []*KnowledgeDocument
	Narrative  string
	Confidence float64
	Citations  []string
}
