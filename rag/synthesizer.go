package rag

import (
	"fmt"
	"strings"

	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/search"
)

// NoKnowledgeNarrative is returned when a query matches no documents.
const NoKnowledgeNarrative = "No relevant knowledge found for this query."

// Confidence weights: retrieval scores carry more signal than static quality.
const (
	scoreConfidenceWeight   = 0.6
	qualityConfidenceWeight = 0.4
	confidenceSampleSize    = 3
)

// Synthesize condenses ranked search results into a RAG context: a narrative
// grouped by document type, a confidence value in [0,1], and one citation
// per document used.
//
// Sections appear in fixed priority order; a section is emitted only when
// its group is populated. Anti-patterns are rendered as warnings.
func Synthesize(query, roleHint string, results []core.SearchResult) *core.RAGContext {
	if len(results) == 0 {
		return &core.RAGContext{
			Query:     query,
			Narrative: NoKnowledgeNarrative,
		}
	}

	groups := make(map[core.DocumentType][]core.SearchResult)
	documents := make([]*core.KnowledgeDocument, 0, len(results))
	citations := make([]string, 0, len(results))
	for _, r := range results {
		groups[r.Document.Type] = append(groups[r.Document.Type], r)
		documents = append(documents, r.Document)
		citations = append(citations, citation(r.Document))
	}

	var b strings.Builder
	if roleHint != "" {
		fmt.Fprintf(&b, "Knowledge context for %s:\n\n", roleHint)
	} else {
		b.WriteString("Knowledge context:\n\n")
	}

	writeSection(&b, "Best Practices", groups[core.TypeBestPractice], bullet)
	writeSection(&b, "Professional Recommendations",
		append(groups[core.TypeProfessionalAdvice], groups[core.TypeCommonPractice]...), bullet)
	writeSection(&b, "Research Findings", groups[core.TypeResearchPaper], researchBullet)
	writeSection(&b, "Avoid These Anti-Patterns", groups[core.TypeAntiPattern], warningBullet)

	// Remaining types stay in rank order.
	var rest []core.SearchResult
	for _, r := range results {
		switch r.Document.Type {
		case core.TypeBestPractice, core.TypeProfessionalAdvice, core.TypeCommonPractice,
			core.TypeResearchPaper, core.TypeAntiPattern:
		default:
			rest = append(rest, r)
		}
	}
	writeSection(&b, "Additional References", rest, bullet)

	return &core.RAGContext{
		Query:      query,
		Documents:  documents,
		Narrative:  strings.TrimRight(b.String(), "\n"),
		Confidence: confidence(results),
		Citations:  citations,
	}
}

func writeSection(b *strings.Builder, title string, results []core.SearchResult, render func(*core.KnowledgeDocument) string) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n", title)
	for _, r := range results {
		b.WriteString(render(r.Document))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func bullet(doc *core.KnowledgeDocument) string {
	return fmt.Sprintf("- %s: %s", doc.Title, summary(doc))
}

// researchBullet annotates findings with author and publication year when
// present.
func researchBullet(doc *core.KnowledgeDocument) string {
	var attribution string
	author := doc.Metadata.Author
	if !doc.Metadata.PublishedAt.IsZero() {
		if author == "" {
			attribution = fmt.Sprintf(" (%d)", doc.Metadata.PublishedAt.Year())
		} else {
			attribution = fmt.Sprintf(" (%s, %d)", author, doc.Metadata.PublishedAt.Year())
		}
	} else if author != "" {
		attribution = fmt.Sprintf(" (%s)", author)
	}
	return fmt.Sprintf("- %s%s: %s", doc.Title, attribution, summary(doc))
}

func warningBullet(doc *core.KnowledgeDocument) string {
	return fmt.Sprintf("- Warning: %s: %s", doc.Title, summary(doc))
}

// summary is the first sentence of the document content, falling back to the
// whole content when no sentence boundary exists.
func summary(doc *core.KnowledgeDocument) string {
	if i := strings.IndexAny(doc.Content, ".!?"); i >= 0 {
		return strings.TrimSpace(doc.Content[:i+1])
	}
	return strings.TrimSpace(doc.Content)
}

func citation(doc *core.KnowledgeDocument) string {
	author := doc.Metadata.Author
	if author == "" {
		author = "Unknown"
	}
	return fmt.Sprintf("%s: %s (%s)", doc.Source, doc.Title, author)
}

// confidence blends the top result scores with the top quality scores.
// Retrieval scores are unbounded above (TF-IDF sums), so each is clamped to
// [0,1] before averaging.
func confidence(results []core.SearchResult) float64 {
	n := len(results)
	if n > confidenceSampleSize {
		n = confidenceSampleSize
	}

	var scoreSum, qualitySum float64
	for _, r := range results[:n] {
		scoreSum += core.Clamp01(r.Score)
		qualitySum += core.QualityScore(r.Document.Metadata.Quality)
	}

	avgScore := scoreSum / float64(n)
	avgQuality := qualitySum / float64(n)
	return core.Clamp01(scoreConfidenceWeight*avgScore + qualityConfidenceWeight*avgQuality)
}

// ContextLimit is the number of top results a RAG context is built from.
const ContextLimit = 5

// ContextOptions returns the search options used for RAG synthesis: the
// default filters with the result limit reduced to ContextLimit.
func ContextOptions() search.Options {
	opts := search.DefaultOptions()
	opts.Limit = ContextLimit
	return opts
}
