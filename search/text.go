package search

import (
	"strings"

	"github.com/arkival/ragcore/index"
)

const maxHighlights = 3

// splitSentences splits text into trimmed sentences on ., ! and ?
// boundaries. Empty fragments are dropped.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}

// highlightMatches returns up to maxHighlights sentences from content that
// contain at least one of the query terms.
func highlightMatches(content string, terms []string) []string {
	termSet := make(map[string]bool, len(terms))
	for _, t := range terms {
		termSet[t] = true
	}

	var highlights []string
	for _, sentence := range splitSentences(content) {
		for _, token := range index.Tokenize(sentence) {
			if termSet[token] {
				highlights = append(highlights, sentence)
				break
			}
		}
		if len(highlights) == maxHighlights {
			break
		}
	}
	return highlights
}

// leadingSentences returns the first maxHighlights sentences of content.
// Semantic matches are not term-aligned, so their highlights are purely
// structural.
func leadingSentences(content string) []string {
	sentences := splitSentences(content)
	if len(sentences) > maxHighlights {
		sentences = sentences[:maxHighlights]
	}
	return sentences
}
