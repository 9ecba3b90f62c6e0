package index

import "strings"

// Tokenize splits text into index terms. The rule is shared by document
// indexing, query parsing, and the fallback embedder: lowercase, strip
// everything but letters, digits and whitespace, split on whitespace, and
// drop tokens of length <= 2.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TermPositions builds the per-document inverted index: term -> ordinal
// positions of that term in the token stream.
func TermPositions(tokens []string) map[string][]int {
	positions := make(map[string][]int)
	for i, token := range tokens {
		positions[token] = append(positions[token], i)
	}
	return positions
}
