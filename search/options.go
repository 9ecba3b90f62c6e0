package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arkival/ragcore/core"
)

// Default filter values for SearchKnowledge.
const (
	DefaultMinQuality = 0.7
	DefaultLimit      = 10
)

// Options filters and shapes a knowledge search.
// Empty Types or Sources means all are allowed.
type Options struct {
	Types      []core.DocumentType
	Sources    []core.SourceType
	MinQuality float64
	Limit      int
	Hybrid     bool
}

// DefaultOptions returns the standard search options: all types and sources,
// minimum quality 0.7, limit 10, hybrid mode on.
func DefaultOptions() Options {
	return Options{
		MinQuality: DefaultMinQuality,
		Limit:      DefaultLimit,
		Hybrid:     true,
	}
}

// CacheKey derives a canonical cache key from the query and the options.
// Type and source sets are sorted so logically equal option values always
// map to the same key.
func (o Options) CacheKey(query string) string {
	types := make([]string, len(o.Types))
	for i, t := range o.Types {
		types[i] = string(t)
	}
	slices.Sort(types)

	sources := make([]string, len(o.Sources))
	for i, s := range o.Sources {
		sources[i] = string(s)
	}
	slices.Sort(sources)

	return fmt.Sprintf("q=%s|t=%s|s=%s|mq=%.4f|l=%d|h=%t",
		query,
		strings.Join(types, ","),
		strings.Join(sources, ","),
		o.MinQuality,
		o.Limit,
		o.Hybrid,
	)
}

func (o Options) allowsType(t core.DocumentType) bool {
	return len(o.Types) == 0 || slices.Contains(o.Types, t)
}

func (o Options) allowsSource(s core.SourceType) bool {
	return len(o.Sources) == 0 || slices.Contains(o.Sources, s)
}

// admits reports whether a document passes the type, source and quality
// filters shared by the keyword and semantic strategies.
func (o Options) admits(doc *core.KnowledgeDocument) bool {
	if !o.allowsType(doc.Type) {
		return false
	}
	if !o.allowsSource(doc.Source) {
		return false
	}
	return core.QualityScore(doc.Metadata.Quality) >= o.MinQuality
}
