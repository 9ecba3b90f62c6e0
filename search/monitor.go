package search

import "github.com/arkival/ragcore/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordSearch(results []core.SearchResult)
	AfterSemanticSearch(results []core.SearchResult)
	KeywordHit(doc *core.KnowledgeDocument)
	SemanticHit(doc *core.KnowledgeDocument)
	HybridHit(doc *core.KnowledgeDocument)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterKeywordSearch(_ []core.SearchResult)   {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.SearchResult)  {}
func (n *noopMonitor) KeywordHit(_ *core.KnowledgeDocument)       {}
func (n *noopMonitor) SemanticHit(_ *core.KnowledgeDocument)      {}
func (n *noopMonitor) HybridHit(_ *core.KnowledgeDocument)        {}
func (n *noopMonitor) Finish(_ []core.SearchResult)               {}
