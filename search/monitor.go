package search

import "github.com/synapselabs/synapse/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterSemanticSearch(matches []Match)
	AfterKeywordSearch(count int)
	Finish(results []*core.ItemResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

var noop = &noopMonitor{}

func (n *noopMonitor) Start(_ string)                {}
func (n *noopMonitor) AfterSemanticSearch(_ []Match) {}
func (n *noopMonitor) AfterKeywordSearch(_ int)      {}
func (n *noopMonitor) Finish(_ []*core.ItemResult)   {}
