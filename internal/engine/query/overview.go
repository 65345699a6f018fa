package query

import "go.trai.ch/strata/internal/core/domain"

// Overview builds a depth bounded snapshot of the model starting at its root.
// Children are emitted while the current depth is below q.MaxDepth; at the
// bound an element reports how many children were left out instead.
func Overview(m *domain.Model, q domain.OverviewQuery) domain.Overview {
	w := &overviewWalker{
		m:     m,
		query: q,
		summary: domain.OverviewSummary{
			DepthCounts:      make(map[int]int),
			TypeDistribution: make(map[string]int),
		},
	}

	result := domain.Overview{MaxDepth: q.MaxDepth}
	if root, ok := m.Root(); ok {
		result.RootPath = root.Path
		result.Tree = w.visit(root, 0)
	}
	result.Summary = w.summary
	return result
}

// overviewWalker carries the aggregate statistics through one overview walk.
type overviewWalker struct {
	m       *domain.Model
	query   domain.OverviewQuery
	summary domain.OverviewSummary
}

func (w *overviewWalker) visit(el *domain.Element, depth int) *domain.OverviewNode {
	w.summary.TotalElements++
	w.summary.DepthCounts[depth]++
	w.summary.TypeDistribution[el.Type.Or(domain.UnknownType)]++

	node := &domain.OverviewNode{Element: el, Depth: depth}
	if w.query.IncludeCounts {
		node.Counts = &domain.NodeCounts{
			Children: len(el.Children),
			Incoming: len(el.Incoming),
			Outgoing: len(el.Outgoing),
		}
	}

	if depth < w.query.MaxDepth {
		node.Children = make([]*domain.OverviewNode, 0, len(el.Children))
		for _, child := range el.Children {
			node.Children = append(node.Children, w.visit(w.m.Element(child), depth+1))
		}
	} else {
		node.Truncated = len(el.Children)
	}
	return node
}
