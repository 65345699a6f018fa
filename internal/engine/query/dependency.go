package query

import (
	"slices"

	"go.trai.ch/strata/internal/core/domain"
)

// SubtreeDependencies categorizes the associations touching the subtree rooted
// at q.Root. Expansion stops below q.MaxDepth (root is depth 0). Outgoing
// associations are internal when their target is in the subtree and outgoing
// otherwise; incoming associations are reported only when their source lies
// outside the subtree. An unresolvable root yields empty collections.
func SubtreeDependencies(m *domain.Model, q domain.SubtreeQuery) domain.SubtreeDependencies {
	result := domain.SubtreeDependencies{
		Elements: []*domain.Element{},
		Internal: []*domain.Association{},
		Incoming: []*domain.Association{},
		Outgoing: []*domain.Association{},
	}

	root, ok := m.Lookup(q.Root)
	if !ok {
		return result
	}

	inSubtree := make([]bool, m.ElementCount())
	type item struct {
		el    *domain.Element
		depth int
	}
	stack := []item{{el: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !domain.WithinDepth(it.depth, q.MaxDepth) {
			continue
		}
		inSubtree[it.el.ID] = true
		result.Elements = append(result.Elements, it.el)

		for _, child := range it.el.Children {
			stack = append(stack, item{el: m.Element(child), depth: it.depth + 1})
		}
	}

	skip := func(a *domain.Association) bool {
		if q.IncludeExternal {
			return false
		}
		segment := q.ExternalSegment
		if segment == "" {
			segment = domain.DefaultExternalSegment
		}
		return domain.IsUnderSegment(m.Element(a.From).Path, segment) ||
			domain.IsUnderSegment(m.Element(a.To).Path, segment)
	}

	for _, el := range result.Elements {
		for _, id := range el.Outgoing {
			a := m.Association(id)
			if skip(a) {
				continue
			}
			if inSubtree[a.To] {
				result.Internal = append(result.Internal, a)
			} else {
				result.Outgoing = append(result.Outgoing, a)
			}
		}
		for _, id := range el.Incoming {
			a := m.Association(id)
			if inSubtree[a.From] || skip(a) {
				continue
			}
			result.Incoming = append(result.Incoming, a)
		}
	}
	return result
}

// neighbour is one association as seen from the element being expanded.
type neighbour struct {
	target    *domain.Element
	direction domain.Direction
	typ       string
}

// chainFrame is one element whose expansion is in progress.
type chainFrame struct {
	el    *domain.Element
	depth int
	path  []string
	links []neighbour
	next  int
}

// DependencyChain walks associations transitively from q.Start.
//
// The walk is depth first. At each element the associations are taken in
// stored order, outgoing before incoming when both directions are requested.
// Every examined association is recorded in Dependencies at the depth of the
// element being expanded, including associations whose far end was already
// visited. Each element is expanded at most once per walk, so cycles terminate
// and an element reachable along several routes is expanded through the first
// route found. A ChainRecord is appended when an element other than the start
// finishes expanding. Elements beyond q.MaxDepth are neither expanded nor marked.
func DependencyChain(m *domain.Model, q domain.ChainQuery) (domain.DependencyChain, error) {
	direction, err := domain.ParseDirection(string(q.Direction))
	if err != nil {
		return domain.DependencyChain{}, err
	}

	result := domain.DependencyChain{
		Root:         q.Start,
		Direction:    direction,
		MaxDepth:     q.MaxDepth,
		Chain:        []domain.ChainRecord{},
		Dependencies: []domain.ChainLink{},
	}

	start, ok := m.Lookup(q.Start)
	if !ok {
		return result, nil
	}

	visited := make([]bool, m.ElementCount())
	var stack []*chainFrame

	enter := func(el *domain.Element, depth int, parent []string) {
		if !domain.WithinDepth(depth, q.MaxDepth) || visited[el.ID] {
			return
		}
		visited[el.ID] = true
		path := append(slices.Clip(parent), el.Path)
		stack = append(stack, &chainFrame{
			el:    el,
			depth: depth,
			path:  path,
			links: neighbours(m, el, direction),
		})
	}

	enter(start, 0, nil)
	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.next < len(f.links) {
			link := f.links[f.next]
			f.next++
			result.Dependencies = append(result.Dependencies, domain.ChainLink{
				From:      f.el.Path,
				To:        link.target.Path,
				Direction: link.direction,
				Type:      link.typ,
				Depth:     f.depth,
			})
			enter(link.target, f.depth+1, f.path)
			continue
		}

		stack = stack[:len(stack)-1]
		if len(f.path) > 1 {
			result.Chain = append(result.Chain, domain.ChainRecord{Path: f.path, Depth: f.depth})
		}
	}
	return result, nil
}

func neighbours(m *domain.Model, el *domain.Element, direction domain.Direction) []neighbour {
	var links []neighbour
	if direction.Follows(domain.DirectionOutgoing) {
		for _, id := range el.Outgoing {
			a := m.Association(id)
			links = append(links, neighbour{
				target:    m.Element(a.To),
				direction: domain.DirectionOutgoing,
				typ:       a.TypeName(),
			})
		}
	}
	if direction.Follows(domain.DirectionIncoming) {
		for _, id := range el.Incoming {
			a := m.Association(id)
			links = append(links, neighbour{
				target:    m.Element(a.From),
				direction: domain.DirectionIncoming,
				typ:       a.TypeName(),
			})
		}
	}
	return links
}
