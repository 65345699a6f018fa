package query

import (
	"encoding/json"
	"maps"

	"go.trai.ch/strata/internal/core/domain"
)

// ElementView is the wire form of an element.
type ElementView struct {
	Name       string
	Path       string
	Type       string
	ChildPaths []string
	// Extra holds requested additional fields that the element carries.
	Extra map[string]any
}

// MarshalJSON flattens Extra into the element object. Requested fields never
// override the four intrinsic keys.
func (v ElementView) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4+len(v.Extra))
	maps.Copy(out, v.Extra)
	out["name"] = v.Name
	out["path"] = v.Path
	out["type"] = v.Type
	out["child_paths"] = v.ChildPaths
	return json.Marshal(out)
}

// AssociationView is the wire form of an association.
type AssociationView struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// ChainLinkView is the wire form of an examined chain association.
type ChainLinkView struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
	Type      string `json:"type"`
	Depth     int    `json:"depth"`
}

// ChainRecordView is the wire form of a chain record.
type ChainRecordView struct {
	Path  []string `json:"path"`
	Depth int      `json:"depth"`
}

// OverviewNodeView is the wire form of an overview node.
type OverviewNodeView struct {
	Name            string                       `json:"name"`
	Path            string                       `json:"path"`
	Type            string                       `json:"type"`
	Depth           int                          `json:"depth"`
	ChildCount      *int                         `json:"child_count,omitempty"`
	IncomingCount   *int                         `json:"incoming_count,omitempty"`
	OutgoingCount   *int                         `json:"outgoing_count,omitempty"`
	Children        map[string]*OverviewNodeView `json:"children,omitzero"`
	HasMoreChildren int                          `json:"has_more_children,omitempty"`
}

// SummaryView is the wire form of overview statistics.
type SummaryView struct {
	TotalElements    int            `json:"total_elements"`
	DepthCounts      map[int]int    `json:"depth_counts"`
	TypeDistribution map[string]int `json:"type_distribution"`
}

// ProjectElement converts el to its wire form. Each requested field is looked
// up as an attribute and omitted when absent.
func ProjectElement(m *domain.Model, el *domain.Element, fields []string) ElementView {
	view := ElementView{
		Name:       el.Name,
		Path:       el.Path,
		Type:       el.Type.String(),
		ChildPaths: make([]string, 0, len(el.Children)),
	}
	for _, id := range el.Children {
		view.ChildPaths = append(view.ChildPaths, m.Element(id).Path)
	}
	for _, field := range fields {
		if v, ok := el.Attribute(field); ok {
			if view.Extra == nil {
				view.Extra = make(map[string]any, len(fields))
			}
			view.Extra[field] = v.Any()
		}
	}
	return view
}

// ProjectElements converts a slice of elements.
func ProjectElements(m *domain.Model, els []*domain.Element, fields []string) []ElementView {
	views := make([]ElementView, 0, len(els))
	for _, el := range els {
		views = append(views, ProjectElement(m, el, fields))
	}
	return views
}

// ProjectAssociation converts a to its wire form.
func ProjectAssociation(m *domain.Model, a *domain.Association) AssociationView {
	return AssociationView{
		From: m.Element(a.From).Path,
		To:   m.Element(a.To).Path,
		Type: a.TypeName(),
	}
}

// ProjectAssociations converts a slice of associations.
func ProjectAssociations(m *domain.Model, as []*domain.Association) []AssociationView {
	views := make([]AssociationView, 0, len(as))
	for _, a := range as {
		views = append(views, ProjectAssociation(m, a))
	}
	return views
}

// ProjectAssociationIDs converts associations referenced by id.
func ProjectAssociationIDs(m *domain.Model, ids []domain.AssociationID) []AssociationView {
	views := make([]AssociationView, 0, len(ids))
	for _, id := range ids {
		views = append(views, ProjectAssociation(m, m.Association(id)))
	}
	return views
}

// ProjectChain converts chain links and records.
func ProjectChain(c domain.DependencyChain) ([]ChainRecordView, []ChainLinkView) {
	records := make([]ChainRecordView, 0, len(c.Chain))
	for _, r := range c.Chain {
		records = append(records, ChainRecordView{Path: r.Path, Depth: r.Depth})
	}
	links := make([]ChainLinkView, 0, len(c.Dependencies))
	for _, l := range c.Dependencies {
		links = append(links, ChainLinkView{
			From:      l.From,
			To:        l.To,
			Direction: string(l.Direction),
			Type:      l.Type,
			Depth:     l.Depth,
		})
	}
	return records, links
}

// ProjectOverview converts an overview tree. Children are keyed by name, or by
// "<unnamed_TYPE>" for elements without one.
func ProjectOverview(node *domain.OverviewNode) *OverviewNodeView {
	if node == nil {
		return nil
	}
	el := node.Element
	view := &OverviewNodeView{
		Name:            el.Name,
		Path:            el.Path,
		Type:            el.Type.Or(domain.UnknownType),
		Depth:           node.Depth,
		HasMoreChildren: node.Truncated,
	}
	if node.Counts != nil {
		view.ChildCount = &node.Counts.Children
		view.IncomingCount = &node.Counts.Incoming
		view.OutgoingCount = &node.Counts.Outgoing
	}
	if node.Children != nil {
		view.Children = make(map[string]*OverviewNodeView, len(node.Children))
		for _, child := range node.Children {
			view.Children[ChildKey(child.Element)] = ProjectOverview(child)
		}
	}
	return view
}

// ChildKey returns the key an element is listed under in its parent's
// overview children.
func ChildKey(el *domain.Element) string {
	if el.Name != "" {
		return el.Name
	}
	return "<unnamed_" + el.Type.String() + ">"
}

// ProjectSummary converts overview statistics.
func ProjectSummary(s domain.OverviewSummary) SummaryView {
	return SummaryView{
		TotalElements:    s.TotalElements,
		DepthCounts:      s.DepthCounts,
		TypeDistribution: s.TypeDistribution,
	}
}
