package domain

import (
	"iter"
	"strings"
)

// UnknownType is reported for associations that carry no type label.
const UnknownType = "unknown"

// PathSeparator joins element names into paths.
const PathSeparator = "/"

// ElementID indexes an element inside its model.
type ElementID int32

// AssociationID indexes an association inside its model's edge table.
type AssociationID int32

// NoElement is the parent of the root element.
const NoElement ElementID = -1

// Element is a node of the architecture tree.
// Children, Outgoing and Incoming are indices into the owning Model.
type Element struct {
	ID       ElementID
	Parent   ElementID
	Name     string
	Type     Tag
	Path     string
	Children []ElementID
	Outgoing []AssociationID
	Incoming []AssociationID
	Attrs    Attributes
}

// Attribute looks up a named property. The attribute map is consulted first,
// then the intrinsic properties name, type and path.
func (e *Element) Attribute(key string) (Value, bool) {
	if v, ok := e.Attrs.Get(key); ok {
		return v, true
	}
	switch key {
	case "name":
		return StringValue(e.Name), true
	case "type":
		return StringValue(e.Type.String()), true
	case "path":
		return StringValue(e.Path), true
	default:
		return Value{}, false
	}
}

// IsRoot reports whether e has no parent.
func (e *Element) IsRoot() bool {
	return e.Parent == NoElement
}

// Association is a directed, typed dependency edge.
type Association struct {
	ID    AssociationID
	From  ElementID
	To    ElementID
	Type  Tag
	Attrs Attributes
}

// TypeName returns the association type, or UnknownType when absent.
func (a *Association) TypeName() string {
	return a.Type.Or(UnknownType)
}

// Model is an immutable element tree plus its association table.
// Element 0 is the root.
type Model struct {
	elements     []Element
	associations []Association
	byPath       map[string]ElementID
}

// Root returns the root element.
func (m *Model) Root() (*Element, bool) {
	if m == nil || len(m.elements) == 0 {
		return nil, false
	}
	return &m.elements[0], true
}

// Element returns the element with the given id.
func (m *Model) Element(id ElementID) *Element {
	return &m.elements[id]
}

// Association returns the association with the given id.
func (m *Model) Association(id AssociationID) *Association {
	return &m.associations[id]
}

// Lookup resolves a path. A missing leading separator is tolerated and both
// "" and "/" resolve to the root.
func (m *Model) Lookup(path string) (*Element, bool) {
	if m == nil {
		return nil, false
	}
	path = NormalizePath(path)
	if path == "" {
		return m.Root()
	}
	id, ok := m.byPath[path]
	if !ok {
		return nil, false
	}
	return &m.elements[id], true
}

// ElementCount returns the number of elements in the model.
func (m *Model) ElementCount() int {
	return len(m.elements)
}

// AssociationCount returns the number of associations in the model.
func (m *Model) AssociationCount() int {
	return len(m.associations)
}

// Elements yields every element in insertion order.
func (m *Model) Elements() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for i := range m.elements {
			if !yield(&m.elements[i]) {
				return
			}
		}
	}
}

// Associations yields every association in insertion order.
func (m *Model) Associations() iter.Seq[*Association] {
	return func(yield func(*Association) bool) {
		for i := range m.associations {
			if !yield(&m.associations[i]) {
				return
			}
		}
	}
}

// NormalizePath trims a trailing separator and prefixes a leading one.
// The root aliases "" and "/" both normalize to "".
func NormalizePath(path string) string {
	path = strings.TrimRight(path, PathSeparator)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, PathSeparator) {
		path = PathSeparator + path
	}
	return path
}

// IsUnderSegment reports whether path contains name as a full path segment
// that is not the final one.
func IsUnderSegment(path, name string) bool {
	return strings.Contains(path, PathSeparator+name+PathSeparator)
}
