package domain

// ModelBuilder assembles a Model. It is used by loaders; a built Model is
// never modified afterwards.
type ModelBuilder struct {
	m *Model
}

// NewModelBuilder returns an empty builder.
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{m: newModel()}
}

func newModel() *Model {
	return &Model{byPath: make(map[string]ElementID)}
}

// AddRoot adds the root element. The root's path is "" when it has no name.
func (b *ModelBuilder) AddRoot(name, typ string, attrs Attributes) (ElementID, error) {
	if len(b.m.elements) > 0 {
		return NoElement, ErrRootAlreadyDefined
	}
	path := ""
	if name != "" {
		path = PathSeparator + name
	}
	return b.add(NoElement, name, typ, path, attrs)
}

// AddChild adds an element owned by parent.
func (b *ModelBuilder) AddChild(parent ElementID, name, typ string, attrs Attributes) (ElementID, error) {
	if !b.valid(parent) {
		return NoElement, Annotate(ErrInvalidParent, "parent", int(parent))
	}
	path := b.m.elements[parent].Path + PathSeparator + name
	return b.add(parent, name, typ, path, attrs)
}

func (b *ModelBuilder) add(parent ElementID, name, typ, path string, attrs Attributes) (ElementID, error) {
	if _, exists := b.m.byPath[path]; exists {
		return NoElement, Annotate(ErrDuplicatePath, "path", path)
	}

	//nolint:gosec // G115: element count is bounded by model size
	id := ElementID(len(b.m.elements))
	b.m.elements = append(b.m.elements, Element{
		ID:     id,
		Parent: parent,
		Name:   name,
		Type:   NewTag(typ),
		Path:   path,
		Attrs:  attrs,
	})
	b.m.byPath[path] = id

	if parent != NoElement {
		p := &b.m.elements[parent]
		p.Children = append(p.Children, id)
	}
	return id, nil
}

// Associate adds a directed edge between two existing elements.
func (b *ModelBuilder) Associate(from, to ElementID, typ string, attrs Attributes) (AssociationID, error) {
	if !b.valid(from) {
		return -1, Annotate(ErrDanglingReference, "from", int(from))
	}
	if !b.valid(to) {
		return -1, Annotate(ErrDanglingReference, "to", int(to))
	}

	//nolint:gosec // G115: association count is bounded by model size
	id := AssociationID(len(b.m.associations))
	b.m.associations = append(b.m.associations, Association{
		ID:    id,
		From:  from,
		To:    to,
		Type:  NewTag(typ),
		Attrs: attrs,
	})
	b.m.elements[from].Outgoing = append(b.m.elements[from].Outgoing, id)
	b.m.elements[to].Incoming = append(b.m.elements[to].Incoming, id)
	return id, nil
}

// Lookup resolves a path among the elements added so far.
func (b *ModelBuilder) Lookup(path string) (ElementID, bool) {
	el, ok := b.m.Lookup(path)
	if !ok {
		return NoElement, false
	}
	return el.ID, true
}

// Build returns the assembled model and resets the builder.
func (b *ModelBuilder) Build() (*Model, error) {
	if len(b.m.elements) == 0 {
		return nil, ErrRootNotFound
	}
	m := b.m
	b.m = newModel()
	return m, nil
}

func (b *ModelBuilder) valid(id ElementID) bool {
	return id >= 0 && int(id) < len(b.m.elements)
}
