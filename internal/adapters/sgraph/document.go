package sgraph

import (
	"context"
	"io"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

type documentDTO struct {
	Root         *elementDTO      `yaml:"root"`
	Associations []associationDTO `yaml:"associations"`
}

type elementDTO struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Attrs    map[string]any `yaml:"attrs"`
	Children []elementDTO   `yaml:"children"`
}

type associationDTO struct {
	From  string         `yaml:"from"`
	To    string         `yaml:"to"`
	Type  string         `yaml:"type"`
	Attrs map[string]any `yaml:"attrs"`
}

// decodeDocument reads a YAML or JSON model document. Associations refer to
// elements by path.
func decodeDocument(ctx context.Context, r io.Reader) (*domain.Model, error) {
	var doc documentDTO
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, zerr.Wrap(err, "malformed model document")
	}
	if doc.Root == nil {
		return nil, errEmptyModel
	}

	b := domain.NewModelBuilder()
	attrs, err := convertAttributes(doc.Root.Attrs)
	if err != nil {
		return nil, err
	}
	root, err := b.AddRoot(doc.Root.Name, doc.Root.Type, attrs)
	if err != nil {
		return nil, err
	}
	if err := addChildren(ctx, b, root, doc.Root.Children); err != nil {
		return nil, err
	}

	for _, a := range doc.Associations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		from, ok := b.Lookup(a.From)
		if !ok {
			return nil, domain.Annotate(domain.ErrDanglingReference, "from", a.From)
		}
		to, ok := b.Lookup(a.To)
		if !ok {
			return nil, domain.Annotate(domain.ErrDanglingReference, "to", a.To)
		}
		attrs, err := convertAttributes(a.Attrs)
		if err != nil {
			return nil, err
		}
		if _, err := b.Associate(from, to, a.Type, attrs); err != nil {
			return nil, err
		}
	}

	return build(b)
}

func addChildren(ctx context.Context, b *domain.ModelBuilder, parent domain.ElementID, children []elementDTO) error {
	for i := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		child := &children[i]
		attrs, err := convertAttributes(child.Attrs)
		if err != nil {
			return zerr.With(err, "element", child.Name)
		}
		id, err := b.AddChild(parent, child.Name, child.Type, attrs)
		if err != nil {
			return err
		}
		if err := addChildren(ctx, b, id, child.Children); err != nil {
			return err
		}
	}
	return nil
}

func convertAttributes(raw map[string]any) (domain.Attributes, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	attrs := make(domain.Attributes, len(raw))
	for k, v := range raw {
		val, err := domain.ValueOf(v)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "unsupported attribute value"), "attribute", k)
		}
		attrs[k] = val
	}
	return attrs, nil
}
