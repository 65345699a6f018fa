package sgraph

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	tagElements  = "elements"
	tagElement   = "e"
	tagReference = "r"

	attrName    = "n"
	attrType    = "t"
	attrID      = "i"
	attrTargets = "r"
)

// reference is an outgoing association whose targets are resolved once every
// element id is known.
type reference struct {
	from    domain.ElementID
	targets []string
	typ     string
	attrs   domain.Attributes
}

// xmlDecoder builds a model from the sgraph XML layout:
//
//	<model><elements><e n="name" t="type" i="1"><r r="2,3" t="uses"/></e></elements></model>
type xmlDecoder struct {
	builder *domain.ModelBuilder
	stack   []domain.ElementID
	ids     map[string]domain.ElementID
	refs    []reference
}

func decodeXML(ctx context.Context, r io.Reader) (*domain.Model, error) {
	d := &xmlDecoder{
		builder: domain.NewModelBuilder(),
		ids:     make(map[string]domain.ElementID),
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, zerr.Wrap(err, "malformed model xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := d.start(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == tagElement || t.Name.Local == tagElements {
				d.stack = d.stack[:len(d.stack)-1]
			}
		}
	}

	if err := d.resolve(ctx); err != nil {
		return nil, err
	}
	return build(d.builder)
}

func (d *xmlDecoder) start(t xml.StartElement) error {
	switch t.Name.Local {
	case tagElements:
		root, ok := d.builder.Lookup("")
		if !ok {
			var err error
			if root, err = d.builder.AddRoot("", "", nil); err != nil {
				return err
			}
		}
		d.stack = append(d.stack, root)
	case tagElement:
		if len(d.stack) == 0 {
			return zerr.New("element outside of <elements>")
		}
		var name, typ, id string
		attrs := extraAttributes(t.Attr, func(key, value string) bool {
			switch key {
			case attrName:
				name = value
			case attrType:
				typ = value
			case attrID:
				id = value
			default:
				return false
			}
			return true
		})
		el, err := d.builder.AddChild(d.stack[len(d.stack)-1], name, typ, attrs)
		if err != nil {
			return err
		}
		if id != "" {
			d.ids[id] = el
		}
		d.stack = append(d.stack, el)
	case tagReference:
		if len(d.stack) == 0 {
			return zerr.New("reference outside of an element")
		}
		ref := reference{from: d.stack[len(d.stack)-1]}
		ref.attrs = extraAttributes(t.Attr, func(key, value string) bool {
			switch key {
			case attrTargets:
				ref.targets = strings.Split(value, ",")
			case attrType:
				ref.typ = value
			default:
				return false
			}
			return true
		})
		d.refs = append(d.refs, ref)
	}
	return nil
}

func (d *xmlDecoder) resolve(ctx context.Context) error {
	for _, ref := range d.refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, target := range ref.targets {
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			to, ok := d.ids[target]
			if !ok {
				return domain.Annotate(domain.ErrDanglingReference, "ref", target)
			}
			if _, err := d.builder.Associate(ref.from, to, ref.typ, ref.attrs); err != nil {
				return err
			}
		}
	}
	return nil
}

// extraAttributes collects the XML attributes not consumed by known into typed
// attribute values.
func extraAttributes(in []xml.Attr, known func(key, value string) bool) domain.Attributes {
	var attrs domain.Attributes
	for _, a := range in {
		if known(a.Name.Local, a.Value) {
			continue
		}
		if attrs == nil {
			attrs = make(domain.Attributes, len(in))
		}
		attrs[a.Name.Local] = domain.ParseValue(a.Value)
	}
	return attrs
}
