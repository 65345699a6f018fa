package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/core/domain"
)

// edge is a from/to/type triple used to declare fixture associations.
type edge struct {
	from, to, typ string
}

// node declares a fixture element by path.
type node struct {
	path  string
	typ   string
	attrs domain.Attributes
}

// buildModel assembles a model with an unnamed root from node paths given in
// parent-before-child order.
func buildModel(t testing.TB, nodes []node, edges []edge) *domain.Model {
	t.Helper()

	b := domain.NewModelBuilder()
	_, err := b.AddRoot("", "", nil)
	require.NoError(t, err)

	for _, n := range nodes {
		parentPath, name := splitPath(n.path)
		parent, ok := b.Lookup(parentPath)
		require.True(t, ok, "parent of %s", n.path)
		_, err := b.AddChild(parent, name, n.typ, n.attrs)
		require.NoError(t, err)
	}

	for _, e := range edges {
		from, ok := b.Lookup(e.from)
		require.True(t, ok, e.from)
		to, ok := b.Lookup(e.to)
		require.True(t, ok, e.to)
		_, err := b.Associate(from, to, e.typ, nil)
		require.NoError(t, err)
	}

	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func splitPath(p string) (string, string) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i], p[i+1:]
		}
	}
	return "", p
}

// sampleModel is root -> A -> {B, C} with B -> C typed "uses".
func sampleModel(t testing.TB) *domain.Model {
	return buildModel(t,
		[]node{
			{path: "/A", typ: "dir"},
			{path: "/A/B", typ: "file"},
			{path: "/A/C", typ: "file"},
		},
		[]edge{{from: "/A/B", to: "/A/C", typ: "uses"}},
	)
}

func paths(els []*domain.Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.Path)
	}
	return out
}
