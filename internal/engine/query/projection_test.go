package query_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/query"
)

func TestProjectElement(t *testing.T) {
	m := buildModel(t,
		[]node{
			{path: "/pkg", typ: "dir", attrs: domain.Attributes{"owner": domain.StringValue("core"), "loc": domain.IntValue(7)}},
			{path: "/pkg/a.go", typ: "file"},
			{path: "/pkg/b.go", typ: "file"},
		},
		nil,
	)
	pkg, _ := m.Lookup("/pkg")

	view := query.ProjectElement(m, pkg, []string{"owner", "loc", "missing", "name"})
	assert.Equal(t, "pkg", view.Name)
	assert.Equal(t, []string{"/pkg/a.go", "/pkg/b.go"}, view.ChildPaths)
	assert.Equal(t, map[string]any{"owner": "core", "loc": int64(7), "name": "pkg"}, view.Extra)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"pkg","path":"/pkg","type":"dir","child_paths":["/pkg/a.go","/pkg/b.go"],"owner":"core","loc":7}`,
		string(data))
}

func TestProjectElement_NoChildren(t *testing.T) {
	m := sampleModel(t)
	b, _ := m.Lookup("/A/B")

	data, err := json.Marshal(query.ProjectElement(m, b, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"B","path":"/A/B","type":"file","child_paths":[]}`, string(data))
}

func TestProjectAssociationIDs(t *testing.T) {
	m := sampleModel(t)
	c, _ := m.Lookup("/A/C")

	assert.Equal(t,
		[]query.AssociationView{{From: "/A/B", To: "/A/C", Type: "uses"}},
		query.ProjectAssociationIDs(m, c.Incoming))
}

func TestProjectChain(t *testing.T) {
	records, links := query.ProjectChain(domain.DependencyChain{
		Chain:        []domain.ChainRecord{{Path: []string{"/a", "/b"}, Depth: 1}},
		Dependencies: []domain.ChainLink{{From: "/a", To: "/b", Direction: domain.DirectionIncoming, Type: "t"}},
	})

	assert.Equal(t, []query.ChainRecordView{{Path: []string{"/a", "/b"}, Depth: 1}}, records)
	assert.Equal(t, []query.ChainLinkView{{From: "/a", To: "/b", Direction: "incoming", Type: "t"}}, links)
}
