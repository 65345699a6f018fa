package linear_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/linear"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/query"
)

func buildModel(t *testing.T) *domain.Model {
	t.Helper()

	b := domain.NewModelBuilder()
	root, err := b.AddRoot("nginx", "dir", nil)
	require.NoError(t, err)
	src, err := b.AddChild(root, "src", "dir", nil)
	require.NoError(t, err)
	core, err := b.AddChild(src, "core", "dir", nil)
	require.NoError(t, err)
	nginxC, err := b.AddChild(core, "nginx.c", "file", nil)
	require.NoError(t, err)
	cycle, err := b.AddChild(core, "ngx_cycle.c", "file", nil)
	require.NoError(t, err)
	_, err = b.AddChild(root, "README", "file", nil)
	require.NoError(t, err)
	_, err = b.Associate(nginxC, cycle, "function_ref", nil)
	require.NoError(t, err)

	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name   string
		query  domain.OverviewQuery
		golden string
	}{
		{name: "full depth with counts", query: domain.OverviewQuery{MaxDepth: 5, IncludeCounts: true}, golden: "overview_full"},
		{name: "truncated without counts", query: domain.OverviewQuery{MaxDepth: 1}, golden: "overview_truncated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			var buf bytes.Buffer
			r := linear.NewRenderer(&buf)

			ov := query.Overview(buildModel(t), tt.query)
			require.NoError(t, r.Render(t.Context(), "nginx.xml", ov))

			g := goldie.New(t)
			g.Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestRenderer_EmptyModel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := linear.NewRenderer(&buf)

	ov := domain.Overview{
		MaxDepth: 3,
		Summary: domain.OverviewSummary{
			DepthCounts:      map[int]int{},
			TypeDistribution: map[string]int{},
		},
	}
	require.NoError(t, r.Render(t.Context(), "empty.json", ov))

	g := goldie.New(t)
	g.Assert(t, "overview_empty", buf.Bytes())
}
