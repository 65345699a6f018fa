package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/fs"
	"go.trai.ch/strata/internal/adapters/sgraph"
	"go.trai.ch/strata/internal/adapters/telemetry"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports/mocks"
	"go.trai.ch/strata/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

type harness struct {
	app    *app.App
	cache  *cache.Cache
	stdout *bytes.Buffer
	conn   *mocks.MockDaemonConnector
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, domain.DefaultConfig())
}

func newHarnessWith(t *testing.T, cfg domain.Config) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveQuery(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveLoad(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().SetCachedModels(gomock.Any()).AnyTimes()

	seq := 0
	models := cache.New(sgraph.NewLoader(), fs.NewHasher(), log, metrics,
		cache.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("model-%d", seq)
		}),
	)

	conn := mocks.NewMockDaemonConnector(ctrl)
	stdout := new(bytes.Buffer)
	a := app.New(models, log, telemetry.NewNoOpTracer(), metrics, cfg, conn).
		WithStdout(stdout)

	return &harness{app: a, cache: models, stdout: stdout, conn: conn}
}

// nginxModel is /nginx -> {src -> core -> {nginx.c, ngx_cycle.c}, External -> openssl}
// with nginx.c -includes-> ngx_cycle.c -links-> openssl.
func nginxModel(t *testing.T) *domain.Model {
	t.Helper()
	b := domain.NewModelBuilder()

	root, err := b.AddRoot("nginx", "dir", nil)
	require.NoError(t, err)
	src, err := b.AddChild(root, "src", "dir", nil)
	require.NoError(t, err)
	core, err := b.AddChild(src, "core", "dir", nil)
	require.NoError(t, err)
	main, err := b.AddChild(core, "nginx.c", "file", domain.Attributes{"lang": domain.StringValue("c")})
	require.NoError(t, err)
	cycle, err := b.AddChild(core, "ngx_cycle.c", "file", domain.Attributes{
		"lang":  domain.StringValue("c"),
		"lines": domain.IntValue(420),
	})
	require.NoError(t, err)
	ext, err := b.AddChild(root, "External", "dir", nil)
	require.NoError(t, err)
	ssl, err := b.AddChild(ext, "openssl", "lib", nil)
	require.NoError(t, err)

	_, err = b.Associate(main, cycle, "includes", nil)
	require.NoError(t, err)
	_, err = b.Associate(cycle, ssl, "links", nil)
	require.NoError(t, err)

	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func (h *harness) insert(t *testing.T) string {
	t.Helper()
	return h.cache.Insert(nginxModel(t), domain.ModelInfo{Source: "/models/nginx.json"})
}

func (h *harness) call(t *testing.T, tool string, args any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(h.app.Dispatch(context.Background(), tool, raw), &out))
	return out
}

func requireKind(t *testing.T, out map[string]any, kind domain.ErrorKind) {
	t.Helper()
	require.Contains(t, out, "error", "expected a failure, got %v", out)
	assert.Equal(t, string(kind), out["kind"])
	if kind != domain.KindInternal {
		assert.NotContains(t, out["error"], " failed: ", "only internal failures carry the tool prefix")
	}
}

func TestApp_Tools(t *testing.T) {
	h := newHarness(t)

	tools := h.app.Tools()
	require.Len(t, tools, 16)
	assert.Equal(t, "load", tools[0].Name)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description, tool.Name)
	}

	h.app.PrintTools()
	assert.Contains(t, h.stdout.String(), "dependency_chain")
}

func TestDispatch_Failures(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	tests := []struct {
		name string
		tool string
		args any
		kind domain.ErrorKind
	}{
		{"unknown tool", "drop_tables", nil, domain.KindInvalidInput},
		{"unknown model", "get_root", map[string]any{"model_id": "nope"}, domain.KindNotFound},
		{"missing model id", "get_root", map[string]any{}, domain.KindInvalidInput},
		{"missing element", "get_element", map[string]any{"model_id": id, "element_path": "/nginx/x"}, domain.KindNotFound},
		{"missing pattern", "search_by_name", map[string]any{"model_id": id}, domain.KindInvalidInput},
		{
			"unsupported filter",
			"search_by_attributes",
			map[string]any{"model_id": id, "attribute_filters": map[string]any{"lang": []int{1}}},
			domain.KindInvalidInput,
		},
		{
			"bad direction",
			"dependency_chain",
			map[string]any{"model_id": id, "element_path": "/nginx", "direction": "sideways"},
			domain.KindInvalidInput,
		},
		{
			"negative depth",
			"subtree_dependencies",
			map[string]any{"model_id": id, "root_path": "/nginx", "max_depth": -1},
			domain.KindInvalidInput,
		},
		{"load traversal", "load", map[string]any{"path": "../etc/model.json"}, domain.KindInvalidInput},
		{"load missing", "load", map[string]any{"path": "/no/such/model.json"}, domain.KindSourceUnavailable},
		{"freshness unknown", "check_freshness", map[string]any{"model_id": "nope"}, domain.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, h.call(t, tt.tool, tt.args), tt.kind)
		})
	}
}

func TestDispatch_MalformedArguments(t *testing.T) {
	h := newHarness(t)

	var out map[string]any
	require.NoError(t, json.Unmarshal(h.app.Dispatch(context.Background(), "get_root", []byte("{")), &out))
	requireKind(t, out, domain.KindInvalidInput)
}

func TestDispatch_Elements(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	root := h.call(t, "get_root", map[string]any{"model_id": id})
	assert.Equal(t, "nginx", root["name"])
	assert.Equal(t, "/nginx", root["path"])
	assert.ElementsMatch(t, []any{"/nginx/src", "/nginx/External"}, root["child_paths"])

	el := h.call(t, "get_element", map[string]any{"model_id": id, "element_path": "nginx/src/core/"})
	assert.Equal(t, "core", el["name"])

	out := h.call(t, "get_outgoing", map[string]any{"model_id": id, "element_path": "/nginx/src/core/nginx.c"})
	assert.InDelta(t, 1, out["count"], 0)
	assoc := out["outgoing_associations"].([]any)[0].(map[string]any)
	assert.Equal(t, "/nginx/src/core/ngx_cycle.c", assoc["to"])
	assert.Equal(t, "includes", assoc["type"])

	in := h.call(t, "get_incoming", map[string]any{"model_id": id, "element_path": "/nginx/src/core"})
	assert.InDelta(t, 0, in["count"], 0)
	assert.Empty(t, in["incoming_associations"])
}

func TestDispatch_Search(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	byName := h.call(t, "search_by_name", map[string]any{"model_id": id, "pattern": `\.c$`})
	assert.InDelta(t, 2, byName["count"], 0)
	assert.Equal(t, `\.c$`, byName["pattern"])

	glob := h.call(t, "search_by_name", map[string]any{"model_id": id, "pattern": "*ssl"})
	assert.InDelta(t, 1, glob["count"], 0)

	scoped := h.call(t, "search_by_name", map[string]any{
		"model_id": id, "pattern": "^o", "scope_path": "/nginx/src",
	})
	assert.InDelta(t, 0, scoped["count"], 0)

	byType := h.call(t, "get_by_type", map[string]any{"model_id": id, "element_type": "lib"})
	assert.InDelta(t, 1, byType["count"], 0)

	byAttr := h.call(t, "search_by_attributes", map[string]any{
		"model_id": id, "attribute_filters": map[string]any{"lang": "c", "lines": 420},
	})
	require.InDelta(t, 1, byAttr["count"], 0)
	assert.Equal(t, "ngx_cycle.c", byAttr["elements"].([]any)[0].(map[string]any)["name"])
}

func TestDispatch_Subtree(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	all := h.call(t, "subtree_dependencies", map[string]any{"model_id": id, "root_path": "/nginx/src"})
	assert.Len(t, all["subtree_elements"], 4)
	assert.Len(t, all["internal_dependencies"], 1)
	assert.Len(t, all["outgoing_dependencies"], 1)
	assert.Empty(t, all["incoming_dependencies"])

	internalOnly := h.call(t, "subtree_dependencies", map[string]any{
		"model_id": id, "root_path": "/nginx/src", "include_external": false,
	})
	assert.Empty(t, internalOnly["outgoing_dependencies"])

	shallow := h.call(t, "subtree_dependencies", map[string]any{
		"model_id": id, "root_path": "/nginx/src", "max_depth": 1,
	})
	assert.Len(t, shallow["subtree_elements"], 2)
	assert.Empty(t, shallow["internal_dependencies"])
}

func TestDispatch_DependencyChain(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	out := h.call(t, "dependency_chain", map[string]any{
		"model_id": id, "element_path": "/nginx/src/core/nginx.c",
	})
	assert.Equal(t, "outgoing", out["direction"])
	assert.Nil(t, out["max_depth"])
	assert.Len(t, out["all_dependencies"], 2)

	bounded := h.call(t, "dependency_chain", map[string]any{
		"model_id": id, "element_path": "/nginx/src/core/nginx.c", "max_depth": 0,
	})
	assert.InDelta(t, 0, bounded["max_depth"], 0)
	assert.Len(t, bounded["all_dependencies"], 1)
}

func TestDispatch_MultipleElements(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	out := h.call(t, "multiple_elements", map[string]any{
		"model_id":          id,
		"element_paths":     []string{"/nginx/src/core/ngx_cycle.c", "/nginx/missing"},
		"additional_fields": []string{"lines"},
	})
	assert.InDelta(t, 2, out["requested_count"], 0)
	assert.InDelta(t, 1, out["found_count"], 0)
	assert.Equal(t, []any{"/nginx/missing"}, out["not_found"])
	assert.InDelta(t, 420, out["elements"].([]any)[0].(map[string]any)["lines"], 0)
}

func TestDispatch_ModelOverview(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t)

	out := h.call(t, "model_overview", map[string]any{"model_id": id, "max_depth": 1})
	assert.Equal(t, "/nginx", out["root_path"])
	assert.InDelta(t, 1, out["max_depth"], 0)

	tree := out["tree_structure"].(map[string]any)
	assert.Equal(t, "nginx", tree["name"])
	assert.Len(t, tree["children"], 2)

	summary := out["summary"].(map[string]any)
	assert.InDelta(t, 3, summary["total_elements"], 0)

	defaults := h.call(t, "model_overview", map[string]any{"model_id": id})
	assert.InDelta(t, domain.DefaultOverviewDepth, defaults["max_depth"], 0)
	assert.InDelta(t, 7, defaults["summary"].(map[string]any)["total_elements"], 0)
}

func TestDispatch_ModelOverview_EmptyModel(t *testing.T) {
	h := newHarness(t)
	empty, err := domain.NewModelBuilder().Build()
	require.NoError(t, err)
	id := h.cache.Insert(empty, domain.ModelInfo{Source: "/models/empty.json"})

	out := h.call(t, "model_overview", map[string]any{"model_id": id})
	assert.Equal(t, map[string]any{}, out["tree_structure"])
	requireKind(t, h.call(t, "get_root", map[string]any{"model_id": id}), domain.KindNotFound)
}

func TestDispatch_CacheManagement(t *testing.T) {
	h := newHarness(t)
	first := h.insert(t)
	second := h.insert(t)

	list := h.call(t, "list_models", nil)
	assert.InDelta(t, 2, list["count"], 0)
	models := list["models"].(map[string]any)
	require.Contains(t, models, first)
	assert.Equal(t, "nginx", models[first].(map[string]any)["root_name"])

	removed := h.call(t, "remove_model", map[string]any{"model_id": first})
	assert.Equal(t, true, removed["removed"])
	again := h.call(t, "remove_model", map[string]any{"model_id": first})
	assert.Equal(t, false, again["removed"])
	requireKind(t, h.call(t, "get_root", map[string]any{"model_id": first}), domain.KindNotFound)

	cleared := h.call(t, "clear_models", nil)
	assert.InDelta(t, 1, cleared["cleared"], 0)
	requireKind(t, h.call(t, "get_root", map[string]any{"model_id": second}), domain.KindNotFound)
	assert.Equal(t, 0, h.app.ModelCount())
}

func TestDispatch_LoadAndFreshness(t *testing.T) {
	h := newHarness(t)
	src, err := os.ReadFile(filepath.Join("testdata", "model.json"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, src, 0o600))

	loaded := h.call(t, "load", map[string]any{"path": path})
	id, ok := loaded["model_id"].(string)
	require.True(t, ok, "load result: %v", loaded)

	el := h.call(t, "get_element", map[string]any{"model_id": id, "element_path": "/a/b"})
	assert.Equal(t, "b", el["name"])

	fresh := h.call(t, "check_freshness", map[string]any{"model_id": id})
	assert.Equal(t, false, fresh["stale"])
	assert.Equal(t, true, fresh["exists"])

	require.NoError(t, os.WriteFile(path, append(src, '\n'), 0o600))
	stale := h.call(t, "check_freshness", map[string]any{"model_id": id})
	assert.Equal(t, true, stale["stale"])
}
