package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/metrics"
)

func TestPrometheus_ObserveQuery(t *testing.T) {
	m := metrics.New()

	m.ObserveQuery("get_root", "ok", 2*time.Millisecond)
	m.ObserveQuery("get_root", "ok", 3*time.Millisecond)
	m.ObserveQuery("get_root", "not_found", time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "strata_tool_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(m.Registry(), "strata_tool_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheus_LoadsAndGauge(t *testing.T) {
	m := metrics.New()

	m.ObserveLoad("ok", time.Second)
	m.ObserveLoad("timeout", time.Minute)
	m.SetCachedModels(4)

	count, err := testutil.GatherAndCount(m.Registry(), "strata_model_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(m.Registry(), "strata_cached_models")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrometheus_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveQuery("search_by_name", "ok", time.Millisecond)
	m.SetCachedModels(1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `strata_tool_calls_total{outcome="ok",tool="search_by_name"} 1`)
	assert.Contains(t, string(body), "strata_cached_models 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestPrometheus_IndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.ObserveLoad("ok", time.Second)

	count, err := testutil.GatherAndCount(b.Registry(), "strata_model_loads_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
