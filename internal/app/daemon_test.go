package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/daemon"
	"go.trai.ch/strata/internal/adapters/detector"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/strata/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var runningStatus = ports.DaemonStatus{
	Running:       true,
	PID:           4242,
	Uptime:        90 * time.Second,
	LastActivity:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	IdleRemaining: time.Hour,
	Models:        3,
	Calls:         7,
	InFlight:      1,
	LastTool:      "load",
}

func TestCall_PrintsResult(t *testing.T) {
	h := newHarness(t)
	client := mocks.NewMockDaemonClient(gomock.NewController(t))

	h.conn.EXPECT().Connect(gomock.Any()).Return(client, nil)
	client.EXPECT().Call(gomock.Any(), "list_models", []byte(`{}`)).Return([]byte(`{"models":{},"count":0}`), nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.Call(context.Background(), "list_models", []byte(`{}`)))
	assert.Equal(t, "{\"models\":{},\"count\":0}\n", h.stdout.String())
}

func TestCall_ToolFailure(t *testing.T) {
	h := newHarness(t)
	client := mocks.NewMockDaemonClient(gomock.NewController(t))

	h.conn.EXPECT().Connect(gomock.Any()).Return(client, nil)
	client.EXPECT().Call(gomock.Any(), "get_root", gomock.Any()).
		Return([]byte(`{"error":"model not loaded","kind":"not_found"}`), nil)
	client.EXPECT().Close().Return(nil)

	err := h.app.Call(context.Background(), "get_root", []byte(`{"model_id":"x"}`))
	require.ErrorIs(t, err, domain.ErrToolFailed)
	assert.Contains(t, h.stdout.String(), "not_found")
}

func TestCall_ConnectFailure(t *testing.T) {
	h := newHarness(t)
	h.conn.EXPECT().Connect(gomock.Any()).Return(nil, domain.ErrDaemonSpawnFailed)

	err := h.app.Call(context.Background(), "list_models", nil)
	require.ErrorIs(t, err, domain.ErrDaemonSpawnFailed)
}

func TestDaemonStatus_NotRunning(t *testing.T) {
	h := newHarness(t)
	h.conn.EXPECT().Dial(gomock.Any()).Return(nil, domain.Annotate(domain.ErrDaemonNotRunning, "socket", "/tmp/strata.sock")).Times(2)

	require.NoError(t, h.app.DaemonStatus(context.Background(), false))
	require.NoError(t, h.app.StopDaemon(context.Background()))
	assert.Equal(t, "daemon is not running\ndaemon is not running\n", h.stdout.String())
}

func TestDaemonStatus_NotRunningJSON(t *testing.T) {
	h := newHarness(t)
	h.conn.EXPECT().Dial(gomock.Any()).Return(nil, domain.Annotate(domain.ErrDaemonNotRunning, "socket", "/tmp/strata.sock"))

	require.NoError(t, h.app.DaemonStatus(context.Background(), true))
	assert.JSONEq(t, `{"running":false,"models":0,"calls":0,"in_flight":0}`, h.stdout.String())
}

func TestDaemonStatus_Running(t *testing.T) {
	h := newHarness(t)
	client := mocks.NewMockDaemonClient(gomock.NewController(t))

	h.conn.EXPECT().Dial(gomock.Any()).Return(client, nil)
	client.EXPECT().Status(gomock.Any()).Return(&runningStatus, nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.DaemonStatus(context.Background(), false))
	out := h.stdout.String()
	assert.Contains(t, out, "daemon is running")
	assert.Contains(t, out, "4242")
	assert.Contains(t, out, "models:         3")
	assert.Contains(t, out, "calls:          7 (1 in flight)")
	assert.Contains(t, out, "last tool:      load")
}

func TestDaemonStatus_RunningJSON(t *testing.T) {
	h := newHarness(t)
	client := mocks.NewMockDaemonClient(gomock.NewController(t))

	h.conn.EXPECT().Dial(gomock.Any()).Return(client, nil)
	client.EXPECT().Status(gomock.Any()).Return(&runningStatus, nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.DaemonStatus(context.Background(), true))
	assert.JSONEq(t, `{
		"running": true,
		"pid": 4242,
		"uptime_seconds": 90,
		"last_activity": "2026-01-02T03:04:05Z",
		"idle_remaining_seconds": 3600,
		"models": 3,
		"calls": 7,
		"in_flight": 1,
		"last_tool": "load"
	}`, h.stdout.String())
}

func TestStopDaemon_Running(t *testing.T) {
	h := newHarness(t)
	client := mocks.NewMockDaemonClient(gomock.NewController(t))

	h.conn.EXPECT().Dial(gomock.Any()).Return(client, nil)
	client.EXPECT().Shutdown(gomock.Any()).Return(nil)
	client.EXPECT().Close().Return(nil)

	require.NoError(t, h.app.StopDaemon(context.Background()))
	assert.Equal(t, "daemon stopped\n", h.stdout.String())
}

func TestServeDaemon_RoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "strata")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg := domain.DefaultConfig()
	cfg.SocketPath = filepath.Join(dir, domain.DaemonSocketFile)
	cfg.PIDPath = filepath.Join(dir, domain.DaemonPIDFile)
	cfg.IdleTimeout = time.Hour
	cfg.Watch = false
	h := newHarnessWith(t, cfg)
	h.insert(t)

	errCh := make(chan error, 1)
	go func() { errCh <- h.app.ServeDaemon(context.Background(), app.DaemonOptions{}) }()

	var client *daemon.Client
	require.Eventually(t, func() bool {
		c, err := daemon.Dial(cfg.SocketPath)
		if err != nil {
			return false
		}
		if c.Ping(context.Background()) != nil {
			_ = c.Close()
			return false
		}
		client = c
		return true
	}, 5*time.Second, 20*time.Millisecond)
	defer func() { _ = client.Close() }()

	result, err := client.Call(context.Background(), "list_models", nil)
	require.NoError(t, err)
	assert.Contains(t, string(result), `"count":1`)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Models)
	assert.Equal(t, 1, status.Calls)
	assert.Equal(t, "list_models", status.LastTool)

	require.NoError(t, client.Shutdown(context.Background()))
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	_, err = os.Stat(cfg.SocketPath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestServeDaemon_ContextCancel(t *testing.T) {
	dir, err := os.MkdirTemp("", "strata")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg := domain.DefaultConfig()
	cfg.SocketPath = filepath.Join(dir, domain.DaemonSocketFile)
	cfg.PIDPath = filepath.Join(dir, domain.DaemonPIDFile)
	cfg.Watch = false
	h := newHarnessWith(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.app.ServeDaemon(ctx, app.DaemonOptions{}) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(cfg.PIDPath)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestServeDaemon_IdleTimeoutOverride(t *testing.T) {
	dir, err := os.MkdirTemp("", "strata")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg := domain.DefaultConfig()
	cfg.SocketPath = filepath.Join(dir, domain.DaemonSocketFile)
	cfg.PIDPath = filepath.Join(dir, domain.DaemonPIDFile)
	cfg.IdleTimeout = time.Hour
	h := newHarnessWith(t, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.app.ServeDaemon(context.Background(), app.DaemonOptions{
			IdleTimeout: 200 * time.Millisecond,
			NoWatch:     true,
		})
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon ignored the idle timeout override")
	}
	_, err = os.Stat(cfg.PIDPath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInspect_Linear(t *testing.T) {
	h := newHarness(t)

	err := h.app.Inspect(context.Background(), filepath.Join("testdata", "model.json"), app.InspectOptions{
		Output: detector.ModeLinear,
	})
	require.NoError(t, err)

	out := h.stdout.String()
	assert.Contains(t, out, "Model overview:")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "Summary: 4 elements")
	assert.Equal(t, 1, h.app.ModelCount())
}

func TestInspect_MissingFile(t *testing.T) {
	h := newHarness(t)

	err := h.app.Inspect(context.Background(), filepath.Join("testdata", "missing.json"), app.InspectOptions{})
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestConfigureLogging_IgnoresPlainLoggers(t *testing.T) {
	h := newHarness(t)
	enabled := true
	require.NoError(t, h.app.ConfigureLogging(&enabled, "debug"))
}

func TestLoad_WatchesSource(t *testing.T) {
	h := newHarness(t)
	w := mocks.NewMockWatcher(gomock.NewController(t))
	h.app.WithWatcher(w)

	abs, err := filepath.Abs(filepath.Join("testdata", "model.json"))
	require.NoError(t, err)
	w.EXPECT().Watch(abs).Return(nil)

	out := h.call(t, "load", map[string]any{"path": filepath.Join("testdata", "model.json")})
	assert.Contains(t, out, "model_id")
}

func TestLoad_WatchDisabled(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Watch = false
	h := newHarnessWith(t, cfg)
	h.app.WithWatcher(mocks.NewMockWatcher(gomock.NewController(t)))

	out := h.call(t, "load", map[string]any{"path": filepath.Join("testdata", "model.json")})
	assert.Contains(t, out, "model_id")
}
