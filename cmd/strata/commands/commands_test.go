package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/cmd/strata/commands"
	"go.trai.ch/strata/internal/adapters/detector"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/build"
	"go.trai.ch/strata/internal/core/domain"
)

type mockApp struct {
	calls []string

	jsonOverride *bool
	level        string

	tool     string
	args     []byte
	callErr  error
	path     string
	opts     app.InspectOptions
	serveErr error

	daemonOpts app.DaemonOptions
	statusJSON bool
}

func (m *mockApp) ConfigureLogging(jsonOverride *bool, level string) error {
	m.jsonOverride = jsonOverride
	m.level = level
	return nil
}

func (m *mockApp) Call(_ context.Context, tool string, args []byte) error {
	m.calls = append(m.calls, "call")
	m.tool = tool
	m.args = args
	return m.callErr
}

func (m *mockApp) PrintTools() {
	m.calls = append(m.calls, "tools")
}

func (m *mockApp) Inspect(_ context.Context, path string, opts app.InspectOptions) error {
	m.calls = append(m.calls, "inspect")
	m.path = path
	m.opts = opts
	return nil
}

func (m *mockApp) ServeDaemon(_ context.Context, opts app.DaemonOptions) error {
	m.calls = append(m.calls, "serve")
	m.daemonOpts = opts
	return m.serveErr
}

func (m *mockApp) DaemonStatus(_ context.Context, asJSON bool) error {
	m.calls = append(m.calls, "status")
	m.statusJSON = asJSON
	return nil
}

func (m *mockApp) StopDaemon(context.Context) error {
	m.calls = append(m.calls, "stop")
	return nil
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Call(t *testing.T) {
	t.Run("passes tool and arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "call", "get_root", `{"model_id":"m"}`)
		require.NoError(t, err)
		assert.Equal(t, "get_root", m.tool)
		assert.JSONEq(t, `{"model_id":"m"}`, string(m.args))
	})

	t.Run("reads arguments from stdin", func(t *testing.T) {
		m := &mockApp{}
		cli := commands.New(m)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetInput(strings.NewReader(`{"path":"model.xml"}`))
		cli.SetArgs([]string{"call", "load", "-"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.JSONEq(t, `{"path":"model.xml"}`, string(m.args))
	})

	t.Run("omitted arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "call", "list_models")
		require.NoError(t, err)
		assert.Nil(t, m.args)
	})

	t.Run("requires a tool", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "call")
		require.Error(t, err)
		assert.Empty(t, m.calls)
	})

	t.Run("propagates failures", func(t *testing.T) {
		m := &mockApp{callErr: domain.ErrToolFailed}
		_, err := execute(t, m, "call", "get_root", `{}`)
		require.ErrorIs(t, err, domain.ErrToolFailed)
	})
}

func TestCommands_Inspect(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "inspect", "model.xml", "--depth", "5", "-o", "tui")
		require.NoError(t, err)
		assert.Equal(t, "model.xml", m.path)
		assert.Equal(t, 5, m.opts.Depth)
		assert.Equal(t, detector.ModeTUI, m.opts.Output)
	})

	t.Run("ci forces linear output", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "inspect", "model.xml", "-o", "tui", "--ci")
		require.NoError(t, err)
		assert.Equal(t, detector.ModeLinear, m.opts.Output)
	})

	t.Run("rejects unknown output mode", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "inspect", "model.xml", "-o", "fancy")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, m.calls)
	})
}

func TestCommands_Daemon(t *testing.T) {
	for _, sub := range []string{"serve", "status", "stop"} {
		t.Run(sub, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, "daemon", sub)
			require.NoError(t, err)
			assert.Equal(t, []string{sub}, m.calls)
		})
	}

	t.Run("serve failure", func(t *testing.T) {
		m := &mockApp{serveErr: errors.New("socket in use")}
		_, err := execute(t, m, "daemon", "serve")
		require.EqualError(t, err, "socket in use")
	})

	t.Run("serve defaults keep configuration", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "daemon", "serve")
		require.NoError(t, err)
		assert.Equal(t, app.DaemonOptions{}, m.daemonOpts)
	})

	t.Run("serve overrides", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "daemon", "serve", "--idle-timeout", "90s", "--http", "127.0.0.1:8088", "--no-watch")
		require.NoError(t, err)
		assert.Equal(t, app.DaemonOptions{
			IdleTimeout: 90 * time.Second,
			HTTPAddr:    "127.0.0.1:8088",
			NoWatch:     true,
		}, m.daemonOpts)
	})

	t.Run("status json", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "daemon", "status", "--json")
		require.NoError(t, err)
		assert.True(t, m.statusJSON)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "daemon", "stop", "now")
		require.Error(t, err)
		assert.Empty(t, m.calls)
	})
}

func TestCommands_Logging(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "tools", "--log-json", "--log-level", "debug")
	require.NoError(t, err)
	require.NotNil(t, m.jsonOverride)
	assert.True(t, *m.jsonOverride)
	assert.Equal(t, "debug", m.level)
	assert.Equal(t, []string{"tools"}, m.calls)

	m = &mockApp{}
	_, err = execute(t, m, "tools")
	require.NoError(t, err)
	assert.Nil(t, m.jsonOverride)
	assert.Empty(t, m.level)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
	assert.Contains(t, out, "strata version")
}
