package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/strata/internal/adapters/daemon"
	"go.trai.ch/strata/internal/adapters/httpapi"
	"go.trai.ch/strata/internal/adapters/watcher"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DaemonOptions overrides configuration for a foreground daemon. Zero values
// keep the configured settings.
type DaemonOptions struct {
	IdleTimeout time.Duration
	HTTPAddr    string
	NoWatch     bool
}

func (o DaemonOptions) apply(cfg domain.Config) domain.Config {
	if o.IdleTimeout > 0 {
		cfg.IdleTimeout = o.IdleTimeout
	}
	if o.HTTPAddr != "" {
		cfg.HTTPEnabled = true
		cfg.HTTPAddr = o.HTTPAddr
	}
	if o.NoWatch {
		cfg.Watch = false
	}
	return cfg
}

// ServeDaemon runs the daemon in the foreground until it is shut down, the
// idle timeout elapses or ctx is cancelled.
func (a *App) ServeDaemon(ctx context.Context, opts DaemonOptions) error {
	a.config = opts.apply(a.config)
	cfg := a.config
	lifecycle := daemon.NewLifecycle(cfg.IdleTimeout)
	server := daemon.NewServer(lifecycle, a, a.logger, cfg.SocketPath, cfg.PIDPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return server.Serve(gctx)
	})

	if cfg.HTTPEnabled {
		api := httpapi.NewServer(a, a.metricsHandler, cfg.HTTPAddr, a.logger)
		g.Go(func() error {
			return api.Serve(gctx)
		})
	}

	watch := a.watcher != nil && cfg.Watch
	if watch {
		if err := a.watcher.Start(gctx); err != nil {
			cancel()
			_ = g.Wait()
			return zerr.Wrap(err, "failed to start source watcher")
		}
		defer func() {
			if err := a.watcher.Stop(); err != nil {
				a.logger.Warn("failed to stop source watcher", "error", err)
			}
		}()
		g.Go(func() error {
			watcher.Monitor(gctx, a.watcher, watcher.DefaultDebounceWindow, a.revalidate)
			return nil
		})
	}

	a.logger.Info("daemon started",
		"pid", os.Getpid(),
		"socket", cfg.SocketPath,
		"idle_timeout", cfg.IdleTimeout.String(),
		"watch", watch,
	)
	err := g.Wait()
	a.logger.Info("daemon stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) revalidate(paths []string) {
	for _, p := range paths {
		if n := a.cache.Revalidate(p); n > 0 {
			a.logger.Info("model source changed", "source", p, "models", n)
		}
	}
}

func (a *App) watchSource(id string) {
	if a.watcher == nil || !a.config.Watch {
		return
	}
	info, ok := a.cache.Info(id)
	if !ok {
		return
	}
	if err := a.watcher.Watch(info.Source); err != nil {
		a.logger.Warn("failed to watch model source", "source", info.Source, "error", err)
	}
}

// DaemonStatus prints the state of the daemon without starting it. With
// asJSON the state is printed as one JSON document.
func (a *App) DaemonStatus(ctx context.Context, asJSON bool) error {
	client, err := a.connector.Dial(ctx)
	if errors.Is(err, domain.ErrDaemonNotRunning) {
		if asJSON {
			return a.printJSON(statusDocument{})
		}
		_, _ = fmt.Fprintln(a.stdout, "daemon is not running")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	status, err := client.Status(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return a.printJSON(newStatusDocument(status))
	}

	lastTool := status.LastTool
	if lastTool == "" {
		lastTool = "-"
	}
	_, _ = fmt.Fprintln(a.stdout, "daemon is running")
	_, _ = fmt.Fprintf(a.stdout, "  pid:            %d\n", status.PID)
	_, _ = fmt.Fprintf(a.stdout, "  uptime:         %s\n", status.Uptime.Round(time.Second))
	_, _ = fmt.Fprintf(a.stdout, "  last activity:  %s\n", status.LastActivity.Format(time.RFC3339))
	_, _ = fmt.Fprintf(a.stdout, "  idle remaining: %s\n", status.IdleRemaining.Round(time.Second))
	_, _ = fmt.Fprintf(a.stdout, "  models:         %d\n", status.Models)
	_, _ = fmt.Fprintf(a.stdout, "  calls:          %d (%d in flight)\n", status.Calls, status.InFlight)
	_, _ = fmt.Fprintf(a.stdout, "  last tool:      %s\n", lastTool)
	return nil
}

type statusDocument struct {
	Running              bool   `json:"running"`
	PID                  int    `json:"pid,omitempty"`
	UptimeSeconds        int64  `json:"uptime_seconds,omitempty"`
	LastActivity         string `json:"last_activity,omitempty"`
	IdleRemainingSeconds int64  `json:"idle_remaining_seconds,omitempty"`
	Models               int    `json:"models"`
	Calls                int    `json:"calls"`
	InFlight             int    `json:"in_flight"`
	LastTool             string `json:"last_tool,omitempty"`
}

func newStatusDocument(s *ports.DaemonStatus) statusDocument {
	return statusDocument{
		Running:              s.Running,
		PID:                  s.PID,
		UptimeSeconds:        int64(s.Uptime.Seconds()),
		LastActivity:         s.LastActivity.UTC().Format(time.RFC3339),
		IdleRemainingSeconds: int64(s.IdleRemaining.Seconds()),
		Models:               s.Models,
		Calls:                s.Calls,
		InFlight:             s.InFlight,
		LastTool:             s.LastTool,
	}
}

func (a *App) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return zerr.Wrap(err, "failed to encode status")
	}
	_, _ = fmt.Fprintln(a.stdout, string(data))
	return nil
}

// StopDaemon asks a running daemon to shut down.
func (a *App) StopDaemon(ctx context.Context) error {
	client, err := a.connector.Dial(ctx)
	if errors.Is(err, domain.ErrDaemonNotRunning) {
		_, _ = fmt.Fprintln(a.stdout, "daemon is not running")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Shutdown(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, "daemon stopped")
	return nil
}

// Call runs a tool on the daemon, starting it when needed, and prints the
// result document. A result reporting a failure yields domain.ErrToolFailed.
func (a *App) Call(ctx context.Context, tool string, args []byte) error {
	client, err := a.connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := client.Call(ctx, tool, args)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, string(result))

	var failure domain.ToolFailure
	if json.Unmarshal(result, &failure) == nil && failure.Error != "" {
		return zerr.With(domain.Annotate(domain.ErrToolFailed, "tool", tool), "kind", string(failure.Kind))
	}
	return nil
}

// PrintTools lists the available tools.
func (a *App) PrintTools() {
	for _, t := range a.Tools() {
		_, _ = fmt.Fprintf(a.stdout, "%-22s %s\n", t.Name, t.Description)
	}
}
