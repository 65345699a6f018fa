// Package app implements the application layer for strata: the tool
// boundary, the daemon, and the inspect command.
package app

import (
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/strata/internal/engine/cache"
)

// App represents the main application logic.
type App struct {
	cache     *cache.Cache
	logger    ports.Logger
	tracer    ports.Tracer
	metrics   ports.Metrics
	config    domain.Config
	connector ports.DaemonConnector
	watcher   ports.Watcher

	metricsHandler http.Handler
	teaOptions     []tea.ProgramOption
	stdout         io.Writer

	validate *validator.Validate
	tools    map[string]Tool
	order    []string
}

// New creates a new App instance.
func New(
	models *cache.Cache,
	log ports.Logger,
	tracer ports.Tracer,
	metrics ports.Metrics,
	cfg domain.Config,
	connector ports.DaemonConnector,
) *App {
	a := &App{
		cache:     models,
		logger:    log,
		tracer:    tracer,
		metrics:   metrics,
		config:    cfg,
		connector: connector,
		stdout:    os.Stdout,
		validate:  newValidator(),
	}
	a.registerTools()
	return a
}

// WithWatcher enables source watching for loaded models in the daemon.
func (a *App) WithWatcher(w ports.Watcher) *App {
	a.watcher = w
	return a
}

// WithMetricsHandler sets the handler served at /metrics by the HTTP API.
func (a *App) WithMetricsHandler(h http.Handler) *App {
	a.metricsHandler = h
	return a
}

// WithTeaOptions adds bubbletea program options to the overview browser.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithStdout redirects command output.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// Config returns the resolved configuration.
func (a *App) Config() domain.Config {
	return a.config
}

// ModelCount returns the number of cached models.
func (a *App) ModelCount() int {
	return a.cache.Len()
}

type logConfigurer interface {
	SetJSON(enable bool)
	SetLevel(level string) error
}

// ConfigureLogging applies the configured log format and level. Non-empty
// overrides take precedence over the configuration.
func (a *App) ConfigureLogging(jsonOverride *bool, levelOverride string) error {
	lc, ok := a.logger.(logConfigurer)
	if !ok {
		return nil
	}

	jsonMode := a.config.LogJSON
	if jsonOverride != nil {
		jsonMode = *jsonOverride
	}
	lc.SetJSON(jsonMode)

	level := a.config.LogLevel
	if levelOverride != "" {
		level = levelOverride
	}
	return lc.SetLevel(level)
}
