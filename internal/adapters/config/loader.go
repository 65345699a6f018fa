// Package config provides the configuration loader for strata.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers strata.yaml from cwd upwards and resolves it against the
// defaults. Relative daemon paths are anchored at the directory holding the
// file, or at cwd when there is none.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	configPath, found := findConfiguration(cwd)
	if !found {
		l.Logger.Debug("no configuration file found, using defaults", "cwd", cwd)
		anchorPaths(&cfg, cwd)
		return cfg, nil
	}

	var file Configfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return domain.Config{}, zerr.With(err, "path", configPath)
	}
	if err := apply(&cfg, &file); err != nil {
		return domain.Config{}, zerr.With(err, "path", configPath)
	}

	anchorPaths(&cfg, filepath.Dir(configPath))
	l.Logger.Debug("configuration loaded", "path", configPath)
	return cfg, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func apply(cfg *domain.Config, file *Configfile) error {
	var err error
	if cfg.LoadTimeout, err = parseDuration("load_timeout", file.LoadTimeout, cfg.LoadTimeout); err != nil {
		return err
	}
	if cfg.IdleTimeout, err = parseDuration("idle_timeout", file.IdleTimeout, cfg.IdleTimeout); err != nil {
		return err
	}

	cfg.SocketPath = orDefault(file.Socket, cfg.SocketPath)
	cfg.PIDPath = orDefault(file.PIDFile, cfg.PIDPath)
	cfg.LogPath = orDefault(file.LogFile, cfg.LogPath)
	cfg.HTTPEnabled = file.HTTP.Enabled
	cfg.HTTPAddr = orDefault(file.HTTP.Addr, cfg.HTTPAddr)
	cfg.LogJSON = file.Log.JSON
	cfg.ExternalSegment = orDefault(file.ExternalSegment, cfg.ExternalSegment)

	if file.Log.Level != "" {
		level := strings.ToLower(file.Log.Level)
		if !slices.Contains(validLogLevels, level) {
			return domain.Annotate(domain.ErrInvalidLogLevel, "log.level", file.Log.Level)
		}
		cfg.LogLevel = level
	}

	if file.Overview.MaxDepth != nil {
		if *file.Overview.MaxDepth < 0 {
			err := domain.Annotate(domain.ErrConfigParseFailed, "key", "overview.max_depth")
			return zerr.With(err, "value", *file.Overview.MaxDepth)
		}
		cfg.OverviewDepth = *file.Overview.MaxDepth
	}

	if file.Watch != nil {
		cfg.Watch = *file.Watch
	}
	return nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		err := domain.Annotate(domain.ErrConfigParseFailed, "key", key)
		return 0, zerr.With(err, "value", raw)
	}
	return d, nil
}

func anchorPaths(cfg *domain.Config, dir string) {
	for _, p := range []*string{&cfg.SocketPath, &cfg.PIDPath, &cfg.LogPath} {
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, err)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return errors.Join(domain.ErrConfigParseFailed, parseErr)
	}

	return nil
}
