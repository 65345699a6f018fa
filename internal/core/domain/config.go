package domain

import "time"

const (
	// DefaultLoadTimeout bounds a single model load.
	DefaultLoadTimeout = 60 * time.Second

	// DefaultIdleTimeout is the daemon inactivity window before auto-shutdown.
	DefaultIdleTimeout = 3 * time.Hour

	// DefaultHTTPAddr is the listen address of the optional HTTP transport.
	DefaultHTTPAddr = "127.0.0.1:8008"

	// DefaultOverviewDepth is the overview depth used when a request omits it.
	DefaultOverviewDepth = 3

	// DefaultExternalSegment names the namespace holding third-party elements.
	DefaultExternalSegment = "External"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"
)

// Config is the resolved runtime configuration.
type Config struct {
	LoadTimeout     time.Duration
	IdleTimeout     time.Duration
	SocketPath      string
	PIDPath         string
	LogPath         string
	HTTPEnabled     bool
	HTTPAddr        string
	LogJSON         bool
	LogLevel        string
	OverviewDepth   int
	ExternalSegment string
	Watch           bool
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		LoadTimeout:     DefaultLoadTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		SocketPath:      DefaultDaemonSocketPath(),
		PIDPath:         DefaultDaemonPIDPath(),
		LogPath:         DefaultDaemonLogPath(),
		HTTPAddr:        DefaultHTTPAddr,
		LogLevel:        DefaultLogLevel,
		OverviewDepth:   DefaultOverviewDepth,
		ExternalSegment: DefaultExternalSegment,
		Watch:           true,
	}
}
