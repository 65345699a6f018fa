package domain

import "go.trai.ch/zerr"

// Annotate attaches key and value to sentinel. The result still matches
// sentinel with errors.Is and prints the same message.
func Annotate(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}

var (
	// ErrModelNotFound is returned when a model handle is not present in the cache.
	ErrModelNotFound = zerr.New("model not loaded")

	// ErrElementNotFound is returned when an element path does not resolve in a model.
	ErrElementNotFound = zerr.New("element not found")

	// ErrScopeNotFound is returned when a scope path does not resolve in a model.
	ErrScopeNotFound = zerr.New("scope not found")

	// ErrRootNotFound is returned when a model has no root element.
	ErrRootNotFound = zerr.New("model has no root element")

	// ErrInvalidDirection is returned when a traversal direction is not one of the supported values.
	ErrInvalidDirection = zerr.New("invalid direction, expected 'outgoing', 'incoming' or 'both'")

	// ErrInvalidInput is returned when a request carries a malformed or missing argument.
	ErrInvalidInput = zerr.New("invalid input")

	// ErrInvalidFilter is returned when an attribute filter value is not a supported scalar.
	ErrInvalidFilter = zerr.New("invalid attribute filter")

	// ErrPathTraversal is returned when a model file path contains a parent directory segment.
	ErrPathTraversal = zerr.New("path traversal detected")

	// ErrUnknownTool is returned when a tool name is not registered.
	ErrUnknownTool = zerr.New("unknown tool")

	// ErrLoadTimeout is returned when loading a model exceeds the configured bound.
	ErrLoadTimeout = zerr.New("model loading timed out")

	// ErrSourceUnavailable is returned when the model file does not exist or cannot be opened.
	ErrSourceUnavailable = zerr.New("model file does not exist")

	// ErrLoadFailed is returned when the model file cannot be decoded into a graph.
	ErrLoadFailed = zerr.New("failed to load model")

	// ErrUnsupportedFormat is returned when the model file extension is not recognized.
	ErrUnsupportedFormat = zerr.New("unsupported model format")

	// ErrDanglingReference is returned when an association references an unknown element.
	ErrDanglingReference = zerr.New("association references unknown element")

	// ErrDuplicatePath is returned when two elements resolve to the same path.
	ErrDuplicatePath = zerr.New("duplicate element path")

	// ErrInvalidParent is returned when an element is attached to a parent that does not exist.
	ErrInvalidParent = zerr.New("invalid parent element")

	// ErrRootAlreadyDefined is returned when a builder receives a second root element.
	ErrRootAlreadyDefined = zerr.New("root element already defined")

	// ErrInternal is returned when an operation fails unexpectedly.
	ErrInternal = zerr.New("internal error")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidLogLevel is returned when the configured log level is unknown.
	ErrInvalidLogLevel = zerr.New("invalid log level, expected 'debug', 'info', 'warn' or 'error'")

	// ErrDaemonNotRunning is returned when a daemon command needs a running daemon.
	ErrDaemonNotRunning = zerr.New("daemon is not running")

	// ErrDaemonSpawnFailed is returned when the daemon process cannot be started.
	ErrDaemonSpawnFailed = zerr.New("failed to spawn daemon")

	// ErrDaemonCallFailed is returned when a daemon RPC fails at the transport level.
	ErrDaemonCallFailed = zerr.New("daemon call failed")

	// ErrToolFailed is returned by CLI commands whose tool result reports an error.
	ErrToolFailed = zerr.New("tool reported an error")
)
