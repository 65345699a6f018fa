package domain

import "path/filepath"

const (
	// StrataDirName is the name of the per-project state directory.
	StrataDirName = ".strata"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "strata.yaml"

	// DaemonSocketFile is the name of the daemon's Unix socket.
	DaemonSocketFile = "daemon.sock"

	// DaemonPIDFile is the name of the daemon's PID file.
	DaemonPIDFile = "daemon.pid"

	// DaemonLogFile is the name of the daemon's log file.
	DaemonLogFile = "daemon.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm restricts the daemon socket to its owner (rw-------).
	SocketPerm = 0o600
)

// DefaultDaemonSocketPath returns .strata/daemon.sock.
func DefaultDaemonSocketPath() string {
	return filepath.Join(StrataDirName, DaemonSocketFile)
}

// DefaultDaemonPIDPath returns .strata/daemon.pid.
func DefaultDaemonPIDPath() string {
	return filepath.Join(StrataDirName, DaemonPIDFile)
}

// DefaultDaemonLogPath returns .strata/daemon.log.
func DefaultDaemonLogPath() string {
	return filepath.Join(StrataDirName, DaemonLogFile)
}
