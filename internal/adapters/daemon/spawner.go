package daemon

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	pollInterval    = 100 * time.Millisecond
	maxPollDuration = 5 * time.Second
	pingTimeout     = time.Second
)

var _ ports.DaemonConnector = (*Connector)(nil)

// Connector implements ports.DaemonConnector for the daemon described by a
// configuration.
type Connector struct {
	executablePath string
	socketPath     string
	logPath        string
	workDir        string
}

// NewConnector creates a connector that spawns the current executable.
func NewConnector(cfg domain.Config) (*Connector, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return NewConnectorFor(exe, cfg), nil
}

// NewConnectorFor creates a connector that spawns executablePath. The daemon
// runs in the directory holding its state directory.
func NewConnectorFor(executablePath string, cfg domain.Config) *Connector {
	workDir := filepath.Dir(filepath.Dir(cfg.SocketPath))
	return &Connector{
		executablePath: executablePath,
		socketPath:     cfg.SocketPath,
		logPath:        cfg.LogPath,
		workDir:        workDir,
	}
}

// Connect returns a client, spawning the daemon if necessary.
func (c *Connector) Connect(ctx context.Context) (ports.DaemonClient, error) {
	if client, err := c.Dial(ctx); err == nil {
		return client, nil
	}

	if err := c.Spawn(ctx); err != nil {
		return nil, err
	}

	client, err := c.Dial(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon started but is not responsive")
	}
	return client, nil
}

// Dial returns a client to a running daemon.
func (c *Connector) Dial(ctx context.Context) (ports.DaemonClient, error) {
	client, err := Dial(c.socketPath)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, domain.Annotate(domain.ErrDaemonNotRunning, "socket", c.socketPath)
	}
	return client, nil
}

// IsRunning checks if the daemon is running and responsive.
func (c *Connector) IsRunning() bool {
	client, err := c.Dial(context.Background())
	if err != nil {
		return false
	}
	_ = client.Close()
	return true
}

// Spawn starts the daemon process in the background and waits until it answers.
func (c *Connector) Spawn(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(c.logPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	//nolint:gosec // G304: logPath comes from the resolved configuration
	logFile, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to open daemon log")
	}

	//nolint:gosec // G204: executablePath is controlled, args are fixed literals
	cmd := exec.Command(c.executablePath, "daemon", "serve")
	cmd.Dir = c.workDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return zerr.With(errors.Join(domain.ErrDaemonSpawnFailed, err), "executable", c.executablePath)
	}

	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	return c.waitForStartup(ctx)
}

func (c *Connector) waitForStartup(ctx context.Context) error {
	deadline := time.Now().Add(maxPollDuration)
	for time.Now().Before(deadline) {
		if c.IsRunning() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return domain.Annotate(domain.ErrDaemonSpawnFailed, "reason", "daemon did not answer within "+maxPollDuration.String())
}
