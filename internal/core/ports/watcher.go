package ports

import (
	"context"
	"iter"
)

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

// WatchEvent represents a change to a watched model source.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher observes model source files for changes.
type Watcher interface {
	// Start begins delivering events until ctx is done or Stop is called.
	Start(ctx context.Context) error
	// Watch adds a file to the watched set.
	Watch(path string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of change events for watched files.
	Events() iter.Seq[WatchEvent]
}
