package watcher

import (
	"context"
	"time"

	"go.trai.ch/strata/internal/core/ports"
)

// Monitor feeds watcher events through a Debouncer and calls onChange with
// each settled batch of changed paths. It returns when ctx is done or the
// event stream ends; pending changes are flushed first.
func Monitor(ctx context.Context, w ports.Watcher, window time.Duration, onChange func(paths []string)) {
	d := NewDebouncer(window, onChange)
	defer d.Flush()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range w.Events() {
			if ctx.Err() != nil {
				return
			}
			d.Add(event.Path)
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
}
