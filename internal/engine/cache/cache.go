// Package cache holds loaded models under opaque handles and serializes the
// loading of new ones.
package cache

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

type entry struct {
	model *domain.Model
	info  domain.ModelInfo
}

// Cache maps handles to immutable models. Lookups and listings only take a
// read lock; loads are serialized through a single slot so at most one model
// is decoded at a time.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry

	loader  ports.ModelLoader
	hasher  ports.Hasher
	logger  ports.Logger
	metrics ports.Metrics

	loadSlot *semaphore.Weighted
	timeout  time.Duration
	newID    func() string
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLoadTimeout bounds each load. Non-positive values keep the default.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithIDGenerator replaces the handle generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cache) {
		c.newID = fn
	}
}

// WithClock replaces the time source used for load timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache.
func New(
	loader ports.ModelLoader,
	hasher ports.Hasher,
	logger ports.Logger,
	metrics ports.Metrics,
	opts ...Option,
) *Cache {
	c := &Cache{
		entries:  make(map[string]*entry),
		loader:   loader,
		hasher:   hasher,
		logger:   logger,
		metrics:  metrics,
		loadSlot: semaphore.NewWeighted(1),
		timeout:  domain.DefaultLoadTimeout,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Insert stores m under a freshly generated handle.
func (c *Cache) Insert(m *domain.Model, info domain.ModelInfo) string {
	described := domain.Describe(m)
	info.RootName = described.RootName
	info.ChildrenCount = described.ChildrenCount
	info.Elements = described.Elements
	info.Associations = described.Associations
	if info.LoadedAt.IsZero() {
		info.LoadedAt = c.now()
	}

	c.mu.Lock()
	id := c.newID()
	for c.entries[id] != nil {
		id = c.newID()
	}
	info.ID = id
	c.entries[id] = &entry{model: m, info: info}
	n := len(c.entries)
	c.mu.Unlock()

	c.metrics.SetCachedModels(n)
	return id
}

// Get returns the model stored under id.
func (c *Cache) Get(id string) (*domain.Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return e.model, true
}

// Info returns the summary of the model stored under id.
func (c *Cache) Info(id string) (domain.ModelInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return domain.ModelInfo{}, false
	}
	return e.info, true
}

// List returns a summary of every cached model keyed by handle.
func (c *Cache) List() map[string]domain.ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]domain.ModelInfo, len(c.entries))
	for id, e := range c.entries {
		out[id] = e.info
	}
	return out
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Remove deletes one model and reports whether it existed.
func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	_, ok := c.entries[id]
	delete(c.entries, id)
	n := len(c.entries)
	c.mu.Unlock()

	if ok {
		c.metrics.SetCachedModels(n)
		c.logger.Info("removed model from cache", "model_id", id)
	}
	return ok
}

// Clear deletes every model and returns how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	clear(c.entries)
	c.mu.Unlock()

	c.metrics.SetCachedModels(0)
	c.logger.Info("cleared model cache", "count", n)
	return n
}

// Sources returns the distinct source files of cached models.
func (c *Cache) Sources() []string {
	c.mu.RLock()
	set := make(map[string]struct{}, len(c.entries))
	for _, e := range c.entries {
		if e.info.Source != "" {
			set[e.info.Source] = struct{}{}
		}
	}
	c.mu.RUnlock()

	return slices.Sorted(maps.Keys(set))
}

type loadResult struct {
	model *domain.Model
	err   error
}

// Load validates path, decodes it on a worker goroutine and caches the result.
//
// Loads are serialized: a caller waits for the load slot as long as ctx
// allows. The decode itself is bounded by the load timeout; when it expires
// the decode context is cancelled, the caller receives ErrLoadTimeout and any
// late result is discarded. The slot is released only once the worker has
// returned.
func (c *Cache) Load(ctx context.Context, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.Annotate(domain.ErrSourceUnavailable, "path", path)
		}
		return "", zerr.With(errors.Join(domain.ErrSourceUnavailable, err), "path", path)
	}
	if info.IsDir() {
		return "", zerr.With(domain.Annotate(domain.ErrSourceUnavailable, "path", path), "reason", "is a directory")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	c.logger.Info("loading model", "path", abs, "size_bytes", info.Size())

	if err := c.loadSlot.Acquire(ctx, 1); err != nil {
		return "", zerr.Wrap(err, "waiting for load slot")
	}

	start := c.now()
	loadCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan loadResult, 1)
	go func() {
		defer c.loadSlot.Release(1)
		m, err := c.loader.Load(loadCtx, abs)
		done <- loadResult{model: m, err: err}
	}()

	var res loadResult
	select {
	case res = <-done:
	case <-loadCtx.Done():
		res.err = loadCtx.Err()
	}
	elapsed := c.now().Sub(start)

	if res.err != nil {
		err := c.classifyLoadError(ctx, loadCtx, res.err, abs)
		c.metrics.ObserveLoad(string(domain.KindOf(err)), elapsed)
		c.logger.Error(err)
		return "", err
	}

	digest, hashErr := c.hasher.HashFile(abs)
	if hashErr != nil {
		c.logger.Warn("failed to hash model source", "path", abs, "error", hashErr.Error())
	}

	id := c.Insert(res.model, domain.ModelInfo{
		Source:       abs,
		Digest:       digest,
		LoadedAt:     c.now(),
		LoadDuration: elapsed,
	})
	c.metrics.ObserveLoad("ok", elapsed)
	c.logger.Info("model loaded",
		"model_id", id,
		"elements", res.model.ElementCount(),
		"associations", res.model.AssociationCount(),
		"duration", elapsed.Round(time.Millisecond).String(),
	)
	return id, nil
}

func (c *Cache) classifyLoadError(ctx, loadCtx context.Context, err error, path string) error {
	switch {
	case ctx.Err() != nil:
		return zerr.With(zerr.Wrap(ctx.Err(), "model load cancelled"), "path", path)
	case errors.Is(loadCtx.Err(), context.DeadlineExceeded):
		return zerr.With(domain.Annotate(domain.ErrLoadTimeout, "path", path), "timeout", c.timeout.String())
	case errors.Is(err, domain.ErrSourceUnavailable), errors.Is(err, domain.ErrLoadFailed),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return err
	default:
		return zerr.With(errors.Join(domain.ErrLoadFailed, err), "path", path)
	}
}

// ValidatePath rejects empty paths and paths containing a parent directory
// segment.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.Annotate(domain.ErrInvalidInput, "reason", "path cannot be empty")
	}
	for _, segment := range strings.FieldsFunc(path, isSeparator) {
		if segment == ".." {
			return domain.Annotate(domain.ErrPathTraversal, "path", path)
		}
	}
	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
