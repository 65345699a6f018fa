package cache

import (
	"errors"
	"os"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
)

// Freshness compares the model stored under id with its source file as it is
// now. A model whose source has changed or vanished is marked stale; a stale
// model is never reloaded or evicted automatically.
func (c *Cache) Freshness(id string) (domain.Freshness, error) {
	info, ok := c.Info(id)
	if !ok {
		return domain.Freshness{}, domain.Annotate(domain.ErrModelNotFound, "model_id", id)
	}

	f := domain.Freshness{
		ID:       id,
		Source:   info.Source,
		LoadedAt: info.LoadedAt,
		Digest:   info.Digest,
		Stale:    info.Stale,
	}
	if info.Source == "" {
		return f, nil
	}

	stat, err := os.Stat(info.Source)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.Stale = true
	case err != nil:
		return f, zerr.With(errors.Join(domain.ErrSourceUnavailable, err), "path", info.Source)
	default:
		f.Exists = true
		f.ModifiedAt = stat.ModTime()
		f.SizeBytes = stat.Size()
		digest, hashErr := c.hasher.HashFile(info.Source)
		if hashErr != nil {
			return f, zerr.With(zerr.Wrap(hashErr, "failed to hash model source"), "path", info.Source)
		}
		f.CurrentDigest = digest
		if info.Digest != "" && digest != info.Digest {
			f.Stale = true
		}
	}

	if f.Stale && !info.Stale {
		c.markStale(id)
	}
	return f, nil
}

// Revalidate re-hashes a source file and marks every model loaded from it
// whose digest no longer matches. It returns the number of models newly
// marked stale.
func (c *Cache) Revalidate(source string) int {
	digest, err := c.hasher.HashFile(source)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("failed to hash model source", "path", source, "error", err.Error())
		return 0
	}

	c.mu.Lock()
	marked := 0
	for id, e := range c.entries {
		if e.info.Source != source || e.info.Stale {
			continue
		}
		if digest == "" || digest != e.info.Digest {
			e.info.Stale = true
			marked++
			c.logger.Debug("model source changed", "model_id", id, "path", source)
		}
	}
	c.mu.Unlock()

	if marked > 0 {
		c.logger.Warn("cached models are stale", "path", source, "count", marked)
	}
	return marked
}

func (c *Cache) markStale(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[id]; ok {
		e.info.Stale = true
	}
}
