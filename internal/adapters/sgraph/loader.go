// Package sgraph loads architecture models from sgraph XML archives and from
// YAML or JSON model documents.
package sgraph

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ModelLoader = (*Loader)(nil)

var errEmptyModel = zerr.New("model has no elements")

type format int

const (
	formatUnknown format = iota
	formatXML
	formatZip
	formatDocument
)

// Loader reads model files from disk. It is safe for concurrent use.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the model stored at path. The format is chosen by extension.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Model, error) {
	kind := detectFormat(path)
	if kind == formatUnknown {
		return nil, domain.Annotate(domain.ErrUnsupportedFormat, "path", path)
	}

	var (
		m   *domain.Model
		err error
	)
	switch kind {
	case formatZip:
		m, err = loadArchive(ctx, path)
	default:
		m, err = loadFile(ctx, path, kind)
	}
	if err == nil {
		return m, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if errors.Is(err, domain.ErrSourceUnavailable) {
		return nil, err
	}
	return nil, zerr.With(errors.Join(domain.ErrLoadFailed, err), "path", path)
}

func detectFormat(path string) format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".zip"):
		return formatZip
	case strings.HasSuffix(name, ".xml"):
		return formatXML
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"), strings.HasSuffix(name, ".json"):
		return formatDocument
	default:
		return formatUnknown
	}
}

func loadFile(ctx context.Context, path string, kind format) (*domain.Model, error) {
	f, err := os.Open(path) //nolint:gosec // Path is validated by the cache before loading
	if err != nil {
		return nil, unavailable(err, path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	return decode(ctx, f, kind)
}

func loadArchive(ctx context.Context, path string) (*domain.Model, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, unavailable(err, path)
		}
		return nil, zerr.Wrap(err, "failed to open model archive")
	}
	defer archive.Close() //nolint:errcheck // Read-only archive

	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(entry.Name), ".xml") {
			continue
		}
		r, err := entry.Open()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to open archive entry"), "entry", entry.Name)
		}
		m, err := decode(ctx, r, formatXML)
		_ = r.Close()
		return m, err
	}
	return nil, zerr.New("archive contains no xml model")
}

func decode(ctx context.Context, r io.Reader, kind format) (*domain.Model, error) {
	if kind == formatDocument {
		return decodeDocument(ctx, r)
	}
	return decodeXML(ctx, r)
}

func unavailable(err error, path string) error {
	return zerr.With(errors.Join(domain.ErrSourceUnavailable, err), "path", path)
}

func build(b *domain.ModelBuilder) (*domain.Model, error) {
	m, err := b.Build()
	if errors.Is(err, domain.ErrRootNotFound) {
		return nil, errEmptyModel
	}
	return m, err
}
