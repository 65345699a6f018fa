package ports

import (
	"context"

	"go.trai.ch/strata/internal/core/domain"
)

//go:generate mockgen -source=model_loader.go -destination=mocks/mock_model_loader.go -package=mocks

// ModelLoader decodes a model file into a graph.
type ModelLoader interface {
	// Load reads the model at path. Implementations stop early once ctx is done.
	Load(ctx context.Context, path string) (*domain.Model, error)
}

// Hasher computes content digests of files.
type Hasher interface {
	// HashFile returns a stable hex digest of the file at path.
	HashFile(path string) (string, error)
}
