package ports

import (
	"context"

	"go.trai.ch/strata/internal/core/domain"
)

//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks

// OverviewRenderer presents a model overview to the user.
type OverviewRenderer interface {
	// Render displays the overview and returns once the user is done with it.
	Render(ctx context.Context, source string, overview domain.Overview) error
}
