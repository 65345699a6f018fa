package app

import (
	"context"
	"os"

	"go.trai.ch/strata/internal/adapters/detector"
	"go.trai.ch/strata/internal/adapters/linear"
	"go.trai.ch/strata/internal/adapters/tui"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/strata/internal/engine/query"
)

// InspectOptions configures the inspect command.
type InspectOptions struct {
	// Depth bounds the overview; zero or less uses the configured default.
	Depth int
	// Output selects the renderer: auto, tui or linear.
	Output detector.Mode
}

// Inspect loads a model in process and presents its overview.
func (a *App) Inspect(ctx context.Context, path string, opts InspectOptions) error {
	ctx, span := a.tracer.Start(ctx, "inspect")
	defer span.End()

	id, err := a.cache.Load(ctx, path)
	if err != nil {
		span.RecordError(err)
		return err
	}
	m, ok := a.cache.Get(id)
	if !ok {
		return domain.Annotate(domain.ErrModelNotFound, "model_id", id)
	}
	info, _ := a.cache.Info(id)

	depth := opts.Depth
	if depth <= 0 {
		depth = a.config.OverviewDepth
	}
	ov := query.Overview(m, domain.OverviewQuery{MaxDepth: depth, IncludeCounts: true})
	span.SetAttribute("elements", ov.Summary.TotalElements)

	return a.renderer(opts.Output).Render(ctx, info.Source, ov)
}

func (a *App) renderer(requested detector.Mode) ports.OverviewRenderer {
	detected := detector.ModeLinear
	if f, ok := a.stdout.(*os.File); ok {
		detected = detector.Detect(f)
	}
	if detector.Resolve(detected, requested) == detector.ModeTUI {
		return tui.NewRenderer(a.teaOptions...)
	}
	return linear.NewRenderer(a.stdout)
}
