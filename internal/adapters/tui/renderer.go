package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OverviewRenderer = (*Renderer)(nil)

// Renderer runs the overview browser as a ports.OverviewRenderer.
type Renderer struct {
	opts []tea.ProgramOption
}

// NewRenderer creates a renderer. Options are passed to every program it runs.
func NewRenderer(opts ...tea.ProgramOption) *Renderer {
	return &Renderer{opts: opts}
}

// Render blocks until the user quits the browser or ctx is done.
func (r *Renderer) Render(ctx context.Context, source string, ov domain.Overview) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, r.opts...)
	program := tea.NewProgram(NewModel(source, ov), opts...)

	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return zerr.Wrap(err, "overview browser failed")
	}
	return nil
}
