// Package linear prints model overviews as an indented, non-interactive listing.
package linear

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/strata/internal/engine/query"
	"go.trai.ch/strata/internal/ui/output"
	"go.trai.ch/strata/internal/ui/style"
)

const indentUnit = "  "

var _ ports.OverviewRenderer = (*Renderer)(nil)

// Renderer implements ports.OverviewRenderer for pipes and CI logs.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer creates a Renderer writing to w. A nil writer means os.Stdout.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{out: output.NewWithProfile(w, output.ColorProfileANSI)}
}

// Render writes the overview tree followed by its summary statistics.
func (r *Renderer) Render(_ context.Context, source string, ov domain.Overview) error {
	var b strings.Builder

	title := r.out.String(fmt.Sprintf("Model overview: %s", source)).Bold().
		Foreground(r.out.Color(string(style.Indigo))).String()
	fmt.Fprintf(&b, "%s (max depth %d)\n\n", title, ov.MaxDepth)

	if ov.Tree == nil {
		b.WriteString("model has no root element\n")
	} else {
		r.writeNode(&b, ov.Tree, 0)
	}

	b.WriteString("\n")
	r.writeSummary(&b, ov.Summary)

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) writeNode(b *strings.Builder, node *domain.OverviewNode, level int) {
	indent := strings.Repeat(indentUnit, level)
	el := node.Element

	glyph := style.Leaf
	switch {
	case len(node.Children) > 0:
		glyph = style.Expanded
	case node.Truncated > 0:
		glyph = style.Collapsed
	}

	name := query.ChildKey(el)
	if el.IsRoot() && el.Name == "" {
		name = "<root>"
	}

	line := fmt.Sprintf("%s%s %s %s",
		indent,
		glyph,
		r.out.String(name).Bold().String(),
		r.out.String(el.Type.Or(domain.UnknownType)).Foreground(r.out.Color(string(style.Teal))).String(),
	)
	if el.Path != "" {
		line += "  " + r.out.String(el.Path).Faint().String()
	}
	if c := node.Counts; c != nil {
		counts := fmt.Sprintf("(%d children, %d in, %d out)", c.Children, c.Incoming, c.Outgoing)
		line += "  " + r.out.String(counts).Italic().Faint().String()
	}
	b.WriteString(line + "\n")

	for _, child := range node.Children {
		r.writeNode(b, child, level+1)
	}
	if node.Truncated > 0 {
		more := fmt.Sprintf("%s %d more", style.Ellipsis, node.Truncated)
		fmt.Fprintf(b, "%s%s%s\n", indent, indentUnit,
			r.out.String(more).Foreground(r.out.Color(string(style.Amber))).String())
	}
}

func (r *Renderer) writeSummary(b *strings.Builder, s domain.OverviewSummary) {
	heading := func(text string) string {
		return r.out.String(text).Bold().Foreground(r.out.Color(string(style.Green))).String()
	}

	fmt.Fprintf(b, "%s %d elements\n", heading("Summary:"), s.TotalElements)

	b.WriteString(heading("By depth:") + "\n")
	for _, depth := range slices.Sorted(maps.Keys(s.DepthCounts)) {
		fmt.Fprintf(b, "%sdepth %d: %d\n", indentUnit, depth, s.DepthCounts[depth])
	}

	b.WriteString(heading("By type:") + "\n")
	types := slices.SortedFunc(maps.Keys(s.TypeDistribution), func(a, c string) int {
		if d := s.TypeDistribution[c] - s.TypeDistribution[a]; d != 0 {
			return d
		}
		return strings.Compare(a, c)
	})
	for _, typ := range types {
		fmt.Fprintf(b, "%s%s: %d\n", indentUnit, typ, s.TypeDistribution[typ])
	}
}
