package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/strata/internal/ui/style"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("OVERVIEW "+m.Source) + "\n\n")

	if m.Root == nil {
		b.WriteString("model has no root element\n")
		b.WriteString(style.Help.Render("q quit") + "\n")
		return b.String()
	}

	if m.ShowSummary {
		b.WriteString(m.summary())
	} else {
		b.WriteString(m.rows())
		b.WriteString(m.detail() + "\n")
	}

	b.WriteString(style.Help.Render("↑/↓ move  →/enter expand  ← collapse  space toggle  s summary  q quit"))
	return b.String()
}

func (m *Model) rows() string {
	var b strings.Builder

	start, end := 0, len(m.Rows)
	if m.ListHeight > 0 {
		start = min(m.ListOffset, len(m.Rows))
		end = min(start+m.ListHeight, len(m.Rows))
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i, m.Rows[i]) + "\n")
	}
	return b.String()
}

func (m *Model) renderRow(index int, n *TreeNode) string {
	cursor := "  "
	if index == m.SelectedIdx {
		cursor = cursorStyle.Render("> ")
	}

	glyph := style.Leaf
	switch {
	case n.Expandable() && n.Expanded:
		glyph = style.Expanded
	case n.Expandable() || n.Overview.Truncated > 0:
		glyph = style.Collapsed
	}

	label := style.Name.Render(n.Label)
	if index == m.SelectedIdx {
		label = style.Selected.Render(n.Label)
	}

	row := fmt.Sprintf("%s%s%s %s %s", cursor, strings.Repeat("  ", n.Depth), glyph, label,
		style.Type.Render(n.Overview.Element.Type.String()))
	if n.Overview.Truncated > 0 {
		row += " " + style.More.Render(fmt.Sprintf("%s%d more", style.Ellipsis, n.Overview.Truncated))
	}
	return row
}

func (m *Model) detail() string {
	n := m.Selected()
	if n == nil {
		return ""
	}

	el := n.Overview.Element
	lines := []string{
		"path:  " + style.Path.Render(el.Path),
		"type:  " + style.Type.Render(el.Type.String()),
		fmt.Sprintf("depth: %d", n.Depth),
	}
	if c := n.Overview.Counts; c != nil {
		lines = append(lines, style.Counts.Render(
			fmt.Sprintf("%d children, %d incoming, %d outgoing", c.Children, c.Incoming, c.Outgoing)))
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) summary() string {
	s := m.Overview.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d elements\n", style.Statistic.Render("Summary:"), s.TotalElements)
	for _, depth := range slices.Sorted(maps.Keys(s.DepthCounts)) {
		fmt.Fprintf(&b, "  depth %d: %d\n", depth, s.DepthCounts[depth])
	}
	for _, typ := range slices.Sorted(maps.Keys(s.TypeDistribution)) {
		fmt.Fprintf(&b, "  %s: %d\n", typ, s.TypeDistribution[typ])
	}
	return b.String() + "\n"
}
