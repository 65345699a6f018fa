// Package tui implements the interactive overview browser.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/strata/internal/core/domain"
)

// chromeHeight is the number of lines taken by the title, detail pane and help.
const chromeHeight = 9

// Model is the bubbletea state of the overview browser.
type Model struct {
	Source      string
	Overview    domain.Overview
	Root        *TreeNode
	Rows        []*TreeNode
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	Width       int
	ShowSummary bool
}

// NewModel creates a browser with the root expanded and selected.
func NewModel(source string, ov domain.Overview) *Model {
	m := &Model{Source: source, Overview: ov}
	if ov.Tree != nil {
		m.Root = buildTree(ov.Tree, nil)
	}
	m.Rows = flattenTree(m.Root)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Selected returns the node under the cursor.
func (m *Model) Selected() *TreeNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx]
	}
	return nil
}

// Update implements tea.Model.
//
//nolint:cyclop // key dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.ListHeight = max(msg.Height-chromeHeight, 1)
		m.ensureVisible()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "k", "up":
			m.move(-1)
		case "j", "down":
			m.move(1)
		case "g", "home":
			m.SelectedIdx = 0
			m.ensureVisible()
		case "G", "end":
			m.SelectedIdx = max(len(m.Rows)-1, 0)
			m.ensureVisible()
		case "l", "right", "enter":
			m.expand()
		case "h", "left":
			m.collapse()
		case " ":
			m.toggle()
		case "s":
			m.ShowSummary = !m.ShowSummary
		}
	}
	return m, nil
}

func (m *Model) move(delta int) {
	next := m.SelectedIdx + delta
	if next < 0 || next >= len(m.Rows) {
		return
	}
	m.SelectedIdx = next
	m.ensureVisible()
}

func (m *Model) expand() {
	n := m.Selected()
	if n == nil || !n.Expandable() || n.Expanded {
		return
	}
	n.Expanded = true
	m.refresh(n)
}

// collapse folds the selected node, or moves to its parent when it is
// already folded.
func (m *Model) collapse() {
	n := m.Selected()
	if n == nil {
		return
	}
	if n.Expanded && n.Expandable() {
		n.Expanded = false
		m.refresh(n)
		return
	}
	if n.Parent != nil {
		m.refresh(n.Parent)
	}
}

func (m *Model) toggle() {
	n := m.Selected()
	if n == nil || !n.Expandable() {
		return
	}
	n.Expanded = !n.Expanded
	m.refresh(n)
}

// refresh rebuilds the visible rows and keeps the cursor on selected.
func (m *Model) refresh(selected *TreeNode) {
	m.Rows = flattenTree(m.Root)
	for i, row := range m.Rows {
		if row == selected {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}
