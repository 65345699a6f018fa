package tui

import (
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/query"
)

// TreeNode is one row of the overview browser.
type TreeNode struct {
	Overview *domain.OverviewNode
	Label    string
	Depth    int
	Expanded bool
	Parent   *TreeNode
	Children []*TreeNode
}

// Expandable reports whether the node has children to show.
func (n *TreeNode) Expandable() bool {
	return len(n.Children) > 0
}

func buildTree(node *domain.OverviewNode, parent *TreeNode) *TreeNode {
	label := query.ChildKey(node.Element)
	if parent == nil && node.Element.Name == "" {
		label = "<root>"
	}

	tn := &TreeNode{
		Overview: node,
		Label:    label,
		Depth:    node.Depth,
		Expanded: parent == nil,
		Parent:   parent,
		Children: make([]*TreeNode, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		tn.Children = append(tn.Children, buildTree(child, tn))
	}
	return tn
}

// flattenTree lists the visible rows. Children are included only below
// expanded nodes.
func flattenTree(root *TreeNode) []*TreeNode {
	if root == nil {
		return nil
	}
	var rows []*TreeNode
	stack := []*TreeNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rows = append(rows, n)
		if !n.Expanded {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return rows
}
