// Package trace renders a compiled decision DAG as a tree, for the -trace
// flag of cmd/pmc and for library callers who pass WithTrace, using
// xlab/treeprint to build the tree layout.
package trace

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/nivertech/match/internal/dag"
	"github.com/nivertech/match/internal/matrix"
)

// Render returns a human-readable tree of n, rooted at "match".
func Render(n dag.Node) string {
	root := treeprint.New()
	root.SetValue("match")
	addNode(root, n)
	return root.String()
}

func addNode(branch treeprint.Tree, n dag.Node) {
	switch node := n.(type) {
	case dag.Leaf:
		branch.AddNode(fmt.Sprintf("leaf: %s", node.Action.String()))
	case dag.Fail:
		branch.AddNode("fail")
	case dag.Bind:
		sub := branch.AddBranch(fmt.Sprintf("bind %s", bindingNames(node.Bindings)))
		addNode(sub, node.Inner)
	case dag.Switch:
		sub := branch.AddBranch(fmt.Sprintf("switch %s", node.Occurrence.Name))
		for _, c := range node.Cases {
			caseBranch := sub.AddBranch(fmt.Sprintf("case %s", c.Pattern.String()))
			addNode(caseBranch, c.Child)
		}
		defBranch := sub.AddBranch("default")
		addNode(defBranch, node.Default)
	}
}

func bindingNames(bindings []matrix.Binding) string {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
	}
	return fmt.Sprintf("%v", names)
}
