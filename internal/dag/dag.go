// Package dag defines the decision DAG: Leaf, Fail, Bind and Switch, plus
// the pass that lowers a Node into a hostexpr.Expr.
package dag

import (
	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

// Node is the closed sum of decision-DAG nodes.
type Node interface {
	dagNode()
}

// Leaf emits action under the row's accumulated bindings.
type Leaf struct {
	Action   hostexpr.Expr
	Bindings []matrix.Binding
}

func (Leaf) dagNode() {}

// Fail emits a runtime "no match found" failure.
type Fail struct{}

func (Fail) dagNode() {}

// Bind introduces lets then evaluates Inner. Used for lifted-occurrence
// (ocr-expr) bindings around a Switch and for vector-kind coercion;
// row-captured bindings travel on the Leaf itself.
type Bind struct {
	Bindings []matrix.Binding
	Inner    Node
}

func (Bind) dagNode() {}

// SwitchCase is one (pattern, child) arm of a Switch, tested in order.
type SwitchCase struct {
	Pattern pattern.Pattern
	Child   Node
}

// Switch evaluates Occurrence, tests each case's pattern in order, and
// falls through to Default if none match.
type Switch struct {
	Occurrence *occurrence.Occurrence
	Cases      []SwitchCase
	Default    Node
}

func (Switch) dagNode() {}
