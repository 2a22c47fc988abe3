// lower.go lowers a decision DAG into host expressions: each DAG node
// emits host-language code, and each pattern variant knows how to test
// an occurrence.
package dag

import (
	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

// ErrNoMatch is the message Fail lowers to.
const ErrNoMatch = "no match found"

// Lowerer lowers a decision DAG into hostexpr, threading nothing but the
// node tree itself — compilation is purely functional.
type Lowerer struct{}

// Lower dispatches on the node's dynamic type and returns its hostexpr
// rendering.
func (lw Lowerer) Lower(n Node) hostexpr.Expr {
	switch node := n.(type) {
	case Leaf:
		return letOf(node.Bindings, node.Action)
	case Fail:
		return hostexpr.Raise{Message: ErrNoMatch}
	case Bind:
		return letOf(node.Bindings, lw.Lower(node.Inner))
	case Switch:
		return lw.lowerSwitch(node)
	}
	panic("dag: unknown node type")
}

func (lw Lowerer) lowerSwitch(s Switch) hostexpr.Expr {
	clauses := make([]hostexpr.CondClause, 0, len(s.Cases))
	for _, c := range s.Cases {
		clauses = append(clauses, hostexpr.CondClause{
			Test: Test(c.Pattern, s.Occurrence),
			Body: lw.Lower(c.Child),
		})
	}
	cond := hostexpr.Cond{Clauses: clauses, Default: lw.Lower(s.Default)}

	if s.Occurrence.BindExpr != nil {
		return hostexpr.Let{
			Bindings: []hostexpr.Binding{{Name: s.Occurrence.Name, Value: s.Occurrence.BindExpr}},
			Body:     cond,
		}
	}
	return cond
}

func letOf(bindings []matrix.Binding, body hostexpr.Expr) hostexpr.Expr {
	if len(bindings) == 0 {
		return body
	}
	hb := make([]hostexpr.Binding, len(bindings))
	for i, b := range bindings {
		hb[i] = hostexpr.Binding{Name: b.Name, Value: b.Expr}
	}
	return hostexpr.Let{Bindings: hb, Body: body}
}

// Test returns the expression that tests whether occ's current value
// matches p. Wildcard and Or never reach a Switch case — they are
// compiled away before a Switch is built.
func Test(p pattern.Pattern, occ *occurrence.Occurrence) hostexpr.Expr {
	switch v := p.(type) {
	case pattern.Literal:
		want := hostexpr.Expr(hostexpr.Lit{Value: v.Value})
		if v.Local {
			want = hostexpr.Name{Ident: v.Value.(string)}
		}
		return hostexpr.Call{Fn: "eq", Args: []hostexpr.Expr{occ.Expr(), want}}
	case pattern.Seq:
		return hostexpr.Call{Fn: "isSeq", Args: []hostexpr.Expr{occ.Expr()}}
	case pattern.Map:
		return hostexpr.Call{Fn: "isMap", Args: []hostexpr.Expr{occ.Expr()}}
	case pattern.Vector:
		kindTest := hostexpr.Call{Fn: "isVectorKind", Args: []hostexpr.Expr{occ.Expr(), hostexpr.Lit{Value: v.Kind}}}
		if !v.Rest {
			countTest := hostexpr.Call{Fn: "hasCount", Args: []hostexpr.Expr{occ.Expr(), hostexpr.Lit{Value: v.MinSize}}}
			return hostexpr.Call{Fn: "and", Args: []hostexpr.Expr{kindTest, countTest}}
		}
		return kindTest
	case pattern.MapCrash:
		return hostexpr.Call{Fn: "keySetEquals", Args: []hostexpr.Expr{occ.Expr(), hostexpr.Lit{Value: v.Keys}}}
	case pattern.Guard:
		var args []hostexpr.Expr
		if _, isWild := v.Inner.(pattern.Wildcard); !isWild {
			args = append(args, Test(v.Inner, occ))
		}
		for _, pr := range v.Preds {
			args = append(args, hostexpr.Call{Fn: "apply", Args: []hostexpr.Expr{pr, occ.Expr()}})
		}
		if len(args) == 1 {
			return args[0]
		}
		return hostexpr.Call{Fn: "and", Args: args}
	default:
		panic("dag: pattern variant has no Switch-case test")
	}
}
