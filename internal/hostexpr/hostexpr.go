// Package hostexpr is the abstract target the DAG lowering pass emits
// into: a small sum of Let/If/Cond/Call/Lit/Name/Raise nodes that a
// back-end can serialize to any concrete host language, keeping the core
// independent of a specific target's AST.
package hostexpr

import (
	"fmt"
	"strings"
)

// Expr is the closed sum of abstract host expressions.
type Expr interface {
	exprNode()
	String() string
}

// Name references a previously bound identifier.
type Name struct{ Ident string }

func (Name) exprNode()        {}
func (n Name) String() string { return n.Ident }

// Lit is a literal constant embedded in the emitted code.
type Lit struct{ Value any }

func (Lit) exprNode() {}
func (l Lit) String() string {
	switch v := l.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Call is an abstract operation applied to arguments: equality tests,
// structural tests (isSeq, isMap, isVectorKind, hasCount, keySetEquals),
// and projections (head, tail, nth, lookup, slice, sliceFrom). The DAG nodes decide which Fn names to
// emit; Call itself is opaque to the core.
type Call struct {
	Fn   string
	Args []Expr
}

func (Call) exprNode() {}
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Fn, strings.Join(parts, ", "))
}

// If is a two-armed conditional: if Cond then Then else Else.
type If struct {
	Cond, Then, Else Expr
}

func (If) exprNode() {}
func (i If) String() string {
	return fmt.Sprintf("if %s { %s } else { %s }", i.Cond.String(), i.Then.String(), i.Else.String())
}

// CondClause is one test/body pair of a Cond cascade.
type CondClause struct {
	Test Expr
	Body Expr
}

// Cond is an ordered if/else-if cascade with a mandatory final default,
// the natural shape for lowering a Switch node: test each pattern's
// condition in order, fall through to Default.
type Cond struct {
	Clauses []CondClause
	Default Expr
}

func (Cond) exprNode() {}
func (c Cond) String() string {
	var b strings.Builder
	for i, cl := range c.Clauses {
		if i == 0 {
			b.WriteString("cond ")
		} else {
			b.WriteString(" elif ")
		}
		fmt.Fprintf(&b, "%s => %s", cl.Test.String(), cl.Body.String())
	}
	fmt.Fprintf(&b, " else => %s end", c.Default.String())
	return b.String()
}

// Binding is one name/value pair of a Let.
type Binding struct {
	Name  string
	Value Expr
}

// Let introduces zero or more bindings in order, then evaluates Body.
// Bindings named "_" are dropped by the printer.
type Let struct {
	Bindings []Binding
	Body     Expr
}

func (Let) exprNode() {}
func (l Let) String() string {
	if len(l.Bindings) == 0 {
		return l.Body.String()
	}
	var b strings.Builder
	b.WriteString("let ")
	first := true
	for _, bind := range l.Bindings {
		if bind.Name == "_" {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s = %s", bind.Name, bind.Value.String())
	}
	fmt.Fprintf(&b, " in %s", l.Body.String())
	return b.String()
}

// Raise evaluates to a runtime failure with the given message: the
// "no match found" error, also used for an unreachable MapCrash branch.
type Raise struct{ Message string }

func (Raise) exprNode()        {}
func (r Raise) String() string { return fmt.Sprintf("raise(%q)", r.Message) }
