// Package occurrence models the symbolic handles the matrix compiler
// dispatches on: each occurrence carries a name plus enough metadata to
// let the DAG lowering pass (internal/dag) emit a binding expression for
// it without consulting the matrix.
package occurrence

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nivertech/match/internal/hostexpr"
)

// Kind is the closed set of occurrence flavors.
type Kind int

const (
	Plain Kind = iota // the symbol itself is the value
	Seq               // head/tail of a parent sequence
	Vec               // element or slice of a parent vector
	Map               // keyed lookup into a parent map
)

// Occurrence is a named handle for a sub-value of the input. BindExpr, when
// non-nil, is the expression that derives this occurrence's value from its
// parent; lowering a Switch on this occurrence (internal/dag) introduces
// the let around that Switch. OcrExpr is set when the caller passed a raw expression rather
// than a symbol as a top-level occurrence; it takes the place of BindExpr
// for the root occurrence.
type Occurrence struct {
	Name     string
	Kind     Kind
	BindExpr hostexpr.Expr

	// SeqRoot is the root seq occurrence's name, for Seq occurrences.
	SeqRoot string

	// VecSym is the parent vector occurrence's name, for Vec occurrences.
	VecSym string
	// Index is set when this Vec occurrence projects a single element
	// (honoring offset); nil when it denotes a slice range instead.
	Index *int

	// MapSym is the parent map occurrence's name, for Map occurrences.
	MapSym string
	// Key is the lookup key, for Map occurrences.
	Key hostexpr.Expr

	// OcrExpr is the original expression a lifted (non-symbol) top-level
	// occurrence stands for.
	OcrExpr hostexpr.Expr
}

// Vector is the occurrence row the matrix compiler dispatches across.
type Vector []*Occurrence

// Gensym produces a fresh occurrence name that cannot collide with a
// surface-syntax identifier or a prior gensym, using a short uuid-derived
// suffix rather than a process-global counter so repeated compiler
// invocations sharing a process never clash.
func Gensym(prefix string) string {
	return fmt.Sprintf("%s__%s", prefix, uuid.New().String()[:8])
}

// NewPlain builds a plain occurrence: the named value itself.
func NewPlain(name string) *Occurrence {
	return &Occurrence{Name: name, Kind: Plain}
}

// Lifted builds a plain occurrence standing in for a raw expression the
// caller passed as an occurrence.
func Lifted(expr hostexpr.Expr) *Occurrence {
	return &Occurrence{Name: Gensym("ocr"), Kind: Plain, OcrExpr: expr}
}

// SeqHead builds the head occurrence for a seq specialization:
// bind-expr = "head of parent".
func SeqHead(parent *Occurrence) *Occurrence {
	root := parent.Name
	if parent.Kind == Seq {
		root = parent.SeqRoot
	}
	return &Occurrence{
		Name:     Gensym("hd"),
		Kind:     Seq,
		SeqRoot:  root,
		BindExpr: hostexpr.Call{Fn: "head", Args: []hostexpr.Expr{hostexpr.Name{Ident: parent.Name}}},
	}
}

// SeqTail builds the tail occurrence for a seq specialization: bind-expr =
// "tail of parent".
func SeqTail(parent *Occurrence) *Occurrence {
	root := parent.Name
	if parent.Kind == Seq {
		root = parent.SeqRoot
	}
	return &Occurrence{
		Name:     Gensym("tl"),
		Kind:     Seq,
		SeqRoot:  root,
		BindExpr: hostexpr.Call{Fn: "tail", Args: []hostexpr.Expr{hostexpr.Name{Ident: parent.Name}}},
	}
}

// VecElem builds the i-th element occurrence of a vector specialization,
// honoring a non-zero offset.
func VecElem(parent *Occurrence, i, offset int) *Occurrence {
	idx := i + offset
	return &Occurrence{
		Name:   Gensym("v"),
		Kind:   Vec,
		VecSym: parent.Name,
		Index:  &idx,
		BindExpr: hostexpr.Call{Fn: "nth", Args: []hostexpr.Expr{
			hostexpr.Name{Ident: parent.Name}, hostexpr.Lit{Value: idx},
		}},
	}
}

// VecLeft builds the fixed-prefix slice occurrence [0, minSize) for a
// rest-bearing vector specialization.
func VecLeft(parent *Occurrence, minSize int) *Occurrence {
	return &Occurrence{
		Name:   Gensym("vl"),
		Kind:   Vec,
		VecSym: parent.Name,
		BindExpr: hostexpr.Call{Fn: "slice", Args: []hostexpr.Expr{
			hostexpr.Name{Ident: parent.Name}, hostexpr.Lit{Value: 0}, hostexpr.Lit{Value: minSize},
		}},
	}
}

// VecRight builds the remainder slice occurrence [minSize, ...) for a
// rest-bearing vector specialization.
func VecRight(parent *Occurrence, minSize int) *Occurrence {
	return &Occurrence{
		Name:   Gensym("vr"),
		Kind:   Vec,
		VecSym: parent.Name,
		BindExpr: hostexpr.Call{Fn: "sliceFrom", Args: []hostexpr.Expr{
			hostexpr.Name{Ident: parent.Name}, hostexpr.Lit{Value: minSize},
		}},
	}
}

// MapVal builds the occurrence for one key of a map specialization:
// bind-expr = lookup of that key with not-found = nil.
func MapVal(parent *Occurrence, key string) *Occurrence {
	return &Occurrence{
		Name:   Gensym("m"),
		Kind:   Map,
		MapSym: parent.Name,
		Key:    hostexpr.Lit{Value: key},
		BindExpr: hostexpr.Call{Fn: "lookup", Args: []hostexpr.Expr{
			hostexpr.Name{Ident: parent.Name}, hostexpr.Lit{Value: key}, hostexpr.Lit{Value: nil},
		}},
	}
}

// Expr returns the expression that yields this occurrence's current value:
// its name as a bound identifier (the Bind/Let node is responsible for
// having bound it to BindExpr or OcrExpr beforehand).
func (o *Occurrence) Expr() hostexpr.Expr {
	return hostexpr.Name{Ident: o.Name}
}
