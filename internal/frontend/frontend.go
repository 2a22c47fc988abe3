// Package frontend validates the surface occurrences/clauses forms and
// translates them into the initial pattern matrix and occurrence vector
// the matrix compiler (internal/compiler) consumes.
package frontend

import (
	"fmt"

	"github.com/nivertech/match/internal/diagnostics"
	"github.com/nivertech/match/internal/form"
	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

// validWrapperTags lists the recognized tags of a wrapper ListForm, cited
// in diagnostics.UnknownWrapperTag. Vector-kind tags registered through
// Options.VectorKinds are accepted as well and are not listed here.
var validWrapperTags = []string{"|", "as", "when", "seq", "only"}

// Options controls translation choices that depend on information the
// surface syntax alone can't carry: which symbols are "local" and which
// vector-kind tags are registered.
type Options struct {
	// Locals names surface symbols that resolve to values already bound in
	// the caller's scope; such symbols translate to a Literal pattern
	// compared by value rather than a capturing Wildcard.
	Locals map[string]bool
	// VectorKinds is the set of tag names recognized as the symbol after a
	// vector pattern, e.g. ([a b] tuple); a symbol tag outside this set is
	// rejected with an ErrUnknownWrapperTag diagnostic.
	VectorKinds map[string]bool
}

// Build validates occurrences and clauses, lifts any non-symbol
// occurrence, translates every row's patterns, and assembles the initial
// pattern matrix.
func Build(occurrences form.Vector, clauses []form.Form, opts Options) (matrix.Matrix, occurrence.Vector, error) {
	if len(clauses)%2 != 0 {
		return matrix.Matrix{}, nil, diagnostics.OddClauseList(len(clauses))
	}

	occs := make(occurrence.Vector, len(occurrences.Elems))
	for i, f := range occurrences.Elems {
		if sym, ok := f.(form.Sym); ok {
			occs[i] = occurrence.NewPlain(sym.Name)
			continue
		}
		occs[i] = occurrence.Lifted(translateExpr(f))
	}

	width := len(occs)
	var rows []matrix.Row
	for i := 0; i < len(clauses); i += 2 {
		rowNum := i/2 + 1
		rowForm, action := clauses[i], clauses[i+1]

		if form.IsElse(rowForm) {
			if i != len(clauses)-2 {
				return matrix.Matrix{}, nil, diagnostics.ElseNotLast(rowNum)
			}
			patterns := make([]pattern.Pattern, width)
			for i := range patterns {
				patterns[i] = pattern.Wildcard{}
			}
			rows = append(rows, matrix.Row{Patterns: patterns, Action: translateExpr(action)})
			continue
		}

		rowVec, ok := rowForm.(form.Vector)
		if !ok {
			return matrix.Matrix{}, nil, diagnostics.RowNotVector(rowNum, formKind(rowForm))
		}
		if len(rowVec.Elems) != width {
			return matrix.Matrix{}, nil, diagnostics.RowArity(rowNum, len(rowVec.Elems), width, rowVec.String())
		}

		patterns := make([]pattern.Pattern, width)
		for j, pf := range rowVec.Elems {
			p, err := translatePattern(pf, rowNum, opts)
			if err != nil {
				return matrix.Matrix{}, nil, err
			}
			patterns[j] = p
		}
		rows = append(rows, matrix.Row{Patterns: patterns, Action: translateExpr(action)})
	}

	return matrix.Matrix{Rows: rows}, occs, nil
}

func formKind(f form.Form) string {
	return fmt.Sprintf("%T", f)
}

// translatePattern dispatches a single pattern-position form into the
// closed Pattern AST.
func translatePattern(f form.Form, row int, opts Options) (pattern.Pattern, error) {
	switch v := f.(type) {
	case form.Sym:
		if v.Name == "_" {
			return pattern.Wildcard{}, nil
		}
		if opts.Locals[v.Name] {
			return pattern.Literal{Value: v.Name, Local: true}, nil
		}
		return pattern.Wildcard{Name: v.Name}, nil

	case form.Quote:
		if sym, ok := v.Inner.(form.Sym); ok {
			return pattern.Literal{Value: sym.Name, IsSymbol: true}, nil
		}
		return translatePattern(v.Inner, row, opts)

	case form.Int:
		return pattern.Literal{Value: v.Value}, nil
	case form.Float:
		return pattern.Literal{Value: v.Value}, nil
	case form.Str:
		return pattern.Literal{Value: v.Value}, nil
	case form.Bool:
		return pattern.Literal{Value: v.Value}, nil
	case form.Nil:
		return pattern.Literal{Value: nil}, nil
	case form.Keyword:
		return pattern.Literal{Value: ":" + v.Name}, nil

	case form.Vector:
		return translateVectorPattern(v, row, opts)
	case form.MapForm:
		return translateMapPattern(v, row, opts)
	case form.ListForm:
		return translateWrapperPattern(v, row, opts)
	}
	return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "unsupported pattern form %s", formKind(f))
}

// translateVectorPattern handles a bare [p0 p1 ... & rest] literal as a
// Vector pattern with Kind "vector".
func translateVectorPattern(v form.Vector, row int, opts Options) (pattern.Pattern, error) {
	var elems []pattern.Pattern
	rest := false
	for i := 0; i < len(v.Elems); i++ {
		if sym, ok := v.Elems[i].(form.Sym); ok && sym.Name == "&" && i+1 < len(v.Elems) {
			inner, err := translatePattern(v.Elems[i+1], row, opts)
			if err != nil {
				return nil, err
			}
			elems = append(elems, pattern.Rest{Inner: inner})
			rest = true
			i++
			continue
		}
		p, err := translatePattern(v.Elems[i], row, opts)
		if err != nil {
			return nil, err
		}
		elems = append(elems, p)
	}
	minSize := len(elems)
	if rest {
		minSize--
	}
	return pattern.Vector{Elems: elems, Kind: "vector", MinSize: minSize, Rest: rest}, nil
}

// translateMapPattern handles a bare {:k p ...} literal with no :only
// restriction.
func translateMapPattern(m form.MapForm, row int, opts Options) (pattern.Pattern, error) {
	entries := make(map[string]pattern.Pattern, len(m.Entries))
	for _, e := range m.Entries {
		kw, ok := e.Key.(form.Keyword)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "map pattern keys must be keywords, got %s", formKind(e.Key))
		}
		p, err := translatePattern(e.Val, row, opts)
		if err != nil {
			return nil, err
		}
		entries[kw.Name] = p
	}
	return pattern.Map{Entries: entries}, nil
}

// translateWrapperPattern dispatches a parenthesized wrapper list:
// (p | q | ...), (p :as name), (p :when pred ...), (a b c :seq),
// ({...} :only [:k ...]), or (vecPattern kindname [:offset n]).
func translateWrapperPattern(l form.ListForm, row int, opts Options) (pattern.Pattern, error) {
	if isOrForm(l) {
		return translateOrPattern(l, row, opts)
	}
	if isSeqForm(l) {
		return translateSeqPattern(l, row, opts)
	}
	if len(l.Elems) < 2 {
		return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "wrapper list must have at least 2 elements")
	}

	tag, ok := l.Elems[1].(form.Keyword)
	if !ok {
		if tagSym, ok := l.Elems[1].(form.Sym); ok && opts.VectorKinds[tagSym.Name] {
			return translateVectorKindPattern(l, tagSym.Name, row, opts)
		}
		return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "expected a keyword tag, got %s", formKind(l.Elems[1]))
	}

	inner, err := translatePattern(l.Elems[0], row, opts)
	if err != nil {
		return nil, err
	}

	switch tag.Name {
	case "as":
		if len(l.Elems) != 3 {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "(p :as name) takes exactly one name")
		}
		name, ok := l.Elems[2].(form.Sym)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, ":as target must be a symbol")
		}
		return pattern.WithAs(inner, name.Name), nil

	case "when":
		if len(l.Elems) < 3 {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "(p :when pred ...) requires at least one predicate")
		}
		preds := make([]hostexpr.Expr, 0, len(l.Elems)-2)
		for _, pf := range l.Elems[2:] {
			preds = append(preds, translateExpr(pf))
		}
		return pattern.Guard{Inner: inner, Preds: preds}, nil

	case "only":
		mp, ok := inner.(pattern.Map)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, ":only may only wrap a map pattern")
		}
		if len(l.Elems) != 3 {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "(m :only [keys]) takes exactly one key vector")
		}
		keysVec, ok := l.Elems[2].(form.Vector)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, ":only argument must be a vector of keywords")
		}
		only := make([]string, 0, len(keysVec.Elems))
		for _, kf := range keysVec.Elems {
			kw, ok := kf.(form.Keyword)
			if !ok {
				return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, ":only entries must be keywords")
			}
			only = append(only, kw.Name)
		}
		mp.Only, mp.HasOnly = only, true
		return mp, nil
	}

	return nil, diagnostics.UnknownWrapperTag(row, tag.Name, validWrapperTags)
}

func translateVectorKindPattern(l form.ListForm, kind string, row int, opts Options) (pattern.Pattern, error) {
	inner, err := translatePattern(l.Elems[0], row, opts)
	if err != nil {
		return nil, err
	}
	v, ok := inner.(pattern.Vector)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, "vector-kind tag %q may only follow a vector pattern", kind)
	}
	v.Kind = kind
	for i := 2; i+1 < len(l.Elems); i += 2 {
		kw, ok := l.Elems[i].(form.Keyword)
		if !ok || kw.Name != "offset" {
			continue
		}
		n, ok := l.Elems[i+1].(form.Int)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnknownWrapperTag, row, ":offset value must be an integer")
		}
		v.Offset = int(n.Value)
	}
	return v, nil
}

func isOrForm(l form.ListForm) bool {
	if len(l.Elems) < 3 || len(l.Elems)%2 != 1 {
		return false
	}
	for i := 1; i < len(l.Elems); i += 2 {
		sym, ok := l.Elems[i].(form.Sym)
		if !ok || sym.Name != "|" {
			return false
		}
	}
	return true
}

func translateOrPattern(l form.ListForm, row int, opts Options) (pattern.Pattern, error) {
	var alts []pattern.Pattern
	for i := 0; i < len(l.Elems); i += 2 {
		p, err := translatePattern(l.Elems[i], row, opts)
		if err != nil {
			return nil, err
		}
		alts = append(alts, p)
	}
	if len(alts) == 0 {
		return nil, diagnostics.EmptyOr(row)
	}
	return pattern.Or{Alts: alts}, nil
}

func isSeqForm(l form.ListForm) bool {
	if len(l.Elems) == 0 {
		return false
	}
	kw, ok := l.Elems[len(l.Elems)-1].(form.Keyword)
	return ok && kw.Name == "seq"
}

func translateSeqPattern(l form.ListForm, row int, opts Options) (pattern.Pattern, error) {
	body := l.Elems[:len(l.Elems)-1]
	if len(body) == 0 {
		return nil, diagnostics.EmptySeq(row)
	}
	var elems []pattern.Pattern
	for i := 0; i < len(body); i++ {
		if sym, ok := body[i].(form.Sym); ok && sym.Name == "&" && i+1 < len(body) {
			inner, err := translatePattern(body[i+1], row, opts)
			if err != nil {
				return nil, err
			}
			elems = append(elems, pattern.Rest{Inner: inner})
			i++
			continue
		}
		p, err := translatePattern(body[i], row, opts)
		if err != nil {
			return nil, err
		}
		elems = append(elems, p)
	}
	return pattern.Seq{Elems: elems}, nil
}

// translateExpr translates an action or predicate form into hostexpr,
// independent of pattern position: symbols become Name references, atoms
// become Lit, and any other list becomes a Call whose Fn is the head
// symbol's name.
func translateExpr(f form.Form) hostexpr.Expr {
	switch v := f.(type) {
	case form.Sym:
		return hostexpr.Name{Ident: v.Name}
	case form.Int:
		return hostexpr.Lit{Value: v.Value}
	case form.Float:
		return hostexpr.Lit{Value: v.Value}
	case form.Str:
		return hostexpr.Lit{Value: v.Value}
	case form.Bool:
		return hostexpr.Lit{Value: v.Value}
	case form.Nil:
		return hostexpr.Lit{Value: nil}
	case form.Keyword:
		return hostexpr.Lit{Value: ":" + v.Name}
	case form.Quote:
		if sym, ok := v.Inner.(form.Sym); ok {
			return hostexpr.Lit{Value: sym.Name}
		}
		return translateExpr(v.Inner)
	case form.Vector:
		args := make([]hostexpr.Expr, len(v.Elems))
		for i, e := range v.Elems {
			args[i] = translateExpr(e)
		}
		return hostexpr.Call{Fn: "vector", Args: args}
	case form.MapForm:
		args := make([]hostexpr.Expr, 0, len(v.Entries)*2)
		for _, e := range v.Entries {
			args = append(args, translateExpr(e.Key), translateExpr(e.Val))
		}
		return hostexpr.Call{Fn: "map", Args: args}
	case form.ListForm:
		if len(v.Elems) == 0 {
			return hostexpr.Lit{Value: nil}
		}
		fn := "apply"
		if sym, ok := v.Elems[0].(form.Sym); ok {
			fn = sym.Name
		}
		args := make([]hostexpr.Expr, len(v.Elems)-1)
		for i, e := range v.Elems[1:] {
			args[i] = translateExpr(e)
		}
		return hostexpr.Call{Fn: fn, Args: args}
	}
	return hostexpr.Lit{Value: nil}
}
