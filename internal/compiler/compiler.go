// Package compiler implements the recursive matrix compiler core: it turns
// a pattern matrix plus its occurrence vector into a decision DAG,
// choosing a column by usefulness each step and dispatching to
// internal/specialize for the actual row reduction.
package compiler

import (
	"sort"

	"github.com/nivertech/match/internal/dag"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
	"github.com/nivertech/match/internal/specialize"
)

// Config carries the per-call knobs: the vector-kind registry (optional
// coercion per kind) and a warning sink for non-exhaustive matches.
type Config struct {
	VectorKinds map[string]specialize.VectorKind
	OnWarning   func(message string)
}

// Compiler holds the warned-once flag for a single top-level Compile call:
// at most one warning fires per call, however many Fail leaves the DAG
// contains.
type Compiler struct {
	cfg    Config
	warned bool
}

// New returns a Compiler scoped to one compilation.
func New(cfg Config) *Compiler {
	return &Compiler{cfg: cfg}
}

// Compile runs the four base/recursive cases over m and occs.
func (c *Compiler) Compile(m matrix.Matrix, occs occurrence.Vector) dag.Node {
	switch {
	case len(m.Rows) == 0:
		c.warnOnce()
		return dag.Fail{}
	case m.FirstRowEmpty():
		row := m.Rows[0]
		return dag.Leaf{Action: row.Action, Bindings: row.Bindings}
	case m.FirstRowAllWildcards():
		return c.compileAllWildcards(m, occs)
	}

	col := chooseColumn(m)
	if col != 0 {
		m.SwapColumns(col)
		occs = swapOccs(occs, col)
	}
	m = normalizeOr(m)
	return c.compileSwitch(m, occs)
}

// compileAllWildcards implements base case 3: bind every named wildcard in
// the first row to its occurrence's value and emit a Leaf.
func (c *Compiler) compileAllWildcards(m matrix.Matrix, occs occurrence.Vector) dag.Node {
	row := m.Rows[0]
	bindings := append([]matrix.Binding(nil), row.Bindings...)
	for i, p := range row.Patterns {
		w := p.(pattern.Wildcard)
		if !w.IsDefault() {
			// An occurrence never switched on has no let of its own, so
			// bind to the expression that derives its value.
			expr := occs[i].Expr()
			if occs[i].BindExpr != nil {
				expr = occs[i].BindExpr
			} else if occs[i].OcrExpr != nil {
				expr = occs[i].OcrExpr
			}
			bindings = append(bindings, matrix.Binding{Name: w.Name, Expr: expr})
		}
	}
	return dag.Leaf{Action: row.Action, Bindings: bindings}
}

// compileSwitch implements case 3a: enumerate column 0's constructor set in
// total order, compile each specialized child and the default matrix, and
// build the Switch node, wrapping it in a Bind for any occurrence still
// carrying an ocr-expr.
func (c *Compiler) compileSwitch(m matrix.Matrix, occs occurrence.Vector) dag.Node {
	ctors := constructorSet(m)
	cases := make([]dag.SwitchCase, 0, len(ctors))
	for _, ctor := range ctors {
		cases = append(cases, dag.SwitchCase{
			Pattern: ctor,
			Child:   c.specializeAndCompile(m, occs, ctor),
		})
	}

	defM, defOccs := specialize.Default(m, occs, pattern.Wildcard{})
	def := c.Compile(defM, defOccs)

	var node dag.Node = dag.Switch{Occurrence: occs[0], Cases: cases, Default: def}
	if bindings := ocrExprBindings(occs); len(bindings) > 0 {
		node = dag.Bind{Bindings: bindings, Inner: node}
	}
	return node
}

func (c *Compiler) specializeAndCompile(m matrix.Matrix, occs occurrence.Vector, ctor pattern.Pattern) dag.Node {
	switch v := ctor.(type) {
	case pattern.Literal:
		cm, co := specialize.Default(m, occs, v)
		return c.Compile(cm, co)
	case pattern.Seq:
		cm, co := specialize.Seq(m, occs)
		return c.Compile(cm, co)
	case pattern.Map:
		cm, co := specialize.Map(m, occs)
		return c.Compile(cm, co)
	case pattern.Vector:
		cm, co, coerce := specialize.Vector(m, occs, c.cfg.VectorKinds)
		child := c.Compile(cm, co)
		if len(coerce) > 0 {
			return dag.Bind{Bindings: coerce, Inner: child}
		}
		return child
	case pattern.MapCrash:
		cm := specialize.MapCrash(m, v.Keys)
		return c.Compile(cm, occurrence.Vector{})
	case pattern.Guard:
		cm := specialize.Guard(m, v)
		return c.Compile(cm, occs)
	}
	panic("compiler: unknown constructor pattern")
}

func (c *Compiler) warnOnce() {
	if c.warned {
		return
	}
	c.warned = true
	if c.cfg.OnWarning != nil {
		c.cfg.OnWarning("non-exhaustive match: some inputs have no matching clause")
	}
}

// normalizeOr expands every Or pattern sitting in column 0 into one row per
// alternative, until column 0 holds no Or patterns.
func normalizeOr(m matrix.Matrix) matrix.Matrix {
	for {
		var found *pattern.Or
		for _, row := range m.Rows {
			if o, ok := row.Patterns[0].(pattern.Or); ok {
				found = &o
				break
			}
		}
		if found == nil {
			return m
		}
		m = specialize.Or(m, *found)
	}
}

// constructorSet gathers column 0's distinct non-wildcard patterns, in
// first-appearance order, then sorts them by the total order over patterns.
func constructorSet(m matrix.Matrix) []pattern.Pattern {
	var ctors []pattern.Pattern
	for _, row := range m.Rows {
		p := row.Patterns[0]
		if _, ok := p.(pattern.Wildcard); ok {
			continue
		}
		dup := false
		for _, c := range ctors {
			if pattern.Equal(c, p) {
				dup = true
				break
			}
		}
		if !dup {
			ctors = append(ctors, p)
		}
	}
	sort.SliceStable(ctors, func(i, j int) bool {
		return pattern.Compare(ctors[i], ctors[j]) == pattern.Lt
	})
	return ctors
}

// chooseColumn picks the column with the highest usefulness score: -1 if
// the column holds any MapCrash entry (demoted — tested only once nothing
// else discriminates), else the count of useful constructor entries (see
// columnScore). Ties keep the leftmost column.
func chooseColumn(m matrix.Matrix) int {
	best, bestScore := 0, -2
	for i := 0; i < m.Width(); i++ {
		score := columnScore(m.Column(i))
		if score > bestScore {
			bestScore, best = score, i
		}
	}
	return best
}

// columnScore implements the usefulness matrix U[j][i] for one column: a
// constructor entry is useful only while every entry above it in the same
// column is also a non-wildcard, since a prior wildcard would already
// absorb that row at runtime. A MapCrash entry anywhere demotes the whole
// column to -1 so key-set checks are tried only once nothing else
// discriminates.
func columnScore(col []pattern.Pattern) int {
	hasCrash := false
	count := 0
	seenWildcard := false
	for _, p := range col {
		if _, ok := p.(pattern.MapCrash); ok {
			hasCrash = true
			continue
		}
		if _, ok := p.(pattern.Wildcard); ok {
			seenWildcard = true
			continue
		}
		if !seenWildcard {
			count++
		}
	}
	if hasCrash {
		return -1
	}
	return count
}

func swapOccs(occs occurrence.Vector, i int) occurrence.Vector {
	out := append(occurrence.Vector(nil), occs...)
	out[0], out[i] = out[i], out[0]
	return out
}

func ocrExprBindings(occs occurrence.Vector) []matrix.Binding {
	var out []matrix.Binding
	for _, o := range occs {
		if o.OcrExpr != nil {
			out = append(out, matrix.Binding{Name: o.Name, Expr: o.OcrExpr})
		}
	}
	return out
}
