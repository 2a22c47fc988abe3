package compiler

import (
	"testing"

	"github.com/nivertech/match/internal/dag"
	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

func lower(t *testing.T, n dag.Node) string {
	t.Helper()
	return dag.Lowerer{}.Lower(n).String()
}

func TestCompileLiteralWithDefault(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("x")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.Literal{Value: int64(1)}}, Action: hostexpr.Lit{Value: "one"}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}, Action: hostexpr.Lit{Value: "other"}},
	}}

	c := New(Config{})
	node := c.Compile(m, occs)
	sw, ok := node.(dag.Switch)
	if !ok {
		t.Fatalf("got %T, want dag.Switch", node)
	}
	if len(sw.Cases) != 1 {
		t.Fatalf("got %d cases, want 1", len(sw.Cases))
	}
	if _, ok := sw.Default.(dag.Leaf); !ok {
		t.Fatalf("default should be a Leaf, got %T", sw.Default)
	}
}

func TestCompileLiteralSpecializationRetainsWildcardRows(t *testing.T) {
	// Column 0 picks between literal 1 and a wildcard fallback row; column
	// 1 holds literal 9 on the first row and a capturing wildcard on the
	// fallback row. The literal-1
	// specialized child must still see that fallback row, not just the
	// rows whose first pattern is literally 1.
	occs := occurrence.Vector{occurrence.NewPlain("x"), occurrence.NewPlain("y")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{
			Patterns: []pattern.Pattern{pattern.Literal{Value: int64(1)}, pattern.Literal{Value: int64(9)}},
			Action:   hostexpr.Lit{Value: "one-nine"},
		},
		{
			Patterns: []pattern.Pattern{pattern.Wildcard{}, pattern.Wildcard{Name: "y"}},
			Action:   hostexpr.Name{Ident: "y"},
		},
	}}
	c := New(Config{})
	sw, ok := c.Compile(m, occs).(dag.Switch)
	if !ok {
		t.Fatalf("got %T, want dag.Switch", c.Compile(m, occs))
	}
	if len(sw.Cases) != 1 {
		t.Fatalf("got %d cases, want 1", len(sw.Cases))
	}
	child := sw.Cases[0].Child
	childSw, ok := child.(dag.Switch)
	if !ok {
		t.Fatalf("literal-1 specialized child should still switch on column y, got %T", child)
	}
	if len(childSw.Cases) != 1 {
		t.Fatalf("got %d cases in nested switch, want 1 (literal 9)", len(childSw.Cases))
	}
	if _, ok := childSw.Default.(dag.Leaf); !ok {
		t.Fatalf("nested default should be the wildcard-fallback Leaf, got %T (wildcard row must survive literal specialization)", childSw.Default)
	}
}

func TestCompileEmptyMatrixWarnsOnce(t *testing.T) {
	warnings := 0
	c := New(Config{OnWarning: func(string) { warnings++ }})

	node := c.Compile(matrix.Matrix{}, occurrence.Vector{occurrence.NewPlain("x")})
	if _, ok := node.(dag.Fail); !ok {
		t.Fatalf("got %T, want dag.Fail", node)
	}
	if warnings != 1 {
		t.Fatalf("got %d warnings, want 1", warnings)
	}
}

func TestCompileAllWildcardsBindsNamedCaptures(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("x"), occurrence.NewPlain("y")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.Wildcard{Name: "a"}, pattern.Wildcard{}}, Action: hostexpr.Name{Ident: "a"}},
	}}
	c := New(Config{})
	leaf, ok := c.Compile(m, occs).(dag.Leaf)
	if !ok {
		t.Fatalf("got %T, want dag.Leaf", c.Compile(m, occs))
	}
	if len(leaf.Bindings) != 1 || leaf.Bindings[0].Name != "a" {
		t.Fatalf("got bindings %+v, want one binding for a", leaf.Bindings)
	}
}

func TestCompileOrPatternNormalizesToTwoCases(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("x")}
	or := pattern.Or{Alts: []pattern.Pattern{pattern.Literal{Value: int64(1)}, pattern.Literal{Value: int64(2)}}}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{or}, Action: hostexpr.Lit{Value: "matched"}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}, Action: hostexpr.Lit{Value: "other"}},
	}}
	c := New(Config{})
	sw, ok := c.Compile(m, occs).(dag.Switch)
	if !ok {
		t.Fatalf("got %T, want dag.Switch", c.Compile(m, occs))
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("got %d cases, want 2 (one per Or alternative)", len(sw.Cases))
	}
}

func TestCompilePrefersDiscriminatingColumn(t *testing.T) {
	// Column 0 is all-wildcard, column 1 discriminates: the compiler must
	// switch on occurrence 1, not occurrence 0.
	occs := occurrence.Vector{occurrence.NewPlain("x"), occurrence.NewPlain("y")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.Wildcard{}, pattern.Literal{Value: int64(1)}}, Action: hostexpr.Lit{Value: "one"}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}, pattern.Wildcard{}}, Action: hostexpr.Lit{Value: "other"}},
	}}
	c := New(Config{})
	sw, ok := c.Compile(m, occs).(dag.Switch)
	if !ok {
		t.Fatalf("got %T, want dag.Switch", c.Compile(m, occs))
	}
	if sw.Occurrence.Name != "y" {
		t.Fatalf("got switch on %q, want y", sw.Occurrence.Name)
	}
}

func TestCompileVectorMatch(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("v")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{
			Patterns: []pattern.Pattern{pattern.Vector{
				Elems:   []pattern.Pattern{pattern.Wildcard{Name: "a"}, pattern.Wildcard{Name: "b"}},
				Kind:    "vector",
				MinSize: 2,
			}},
			Action: hostexpr.Name{Ident: "a"},
		},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}, Action: hostexpr.Lit{Value: "nope"}},
	}}
	c := New(Config{})
	node := c.Compile(m, occs)
	got := lower(t, node)
	if got == "" {
		t.Fatal("expected non-empty rendering")
	}
}

func TestCompileOcrExprBindsLiftedOccurrence(t *testing.T) {
	occ := occurrence.Lifted(hostexpr.Call{Fn: "compute", Args: nil})
	occs := occurrence.Vector{occ}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.Literal{Value: int64(1)}}, Action: hostexpr.Lit{Value: "one"}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}, Action: hostexpr.Lit{Value: "other"}},
	}}
	c := New(Config{})
	bind, ok := c.Compile(m, occs).(dag.Bind)
	if !ok {
		t.Fatalf("got %T, want dag.Bind wrapping the ocr-expr binding", c.Compile(m, occs))
	}
	if len(bind.Bindings) != 1 || bind.Bindings[0].Name != occ.Name {
		t.Fatalf("got bindings %+v, want one binding for %s", bind.Bindings, occ.Name)
	}
}
