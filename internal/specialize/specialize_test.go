package specialize

import (
	"testing"

	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

func TestDefaultRetainsLiteralAndWildcardRows(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("x")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.Literal{Value: int64(1)}}, Action: hostexpr.Lit{Value: "one"}},
		{Patterns: []pattern.Pattern{pattern.Literal{Value: int64(2)}}, Action: hostexpr.Lit{Value: "two"}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{Name: "n"}}, Action: hostexpr.Name{Ident: "n"}},
	}}

	out, outOccs := Default(m, occs, pattern.Literal{Value: int64(1)})
	if len(out.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (the matching literal row + the wildcard row)", len(out.Rows))
	}
	if len(outOccs) != 0 {
		t.Fatalf("got %d occurrences, want 0 (occurrence 0 dropped)", len(outOccs))
	}
	if len(out.Rows[1].Bindings) != 1 || out.Rows[1].Bindings[0].Name != "n" {
		t.Fatalf("wildcard row should bind n: %+v", out.Rows[1].Bindings)
	}
}

func TestDefaultAsTrueDefaultMatrixKeepsOnlyWildcards(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("x")}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.Literal{Value: int64(1)}}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}},
	}}
	out, _ := Default(m, occs, pattern.Wildcard{})
	if len(out.Rows) != 1 {
		t.Fatalf("got %d rows, want 1 (only the wildcard row)", len(out.Rows))
	}
}

func TestSeqSplitsHeadTail(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("xs")}
	row := matrix.Row{Patterns: []pattern.Pattern{
		pattern.Seq{Elems: []pattern.Pattern{pattern.Wildcard{Name: "h"}, pattern.Wildcard{Name: "t"}}},
	}}
	m := matrix.Matrix{Rows: []matrix.Row{row}}

	out, outOccs := Seq(m, occs)
	if len(outOccs) != 2 {
		t.Fatalf("got %d occurrences, want 2 (head, tail)", len(outOccs))
	}
	if len(out.Rows[0].Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(out.Rows[0].Patterns))
	}
}

func TestMapGathersAllKeysAndBuildsCrashForOnlyMismatch(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("m")}
	row := matrix.Row{Patterns: []pattern.Pattern{
		pattern.Map{Entries: map[string]pattern.Pattern{"a": pattern.Wildcard{Name: "a"}}, Only: []string{"a"}, HasOnly: true},
	}}
	other := matrix.Row{Patterns: []pattern.Pattern{
		pattern.Map{Entries: map[string]pattern.Pattern{"b": pattern.Wildcard{Name: "b"}}},
	}}
	m := matrix.Matrix{Rows: []matrix.Row{row, other}}

	out, outOccs := Map(m, occs)
	if len(outOccs) != 2 {
		t.Fatalf("got %d occurrences, want 2 (keys :a and :b mentioned)", len(outOccs))
	}
	if len(out.Rows[0].Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(out.Rows[0].Patterns))
	}
	if _, ok := out.Rows[0].Patterns[1].(pattern.MapCrash); !ok {
		t.Fatalf("the :only [:a] row should get a MapCrash for key :b, got %T", out.Rows[0].Patterns[1])
	}
}

func TestMapCrashCollapsesToSingleEmptyRow(t *testing.T) {
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.MapCrash{Keys: []string{"a", "b"}}}, Action: hostexpr.Lit{Value: "ok"}},
		{Patterns: []pattern.Pattern{pattern.MapCrash{Keys: []string{"a"}}}, Action: hostexpr.Lit{Value: "other"}},
	}}
	out := MapCrash(m, []string{"a", "b"})
	if len(out.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(out.Rows))
	}
	if len(out.Rows[0].Patterns) != 0 {
		t.Fatalf("got %d patterns, want 0", len(out.Rows[0].Patterns))
	}
	if out.Rows[0].Action.String() != `"ok"` {
		t.Fatalf("got action %v, want the first matching row's action", out.Rows[0].Action)
	}
}

func TestMapCrashNoMatchIsEmpty(t *testing.T) {
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{pattern.MapCrash{Keys: []string{"z"}}}},
	}}
	out := MapCrash(m, []string{"a", "b"})
	if len(out.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(out.Rows))
	}
}

func TestVectorFixedSizeSplitsElements(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("v")}
	row := matrix.Row{Patterns: []pattern.Pattern{
		pattern.Vector{Elems: []pattern.Pattern{pattern.Wildcard{Name: "a"}, pattern.Wildcard{Name: "b"}}, Kind: "vector", MinSize: 2},
	}}
	m := matrix.Matrix{Rows: []matrix.Row{row}}

	out, outOccs, coerce := Vector(m, occs, nil)
	if len(outOccs) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(outOccs))
	}
	if len(out.Rows[0].Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(out.Rows[0].Patterns))
	}
	if len(coerce) != 0 {
		t.Fatalf("got %d coerce bindings, want 0 (no kind registered)", len(coerce))
	}
}

func TestVectorWithRestSplitsLeftRight(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("v")}
	row := matrix.Row{Patterns: []pattern.Pattern{
		pattern.Vector{
			Elems:   []pattern.Pattern{pattern.Wildcard{Name: "a"}, pattern.Rest{Inner: pattern.Wildcard{Name: "rest"}}},
			Kind:    "vector",
			MinSize: 1,
			Rest:    true,
		},
	}}
	m := matrix.Matrix{Rows: []matrix.Row{row}}

	out, outOccs, _ := Vector(m, occs, nil)
	if len(outOccs) != 2 {
		t.Fatalf("got %d occurrences, want 2 (left, right)", len(outOccs))
	}
	if len(out.Rows[0].Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(out.Rows[0].Patterns))
	}
}

func TestVectorCoercionProducesBinding(t *testing.T) {
	occs := occurrence.Vector{occurrence.NewPlain("v")}
	row := matrix.Row{Patterns: []pattern.Pattern{
		pattern.Vector{Elems: []pattern.Pattern{pattern.Wildcard{}}, Kind: "tuple", MinSize: 1},
	}}
	m := matrix.Matrix{Rows: []matrix.Row{row}}

	kinds := map[string]VectorKind{"tuple": {Coerce: true, CoerceCall: "toVector"}}
	_, _, coerce := Vector(m, occs, kinds)
	if len(coerce) != 1 {
		t.Fatalf("got %d coerce bindings, want 1", len(coerce))
	}
	if coerce[0].Name != "v" {
		t.Fatalf("coerce binding should rebind occurrence 0's name, got %q", coerce[0].Name)
	}
}

func TestOrExpandsAlternativesIntoRows(t *testing.T) {
	or := pattern.Or{Alts: []pattern.Pattern{pattern.Literal{Value: int64(1)}, pattern.Literal{Value: int64(2)}}}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{or}, Action: hostexpr.Lit{Value: "matched"}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}, Action: hostexpr.Lit{Value: "default"}},
	}}
	out := Or(m, or)
	if len(out.Rows) != 3 {
		t.Fatalf("got %d rows, want 3 (2 alternatives + the untouched wildcard row)", len(out.Rows))
	}
}

func TestGuardReplacesColumnZeroWithInner(t *testing.T) {
	inner := pattern.Literal{Value: int64(1)}
	g := pattern.Guard{Inner: inner, Preds: nil}
	m := matrix.Matrix{Rows: []matrix.Row{
		{Patterns: []pattern.Pattern{g}},
		{Patterns: []pattern.Pattern{pattern.Wildcard{}}},
	}}
	out := Guard(m, g)
	if len(out.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(out.Rows))
	}
	if _, ok := out.Rows[0].Patterns[0].(pattern.Literal); !ok {
		t.Fatalf("guard row's column 0 should become the inner pattern, got %T", out.Rows[0].Patterns[0])
	}
	if len(out.Rows[0].Patterns) != 1 {
		t.Fatal("guard specialization must not drop the column")
	}
}
