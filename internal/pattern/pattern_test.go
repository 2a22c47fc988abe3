package pattern

import "testing"

func TestCompareWildcardIsGreatest(t *testing.T) {
	if Compare(Wildcard{}, Literal{Value: int64(1)}) != Gt {
		t.Fatal("wildcard should compare greater than a literal")
	}
	if Compare(Literal{Value: int64(1)}, Wildcard{}) != Lt {
		t.Fatal("a literal should compare less than a wildcard")
	}
	if Compare(Wildcard{Name: "x"}, Wildcard{}) != Eq {
		t.Fatal("any two wildcards should be equal")
	}
}

func TestCompareLiterals(t *testing.T) {
	tests := []struct {
		name string
		a, b Pattern
		want Ordering
	}{
		{"equal ints", Literal{Value: int64(1)}, Literal{Value: int64(1)}, Eq},
		{"ordered ints", Literal{Value: int64(1)}, Literal{Value: int64(2)}, Lt},
		{"ordered strings", Literal{Value: "a"}, Literal{Value: "b"}, Lt},
		{"symbol greater than non-symbol", Literal{Value: "x"}, Literal{Value: "x", IsSymbol: true}, Lt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Fatalf("Compare(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareStructuralVariantsIgnoreArity(t *testing.T) {
	a := Seq{Elems: []Pattern{Literal{Value: int64(1)}}}
	b := Seq{Elems: []Pattern{Literal{Value: int64(1)}, Literal{Value: int64(2)}}}
	if Compare(a, b) != Eq {
		t.Fatal("two Seq patterns should compare equal regardless of arity (one constructor bucket)")
	}
}

func TestCompareAcrossVariantsIsIncomparable(t *testing.T) {
	if Compare(Seq{}, Vector{}) != Incomparable {
		t.Fatal("Seq and Vector should be incomparable")
	}
}

func TestCompareGuardByPredicateSet(t *testing.T) {
	g1 := Guard{Inner: Wildcard{}, Preds: nil}
	g2 := Guard{Inner: Wildcard{}, Preds: nil}
	if Compare(g1, g2) != Eq {
		t.Fatal("guards with the same (empty) predicate set should be equal")
	}
}

func TestCompareMapCrashByKeySet(t *testing.T) {
	a := MapCrash{Keys: []string{"a", "b"}}
	b := MapCrash{Keys: []string{"a", "b"}}
	c := MapCrash{Keys: []string{"a", "c"}}
	if Compare(a, b) != Eq {
		t.Fatal("same key set should be equal")
	}
	if Compare(a, c) != Incomparable {
		t.Fatal("different key sets should be incomparable")
	}
}

func TestWithAsAndAs(t *testing.T) {
	p := WithAs(Literal{Value: int64(1)}, "n")
	if As(p) != "n" {
		t.Fatalf("got as=%q, want n", As(p))
	}
}

func TestKeySetDedupesAndSorts(t *testing.T) {
	got := KeySet([]string{"b", "a", "b"})
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}
