// Package pattern implements the closed pattern AST and its total order.
// Every variant is a case of the Pattern sum; Compare realizes the
// ordering used to group a column's constructors deterministically.
package pattern

import (
	"fmt"
	"sort"

	"github.com/nivertech/match/internal/hostexpr"
)

// Pattern is the closed tagged variant set every compiled pattern compiles to.
type Pattern interface {
	patternNode()
	String() string
}

// Wildcard matches anything; Name == "" means the default "_" (no
// capture), any other name captures the matched sub-value.
type Wildcard struct{ Name string }

func (Wildcard) patternNode() {}
func (w Wildcard) String() string {
	if w.Name == "" {
		return "_"
	}
	return w.Name
}

// IsDefault reports whether this is the anonymous "_" wildcard.
func (w Wildcard) IsDefault() bool { return w.Name == "" }

// Literal matches by equality. IsSymbol marks a quoted symbol (compared
// and sorted as a symbol per the total order); Local marks a surface
// symbol present in the caller's environment, compared by value rather
// than treated as a capturing wildcard.
type Literal struct {
	Value    any
	IsSymbol bool
	Local    bool
	As       string
}

func (Literal) patternNode()   {}
func (l Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// Seq matches a sequential head/tail structure: (x0 x1 ... xn).
type Seq struct {
	Elems []Pattern
	As    string
}

func (Seq) patternNode() {}
func (s Seq) String() string {
	out := "("
	for i, e := range s.Elems {
		if i > 0 {
			out += " "
		}
		out += e.String()
	}
	return out + " :seq)"
}

// Rest is the internal marker "the remainder of the enclosing sequence",
// produced when a Seq's tail follower is itself a Rest (e.g. & xs).
type Rest struct{ Inner Pattern }

func (Rest) patternNode()        {}
func (r Rest) String() string    { return "&" + r.Inner.String() }

// Map matches a lookup-capable value. Only, when HasOnly, restricts the
// allowed key set, enforced via a MapCrash pseudo-pattern during
// specialization.
type Map struct {
	Entries map[string]Pattern
	Only    []string
	HasOnly bool
	As      string
}

func (Map) patternNode() {}
func (m Map) String() string {
	out := "{"
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += ":" + k + " " + m.Entries[k].String()
	}
	return out + "}"
}

// MapCrash is the internal pattern asserting a map has exactly this key
// set. Keys must be sorted for deterministic comparison.
type MapCrash struct{ Keys []string }

func (MapCrash) patternNode()     {}
func (m MapCrash) String() string { return fmt.Sprintf("#<map-crash %v>", m.Keys) }

// KeySet returns the sorted, deduplicated key set for a MapCrash built from
// an :only list.
func KeySet(only []string) []string {
	seen := make(map[string]bool, len(only))
	out := make([]string, 0, len(only))
	for _, k := range only {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func keySetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Vector matches an indexable sequence. Kind is the vector-kind tag
// (coercion and the "is a vector of this kind" test are per-kind); Offset
// shifts index projection; Rest marks that the last element is a
// catch-all for everything beyond the first MinSize elements.
type Vector struct {
	Elems   []Pattern
	Kind    string
	MinSize int
	Offset  int
	Rest    bool
	As      string
}

func (Vector) patternNode() {}
func (v Vector) String() string {
	out := "["
	for i, e := range v.Elems {
		if i > 0 {
			out += " "
		}
		out += e.String()
	}
	return out + "]"
}

// Or matches if any alternative matches. Len(Alts) >= 1.
type Or struct {
	Alts []Pattern
	As   string
}

func (Or) patternNode() {}
func (o Or) String() string {
	out := "("
	for i, a := range o.Alts {
		if i > 0 {
			out += " | "
		}
		out += a.String()
	}
	return out + ")"
}

// Guard matches if Inner matches and every predicate evaluates truthy on
// the occurrence.
type Guard struct {
	Inner Pattern
	Preds []hostexpr.Expr
	As    string
}

func (Guard) patternNode() {}
func (g Guard) String() string {
	return fmt.Sprintf("(%s :when %v)", g.Inner.String(), g.Preds)
}

// As returns the capture name this pattern's :as/named-wildcard metadata
// declares, or "" if none.
func As(p Pattern) string {
	switch v := p.(type) {
	case Wildcard:
		return v.Name
	case Literal:
		return v.As
	case Seq:
		return v.As
	case Map:
		return v.As
	case Vector:
		return v.As
	case Or:
		return v.As
	case Guard:
		return v.As
	}
	return ""
}

// WithAs returns a copy of p with its :as capture name set, for the
// "(p :as name)" wrapper form.
func WithAs(p Pattern, name string) Pattern {
	switch v := p.(type) {
	case Wildcard:
		v.Name = name
		return v
	case Literal:
		v.As = name
		return v
	case Seq:
		v.As = name
		return v
	case Map:
		v.As = name
		return v
	case Vector:
		v.As = name
		return v
	case Or:
		v.As = name
		return v
	case Guard:
		v.As = name
		return v
	}
	return p
}

// Ordering is the result of comparing two patterns under the total order,
// modeled as Lt/Eq/Gt/Incomparable rather than a bare -1/0/1 comparator.
type Ordering int

const (
	Lt Ordering = iota
	Eq
	Gt
	Incomparable
)

// Compare realizes the total order over patterns.
func Compare(a, b Pattern) Ordering {
	_, aWild := a.(Wildcard)
	_, bWild := b.(Wildcard)
	if aWild && bWild {
		return Eq
	}
	if aWild {
		return Gt
	}
	if bWild {
		return Lt
	}

	al, aLit := a.(Literal)
	bl, bLit := b.(Literal)
	if aLit && bLit {
		return compareLiterals(al, bl)
	}
	if aLit {
		return Lt
	}
	if bLit {
		return Gt
	}

	switch av := a.(type) {
	case Guard:
		bv, ok := b.(Guard)
		if !ok {
			return Incomparable
		}
		if predSetEqual(av.Preds, bv.Preds) {
			return Eq
		}
		return Incomparable
	case Or:
		bv, ok := b.(Or)
		if !ok || len(av.Alts) != len(bv.Alts) {
			return Incomparable
		}
		for i := range av.Alts {
			if Compare(av.Alts[i], bv.Alts[i]) != Eq {
				return Incomparable
			}
		}
		return Eq
	case MapCrash:
		bv, ok := b.(MapCrash)
		if !ok {
			return Incomparable
		}
		if keySetEqual(av.Keys, bv.Keys) {
			return Eq
		}
		return Incomparable
	default:
		if sameVariant(a, b) {
			return Eq
		}
		return Incomparable
	}
}

// Equal reports whether two patterns are pattern-equal under the total
// order (used for constructor deduplication and row-retention tests).
func Equal(a, b Pattern) bool { return Compare(a, b) == Eq }

func sameVariant(a, b Pattern) bool {
	switch a.(type) {
	case Seq:
		_, ok := b.(Seq)
		return ok
	case Map:
		_, ok := b.(Map)
		return ok
	case Vector:
		_, ok := b.(Vector)
		return ok
	}
	return false
}

func compareLiterals(a, b Literal) Ordering {
	if a.IsSymbol == b.IsSymbol && a.Value == b.Value {
		return Eq
	}
	if a.IsSymbol != b.IsSymbol {
		if a.IsSymbol {
			return Gt
		}
		return Lt
	}
	as, aok := a.Value.(string)
	bs, bok := b.Value.(string)
	if aok && bok {
		if as < bs {
			return Lt
		}
		return Gt
	}
	af, aIsNum := toFloat(a.Value)
	bf, bIsNum := toFloat(b.Value)
	if aIsNum && bIsNum {
		if af < bf {
			return Lt
		}
		return Gt
	}
	if fmt.Sprint(a.Value) < fmt.Sprint(b.Value) {
		return Lt
	}
	return Gt
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func predSetEqual(a, b []hostexpr.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, pa := range a {
		found := false
		for i, pb := range b {
			if used[i] {
				continue
			}
			if pa.String() == pb.String() {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
