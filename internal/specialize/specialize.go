// Package specialize implements the specialization rules, one function per
// pattern variant — the algebraic heart of Maranget's algorithm. Each rule
// reduces a pattern matrix under the assumption that a given pattern
// matched column 0.
package specialize

import (
	"sort"

	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/matrix"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

func isWildcard(p pattern.Pattern) bool {
	_, ok := p.(pattern.Wildcard)
	return ok
}

// retainIndices returns, in order, the row indices whose first pattern
// satisfies keep.
func retainIndices(m matrix.Matrix, keep func(pattern.Pattern) bool) []int {
	var idx []int
	for i, row := range m.Rows {
		if keep(row.Patterns[0]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Default implements wildcard specialization (ctor is a Wildcard,
// producing the true default matrix) or specialization by a
// non-structural constructor such as a Literal.
// Retains every wildcard row plus the rows pattern-equal to ctor (a
// Literal ctor keeps its exact matches and the wildcard rows; a Wildcard
// ctor keeps only the wildcard rows — the default matrix), drops
// column 0 via drop-nth-bind, and drops occurrence 0.
func Default(m matrix.Matrix, occs occurrence.Vector, ctor pattern.Pattern) (matrix.Matrix, occurrence.Vector) {
	idx := retainIndices(m, func(p pattern.Pattern) bool {
		return isWildcard(p) || pattern.Equal(p, ctor)
	})
	out := matrix.Matrix{Rows: make([]matrix.Row, len(idx))}
	for i, ri := range idx {
		out.Rows[i] = matrix.DropFirstWithBindings(m.Rows[ri], occs[0])
	}
	return out, matrix.DropOccurrence(occs, 0)
}

// Seq implements rule (b): split each retained row's first pattern into a
// head/tail pair and replace occurrence 0 with two fresh head/tail
// occurrences.
func Seq(m matrix.Matrix, occs occurrence.Vector) (matrix.Matrix, occurrence.Vector) {
	idx := retainIndices(m, func(p pattern.Pattern) bool {
		if isWildcard(p) {
			return true
		}
		_, ok := p.(pattern.Seq)
		return ok
	})
	parent := occs[0]
	head := occurrence.SeqHead(parent)
	tail := occurrence.SeqTail(parent)

	out := matrix.Matrix{Rows: make([]matrix.Row, len(idx))}
	for i, ri := range idx {
		row := m.Rows[ri]
		first := row.Patterns[0]
		var headPat, tailPat pattern.Pattern
		if isWildcard(first) {
			headPat, tailPat = pattern.Wildcard{}, pattern.Wildcard{}
		} else {
			seq := first.(pattern.Seq)
			headPat = seq.Elems[0]
			rest := seq.Elems[1:]
			switch {
			case len(rest) == 0:
				tailPat = pattern.Literal{Value: "()", IsSymbol: false}
			default:
				if r, ok := rest[0].(pattern.Rest); ok {
					tailPat = r.Inner
				} else {
					tailPat = pattern.Seq{Elems: rest}
				}
			}
		}
		dropped := matrix.DropFirstWithBindings(row, parent)
		dropped.Patterns = append([]pattern.Pattern{headPat, tailPat}, dropped.Patterns...)
		out.Rows[i] = dropped
	}
	newOccs := append(occurrence.Vector{head, tail}, matrix.DropOccurrence(occs, 0)...)
	return out, newOccs
}

// Map implements rule (c): gather every key mentioned across retained
// rows, expand each row's first pattern into one sub-pattern per key
// (wildcard, explicit sub-pattern, or a MapCrash gate for :only
// mismatches), and replace occurrence 0 with one fresh map-typed
// occurrence per key.
func Map(m matrix.Matrix, occs occurrence.Vector) (matrix.Matrix, occurrence.Vector) {
	idx := retainIndices(m, func(p pattern.Pattern) bool {
		if isWildcard(p) {
			return true
		}
		_, ok := p.(pattern.Map)
		return ok
	})

	keySet := map[string]bool{}
	for _, ri := range idx {
		p := m.Rows[ri].Patterns[0]
		mp, ok := p.(pattern.Map)
		if !ok {
			continue
		}
		for k := range mp.Entries {
			keySet[k] = true
		}
		if mp.HasOnly {
			for _, k := range mp.Only {
				keySet[k] = true
			}
		}
	}
	allKeys := make([]string, 0, len(keySet))
	for k := range keySet {
		allKeys = append(allKeys, k)
	}
	sort.Strings(allKeys)

	parent := occs[0]
	mapOccs := make(occurrence.Vector, len(allKeys))
	for i, k := range allKeys {
		mapOccs[i] = occurrence.MapVal(parent, k)
	}

	out := matrix.Matrix{Rows: make([]matrix.Row, len(idx))}
	for i, ri := range idx {
		row := m.Rows[ri]
		first := row.Patterns[0]

		subs := make([]pattern.Pattern, len(allKeys))
		switch {
		case isWildcard(first):
			for i := range subs {
				subs[i] = pattern.Wildcard{}
			}
		default:
			mp := first.(pattern.Map)
			inOnly := map[string]bool{}
			for _, k := range mp.Only {
				inOnly[k] = true
			}
			crash := pattern.MapCrash{Keys: pattern.KeySet(mp.Only)}
			for i, k := range allKeys {
				switch {
				case mp.Entries[k] != nil:
					subs[i] = mp.Entries[k]
				case mp.HasOnly && inOnly[k]:
					subs[i] = pattern.Wildcard{}
				case mp.HasOnly:
					subs[i] = crash
				default:
					subs[i] = pattern.Wildcard{}
				}
			}
		}

		dropped := matrix.DropFirstWithBindings(row, parent)
		reversed := make([]pattern.Pattern, len(subs))
		for i, s := range subs {
			reversed[len(subs)-1-i] = s
		}
		for _, s := range reversed {
			dropped.Patterns = append([]pattern.Pattern{s}, dropped.Patterns...)
		}
		out.Rows[i] = dropped
	}
	newOccs := append(append(occurrence.Vector{}, mapOccs...), matrix.DropOccurrence(occs, 0)...)
	return out, newOccs
}

// MapCrash retains rows whose first pattern is a MapCrash with the same
// key set; once retained, the row has already been fully discriminated by
// the key-set-equality test, so the result collapses to a single row with
// no remaining columns, carrying the first retained row's action and
// bindings.
func MapCrash(m matrix.Matrix, keys []string) matrix.Matrix {
	for _, row := range m.Rows {
		mc, ok := row.Patterns[0].(pattern.MapCrash)
		if !ok || !sameKeys(mc.Keys, keys) {
			continue
		}
		return matrix.Matrix{Rows: []matrix.Row{{Action: row.Action, Bindings: row.Bindings}}}
	}
	return matrix.Matrix{}
}

func sameKeys(a, b []string) bool {
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

// VectorKind describes whether a vector-kind tag needs coercion and, when
// Coerce is set, how an occurrence of unknown representation is normalized into the
// canonical vector form before indexing.
type VectorKind struct {
	Coerce     bool
	CoerceCall string // the hostexpr.Call Fn used to coerce, e.g. "toVector"
}

// Vector implements rule (e): fold (has-rest, min-size) over retained
// rows, then either split into min-size fixed element occurrences or a
// left/right slice pair when any row uses a rest pattern. When the
// vector-kind requires coercion, the returned coerce bindings bind
// occurrence 0 to its coerced form ahead of further specialization.
func Vector(m matrix.Matrix, occs occurrence.Vector, kinds map[string]VectorKind) (matrix.Matrix, occurrence.Vector, []matrix.Binding) {
	idx := retainIndices(m, func(p pattern.Pattern) bool {
		if isWildcard(p) {
			return true
		}
		_, ok := p.(pattern.Vector)
		return ok
	})

	hasRest := false
	minSize := -1
	kindTag := ""
	for _, ri := range idx {
		v, ok := m.Rows[ri].Patterns[0].(pattern.Vector)
		if !ok {
			continue
		}
		kindTag = v.Kind
		if v.Rest {
			hasRest = true
		}
		if minSize == -1 || v.MinSize < minSize {
			minSize = v.MinSize
		}
	}
	if minSize == -1 {
		minSize = 0
	}

	parent := occs[0]
	var coerceBindings []matrix.Binding
	if k, ok := kinds[kindTag]; ok && k.Coerce {
		coerceBindings = []matrix.Binding{{
			Name: parent.Name,
			Expr: hostexpr.Call{Fn: k.CoerceCall, Args: []hostexpr.Expr{parent.Expr()}},
		}}
	}

	out := matrix.Matrix{Rows: make([]matrix.Row, len(idx))}

	if !hasRest {
		elemOccs := make(occurrence.Vector, minSize)
		for i := 0; i < minSize; i++ {
			offset := 0
			if v, ok := firstVector(m, idx); ok {
				offset = v.Offset
			}
			elemOccs[i] = occurrence.VecElem(parent, i, offset)
		}
		for i, ri := range idx {
			row := m.Rows[ri]
			subs := make([]pattern.Pattern, minSize)
			if isWildcard(row.Patterns[0]) {
				for i := range subs {
					subs[i] = pattern.Wildcard{}
				}
			} else {
				v := row.Patterns[0].(pattern.Vector)
				for i := 0; i < minSize; i++ {
					subs[i] = v.Elems[i]
				}
			}
			dropped := matrix.DropFirstWithBindings(row, parent)
			for i := len(subs) - 1; i >= 0; i-- {
				dropped.Patterns = append([]pattern.Pattern{subs[i]}, dropped.Patterns...)
			}
			out.Rows[i] = dropped
		}
		newOccs := append(append(occurrence.Vector{}, elemOccs...), matrix.DropOccurrence(occs, 0)...)
		return out, newOccs, coerceBindings
	}

	left := occurrence.VecLeft(parent, minSize)
	right := occurrence.VecRight(parent, minSize)
	for i, ri := range idx {
		row := m.Rows[ri]
		var leftPat, rightPat pattern.Pattern
		if isWildcard(row.Patterns[0]) {
			leftPat, rightPat = pattern.Wildcard{}, pattern.Wildcard{}
		} else {
			v := row.Patterns[0].(pattern.Vector)
			leftPat = pattern.Vector{Elems: v.Elems[:minSize], Kind: v.Kind, MinSize: minSize, Offset: v.Offset}
			rightPat = pattern.Vector{Elems: v.Elems[minSize:], Kind: v.Kind, MinSize: len(v.Elems) - minSize, Offset: v.Offset, Rest: v.Rest}
		}
		dropped := matrix.DropFirstWithBindings(row, parent)
		dropped.Patterns = append([]pattern.Pattern{leftPat, rightPat}, dropped.Patterns...)
		out.Rows[i] = dropped
	}
	newOccs := append(occurrence.Vector{left, right}, matrix.DropOccurrence(occs, 0)...)
	return out, newOccs, coerceBindings
}

func firstVector(m matrix.Matrix, idx []int) (pattern.Vector, bool) {
	for _, ri := range idx {
		if v, ok := m.Rows[ri].Patterns[0].(pattern.Vector); ok {
			return v, true
		}
	}
	return pattern.Vector{}, false
}

// Or implements rule (f): every row whose first pattern is pattern-equal
// to the given Or (and not a wildcard) is replaced by one row per
// alternative. Occurrences are unchanged.
func Or(m matrix.Matrix, or pattern.Or) matrix.Matrix {
	var out matrix.Matrix
	for _, row := range m.Rows {
		first := row.Patterns[0]
		o, ok := first.(pattern.Or)
		if !ok || !pattern.Equal(o, or) {
			out.Rows = append(out.Rows, row)
			continue
		}
		for _, alt := range o.Alts {
			newRow := matrix.Row{
				Patterns: append([]pattern.Pattern{alt}, row.Patterns[1:]...),
				Action:   row.Action,
				Bindings: row.Bindings,
			}
			out.Rows = append(out.Rows, newRow)
		}
	}
	return out
}

// Guard implements rule (g): retain rows whose first pattern is a Guard
// pattern-equal to ctor (same predicate set) or a wildcard; for Guard
// rows, replace column 0 with the inner pattern in the same slot rather
// than dropping it, so the next compile() iteration specializes the inner
// pattern against the same occurrence. Width and occurrences are
// unchanged.
func Guard(m matrix.Matrix, ctor pattern.Guard) matrix.Matrix {
	idx := retainIndices(m, func(p pattern.Pattern) bool {
		if isWildcard(p) {
			return true
		}
		g, ok := p.(pattern.Guard)
		return ok && pattern.Equal(g, ctor)
	})
	out := matrix.Matrix{Rows: make([]matrix.Row, len(idx))}
	for i, ri := range idx {
		row := m.Rows[ri]
		patterns := append([]pattern.Pattern(nil), row.Patterns...)
		if g, ok := patterns[0].(pattern.Guard); ok {
			patterns[0] = g.Inner
		}
		out.Rows[i] = matrix.Row{Patterns: patterns, Action: row.Action, Bindings: row.Bindings}
	}
	return out
}
