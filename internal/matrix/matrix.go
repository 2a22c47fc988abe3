// Package matrix implements the pattern row and pattern matrix: the
// two-dimensional working data structure the matrix compiler
// (internal/compiler) repeatedly specializes.
package matrix

import (
	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/occurrence"
	"github.com/nivertech/match/internal/pattern"
)

// Binding is one (name, expr) pair introduced by an :as capture or a named
// wildcard encountered during specialization.
type Binding struct {
	Name string
	Expr hostexpr.Expr
}

// Row is one clause: patterns (width = matrix width), an opaque action
// payload, and the bindings accumulated so far, in declaration order.
type Row struct {
	Patterns []pattern.Pattern
	Action   hostexpr.Expr
	Bindings []Binding
}

// Matrix is rows × occurrence columns; width is implied by the occurrence
// vector threaded alongside it (width = |occurrences| = |row.patterns|).
// An empty matrix (no rows) has width 0 in that sense.
type Matrix struct {
	Rows []Row
}

// Width returns the column count, or 0 for a matrix with no rows.
func (m Matrix) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0].Patterns)
}

// Column returns the vertical slice of pattern i across all rows.
func (m Matrix) Column(i int) []pattern.Pattern {
	col := make([]pattern.Pattern, len(m.Rows))
	for r, row := range m.Rows {
		col[r] = row.Patterns[i]
	}
	return col
}

// FirstRowEmpty reports whether the first row has zero patterns (only
// reachable at width 0).
func (m Matrix) FirstRowEmpty() bool {
	return len(m.Rows) > 0 && len(m.Rows[0].Patterns) == 0
}

// FirstRowAllWildcards reports whether every pattern in the first row is a
// Wildcard.
func (m Matrix) FirstRowAllWildcards() bool {
	if len(m.Rows) == 0 {
		return false
	}
	for _, p := range m.Rows[0].Patterns {
		if _, ok := p.(pattern.Wildcard); !ok {
			return false
		}
	}
	return true
}

// SwapColumns exchanges column i and column 0 in every row, in place,
// mirroring a swap of the occurrence vector.
func (m Matrix) SwapColumns(i int) {
	if i == 0 {
		return
	}
	for r := range m.Rows {
		m.Rows[r].Patterns[0], m.Rows[r].Patterns[i] = m.Rows[r].Patterns[i], m.Rows[r].Patterns[0]
	}
}

// DropFirstWithBindings implements drop-nth-bind: remove the first pattern
// of row, and extend its bindings with the :as capture
// (if present) and the named-wildcard binding (if the dropped pattern was
// a named wildcard), both bound to occ's current value expression.
func DropFirstWithBindings(row Row, occ *occurrence.Occurrence) Row {
	dropped := row.Patterns[0]
	newBindings := append([]Binding(nil), row.Bindings...)

	if as := pattern.As(dropped); as != "" {
		if w, ok := dropped.(pattern.Wildcard); !ok || w.Name != as {
			newBindings = append(newBindings, Binding{Name: as, Expr: occ.Expr()})
		}
	}
	if w, ok := dropped.(pattern.Wildcard); ok && !w.IsDefault() {
		newBindings = append(newBindings, Binding{Name: w.Name, Expr: occ.Expr()})
	}

	return Row{
		Patterns: append([]pattern.Pattern(nil), row.Patterns[1:]...),
		Action:   row.Action,
		Bindings: newBindings,
	}
}

// DropOccurrence returns occs with element i removed.
func DropOccurrence(occs occurrence.Vector, i int) occurrence.Vector {
	out := make(occurrence.Vector, 0, len(occs)-1)
	out = append(out, occs[:i]...)
	out = append(out, occs[i+1:]...)
	return out
}
