// Package matchc is the public entry point of the closed pattern-match
// compiler: Compile and its Match1/MatchV conveniences turn a Lisp-style
// occurrences/clauses surface form into an abstract host expression tree
// (internal/hostexpr), ready for a back end to render into any target
// language.
package matchc

import (
	"github.com/nivertech/match/internal/compiler"
	"github.com/nivertech/match/internal/dag"
	"github.com/nivertech/match/internal/diagnostics"
	"github.com/nivertech/match/internal/form"
	"github.com/nivertech/match/internal/frontend"
	"github.com/nivertech/match/internal/hostexpr"
	"github.com/nivertech/match/internal/specialize"
	"github.com/nivertech/match/internal/trace"
)

// Option configures a single Compile call.
type Option func(*options)

type options struct {
	locals      map[string]bool
	vectorKinds map[string]specialize.VectorKind
	vectorTags  map[string]bool
	onWarning   func(string)
	trace       func(string)
}

func newOptions() *options {
	return &options{
		locals:      map[string]bool{},
		vectorKinds: map[string]specialize.VectorKind{},
		vectorTags:  map[string]bool{},
	}
}

// WithLocal marks a surface symbol as resolving to a value in the caller's
// scope, so it translates to a value-compared Literal rather than a
// capturing Wildcard.
func WithLocal(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.locals[n] = true
		}
	}
}

// WithVectorKind registers a vector-kind tag name. When coerce is true,
// coerceCall names the host-expr Call used to normalize an occurrence of
// unknown representation into the canonical vector form before indexing.
func WithVectorKind(name string, coerce bool, coerceCall string) Option {
	return func(o *options) {
		o.vectorTags[name] = true
		o.vectorKinds[name] = specialize.VectorKind{Coerce: coerce, CoerceCall: coerceCall}
	}
}

// WithWarning registers a sink invoked at most once per Compile call if the
// compiled matrix has a fall-through (non-exhaustive) path.
func WithWarning(fn func(message string)) Option {
	return func(o *options) { o.onWarning = fn }
}

// WithTrace registers a sink that receives a rendered tree of the compiled
// decision DAG.
func WithTrace(fn func(rendered string)) Option {
	return func(o *options) { o.trace = fn }
}

// Compile translates occurrences and clauses into a host expression.
// occurrences must be a form.Vector of occurrence expressions; clauses must
// be an even-length list of alternating pattern-row/action forms, with
// :else permitted only as the final row's pattern.
func Compile(occurrences form.Form, clauses []form.Form, opts ...Option) (hostexpr.Expr, error) {
	occVec, ok := occurrences.(form.Vector)
	if !ok {
		return nil, diagnostics.OccurrencesNotVector(formTypeName(occurrences))
	}

	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}

	m, occs, err := frontend.Build(occVec, clauses, frontend.Options{
		Locals:      o.locals,
		VectorKinds: o.vectorTags,
	})
	if err != nil {
		return nil, err
	}

	c := compiler.New(compiler.Config{VectorKinds: o.vectorKinds, OnWarning: o.onWarning})
	node := c.Compile(m, occs)

	if o.trace != nil {
		o.trace(trace.Render(node))
	}

	return dag.Lowerer{}.Lower(node), nil
}

// Match1 is Compile specialized to a single occurrence.
func Match1(occurrence form.Form, clauses []form.Form, opts ...Option) (hostexpr.Expr, error) {
	return Compile(form.Vector{Elems: []form.Form{occurrence}}, clauses, opts...)
}

// MatchV is Compile specialized to occurrences sharing one vector-kind,
// registering that kind before translation.
func MatchV(kind string, occurrences form.Vector, clauses []form.Form, coerce bool, coerceCall string, opts ...Option) (hostexpr.Expr, error) {
	all := append([]Option{WithVectorKind(kind, coerce, coerceCall)}, opts...)
	return Compile(occurrences, clauses, all...)
}

func formTypeName(f form.Form) string {
	switch f.(type) {
	case form.Vector:
		return "vector"
	case form.Sym:
		return "symbol"
	case form.ListForm:
		return "list"
	case form.MapForm:
		return "map"
	default:
		return "atom"
	}
}
