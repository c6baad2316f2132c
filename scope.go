package floatexpr

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Scope resolves names to values during evaluation.
type Scope interface {
	// Lookup returns the value of name. If the scope does not define name,
	// the error is ErrUndefined or wraps it. Any other error aborts the
	// evaluation and is reported in a HookError.
	//
	// The name is text from the expression, including any index suffix like
	// [2*x+1]. Lookup must be safe for concurrent use if the scope is shared
	// by concurrent evaluations.
	Lookup(name string) (float64, error)
}

// Vars is a scope holding a fixed set of variables. It is safe for concurrent
// evaluations provided it is not modified during them.
type Vars map[string]float64

// Lookup returns the value of the variable name.
func (v Vars) Lookup(name string) (float64, error) {
	x, ok := v[name]
	if !ok {
		return 0, ErrUndefined
	}
	return x, nil
}

// StdVars returns a new Vars containing conventional constants: true, false,
// pi, and e.
func StdVars() Vars {
	return Vars{
		"true":  1,
		"false": 0,
		"pi":    math.Pi,
		"e":     math.E,
	}
}

// ScopeFunc adapts a function to a Scope.
type ScopeFunc func(name string) (float64, error)

// Lookup calls f(name).
func (f ScopeFunc) Lookup(name string) (float64, error) {
	return f(name)
}

// Hook computes values for names that a scope does not define. s is the
// scope the hook is installed in, so the hook may evaluate subexpressions in
// it. A hook that does not recognize a name should return ErrUndefined.
type Hook func(s Scope, name string) (float64, error)

// Hooked is a scope which consults a hook for names its base scope does not
// define.
type Hooked struct {
	// Base is the scope consulted first. If it is nil, only the hook defines
	// names.
	Base Scope
	// Hook is called for names Base does not define. If it is nil, those
	// names are undefined.
	Hook Hook
}

// WithHook creates a scope which resolves names in s, or with h when s does
// not define them.
func WithHook(s Scope, h Hook) *Hooked {
	return &Hooked{Base: s, Hook: h}
}

// Lookup returns the value of name in the base scope if it is defined there
// and otherwise the hook's value.
func (h *Hooked) Lookup(name string) (float64, error) {
	if h.Base != nil {
		v, err := h.Base.Lookup(name)
		if !undefined(err) {
			return v, err
		}
	}
	if h.Hook == nil {
		return 0, ErrUndefined
	}
	return h.Hook(h, name)
}

// undefined reports whether err from a lookup means only that the name is not
// defined. An error with a position comes from evaluating some other
// expression, such as an index, and is not a miss even if that expression
// used an undefined name.
func undefined(err error) bool {
	var ee EvalError
	return err != nil && !errors.As(err, &ee) && errors.Is(err, ErrUndefined)
}

// Indexer creates a hook which resolves names of the form prefix[expr]. The
// text between the outer brackets is parsed with opts and evaluated in the
// hooked scope, and at maps the result to the name's value. Other names are
// undefined.
func Indexer(prefix string, at func(i float64) (float64, error), opts ...ParseOption) Hook {
	open := prefix + "["
	return func(s Scope, name string) (float64, error) {
		if !strings.HasPrefix(name, open) || !strings.HasSuffix(name, "]") {
			return 0, ErrUndefined
		}
		i, err := Evaluate(s, name[len(open):len(name)-1], opts...)
		if err != nil {
			return 0, err
		}
		return at(i)
	}
}

type traced struct {
	s   Scope
	log *zap.Logger
}

// Traced wraps a scope so that every lookup is logged at debug level.
func Traced(s Scope, log *zap.Logger) Scope {
	if s == nil {
		s = Vars(nil)
	}
	return &traced{s: s, log: log}
}

func (t *traced) Lookup(name string) (float64, error) {
	v, err := t.s.Lookup(name)
	if err != nil {
		t.log.Debug("lookup failed", zap.String("name", name), zap.Error(err))
		return v, err
	}
	t.log.Debug("lookup", zap.String("name", name), zap.Float64("value", v))
	return v, nil
}
