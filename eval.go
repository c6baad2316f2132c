package floatexpr

import (
	"math"
)

// Eval evaluates the expression with names resolved in s. A nil scope
// defines no names. Eval holds no state between lookups, so s may evaluate
// other expressions, including this one, while resolving names.
func (e *Expr) Eval(s Scope) (float64, error) {
	if s == nil {
		s = Vars(nil)
	}
	return e.n.eval(s)
}

// Evaluate is a shortcut to parse and evaluate an expression.
func Evaluate(s Scope, src string, opts ...ParseOption) (float64, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return e.Eval(s)
}

// eval computes the node's value. Operands and arguments are evaluated left to
// right, each completely before the next.
func (n *node) eval(s Scope) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		v, err := s.Lookup(n.name)
		if err != nil {
			return 0, lookupError(n, err)
		}
		return v, nil
	case nodeCall:
		var buf [3]float64
		invoc := buf[:0]
		for l := n.right; l != nil; l = l.right {
			v, err := l.left.eval(s)
			if err != nil {
				return 0, err
			}
			invoc = append(invoc, v)
		}
		return n.fn.Call(s, invoc)
	case nodeArg:
		panic("floatexpr: eval on nodeArg")
	case nodeNeg:
		v, err := n.left.eval(s)
		return -v, err
	case nodeNop:
		return n.left.eval(s)
	case nodeNot:
		v, err := n.left.eval(s)
		return bool2f(v == 0), err
	}
	l, err := n.left.eval(s)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(s)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		return l / r, nil
	case nodeLess:
		return bool2f(l < r), nil
	case nodeLeq:
		return bool2f(l <= r), nil
	case nodeGreater:
		return bool2f(l > r), nil
	case nodeGeq:
		return bool2f(l >= r), nil
	case nodeEq:
		return bool2f(l == r), nil
	case nodeNeq:
		return bool2f(l != r), nil
	case nodeAnd:
		return bool2f(truth(l) && truth(r)), nil
	case nodeOr:
		return bool2f(truth(l) || truth(r)), nil
	default:
		panic("floatexpr: invalid AST node " + n.kind.String())
	}
}

// lookupError converts an error from a scope lookup for n into an EvalError.
// Errors that already carry a position, such as those from evaluating an index
// expression, are kept intact inside a HookError.
func lookupError(n *node, err error) error {
	if undefined(err) {
		return &NameError{Col: n.pos, Name: n.name}
	}
	return &HookError{Col: n.pos, Name: n.name, Err: err}
}

// truth reports whether v counts as true: nonzero and not NaN.
func truth(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

func bool2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
