package floatexpr

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// BigContext is a context for evaluating expressions in arbitrary precision.
// It is not safe to use a BigContext concurrently, nor to evaluate with it
// from within a lookup of an evaluation using it; use Clone instead.
type BigContext struct {
	stack []*big.Float
	nums  map[string]*big.Float
	names map[string]*big.Float
	scope Scope
	prec  uint
	err   error
}

// ContextOption configures a BigContext in NewBigContext or Clone.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt  map[string]*big.Float
	precopt  uint
	scopeopt struct{ s Scope }
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (precopt) ctxOption()  {}
func (scopeopt) ctxOption() {}

// SetVar defines name in the context, shadowing the context's scope.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars defines each variable in vars, as SetVar.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Prec selects the mantissa size, in bits, of every value the context
// computes.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// WithScope sets a scope to consult for names which are not variables in the
// context. Its values are converted exactly from float64.
func WithScope(s Scope) ContextOption {
	return scopeopt{s}
}

// NewBigContext creates a new evaluation context. If no precision is given,
// the default is 64.
func NewBigContext(opts ...ContextOption) *BigContext {
	ctx := BigContext{nums: make(map[string]*big.Float), prec: 64}
	return ctx.Clone(opts...)
}

// StdBigVars returns the constants of StdVars computed to the given
// precision, suitable for SetVars.
func StdBigVars(prec uint) map[string]*big.Float {
	one := new(big.Float).SetPrec(prec).SetInt64(1)
	return map[string]*big.Float{
		"true":  new(big.Float).SetPrec(prec).SetInt64(1),
		"false": new(big.Float).SetPrec(prec),
		"pi":    bigfloat.Pi(new(big.Float).SetPrec(prec)),
		"e":     bigfloat.Exp(new(big.Float).SetPrec(prec), one),
	}
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or an argument to a function is outside
// the function's domain, then the result is nil and ctx.Err returns the error.
func (ctx *BigContext) Eval(e *Expr) *big.Float {
	switch len(ctx.stack) {
	case 0:
	case 1:
		ctx.stack[0] = new(big.Float).SetPrec(ctx.prec)
		ctx.stack = ctx.stack[:0]
	default:
		panic("floatexpr: Eval during Eval")
	}
	err := e.n.evalbig(ctx)
	ctx.err = err
	if err != nil {
		ctx.stack = ctx.stack[:0]
		return nil
	}
	return ctx.Result()
}

// Result returns the value of the last expression evaluated, or nil if that
// evaluation failed. It panics if ctx has evaluated nothing.
func (ctx *BigContext) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("floatexpr: BigContext.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("floatexpr: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred during the last evaluation with ctx, if
// any.
func (ctx *BigContext) Err() error {
	return ctx.err
}

// Set defines a variable at the context's precision and returns ctx. It
// panics during an evaluation.
func (ctx *BigContext) Set(name string, value *big.Float) *BigContext {
	if len(ctx.stack) > 1 {
		panic("floatexpr: Set on in-use context")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Float)
	}
	ctx.names[name] = ctx.round(value)
	return ctx
}

// Lookup returns a copy of a variable defined with Set, SetVar, or SetVars,
// or nil. The context's scope is not consulted.
func (ctx *BigContext) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the context's precision in bits.
func (ctx *BigContext) Prec() uint {
	return ctx.prec
}

// Clone copies the context's variables, scope, and precision, then applies
// opts. The copy has no result. Variables are rounded to a new precision.
func (ctx *BigContext) Clone(opts ...ContextOption) *BigContext {
	prec := ctx.prec
	// The last Prec wins, and it must be known before any value is copied.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			prec = uint(p)
			break
		}
	}
	c := &BigContext{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		nums:  make(map[string]*big.Float, len(ctx.nums)),
		names: make(map[string]*big.Float, len(ctx.names)),
		scope: ctx.scope,
		prec:  prec,
	}
	// Cached literals are reusable unless the precision grew.
	if prec <= ctx.prec {
		for text, v := range ctx.nums {
			c.nums[text] = c.round(v)
		}
	}
	for name, v := range ctx.names {
		if prec == ctx.prec {
			// Set replaces entries rather than modifying them, so values at
			// the same precision can be shared.
			c.names[name] = v
			continue
		}
		c.names[name] = c.round(v)
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil, precopt:
		case varopt:
			c.names[opt.name] = c.round(opt.val)
		case varsopt:
			for name, v := range opt {
				c.names[name] = c.round(v)
			}
		case scopeopt:
			c.scope = opt.s
		default:
			panic("floatexpr: unknown option type")
		}
	}
	return c
}

// round returns a copy of v at the context's precision.
func (ctx *BigContext) round(v *big.Float) *big.Float {
	return new(big.Float).SetPrec(ctx.prec).Set(v)
}

// push grows the stack by one value, reusing a spare one if possible, and
// returns it.
func (ctx *BigContext) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes and returns the top value. It remains owned by the stack, so it
// is only valid until the next push.
func (ctx *BigContext) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top returns the top value without removing it.
func (ctx *BigContext) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num converts a literal at the context's precision, caching the result.
func (ctx *BigContext) num(s string) *big.Float {
	if r := ctx.nums[s]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	switch {
	case err == nil:
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// big.Float reports range errors only through their text.
		// Literals are unsigned, so the sign of the exponent decides.
		r = new(big.Float).SetPrec(ctx.prec)
		if !strings.ContainsAny(s, "-") {
			r.SetInf(false)
		}
	default:
		panic("floatexpr: invalid number: " + s + " (" + err.Error() + ")")
	}
	ctx.nums[s] = r
	return r
}

// lookup pushes the value of a name.
func (ctx *BigContext) lookup(n *node) error {
	if v := ctx.names[n.name]; v != nil {
		ctx.push().Set(v)
		return nil
	}
	if ctx.scope == nil {
		return &NameError{Col: n.pos, Name: n.name}
	}
	v, err := ctx.scope.Lookup(n.name)
	if err != nil {
		return lookupError(n, err)
	}
	if math.IsNaN(v) {
		return &DomainError{Func: n.name, Col: n.pos}
	}
	ctx.push().SetFloat64(v)
	return nil
}

// evalbig pushes the node's value to the context's stack.
func (n *node) evalbig(ctx *BigContext) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(ctx.num(n.name))
	case nodeName:
		return ctx.lookup(n)
	case nodeCall:
		f, ok := n.fn.(BigFunc)
		if !ok {
			return &PrecisionError{Col: n.pos, Func: n.name}
		}
		r := ctx.push()
		k := len(ctx.stack)
		for l := n.right; l != nil; l = l.right {
			if err := l.left.evalbig(ctx); err != nil {
				return err
			}
		}
		invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := f.CallBig(ctx, invoc, r); err != nil {
			return callError(n, err)
		}
		ctx.stack = ctx.stack[:k]
	case nodeArg:
		panic("floatexpr: evalbig on nodeArg")
	case nodeNeg:
		if err := n.left.evalbig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeNop:
		return n.left.evalbig(ctx)
	case nodeNot:
		if err := n.left.evalbig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		setbool(v, v.Sign() == 0)
	default:
		if err := n.left.evalbig(ctx); err != nil {
			return err
		}
		if err := n.right.evalbig(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return n.binbig(l, r)
	}
	return nil
}

// binbig sets l to the result of the binary operation n applied to l and r.
func (n *node) binbig(l, r *big.Float) error {
	switch n.kind {
	case nodeAdd:
		// Guard against inf-inf.
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return &DomainError{X: new(big.Float).Copy(r), Arg: 2, Func: "+", Col: n.pos}
		}
		l.Add(l, r)
	case nodeSub:
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return &DomainError{X: new(big.Float).Copy(r), Arg: 2, Func: "-", Col: n.pos}
		}
		l.Sub(l, r)
	case nodeMul:
		// Guard against 0*inf.
		if l.Sign() == 0 && r.IsInf() || l.IsInf() && r.Sign() == 0 {
			return &DomainError{X: new(big.Float).Copy(r), Arg: 2, Func: "*", Col: n.pos}
		}
		l.Mul(l, r)
	case nodeDiv:
		// 0/0 and inf/inf have no value.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return &DomainError{X: new(big.Float).Copy(r), Arg: 2, Func: "/", Col: n.pos}
		}
		l.Quo(l, r)
	case nodeLess:
		setbool(l, l.Cmp(r) < 0)
	case nodeLeq:
		setbool(l, l.Cmp(r) <= 0)
	case nodeGreater:
		setbool(l, l.Cmp(r) > 0)
	case nodeGeq:
		setbool(l, l.Cmp(r) >= 0)
	case nodeEq:
		setbool(l, l.Cmp(r) == 0)
	case nodeNeq:
		setbool(l, l.Cmp(r) != 0)
	case nodeAnd:
		setbool(l, l.Sign() != 0 && r.Sign() != 0)
	case nodeOr:
		setbool(l, l.Sign() != 0 || r.Sign() != 0)
	default:
		panic("floatexpr: invalid AST node " + n.kind.String())
	}
	return nil
}

// callError attaches the position and name of call n to an error from a
// BigFunc.
func callError(n *node, err error) error {
	switch e := err.(type) {
	case *DomainError:
		if e.Func == "" {
			e.Func = n.name
		}
		if e.Col == 0 {
			e.Col = n.pos
		}
		return e
	case EvalError:
		return e
	}
	if err == ErrPrecision {
		return &PrecisionError{Col: n.pos, Func: n.name}
	}
	return err
}

func setbool(v *big.Float, b bool) {
	if b {
		v.SetInt64(1)
	} else {
		v.SetInt64(0)
	}
}

// EvaluateBig is a shortcut to parse and evaluate an expression in arbitrary
// precision, with names resolved in s.
func EvaluateBig(s Scope, src string, prec uint) (*big.Float, error) {
	ctx := NewBigContext(WithScope(s), Prec(prec))
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(e)
	return ctx.Result(), ctx.Err()
}
