package floatexpr

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals. Functions may but generally should
// not look up variables.
type Func interface {
	// Call evaluates the function. The function arguments are passed in
	// invoc, which has a length for which CanCall returned true. Call may
	// modify the elements of invoc.
	Call(s Scope, invoc []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// The parser rejects calls with other numbers of arguments.
	CanCall(n int) bool
}

// BigFunc is a Func which can also be evaluated in arbitrary precision by a
// BigContext. Calls in a BigContext to functions that do not implement BigFunc
// fail with an error matching ErrPrecision.
type BigFunc interface {
	Func
	// CallBig evaluates the function. The function must set r to its result
	// at the context's precision and should not use the value of r otherwise.
	// CallBig may modify the elements of invoc.
	CallBig(ctx *BigContext, invoc []*big.Float, r *big.Float) error
}

var globalfuncs = map[string]Func{
	"abs":  monadic{math.Abs, (*big.Float).Abs},
	"sqrt": monadic{math.Sqrt, (*big.Float).Sqrt},
	"pow":  dyadic{math.Pow, bigpow},

	// trig, not implemented in arbitrary precision
	"sin":  monadic{f: math.Sin},
	"cos":  monadic{f: math.Cos},
	"tan":  monadic{f: math.Tan},
	"asin": monadic{f: math.Asin},
	"acos": monadic{f: math.Acos},
	"atan": monadic{f: math.Atan},

	// rounding; round is half away from zero
	"floor": monadic{math.Floor, bigfloor},
	"ceil":  monadic{math.Ceil, bigceil},
	"round": monadic{math.Round, biground},
	"trunc": monadic{math.Trunc, bigtrunc},

	"min":   dyadic{math.Min, bigmin},
	"max":   dyadic{math.Max, bigmax},
	"clamp": triadic{clamp, bigclamp},
	"if":    triadic{cond, bigcond},

	"exp": monadic{math.Exp, bigfloat.Exp},
	"ln":  monadic{math.Log, bigfloat.Log},
	"log": monadic{math.Log10, biglog10},
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// cond selects a when c is nonzero, including NaN.
func cond(c, a, b float64) float64 {
	if c != 0 {
		return a
	}
	return b
}

type monadic struct {
	f   func(float64) float64
	big func(out, in *big.Float) *big.Float
}

func (m monadic) Call(s Scope, invoc []float64) (float64, error) {
	return m.f(invoc[0]), nil
}

func (m monadic) CallBig(ctx *BigContext, invoc []*big.Float, r *big.Float) (err error) {
	if m.big == nil {
		return ErrPrecision
	}
	defer domain(&err, invoc)
	r.SetPrec(ctx.Prec())
	m.big(r, invoc[0])
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func.
func Monadic(f func(x float64) float64) Func {
	return monadic{f: f}
}

type dyadic struct {
	f   func(x, y float64) float64
	big func(out, x, y *big.Float) *big.Float
}

func (d dyadic) Call(s Scope, invoc []float64) (float64, error) {
	return d.f(invoc[0], invoc[1]), nil
}

func (d dyadic) CallBig(ctx *BigContext, invoc []*big.Float, r *big.Float) (err error) {
	if d.big == nil {
		return ErrPrecision
	}
	defer domain(&err, invoc)
	r.SetPrec(ctx.Prec())
	d.big(r, invoc[0], invoc[1])
	return nil
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two variables into a Func.
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic{f: f}
}

type triadic struct {
	f   func(x, y, z float64) float64
	big func(out, x, y, z *big.Float) *big.Float
}

func (t triadic) Call(s Scope, invoc []float64) (float64, error) {
	return t.f(invoc[0], invoc[1], invoc[2]), nil
}

func (t triadic) CallBig(ctx *BigContext, invoc []*big.Float, r *big.Float) (err error) {
	if t.big == nil {
		return ErrPrecision
	}
	defer domain(&err, invoc)
	r.SetPrec(ctx.Prec())
	t.big(r, invoc[0], invoc[1], invoc[2])
	return nil
}

func (t triadic) CanCall(n int) bool {
	return n == 3
}

// Triadic wraps a function of three variables into a Func.
func Triadic(f func(x, y, z float64) float64) Func {
	return triadic{f: f}
}

// domain recovers a panic from an arbitrary-precision function called with
// args. A big.ErrNaN becomes a DomainError on the first argument; a
// DomainError is returned as is. Other panics continue.
func domain(err *error, args []*big.Float) {
	r := recover()
	if r == nil {
		return
	}
	e, ok := r.(error)
	if !ok {
		panic(r)
	}
	var de *DomainError
	if errors.As(e, &de) {
		*err = de
		return
	}
	if errors.As(e, new(big.ErrNaN)) {
		*err = &DomainError{X: new(big.Float).Copy(args[0]), Arg: 1}
		return
	}
	panic(r)
}

func bigpow(out, x, y *big.Float) *big.Float {
	switch {
	case y.Sign() == 0:
		return out.SetInt64(1)
	case x.IsInf():
		// (-Inf)**y has the sign of x only for odd integer y.
		neg := x.Signbit() && bigodd(y)
		if y.Sign() > 0 {
			return out.SetInf(neg)
		}
		out.SetInt64(0)
		if neg {
			out.Neg(out)
		}
		return out
	case y.IsInf():
		switch new(big.Float).Abs(x).Cmp(bigone) {
		case 0:
			return out.SetInt64(1)
		case 1:
			if y.Sign() > 0 {
				return out.SetInf(false)
			}
		default:
			if y.Sign() < 0 {
				return out.SetInf(false)
			}
		}
		return out.SetInt64(0)
	case x.Cmp(bigone) == 0:
		return out.SetInt64(1)
	case x.Sign() == 0:
		if y.Sign() > 0 {
			return out.SetInt64(0)
		}
		return out.SetInf(false)
	case !x.Signbit():
		return bigfloat.Pow(out, x, y)
	}
	// Negative bases have real powers only for integer exponents.
	if !y.IsInt() {
		panic(&DomainError{X: new(big.Float).Copy(x), Arg: 1})
	}
	bigfloat.Pow(out, new(big.Float).Abs(x), y)
	if bigodd(y) {
		out.Neg(out)
	}
	return out
}

// bigodd reports whether y is an odd integer.
func bigodd(y *big.Float) bool {
	if !y.IsInt() {
		return false
	}
	k, _ := y.Int(nil)
	return k.Bit(0) == 1
}

var bigone = big.NewFloat(1)

func biglog10(out, in *big.Float) *big.Float {
	bigfloat.Log(out, in)
	ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
	bigfloat.Log(ten, ten)
	return out.Quo(out, ten)
}

// bigint sets out to the integer part of in, adjusted by adj applied to the
// discarded fraction.
func bigint(out, in *big.Float, adj func(frac *big.Float) int64) *big.Float {
	if in.IsInf() || in.IsInt() {
		return out.Set(in)
	}
	i, _ := in.Int(nil)
	frac := new(big.Float).Sub(in, new(big.Float).SetInt(i))
	i.Add(i, big.NewInt(adj(frac)))
	return out.SetInt(i)
}

var half = big.NewFloat(0.5)

func bigfloor(out, in *big.Float) *big.Float {
	return bigint(out, in, func(frac *big.Float) int64 {
		if frac.Sign() < 0 {
			return -1
		}
		return 0
	})
}

func bigceil(out, in *big.Float) *big.Float {
	return bigint(out, in, func(frac *big.Float) int64 {
		if frac.Sign() > 0 {
			return 1
		}
		return 0
	})
}

func biground(out, in *big.Float) *big.Float {
	return bigint(out, in, func(frac *big.Float) int64 {
		a := new(big.Float).Abs(frac)
		if a.Cmp(half) < 0 {
			return 0
		}
		return int64(frac.Sign())
	})
}

func bigtrunc(out, in *big.Float) *big.Float {
	return bigint(out, in, func(*big.Float) int64 { return 0 })
}

func bigmin(out, x, y *big.Float) *big.Float {
	if x.Cmp(y) <= 0 {
		return out.Set(x)
	}
	return out.Set(y)
}

func bigmax(out, x, y *big.Float) *big.Float {
	if x.Cmp(y) >= 0 {
		return out.Set(x)
	}
	return out.Set(y)
}

func bigclamp(out, x, lo, hi *big.Float) *big.Float {
	bigmax(out, x, lo)
	return bigmin(out, out, hi)
}

func bigcond(out, c, a, b *big.Float) *big.Float {
	if c.Sign() != 0 {
		return out.Set(a)
	}
	return out.Set(b)
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain in arbitrary precision, where there is no NaN.
// It implements EvalError.
type DomainError struct {
	// X is the out-of-domain argument. It is nil if the value was NaN.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
	// Col is the position of the call or operator.
	Col int
}

func (err *DomainError) Error() string {
	r := "NaN"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return errpos(err.Col, r)
}

func (err *DomainError) Pos() int {
	return err.Col
}

// PrecisionError is an error indicating a call in a BigContext to a function
// with no arbitrary-precision implementation. It implements EvalError.
type PrecisionError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
}

func (err *PrecisionError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" in arbitrary precision")
}

func (err *PrecisionError) Pos() int {
	return err.Col
}

func (err *PrecisionError) Is(target error) bool {
	return target == ErrPrecision
}

var (
	_ EvalError = (*DomainError)(nil)
	_ EvalError = (*PrecisionError)(nil)

	_ BigFunc = monadic{}
	_ BigFunc = dyadic{}
	_ BigFunc = triadic{}
)
