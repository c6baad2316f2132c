package floatexpr_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/zephyrtronium/floatexpr"
)

func TestBigEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"add", "1+2*3", 7},
		{"parens", "(1+2)*(-3)", -9},
		{"neg", "---1.78", -1.78},
		{"dotted", "a.x + a.y", 11},
		{"long", "1+2-3*4/5*(2*(1-5+(3*7)*(4+6*7-3)))+12", -4300.2},
		{"range", "x >= 1 && x <= 3", 1},
		{"if", "if(false, 1, 0)", 0},
		{"pow", "pow(x, 2)", 4},
		{"powneg", "pow(-x, 3)", -8},
		{"powinf", "pow(1/0, 2)", math.Inf(1)},
		{"powneginf", "pow(-1/0, 3)", math.Inf(-1)},
		{"powinfneg", "pow(1/0, -1)", 0},
		{"powoneinf", "pow(1, 1/0)", 1},
		{"sqrt", "sqrt(2)", math.Sqrt2},
		{"not", "!x", 0},
		{"notnot", "!!x", 1},
		{"or", "false || x", 1},
		{"ne", "x != 2", 0},
		{"div", "1/0", math.Inf(1)},
		{"round", "round(-2.5)", -3},
		{"clamp", "clamp(7, x, 5)", 5},
		{"exp", "exp(1)", math.E},
		{"ln", "ln(exp(2))", 2},
		{"log", "log(1000)", 3},
	}
	ctx := floatexpr.NewBigContext(floatexpr.Prec(128), floatexpr.WithScope(scope()))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := floatexpr.Parse(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			ctx := ctx.Clone()
			r := ctx.Eval(a)
			if ctx.Err() != nil {
				t.Fatal("evaluation error:", ctx.Err())
			}
			if r == nil {
				t.Fatal("nil result")
			}
			if q := ctx.Result(); r.Cmp(q) != 0 {
				t.Errorf("different results: Eval returned %g, Result returned %g", r, q)
			}
			if r.Prec() != 128 {
				t.Errorf("result has precision %d", r.Prec())
			}
			f, _ := r.Float64()
			if f != c.r && math.Abs(f-c.r) > 1e-12*math.Abs(c.r) {
				t.Errorf("wrong result: want %g, got %g", c.r, r)
			}
		})
	}
}

func TestBigEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"div-zero", "0/0", new(floatexpr.DomainError)},
		{"div-inf", "1/0 / (1/0)", new(floatexpr.DomainError)},
		{"sub-inf", "1/0 - 1/0", new(floatexpr.DomainError)},
		{"add-inf", "1/0 + -1/0", new(floatexpr.DomainError)},
		{"mul-inf", "0 * (1/0)", new(floatexpr.DomainError)},
		{"sqrt", "sqrt(-1)", new(floatexpr.DomainError)},
		{"pow-neg", "pow(-1, 0.5)", new(floatexpr.DomainError)},
		{"nan", "nan", new(floatexpr.DomainError)},
		{"sin", "sin(1)", new(floatexpr.PrecisionError)},
		{"undef", "zzz", new(floatexpr.NameError)},
		{"hook", "boom", new(floatexpr.HookError)},
	}
	s := floatexpr.WithHook(floatexpr.Vars{"nan": math.NaN()}, func(s floatexpr.Scope, name string) (float64, error) {
		if name == "boom" {
			return 0, errors.New("boom")
		}
		return 0, floatexpr.ErrUndefined
	})
	ctx := floatexpr.NewBigContext(floatexpr.WithScope(s))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := floatexpr.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if r := ctx.Eval(a); r != nil {
				t.Errorf("evaluating %q gave non-nil result %g", c.src, r)
			}
			err = ctx.Err()
			if err == nil {
				t.Fatalf("evaluating %q gave no error", c.src)
			}
			if !errorsAsType(err, c.err) {
				t.Errorf("%#v is not %T", err, c.err)
			}
			var ee floatexpr.EvalError
			if !errors.As(err, &ee) || ee.Pos() < 1 {
				t.Errorf("%#v has no position", err)
			}
			// The context remains usable after an error.
			b, _ := floatexpr.Parse("2")
			if r := ctx.Eval(b); r == nil || ctx.Err() != nil {
				t.Errorf("evaluation after error gave %v, %v", r, ctx.Err())
			}
		})
	}
}

func errorsAsType(err, target error) bool {
	switch target.(type) {
	case *floatexpr.DomainError:
		return errors.As(err, new(*floatexpr.DomainError))
	case *floatexpr.PrecisionError:
		return errors.Is(err, floatexpr.ErrPrecision) && errors.As(err, new(*floatexpr.PrecisionError))
	case *floatexpr.NameError:
		return errors.As(err, new(*floatexpr.NameError))
	case *floatexpr.HookError:
		return errors.As(err, new(*floatexpr.HookError))
	}
	return false
}

func TestBigContextVars(t *testing.T) {
	zero := new(big.Float)
	one := new(big.Float).SetFloat64(1)
	ctx := floatexpr.NewBigContext(floatexpr.Prec(64), floatexpr.SetVar("x", zero))
	if x := ctx.Lookup("x"); x == nil || x.Cmp(zero) != 0 {
		t.Errorf("x should be %[1]v at %[1]p but is %[2]v at %[2]p", zero, x)
	}
	if y := ctx.Lookup("y"); y != nil {
		t.Errorf("context has y: %[1]v at %[1]p", y)
	}
	ctx.Set("y", one)
	if x := ctx.Lookup("x"); x == nil || x.Cmp(zero) != 0 {
		t.Errorf("x should be %[1]v at %[1]p but is %[2]v at %[2]p", zero, x)
	}
	if y := ctx.Lookup("y"); y == nil || y.Cmp(one) != 0 {
		t.Errorf("y should be %[1]v at %[1]p but is %[2]v at %[2]p", one, y)
	}
	ctx.Set("x", one)
	if x := ctx.Lookup("x"); x == nil || x.Cmp(one) != 0 {
		t.Errorf("x should be %[1]v at %[1]p but is %[2]v at %[2]p", one, x)
	}
	if y := ctx.Lookup("y"); y == nil || y.Cmp(one) != 0 {
		t.Errorf("y should be %[1]v at %[1]p but is %[2]v at %[2]p", zero, y)
	}
}

func TestBigContextShadowsScope(t *testing.T) {
	ctx := floatexpr.NewBigContext(
		floatexpr.WithScope(floatexpr.Vars{"x": 1, "y": 2}),
		floatexpr.SetVar("x", big.NewFloat(10)),
	)
	a, err := floatexpr.Parse("x + y")
	if err != nil {
		t.Fatal(err)
	}
	r := ctx.Eval(a)
	if r == nil {
		t.Fatal(ctx.Err())
	}
	if f, _ := r.Float64(); f != 12 {
		t.Errorf("want 12, got %g", r)
	}
}

func TestBigContextClonePrec(t *testing.T) {
	ctx := floatexpr.NewBigContext(floatexpr.SetVars(floatexpr.StdBigVars(256)))
	if ctx.Prec() != 64 {
		t.Errorf("default precision is %d", ctx.Prec())
	}
	if pi := ctx.Lookup("pi"); pi.Prec() != 64 {
		t.Errorf("pi has precision %d in a 64-bit context", pi.Prec())
	}
	hi := ctx.Clone(floatexpr.Prec(256), floatexpr.SetVars(floatexpr.StdBigVars(256)))
	if hi.Prec() != 256 {
		t.Errorf("clone has precision %d", hi.Prec())
	}
	pi := hi.Lookup("pi")
	if pi.Prec() != 256 {
		t.Errorf("pi has precision %d in a 256-bit context", pi.Prec())
	}
	if f, _ := pi.Float64(); f != math.Pi {
		t.Errorf("pi = %g", pi)
	}
	if ctx.Prec() != 64 {
		t.Errorf("Clone changed the original's precision to %d", ctx.Prec())
	}
	e := hi.Lookup("e")
	if f, _ := e.Float64(); f != math.E {
		t.Errorf("e = %g", e)
	}
}

func TestEvaluateBig(t *testing.T) {
	r, err := floatexpr.EvaluateBig(floatexpr.Vars{"x": 0.1}, "x + 0.2", 200)
	if err != nil {
		t.Fatal(err)
	}
	// x is exactly the float64 nearest 0.1, while 0.2 is parsed at 200 bits.
	want := new(big.Float).SetPrec(200).SetFloat64(0.1)
	two, _, _ := new(big.Float).SetPrec(200).Parse("0.2", 10)
	want.Add(want, two)
	if r.Cmp(want) != 0 {
		t.Errorf("want %.60g, got %.60g", want, r)
	}

	if _, err := floatexpr.EvaluateBig(nil, "1 +", 64); !errors.Is(err, floatexpr.ErrSyntax) {
		t.Errorf("want syntax error, got %v", err)
	}
	if _, err := floatexpr.EvaluateBig(nil, "x", 64); !errors.Is(err, floatexpr.ErrUndefined) {
		t.Errorf("want undefined variable, got %v", err)
	}
}
