//go:build go1.18
// +build go1.18

package floatexpr_test

import (
	"testing"

	"github.com/zephyrtronium/floatexpr"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("pow(a.x, -2) < 1e-3")
	f.Fuzz(func(t *testing.T, src string) {
		a, err := floatexpr.Parse(src)
		if err != nil {
			return
		}
		// The string form must parse to an expression with the same string.
		s := a.String()
		b, err := floatexpr.Parse(s)
		if err != nil {
			t.Fatalf("%q formatted as %q which failed to parse: %v", src, s, err)
		}
		if b.String() != s {
			t.Errorf("%q formatted as %q which formatted as %q", src, s, b.String())
		}
	})
}
