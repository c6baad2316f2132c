// Package floatexpr implements a calculator for infix arithmetic, relational,
// and logical expressions over float64 values.
//
// Expressions look like C: "x >= 1 && x <= 3", "pow(x, 2) + 1",
// "if(a.x < 0, -a.x, a.x)". Booleans are 1 and 0. The && and || operators treat
// any value other than 0 and NaN as true, but !x is 1 only when x is 0, so
// !NaN is 0. There are no string values, assignments, or statements.
//
// Names are resolved through a Scope. Vars is the plain mapping; a Hook lets a
// scope compute values for names it does not hold, which together with
// indexed names like "c[2*x+1]" makes computed references possible. See
// Indexer.
//
// Parse an expression once and evaluate it with any number of scopes, or use
// Evaluate to do both at once. A BigContext evaluates the same expressions in
// arbitrary precision.
//
package floatexpr
