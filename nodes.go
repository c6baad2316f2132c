package floatexpr

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// pos is the 1-based byte position of the token that produced the node.
	pos int

	name string
	num  float64
	fn   Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num; name is the literal text
	nodeName // push lookup(name)

	nodeCall // name is Func to call, right is link to nodeArg unless niladic
	nodeArg  // eval left, right is link to next arg

	nodeNeg // evaluate left, then negate
	nodeNop // evaluate left
	nodeNot // evaluate left, then logical not

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right

	nodeLess    // left < right
	nodeLeq     // left <= right
	nodeGreater // left > right
	nodeGeq     // left >= right
	nodeEq      // left == right
	nodeNeq     // left != right

	nodeAnd // left && right, both evaluated
	nodeOr  // left || right, both evaluated
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

// binsyms maps binary node kinds to their operator text.
var binsyms = map[nodeKind]string{
	nodeAdd:     "+",
	nodeSub:     "-",
	nodeMul:     "*",
	nodeDiv:     "/",
	nodeLess:    "<",
	nodeLeq:     "<=",
	nodeGreater: ">",
	nodeGeq:     ">=",
	nodeEq:      "==",
	nodeNeq:     "!=",
	nodeAnd:     "&&",
	nodeOr:      "||",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n fully parenthesized. The result parses to the same tree.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b)
	case nodeNot:
		b.WriteByte('!')
		n.left.fmt(b)
	default:
		sym, ok := binsyms[n.kind]
		if !ok {
			panic("floatexpr: invalid node kind " + n.kind.String() + " after writing " + b.String())
		}
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(sym)
		b.WriteByte(' ')
		n.right.fmt(b)
	}
}

func (n *node) fmtargs(b *strings.Builder) {
	b.WriteByte('(')
	for l := n.right; l != nil; l = l.right {
		if l != n.right {
			b.WriteString(", ")
		}
		l.left.fmt(b)
	}
	b.WriteByte(')')
}
