package floatexpr

import (
	"errors"
	"strconv"
	"strings"
)

// Expr = num | name | Call | Unary | Expr binop Expr | '(' Expr ')'
// Call = funcname '(' [ Expr { ',' Expr } ] ')'
// Unary = ( '+' | '-' | '!' ) Expr
// binop, loosest to tightest: || ; && ; == != ; < <= > >= ; + - ; * /
// Unary operators bind more tightly than any binary operator. All binary
// operators are left-associative, so a < b < c is (a < b) < c.

// Expr is a parsed expression that can be evaluated with a scope. An Expr is
// immutable and safe for concurrent use.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// Parse parses an expression so it can be evaluated with a scope. The given
// options are applied in order. The entire input must form one expression;
// trailing text is an error.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		names: make(map[string]bool),
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs == nil {
		p.funcs = globalfuncs
	} else if !p.nodefaults {
		// Only set default functions that aren't already set.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses operands joined by operators more binding than until. If
// there is no error, then parseterm pushes the last token it scans, including
// EOF, and the result is non-nil.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		case tokenNum, tokenIdent, tokenOpen, tokenClose, tokenSep, tokenEOF:
			// End of term. The caller decides whether this token may follow.
			scan.push(tok)
			return n, nil
		default:
			panic("floatexpr: unknown token: " + tok.String())
		}
	}
}

// parselhs parses a primary: a number, a name or call, a parenthesized
// subexpression, or a unary operator applied to a primary.
func parselhs(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		// Out of range literals become infinities or zeros, as in IEEE
		// arithmetic.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
		}
		return &node{kind: nodeNum, pos: tok.pos, name: tok.text, num: v}, nil
	case tokenIdent:
		return parsecall(scan, p, tok)
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		if end := scan.must(); end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		return rhs, nil
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("floatexpr: unknown token: " + tok.String())
	}
}

// parsecall parses a name. If an open parenthesis follows, the name is a call
// of a function, and parsecall parses its arguments.
func parsecall(scan *lexer, p *parsectx, id lexToken) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOpen {
		scan.push(tok)
		p.names[id.text] = true
		return &node{kind: nodeName, pos: id.pos, name: id.text}, nil
	}
	fn := p.funcs[id.text]
	if fn == nil {
		return nil, &FuncError{Col: id.pos, Func: id.text}
	}
	args, len, err := parsearglist(scan, p)
	if err != nil {
		return nil, err
	}
	if end := scan.must(); end.kind != tokenClose {
		panic("floatexpr: parsearglist ended on " + end.String() + " instead of close bracket")
	}
	if !fn.CanCall(len) {
		return nil, &CallError{Col: id.pos, Func: id.text, Len: len}
	}
	return &node{kind: nodeCall, pos: id.pos, name: id.text, fn: fn, right: args}, nil
}

// parsearglist parses a comma-separated list of zero or more args up to a
// close parenthesis, which it pushes.
func parsearglist(scan *lexer, p *parsectx) (*node, int, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, 0, err
	}
	scan.push(tok)
	if tok.kind == tokenClose {
		// func()
		return nil, 0, nil
	}
	var n node
	l := &n
	len := 0
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: "("}
			}
			return nil, 0, err
		}
		len++
		l.right = &node{kind: nodeArg, pos: rhs.pos, left: rhs}
		l = l.right
		end := scan.must()
		switch end.kind {
		case tokenClose:
			scan.push(end)
			return n.right, len, nil
		case tokenSep:
			// next argument
		default:
			return nil, 0, itShouldNotHaveEndedThisWay(end, true)
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open indicates whether the expression
// is inside parentheses.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: "(", Right: ""}
	case tokenClose:
		if open {
			panic("floatexpr: close bracket is a valid end here")
		}
		return &BracketError{Col: tok.pos, Left: "", Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenNum, tokenIdent, tokenOpen:
		return &TokenError{Col: tok.pos, Token: tok.text}
	default:
		panic("floatexpr: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// parentheses grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "||":
		return operator{1, false, nodeOr}
	case "&&":
		return operator{2, false, nodeAnd}
	case "==":
		return operator{3, false, nodeEq}
	case "!=":
		return operator{3, false, nodeNeq}
	case "<":
		return operator{4, false, nodeLess}
	case "<=":
		return operator{4, false, nodeLeq}
	case ">":
		return operator{4, false, nodeGreater}
	case ">=":
		return operator{4, false, nodeGeq}
	case "+":
		return operator{5, false, nodeAdd}
	case "-":
		return operator{5, false, nodeSub}
	case "*":
		return operator{6, false, nodeMul}
	case "/":
		return operator{6, false, nodeDiv}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	case "!":
		return operator{10, true, nodeNot}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
