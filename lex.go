package floatexpr

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number with optional fraction and exponent.
	tokenNum
	// tokenIdent is a variable or function name, possibly indexed.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a function argument separator.
	tokenSep
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token
//go:generate go mod tidy

// operators contains the operator tokens. Two-byte operators precede the
// one-byte operators that are their prefixes so that they scan greedily.
var operators = []string{
	"==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "<", ">", "!",
}

type lexer struct {
	src string
	off int
	p   lexToken
}

func lex(src string) *lexer {
	return &lexer{src: src}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("floatexpr: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("floatexpr: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// peek returns the next non-whitespace byte without consuming it, or 0 at the
// end of the input.
func (l *lexer) peek() byte {
	l.skipSpace()
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case ' ', '\t', '\r', '\n':
			l.off++
		default:
			return
		}
	}
}

// next scans the next token from the input. At the end of the input, the
// result is an EOF token every time next is called. After an error, the lexer
// has consumed the invalid rune, so scanning may continue.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	c := l.peek()
	tok := lexToken{pos: l.off + 1}
	switch {
	case l.off >= len(l.src):
		tok.kind = tokenEOF
	case isDigit(c), c == '.':
		text, err := l.scanNum()
		if err != nil {
			return tok, err
		}
		tok.text = text
		tok.kind = tokenNum
	case isIdentStart(c):
		text, err := l.scanIdent()
		if err != nil {
			return tok, err
		}
		tok.text = text
		tok.kind = tokenIdent
	case c == '(':
		l.off++
		tok.text = "("
		tok.kind = tokenOpen
	case c == ')':
		l.off++
		tok.text = ")"
		tok.kind = tokenClose
	case c == ',':
		l.off++
		tok.text = ","
		tok.kind = tokenSep
	default:
		rest := l.src[l.off:]
		for _, op := range operators {
			if strings.HasPrefix(rest, op) {
				l.off += len(op)
				tok.text = op
				tok.kind = tokenOp
				return tok, nil
			}
		}
		return tok, l.error("", l.off)
	}
	return tok, nil
}

func (l *lexer) scanNum() (string, error) {
	start := l.off
	var dig, dot, e, ed bool
scan:
	for ; l.off < len(l.src); l.off++ {
		c := l.src[l.off]
		switch {
		case isDigit(c):
			if e {
				ed = true
			} else {
				dig = true
			}
		case c == '.':
			if dot || e {
				return "", l.error("number", start)
			}
			dot = true
		case c == 'e', c == 'E':
			if !dig || e {
				return "", l.error("number", start)
			}
			e = true
			// A sign immediately after the exponent marker belongs to the
			// number rather than being an operator.
			if k := l.off + 1; k < len(l.src) && (l.src[k] == '+' || l.src[k] == '-') {
				l.off++
			}
		case isIdentStart(c):
			return "", l.error("number", start)
		default:
			break scan
		}
	}
	if !dig || (e && !ed) {
		return "", l.error("number", start)
	}
	return l.src[start:l.off], nil
}

// scanIdent scans a name. A name immediately followed by [ continues through
// the matching ], so that c[2*x+1] is a single name.
func (l *lexer) scanIdent() (string, error) {
	start := l.off
	for l.off < len(l.src) && isIdentChar(l.src[l.off]) {
		l.off++
	}
	for l.off < len(l.src) && l.src[l.off] == '[' {
		open := l.off
		depth := 0
	index:
		for ; l.off < len(l.src); l.off++ {
			switch l.src[l.off] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					l.off++
					break index
				}
			}
		}
		if depth != 0 {
			return "", &BracketError{Col: open + 1, Left: "[", Right: ""}
		}
	}
	return l.src[start:l.off], nil
}

// error creates a LexError for the token starting at start, consuming the rune
// at the current position so that it shows up in the error message.
func (l *lexer) error(kind string, start int) error {
	col := l.off + 1
	_, sz := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += sz
	return &LexError{
		Text: l.src[start:l.off],
		Kind: kind,
		Col:  col,
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

// LexError indicates an invalid token. It implements EvalError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the 1-based byte position of the invalid rune.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

// Is reports whether target is ErrSyntax.
func (err *LexError) Is(target error) bool {
	return target == ErrSyntax
}
