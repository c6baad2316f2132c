package floatexpr

import (
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1\t0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, 0},
		{"1E1", []lexToken{{text: "1E1", kind: tokenNum, pos: 1}}, 0},
		{"1e", []lexToken{{pos: 1}}, 1},
		{"1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}, 0},
		{"1e-1", []lexToken{{text: "1e-1", kind: tokenNum, pos: 1}}, 0},
		{"1e1+1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 4}, {text: "1", kind: tokenNum, pos: 5}}, 0},
		{"1.1.1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 5}}, 1},
		{"1.0e1", []lexToken{{text: "1.0e1", kind: tokenNum, pos: 1}}, 0},
		{".", []lexToken{{pos: 1}}, 1},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{"5.", []lexToken{{text: "5.", kind: tokenNum, pos: 1}}, 0},
		{".1e1", []lexToken{{text: ".1e1", kind: tokenNum, pos: 1}}, 0},
		{"007", []lexToken{{text: "007", kind: tokenNum, pos: 1}}, 0},
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1*0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "*", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"(1)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ")", kind: tokenClose, pos: 3}}, 0},
		{"1a", []lexToken{{pos: 1}}, 1},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, 0},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, 0},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenIdent, pos: 1}}, 0},
		{"a.x", []lexToken{{text: "a.x", kind: tokenIdent, pos: 1}}, 0},
		{"e(", []lexToken{{text: "e", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}}, 0},
		{"c[2*x+1]", []lexToken{{text: "c[2*x+1]", kind: tokenIdent, pos: 1}}, 0},
		{"c[a[1]]+1", []lexToken{{text: "c[a[1]]", kind: tokenIdent, pos: 1}, {text: "+", kind: tokenOp, pos: 8}, {text: "1", kind: tokenNum, pos: 9}}, 0},
		{"m[1][2]", []lexToken{{text: "m[1][2]", kind: tokenIdent, pos: 1}}, 0},
		{"c[1", []lexToken{{pos: 1}}, 1},
		{"c [1]", []lexToken{{text: "c", kind: tokenIdent, pos: 1}, {pos: 3}, {text: "1", kind: tokenNum, pos: 4}, {pos: 5}}, 2},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, 0},
		{"++", []lexToken{{text: "+", kind: tokenOp, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{"==", []lexToken{{text: "==", kind: tokenOp, pos: 1}}, 0},
		{"<=>", []lexToken{{text: "<=", kind: tokenOp, pos: 1}, {text: ">", kind: tokenOp, pos: 3}}, 0},
		{"!!=", []lexToken{{text: "!", kind: tokenOp, pos: 1}, {text: "!=", kind: tokenOp, pos: 2}}, 0},
		{"&&||", []lexToken{{text: "&&", kind: tokenOp, pos: 1}, {text: "||", kind: tokenOp, pos: 3}}, 0},
		{"a&b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}, {text: "b", kind: tokenIdent, pos: 3}}, 1},
		{"=", []lexToken{{pos: 1}}, 1},
		// separators
		{"x,y", []lexToken{{text: "x", kind: tokenIdent, pos: 1}, {text: ",", kind: tokenSep, pos: 2}, {text: "y", kind: tokenIdent, pos: 3}}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"0$", []lexToken{{text: "0", kind: tokenNum, pos: 1}, {pos: 2}}, 1},
		{"$0", []lexToken{{pos: 1}, {text: "0", kind: tokenNum, pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
		{"π", []lexToken{{pos: 1}}, 1},
		{"[]", []lexToken{{pos: 1}, {pos: 2}}, 2},
	}

	for _, c := range cases {
		scan := lex(c.src)
		for _, want := range c.tokens {
			got, err := scan.next()
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		if got, err := scan.next(); got.kind != tokenEOF || err != nil {
			t.Errorf("scanning %q: extra token %v with error: %v", c.src, got, err)
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
		}
	}
}

func TestLexEOFRepeats(t *testing.T) {
	scan := lex("x")
	if tok, err := scan.next(); tok.kind != tokenIdent || err != nil {
		t.Fatalf("want ident, got %v with error %v", tok, err)
	}
	for i := 0; i < 3; i++ {
		tok, err := scan.next()
		if tok.kind != tokenEOF || err != nil {
			t.Errorf("call %d: want EOF, got %v with error %v", i, tok, err)
		}
		if tok.pos != 2 {
			t.Errorf("call %d: EOF at %d, want 2", i, tok.pos)
		}
	}
}

func TestLexErrorText(t *testing.T) {
	cases := []struct {
		src  string
		text string
		kind string
		col  int
	}{
		{"1.1.1", "1.1.", "number", 4},
		{"12ab", "12a", "number", 3},
		{"x + $", "$", "", 5},
		{"π", "π", "", 1},
	}
	for _, c := range cases {
		scan := lex(c.src)
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if tok.kind == tokenEOF {
				break
			}
		}
		le, ok := err.(*LexError)
		if !ok {
			t.Errorf("scanning %q: want *LexError, got %#v", c.src, err)
			continue
		}
		if le.Text != c.text || le.Kind != c.kind || le.Col != c.col {
			t.Errorf("scanning %q: want %q/%q@%d, got %q/%q@%d", c.src, c.text, c.kind, c.col, le.Text, le.Kind, le.Col)
		}
		if le.Pos() != c.col {
			t.Errorf("scanning %q: Pos() = %d, want %d", c.src, le.Pos(), c.col)
		}
	}
}
