package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	exprs "github.com/zephyrtronium/floatexpr"
	"github.com/zephyrtronium/floatexpr/internal/logging"
)

const historyFile = ".floatexpr_history"

func main() {
	var (
		inname, verb, index string
		with                [][2]string
		nl, echo, repl      bool
		verbose, nostd      bool
		prec                int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&prec, "p", 0, "precision of calculations in bits (0 for float64)")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&repl, "i", false, "interactive mode")
	flag.BoolVar(&verbose, "v", false, "log variable lookups")
	flag.BoolVar(&nostd, "nostd", false, "omit the constants true, false, pi, and e")
	flag.StringVar(&index, "index", "", "resolve name[expr] to the value of expr for this name")
	flag.Parse()

	log, err := logging.New(verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	slog := log.Sugar()
	if prec < 0 {
		slog.Fatalf("precision (%d) must be positive", prec)
	}

	c := newCalc(log, uint(prec), index, !nostd)
	for _, d := range with {
		if err := c.define(d[0], d[1]); err != nil {
			slog.Fatalf("setting %s: %v", d[0], err)
		}
	}

	if repl {
		os.Exit(c.repl(verb))
	}

	var srcs []string
	in, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		slog.Fatal(err)
	}
	if in != "" {
		if nl {
			for _, line := range strings.Split(in, "\n") {
				if strings.TrimSpace(line) != "" {
					srcs = append(srcs, line)
				}
			}
		} else {
			srcs = append(srcs, in)
		}
	}
	srcs = append(srcs, flag.Args()...)

	c.run(os.Stdout, srcs, verb, echo)
}

// run evaluates each source in turn and writes its result or error to w. An
// error in one source does not stop the rest.
func (c *calc) run(w io.Writer, srcs []string, verb string, echo bool) {
	verb += "\n"
	for _, src := range srcs {
		a, err := exprs.Parse(src)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if echo {
			fmt.Fprintf(w, "%v : ", a)
		}
		r, err := c.eval(a)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		fmt.Fprintf(w, verb, r)
	}
}

// calc evaluates expressions in either float64 or arbitrary precision with a
// common set of variables.
type calc struct {
	vars  exprs.Vars
	scope exprs.Scope
	// big is the context for arbitrary precision, or nil for float64.
	big *exprs.BigContext
	log *zap.Logger
}

func newCalc(log *zap.Logger, prec uint, index string, std bool) *calc {
	c := calc{vars: exprs.Vars{}, log: log}
	if std {
		c.vars = exprs.StdVars()
	}
	var s exprs.Scope = c.vars
	if index != "" {
		s = exprs.WithHook(c.vars, exprs.Indexer(index, func(i float64) (float64, error) { return i, nil }))
	}
	c.scope = exprs.Traced(s, log)
	if prec > 0 {
		opts := []exprs.ContextOption{exprs.Prec(prec), exprs.WithScope(c.scope)}
		if std {
			opts = append(opts, exprs.SetVars(exprs.StdBigVars(prec)))
		}
		c.big = exprs.NewBigContext(opts...)
	}
	return &c
}

// eval evaluates a parsed expression. The result is a float64 or a
// *big.Float.
func (c *calc) eval(a *exprs.Expr) (interface{}, error) {
	if c.big == nil {
		return a.Eval(c.scope)
	}
	r := c.big.Eval(a)
	if r == nil {
		return nil, c.big.Err()
	}
	return r, nil
}

// define evaluates src and sets name to the result.
func (c *calc) define(name, src string) error {
	a, err := exprs.Parse(src)
	if err != nil {
		return err
	}
	r, err := c.eval(a)
	if err != nil {
		return err
	}
	switch r := r.(type) {
	case float64:
		c.vars[name] = r
	case *big.Float:
		c.big.Set(name, r)
		c.vars[name], _ = r.Float64()
	}
	c.log.Debug("define", zap.String("name", name), zap.String("expr", a.String()))
	return nil
}

func (c *calc) repl(verb string) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	verb += "\n"
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			c.log.Error("reading input", zap.Error(err))
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if name, src, ok := assignment(line); ok {
			if err := c.define(name, src); err != nil {
				fmt.Println(err)
			}
			continue
		}
		a, err := exprs.Parse(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		r, err := c.eval(a)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf(verb, r)
	}
}

// assignment splits a line of the form name = expr. It does not confuse ==,
// <=, >=, or != for assignments.
func assignment(line string) (name, src string, ok bool) {
	k := strings.IndexByte(line, '=')
	if k <= 0 || k+1 < len(line) && line[k+1] == '=' {
		return "", "", false
	}
	if strings.ContainsRune("<>!=", rune(line[k-1])) {
		return "", "", false
	}
	name = strings.TrimSpace(line[:k])
	if name == "" || !isName(name) {
		return "", "", false
	}
	return name, line[k+1:], true
}

func isName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && (r == '.' || '0' <= r && r <= '9'):
		default:
			return false
		}
	}
	return true
}

func infile(inname string, std bool) (string, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return "", err
		}
		defer in.Close()
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return "", nil
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
