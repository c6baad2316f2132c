package floatexpr

// ParseOption changes which functions Parse accepts.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
)

// parsectx is the state of one parse. A preset is a *parsectx.
type parsectx struct {
	// names collects the variable names of the expression.
	names map[string]bool
	// funcs is the set of names that may be called.
	funcs map[string]Func
	// nodefaults is set once every builtin has an entry in funcs, so Parse
	// need not merge them.
	nodefaults bool
	// shared indicates that funcs belongs to a preset and must be copied
	// before it is modified.
	shared bool
}

// own ensures that p.funcs may be modified.
func (p *parsectx) own() {
	if p.funcs == nil {
		p.funcs = map[string]Func{}
		return
	}
	if !p.shared {
		return
	}
	m := make(map[string]Func, len(p.funcs))
	for k, v := range p.funcs {
		m[k] = v
	}
	p.funcs = m
	p.shared = false
}

func (p *parsectx) checkdefaults() {
	if p.nodefaults {
		return
	}
	n := 0
	for k := range p.funcs {
		if _, ok := globalfuncs[k]; ok {
			n++
		}
	}
	if n == len(globalfuncs) {
		p.nodefaults = true
	}
}

// ParseFunc binds name to fn for calls in the expression, replacing a builtin
// of the same name. A nil fn makes calls to name a FuncError.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.own()
	p.funcs[o.name] = o.fn
	return p
}

// ParseFuncs binds every function in fns, as ParseFunc.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	p.own()
	for k, v := range o {
		p.funcs[k] = v
	}
	p.checkdefaults()
	return p
}

// DisableDefaultFuncs disables all default functions during parsing. Calls to
// them are reported as unknown functions.
func DisableDefaultFuncs() ParseOption {
	return disablefns
}

var disablefns = func() funcsopt {
	o := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		o[k] = nil
	}
	return o
}()

// ParsingPreset applies opts once so that many calls to Parse can share the
// result. A preset must be the first option given to Parse; later options
// copy its function table rather than changing it.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs != nil {
		// Fill in the builtins now so Parse never has to.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
		p.nodefaults = true
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.funcs != nil {
		panic("floatexpr: preset applied to non-default parse config")
	}
	p.funcs = o.funcs
	p.nodefaults = o.nodefaults
	p.shared = true
	return p
}
