package vaca

// ValidateForm checks that every symbol referenced by form is declared,
// declaring the symbols that form assigns as it goes.
func ValidateForm(track *TrackTable, form Form) error {
	switch x := form.Expr.(type) {
	case NilExpr, IntegerExpr, FloatExpr, StringExpr, BoolExpr, CharExpr, AtomExpr:
		return nil

	case SymbolExpr:
		sym := Symbol(x)
		if track.Exists(sym) {
			return nil
		}
		if sym.IsMutable() {
			return buildTop(UndefinedMutableSymbol, sym,
				"use of undefined mutable symbol `%v`. Mutable symbols are only accessible in the scope they were created", sym)
		}
		return buildTop(UndefinedSymbol, sym, "use of undefined symbol `%v`", sym)

	case AssignmentList:
		for _, asg := range x.Assignments {
			// callables may refer to themselves
			recursive := false
			switch asg.Value.Expr.(type) {
			case FunctionExpr, MacroExpr:
				recursive = true
				if err := track.Assign(asg.Symbol); err != nil {
					return err
				}
			}
			if err := ValidateForm(track, asg.Value); err != nil {
				return buildStream(asg.Symbol, err, "in assignment of `%v` at %v", asg.Symbol, asg.Value.Span)
			}
			if !recursive {
				if err := track.Assign(asg.Symbol); err != nil {
					return err
				}
			}
		}
		return nil

	case ScopeExpr:
		track.CreateScope()
		defer track.DropScope()
		for _, sub := range x {
			if err := ValidateForm(track, sub); err != nil {
				return buildStream("", err, "in scope at %v", form.Span)
			}
		}
		return nil

	case FunctionExpr:
		return validateCallable(track, "function", x.Params, x.Body)

	case MacroExpr:
		return validateCallable(track, "macro", x.Params, x.Body)

	case CallExpr:
		if err := ValidateForm(track, x.Callable); err != nil {
			return buildStream("", err, "in callable of call at %v", form.Span)
		}
		for i, arg := range x.Args {
			if err := ValidateForm(track, arg); err != nil {
				return buildStream("", err, "in argument %v of call at %v", i+1, form.Span)
			}
		}
		return nil

	case ArrayExpr:
		for i, elem := range x {
			if err := ValidateForm(track, elem); err != nil {
				return buildStream("", err, "in element %v of array at %v", i, form.Span)
			}
		}
		return nil

	default:
		return buildTop(0, "", "unknown expression %T at %v", form.Expr, form.Span)
	}
}

func validateCallable(track *TrackTable, kind string, params []Symbol, body Form) error {
	track.CreateScope()
	defer track.DropScope()
	for _, param := range params {
		if err := track.Assign(param); err != nil {
			return buildStream(param, err, "in %v parameters", kind)
		}
	}
	if err := ValidateForm(track, body); err != nil {
		return buildStream("", err, "in %v body at %v", kind, body.Span)
	}
	return nil
}

// Build validates every form of prog against the symbols visible from the
// engine's current table, collecting all failures rather than stopping at
// the first.
func (e *Engine) Build(prog Program) error {
	var chain []*Table
	for t := e.table; t != nil; t = t.parent {
		chain = append(chain, t)
	}
	track := &TrackTable{}
	for i := len(chain) - 1; i >= 0; i-- {
		track.CreateScope()
		ordinary, mutable := chain[i].local()
		for _, sym := range ordinary {
			track.Assign(sym)
		}
		if i == 0 {
			for _, sym := range mutable {
				track.Assign(sym)
			}
		}
	}

	var errs BuildErrors
	for _, form := range prog.Forms {
		err := ValidateForm(track, form)
		if err == nil {
			continue
		}
		be, ok := err.(*BuildError)
		if !ok {
			be = buildStream("", err, "in %v", form.Span)
		}
		e.logf("#", "build error: %v", be)
		errs = append(errs, be)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
