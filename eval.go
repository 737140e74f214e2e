package vaca

// Eval evaluates form in the engine's current scope.
func (e *Engine) Eval(form Form) (Value, error) {
	switch x := form.Expr.(type) {
	case NilExpr:
		return Nil{}, nil
	case IntegerExpr:
		return Integer(x), nil
	case FloatExpr:
		return Float(x), nil
	case StringExpr:
		return String(x), nil
	case BoolExpr:
		return Bool(x), nil
	case CharExpr:
		return Char(x), nil
	case AtomExpr:
		return Intern(string(x)), nil

	case SymbolExpr:
		return e.lookup(Symbol(x))

	case AssignmentList:
		isAction := x.Kind == AssignAction
		for _, asg := range x.Assignments {
			v, err := e.Eval(asg.Value)
			if err != nil {
				return nil, runStream(0, asg.Symbol, err, "in assignment of `%v`", asg.Symbol)
			}
			if err := e.table.Assign(asg.Symbol, v, isAction); err != nil {
				return nil, err
			}
			e.logf("=", "%v = %v", asg.Symbol, v)
		}
		return Nil{}, nil

	case ScopeExpr:
		return e.evalScope(x)

	case FunctionExpr:
		return NewFunction(x.Params, x.Body), nil

	case MacroExpr:
		return NewMacro(x.Params, x.Body), nil

	case CallExpr:
		return e.evalCall(x)

	case ArrayExpr:
		a := make(Array, 0, len(x))
		for _, elem := range x {
			v, err := e.Eval(elem)
			if err != nil {
				return nil, err
			}
			a = append(a, e.insert(v))
		}
		return a, nil

	default:
		return nil, runTop(0, "", "unknown expression %T at %v", form.Expr, form.Span)
	}
}

// lookup resolves sym, forcing deferred argument forms.
func (e *Engine) lookup(sym Symbol) (Value, error) {
	v, err := e.table.Lookup(sym)
	if err != nil {
		return nil, err
	}
	return e.force(v)
}

// force evaluates a deferred form in the table it was captured from; any
// other value is returned as is.
func (e *Engine) force(v Value) (Value, error) {
	d, ok := v.(*Deferred)
	if !ok {
		return v, nil
	}
	saved := e.table
	e.table = d.Table
	defer func() { e.table = saved }()
	return e.Eval(d.Form)
}

func (e *Engine) evalScope(forms ScopeExpr) (res Value, err error) {
	leave := e.enter()
	defer leave()
	res = Nil{}
	for _, form := range forms {
		if res, err = e.Eval(form); err != nil {
			return nil, err
		}
	}
	e.promote(res)
	return res, nil
}

func (e *Engine) evalCall(call CallExpr) (Value, error) {
	callee, err := e.Eval(call.Callable)
	if err != nil {
		return nil, err
	}

	deferArgs := false
	if sym, ok := call.Callable.Expr.(SymbolExpr); ok {
		if deferArgs, err = e.table.IsAction(Symbol(sym)); err != nil {
			return nil, err
		}
	}
	switch x := callee.(type) {
	case *Macro:
		deferArgs = true
	case *External:
		deferArgs = deferArgs || x.defersArgs()
	}

	if deferArgs {
		return e.CallMacro(callee, call.Args)
	}
	args := make([]Value, len(call.Args))
	for i, arg := range call.Args {
		if args[i], err = e.Eval(arg); err != nil {
			return nil, runStream(0, "", err, "in argument %v at %v", i+1, arg.Span)
		}
	}
	return e.Call(callee, args)
}
