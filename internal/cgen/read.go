package cgen

import "fmt"

// AccessCode emits code that loads a variable's value into the toName
// temporary, followed by the unbound guard the variable's kind requires.
// The loaded reference is borrowed; toName is not added to the cleanup
// set.
func AccessCode(w *CodeWriter, ctx *Context, toName string, v *Variable) {
	switch v.Kind {
	case KindModuleGlobal:
		accessModuleCode(w, ctx, toName, v)
	case KindMaybeLocal:
		accessMaybeLocalCode(w, ctx, toName, v)
	case KindLocal, KindParameter:
		accessLocalCode(w, ctx, toName, v)
	case KindTemporary:
		accessTempCode(w, ctx, toName, v)
	default:
		panic(fmt.Sprintf("cgen: cannot read %s", v))
	}
}

func accessModuleCode(w *CodeWriter, ctx *Context, toName string, v *Variable) {
	// TODO: definite-assignment facts from upstream could drop this
	// check for globals assigned earlier in the module.
	needsCheck := true

	w.Emit(renderTemplate(templateReadModuleUnclear, map[string]string{
		"module_identifier": ctx.ModuleName(),
		"tmp_name":          toName,
		"var_name":          ctx.Pool().ConstantCode(v.Name),
	}))

	if needsCheck {
		message := fmt.Sprintf("name '%s' is not defined", v.Name)
		if ctx.Target() < 340 && !ctx.Owner().IsModule() {
			message = fmt.Sprintf("global name '%s' is not defined", v.Name)
		}
		errorFormatExitCode(w, ctx, toName, excNameError, message)
	}
}

func accessMaybeLocalCode(w *CodeWriter, ctx *Context, toName string, v *Variable) {
	// Dynamic namespace lookups are always conservatively checked.
	needsCheck := true

	w.Emit(renderTemplate(templateReadMaybeLocalUnclear, map[string]string{
		"locals_dict":       "locals_dict",
		"module_identifier": ctx.ModuleName(),
		"tmp_name":          toName,
		"var_name":          ctx.Pool().ConstantCode(v.Name),
	}))

	if needsCheck {
		errorFormatExitCode(w, ctx, toName, excNameError,
			fmt.Sprintf("name '%s' is not defined", v.Name))
	}
}

func accessLocalCode(w *CodeWriter, ctx *Context, toName string, v *Variable) {
	var template string
	var needsCheck bool

	if v.SharedTechnically {
		if v.Kind == KindParameter && !v.HasDelIndicator {
			template = templateReadSharedUnclear
			needsCheck = false
		} else {
			template = templateReadSharedKnown
			needsCheck = true
		}
	} else {
		template = templateReadLocal
		needsCheck = !(v.Kind == KindParameter && !v.HasDelIndicator)
	}

	// TODO: deletion indicators are not derived from definite-assignment
	// facts yet, so every local read must pretend it can fail.
	ctx.MarkNeedsExceptionState()
	needsCheck = true

	w.Emit(renderTemplate(template, map[string]string{
		"tmp_name":   toName,
		"identifier": VariableCode(ctx, v),
	}))

	if needsCheck {
		errorFormatExitCode(w, ctx, toName, excUnboundLocalError,
			fmt.Sprintf("local variable '%s' referenced before assignment", v.Name))
	}
}

func accessTempCode(w *CodeWriter, ctx *Context, toName string, v *Variable) {
	if v.SharedTechnically {
		w.Emit(renderTemplate(templateReadSharedUnclear, map[string]string{
			"tmp_name":   toName,
			"identifier": VariableCode(ctx, v),
		}))

		// Alias temporaries point into an already validated cell.
		if v.TempRef {
			return
		}

		errorFormatExitCode(w, ctx, toName, excUnboundLocalError,
			fmt.Sprintf("free variable '%s' referenced before assignment in enclosing scope", v.Name))
		return
	}

	// Compiler-introduced temporaries are definitely assigned before use
	// by construction, so plain loads are never guarded.
	w.Emit(renderTemplate(templateReadLocal, map[string]string{
		"tmp_name":   toName,
		"identifier": VariableCode(ctx, v),
	}))
}
