package cgen

import "fmt"

// DelCode emits code that unbinds a variable. Tolerant deletes ignore an
// already unbound variable; intolerant deletes raise the exception the
// source language specifies for a double delete.
func DelCode(w *CodeWriter, ctx *Context, v *Variable, tolerant bool) {
	switch v.Kind {
	case KindModuleGlobal:
		delModuleCode(w, ctx, v, tolerant)
	case KindLocal, KindParameter:
		delLocalCode(w, ctx, v, tolerant)
	case KindTemporary:
		delTempCode(w, ctx, v, tolerant)
	default:
		panic(fmt.Sprintf("cgen: cannot delete %s", v))
	}
}

func delModuleCode(w *CodeWriter, ctx *Context, v *Variable, tolerant bool) {
	resName := ctx.IntResName()

	w.Emit(renderTemplate(templateDelGlobalUnclear, map[string]string{
		"module_identifier": ctx.ModuleName(),
		"res_name":          resName,
		"var_name":          ctx.Pool().ConstantCode(v.Name),
	}))

	if tolerant {
		return
	}

	prefix := ""
	if !ctx.Owner().IsModule() {
		prefix = "global "
	}
	errorFormatExitBoolCode(w, ctx,
		fmt.Sprintf("%s == -1", resName),
		excNameError,
		fmt.Sprintf("%sname '%s' is not defined", prefix, v.Name),
	)
}

func delLocalCode(w *CodeWriter, ctx *Context, v *Variable, tolerant bool) {
	if tolerant {
		w.Emit(renderTemplate(tolerantDelTemplate(v.SharedTechnically), map[string]string{
			"identifier": VariableCode(ctx, v),
		}))
		return
	}

	resName := ctx.BoolResName()
	w.Emit(renderTemplate(intolerantDelTemplate(v.SharedTechnically), map[string]string{
		"identifier": VariableCode(ctx, v),
		"result":     resName,
	}))

	if v.Owner == ctx.Owner() {
		errorFormatExitBoolCode(w, ctx,
			fmt.Sprintf("%s == false", resName),
			excUnboundLocalError,
			fmt.Sprintf("local variable '%s' referenced before assignment", v.Name),
		)
	} else {
		errorFormatExitBoolCode(w, ctx,
			fmt.Sprintf("%s == false", resName),
			excNameError,
			fmt.Sprintf("free variable '%s' referenced before assignment in enclosing scope", v.Name),
		)
	}
}

func delTempCode(w *CodeWriter, ctx *Context, v *Variable, tolerant bool) {
	// Temporaries use the same storage classes as locals, so the same
	// templates apply.
	if tolerant {
		w.Emit(renderTemplate(tolerantDelTemplate(v.SharedTechnically), map[string]string{
			"identifier": VariableCode(ctx, v),
		}))
		return
	}

	resName := ctx.BoolResName()
	w.Emit(renderTemplate(intolerantDelTemplate(v.SharedTechnically), map[string]string{
		"identifier": VariableCode(ctx, v),
		"result":     resName,
	}))

	// An unbound compiler temporary at an intolerant delete is a compiler
	// bug, not a source-level error.
	w.Emitf("assert( %s != false );", resName)
}

func tolerantDelTemplate(shared bool) string {
	if shared {
		return templateDelSharedTolerant
	}
	return templateDelLocalTolerant
}

func intolerantDelTemplate(shared bool) string {
	if shared {
		return templateDelSharedIntolerant
	}
	return templateDelLocalIntolerant
}
