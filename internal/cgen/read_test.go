package cgen

import (
	"strings"
	"testing"
)

func funcContext(target int) *Context {
	return NewContext(&Owner{Name: "f", Kind: OwnerFunction}, "prog", target, nil)
}

func moduleContext(target int) *Context {
	return NewContext(&Owner{Name: "prog", Kind: OwnerModule}, "prog", target, nil)
}

func TestAccessCode_PlainTemporaryNeverGuarded(t *testing.T) {
	ctx := funcContext(340)
	v := &Variable{Name: "t", Kind: KindTemporary, Owner: ctx.Owner()}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if want := "tmp_dst = tmp_t;\n"; got != want {
		t.Errorf("read = %q, want %q", got, want)
	}
	if ctx.NeedsExceptionState() {
		t.Error("plain temporary read must not request exception state")
	}
}

func TestAccessCode_SharedTemporaryGuarded(t *testing.T) {
	ctx := funcContext(340)
	v := &Variable{Name: "y", Kind: KindTemporary, Owner: ctx.Owner(), SharedTechnically: true}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if !strings.Contains(got, "tmp_dst = PyCell_GET( tmp_y );") {
		t.Errorf("missing cell load:\n%s", got)
	}
	if !strings.Contains(got, "PyExc_UnboundLocalError") {
		t.Errorf("wrong exception kind:\n%s", got)
	}
	if !strings.Contains(got, `"free variable 'y' referenced before assignment in enclosing scope"`) {
		t.Errorf("wrong message:\n%s", got)
	}
	if !ctx.NeedsExceptionState() {
		t.Error("guarded read must request exception state")
	}
}

func TestAccessCode_AliasTemporarySkipsGuard(t *testing.T) {
	ctx := funcContext(340)
	v := &Variable{Name: "y", Kind: KindTemporary, Owner: ctx.Owner(), SharedTechnically: true, TempRef: true}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if strings.Contains(got, "PyExc_") {
		t.Errorf("alias temporary read must not be guarded:\n%s", got)
	}
	if ctx.NeedsExceptionState() {
		t.Error("alias temporary read must not request exception state")
	}
}

func TestAccessCode_LocalReadStaysConservativelyGuarded(t *testing.T) {
	// Deletion tracking is not statically resolved, so even always-bound
	// parameters keep their guard for now.
	ctx := funcContext(340)
	v := &Variable{Name: "a", Kind: KindParameter, Owner: ctx.Owner()}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if !strings.Contains(got, "tmp_dst = par_a;") {
		t.Errorf("missing direct load:\n%s", got)
	}
	if !strings.Contains(got, `"local variable 'a' referenced before assignment"`) {
		t.Errorf("missing conservative guard:\n%s", got)
	}
	if !ctx.NeedsExceptionState() {
		t.Error("conservative read must request exception state")
	}
}

func TestAccessCode_SharedParameterKeepsConservativeGuard(t *testing.T) {
	// Always-bound shared parameters could in principle skip the unbound
	// check; without deletion tracking the guard stays.
	ctx := funcContext(340)
	v := &Variable{Name: "a", Kind: KindParameter, Owner: ctx.Owner(), SharedTechnically: true}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if !strings.Contains(got, "tmp_dst = PyCell_GET( par_a );") {
		t.Errorf("missing cell load:\n%s", got)
	}
	if !strings.Contains(got, "PyExc_UnboundLocalError") ||
		!strings.Contains(got, `"local variable 'a' referenced before assignment"`) {
		t.Errorf("missing conservative guard:\n%s", got)
	}
	if !ctx.NeedsExceptionState() {
		t.Error("guarded read must request exception state")
	}
}

func TestAccessCode_LocalGuardMessage(t *testing.T) {
	ctx := funcContext(340)
	v := &Variable{Name: "x", Kind: KindLocal, Owner: ctx.Owner()}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if !strings.Contains(got, "PyExc_UnboundLocalError") {
		t.Errorf("wrong exception kind:\n%s", got)
	}
	if !strings.Contains(got, `"local variable 'x' referenced before assignment"`) {
		t.Errorf("wrong message:\n%s", got)
	}
}

func TestAccessCode_ModuleGlobalWording(t *testing.T) {
	tests := []struct {
		name   string
		ctx    *Context
		want   string
		absent string
	}{
		{"current target in function", funcContext(340), `"name 'g' is not defined"`, "global name"},
		{"old target in function", funcContext(330), `"global name 'g' is not defined"`, ""},
		{"old target at module level", moduleContext(330), `"name 'g' is not defined"`, "global name"},
	}
	for _, tt := range tests {
		v := &Variable{Name: "g", Kind: KindModuleGlobal, Owner: &Owner{Name: "prog", Kind: OwnerModule}}
		w := &CodeWriter{}
		AccessCode(w, tt.ctx, "tmp_dst", v)

		got := w.String()
		if !strings.Contains(got, "GET_STRING_DICT_VALUE( moduledict_prog, (Adder_StringObject *)const_str_plain_g )") {
			t.Errorf("%s: missing namespace lookup:\n%s", tt.name, got)
		}
		if !strings.Contains(got, "PyExc_NameError") {
			t.Errorf("%s: wrong exception kind:\n%s", tt.name, got)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s: missing %s:\n%s", tt.name, tt.want, got)
		}
		if tt.absent != "" && strings.Contains(got, tt.absent) {
			t.Errorf("%s: unexpected %q:\n%s", tt.name, tt.absent, got)
		}
	}
}

func TestAccessCode_ModuleGlobalPoolsName(t *testing.T) {
	ctx := moduleContext(340)
	v := &Variable{Name: "g", Kind: KindModuleGlobal, Owner: ctx.Owner()}

	AccessCode(&CodeWriter{}, ctx, "tmp_dst", v)
	if !ctx.Pool().Has("g") {
		t.Error("module read must intern the variable name")
	}
}

func TestAccessCode_MaybeLocal(t *testing.T) {
	ctx := funcContext(340)
	v := &Variable{Name: "n", Kind: KindMaybeLocal, Owner: ctx.Owner()}

	w := &CodeWriter{}
	AccessCode(w, ctx, "tmp_dst", v)

	got := w.String()
	if !strings.Contains(got, "LOOKUP_MAYBE_LOCAL_VARIABLE( locals_dict, moduledict_prog, (Adder_StringObject *)const_str_plain_n )") {
		t.Errorf("missing dynamic lookup:\n%s", got)
	}
	if !strings.Contains(got, "PyExc_NameError") || !strings.Contains(got, `"name 'n' is not defined"`) {
		t.Errorf("wrong guard:\n%s", got)
	}
}

func TestAccessCode_RejectsInvalidKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid kind")
		}
	}()
	ctx := funcContext(340)
	AccessCode(&CodeWriter{}, ctx, "tmp_dst", &Variable{Name: "x", Owner: ctx.Owner()})
}
