package plan

import (
	"strings"
	"testing"

	"adder/internal/cgen"
)

const samplePlan = `
module = "demo"
target = "3.4"

[[bodies]]
name = "outer"
kind = "function"

  [[bodies.vars]]
  name = "x"
  kind = "local"
  shared = true

  [[bodies.ops]]
  op = "declare"
  var = "x"

  [[bodies.ops]]
  op = "write"
  var = "x"
  from = "tmp_assign_1"
  owned = true

[[bodies]]
name = "inner"
kind = "generator"
needs_closure = true

  [[bodies.vars]]
  name = "x"
  kind = "local"
  owner = "outer"
  shared = true

  [[bodies.vars]]
  name = "g"
  kind = "module_global"

  [[bodies.ops]]
  op = "read"
  var = "x"
  to = "tmp_value_1"

  [[bodies.ops]]
  op = "delete"
  var = "g"
  tolerant = true
`

func TestParse_ResolvesBodies(t *testing.T) {
	p, err := Parse([]byte(samplePlan))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Module != "demo" || p.Target != 340 {
		t.Fatalf("header = %q/%d, want demo/340", p.Module, p.Target)
	}
	if len(p.Bodies) != 2 {
		t.Fatalf("got %d bodies, want 2", len(p.Bodies))
	}

	outer, inner := p.Bodies[0], p.Bodies[1]
	if outer.Owner.Kind != cgen.OwnerFunction || inner.Owner.Kind != cgen.OwnerGenerator {
		t.Errorf("owner kinds = %v/%v", outer.Owner.Kind, inner.Owner.Kind)
	}
	if !inner.Owner.NeedsClosure {
		t.Error("inner body lost its closure flag")
	}

	// The captured variable must share the outer body's owner object so
	// closure detection compares by identity.
	captured, ok := inner.Var("x")
	if !ok {
		t.Fatal("inner body misses variable x")
	}
	if captured.Owner != outer.Owner {
		t.Error("cross-body owner reference was not resolved to the same owner")
	}

	global, _ := inner.Var("g")
	if global.Owner.Kind != cgen.OwnerModule {
		t.Errorf("module global owned by %v", global.Owner.Kind)
	}

	if got := inner.Ops[0]; got.Verb != VerbRead || got.To != "tmp_value_1" {
		t.Errorf("first inner op = %+v", got)
	}
	if got := inner.Ops[1]; got.Verb != VerbDelete || !got.Tolerant {
		t.Errorf("second inner op = %+v", got)
	}
	if got := outer.Ops[1]; got.Verb != VerbWrite || !got.Owned || got.From != "tmp_assign_1" {
		t.Errorf("outer write op = %+v", got)
	}
}

func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing module",
			src:     `[[bodies]]` + "\n" + `name = "f"`,
			wantErr: "misses module name",
		},
		{
			name: "bad target",
			src: `module = "m"
target = "three.four"`,
			wantErr: "target version",
		},
		{
			name: "duplicate body",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies]]
name = "f"`,
			wantErr: `duplicate body "f"`,
		},
		{
			name: "unknown variable kind",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "register"`,
			wantErr: `unknown variable kind "register"`,
		},
		{
			name: "duplicate variable",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "local"
[[bodies.vars]]
name = "x"
kind = "local"`,
			wantErr: `duplicate variable "x"`,
		},
		{
			name: "unknown owner",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "local"
owner = "ghost"`,
			wantErr: `unknown owner "ghost"`,
		},
		{
			name: "unknown op",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "local"
[[bodies.ops]]
op = "swap"
var = "x"`,
			wantErr: `unknown operation "swap"`,
		},
		{
			name: "op against unknown variable",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.ops]]
op = "read"
var = "x"
to = "tmp"`,
			wantErr: `unknown variable "x"`,
		},
		{
			name: "declare module global",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "g"
kind = "module_global"
[[bodies.ops]]
op = "declare"
var = "g"`,
			wantErr: "never locally declared",
		},
		{
			name: "read without destination",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "local"
[[bodies.ops]]
op = "read"
var = "x"`,
			wantErr: "misses destination",
		},
		{
			name: "write without source",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "local"
[[bodies.ops]]
op = "write"
var = "x"`,
			wantErr: "misses source",
		},
		{
			name: "write to maybe local",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "maybe_local"
[[bodies.ops]]
op = "write"
var = "x"
from = "tmp"`,
			wantErr: "no writable slot",
		},
		{
			name: "delete maybe local",
			src: `module = "m"
[[bodies]]
name = "f"
[[bodies.vars]]
name = "x"
kind = "maybe_local"
[[bodies.ops]]
op = "delete"
var = "x"`,
			wantErr: "no deletable slot",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			if err == nil {
				t.Fatalf("Parse accepted malformed plan")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}
