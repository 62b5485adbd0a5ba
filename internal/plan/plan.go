// Package plan decodes declarative codegen plans. A plan stands in for
// the statement/expression generator that drives variable code generation
// inside the full compiler: it names a module, its bodies, their
// variables as classified by scope analysis, and the ordered sequence of
// declare/read/write/delete operations to replay per body.
package plan

import (
	"fmt"

	"adder/internal/cgen"
)

// Verb is one of the four variable operations a plan can request.
type Verb uint8

const (
	VerbInvalid Verb = iota
	VerbDeclare
	VerbRead
	VerbWrite
	VerbDelete
)

func (v Verb) String() string {
	switch v {
	case VerbDeclare:
		return "declare"
	case VerbRead:
		return "read"
	case VerbWrite:
		return "write"
	case VerbDelete:
		return "delete"
	default:
		return "invalid"
	}
}

// Op is one resolved operation against one variable.
type Op struct {
	Verb Verb
	Var  *cgen.Variable

	// To receives the loaded value on reads.
	To string
	// From is the write source temporary, or the declaration initializer.
	From string
	// Owned marks the write source as owning a live reference; the
	// driver registers it with the body's cleanup set before the write.
	Owned bool
	// Tolerant selects the non-raising delete variant.
	Tolerant bool
	// InContext declares the variable as a closure object member.
	InContext bool
}

// Body is one function, generator or module body to generate.
type Body struct {
	Name  string
	Owner *cgen.Owner
	Vars  []*cgen.Variable
	Ops   []Op
}

// Plan is a fully resolved codegen plan for one module.
type Plan struct {
	Module string
	// Target overrides the manifest's source-language compatibility
	// version when non-zero.
	Target int
	Bodies []*Body
}

// Var looks a body's variable up by source name.
func (b *Body) Var(name string) (*cgen.Variable, bool) {
	for _, v := range b.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

func varKindOf(s string) (cgen.VarKind, error) {
	switch s {
	case "module_global":
		return cgen.KindModuleGlobal, nil
	case "maybe_local":
		return cgen.KindMaybeLocal, nil
	case "local":
		return cgen.KindLocal, nil
	case "parameter":
		return cgen.KindParameter, nil
	case "temporary":
		return cgen.KindTemporary, nil
	default:
		return cgen.KindInvalid, fmt.Errorf("unknown variable kind %q", s)
	}
}

func ownerKindOf(s string) (cgen.OwnerKind, error) {
	switch s {
	case "", "function":
		return cgen.OwnerFunction, nil
	case "generator":
		return cgen.OwnerGenerator, nil
	case "module":
		return cgen.OwnerModule, nil
	default:
		return cgen.OwnerFunction, fmt.Errorf("unknown body kind %q", s)
	}
}

func verbOf(s string) (Verb, error) {
	switch s {
	case "declare":
		return VerbDeclare, nil
	case "read":
		return VerbRead, nil
	case "write":
		return VerbWrite, nil
	case "delete":
		return VerbDelete, nil
	default:
		return VerbInvalid, fmt.Errorf("unknown operation %q", s)
	}
}
