package cgen

import "fmt"

// VarKind classifies how a variable's storage is bound. Kinds are decided
// by the upstream scope analysis and never change during code generation.
type VarKind uint8

const (
	KindInvalid VarKind = iota
	KindModuleGlobal
	KindMaybeLocal
	KindLocal
	KindParameter
	KindTemporary
)

func (k VarKind) String() string {
	switch k {
	case KindModuleGlobal:
		return "module_global"
	case KindMaybeLocal:
		return "maybe_local"
	case KindLocal:
		return "local"
	case KindParameter:
		return "parameter"
	case KindTemporary:
		return "temporary"
	default:
		return "invalid"
	}
}

// OwnerKind distinguishes the scope entities that can declare variables.
type OwnerKind uint8

const (
	OwnerModule OwnerKind = iota
	OwnerFunction
	OwnerGenerator
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerModule:
		return "module"
	case OwnerFunction:
		return "function"
	case OwnerGenerator:
		return "generator"
	default:
		return "invalid"
	}
}

// Owner is the function, generator or module scope that declared a
// variable. Owners are produced upstream; code generation only reads them.
type Owner struct {
	Name string
	Kind OwnerKind

	// NeedsClosure is true when the scope must allocate a heap context
	// object: nested functions capture its locals, or it is a generator
	// whose frame survives suspension.
	NeedsClosure bool
}

func (o *Owner) IsModule() bool {
	return o.Kind == OwnerModule
}

func (o *Owner) IsGenerator() bool {
	return o.Kind == OwnerGenerator
}

// Variable is a named storage location. All classification fields are
// fixed at creation by scope analysis; the emitters never mutate them.
type Variable struct {
	Name  string
	Kind  VarKind
	Owner *Owner // declaring scope, non-owning back-reference

	// SharedTechnically forces a heap cell so every capturing scope
	// observes the same binding.
	SharedTechnically bool

	// HasDelIndicator is set when a separate bound/unbound flag must be
	// tracked because the source program may delete the variable.
	HasDelIndicator bool

	// TempRef marks a temporary that aliases another variable's cell and
	// is therefore exempt from unbound checks.
	TempRef bool
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s %q", v.Kind, v.Name)
}
