package plan

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"adder/internal/cgen"
	"adder/internal/config"
)

// Raw TOML shape of a plan file.
type planFile struct {
	Module string    `toml:"module"`
	Target string    `toml:"target"`
	Bodies []bodyDef `toml:"bodies"`
}

type bodyDef struct {
	Name         string   `toml:"name"`
	Kind         string   `toml:"kind"`
	NeedsClosure bool     `toml:"needs_closure"`
	Vars         []varDef `toml:"vars"`
	Ops          []opDef  `toml:"ops"`
}

type varDef struct {
	Name         string `toml:"name"`
	Kind         string `toml:"kind"`
	Owner        string `toml:"owner"`
	Shared       bool   `toml:"shared"`
	DelIndicator bool   `toml:"del_indicator"`
	TempRef      bool   `toml:"temp_ref"`
}

type opDef struct {
	Op        string `toml:"op"`
	Var       string `toml:"var"`
	To        string `toml:"to"`
	From      string `toml:"from"`
	Owned     bool   `toml:"owned"`
	Tolerant  bool   `toml:"tolerant"`
	InContext bool   `toml:"in_context"`
}

// Load reads and resolves a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and resolves a plan from TOML bytes. Malformed kinds,
// duplicate names and dangling references are rejected here so the
// emitters only ever see well-formed variables.
func Parse(data []byte) (*Plan, error) {
	var raw planFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	if raw.Module == "" {
		return nil, fmt.Errorf("plan misses module name")
	}

	target := 0
	if raw.Target != "" {
		v, err := config.ParseTargetVersion(raw.Target)
		if err != nil {
			return nil, err
		}
		target = v
	}

	moduleOwner := &cgen.Owner{Name: raw.Module, Kind: cgen.OwnerModule}

	// First pass: one owner per body, so closure references across
	// bodies resolve regardless of declaration order.
	owners := map[string]*cgen.Owner{"module": moduleOwner}
	plan := &Plan{Module: raw.Module, Target: target}
	for _, def := range raw.Bodies {
		if def.Name == "" {
			return nil, fmt.Errorf("plan contains a body without a name")
		}
		if _, dup := owners[def.Name]; dup {
			return nil, fmt.Errorf("duplicate body %q", def.Name)
		}
		kind, err := ownerKindOf(def.Kind)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", def.Name, err)
		}
		owner := &cgen.Owner{Name: def.Name, Kind: kind, NeedsClosure: def.NeedsClosure}
		if kind == cgen.OwnerModule {
			owner = moduleOwner
		}
		owners[def.Name] = owner
		plan.Bodies = append(plan.Bodies, &Body{Name: def.Name, Owner: owner})
	}

	for i, def := range raw.Bodies {
		body := plan.Bodies[i]
		if err := resolveVars(body, def, owners, moduleOwner); err != nil {
			return nil, fmt.Errorf("body %q: %w", def.Name, err)
		}
		if err := resolveOps(body, def); err != nil {
			return nil, fmt.Errorf("body %q: %w", def.Name, err)
		}
	}
	return plan, nil
}

func resolveVars(body *Body, def bodyDef, owners map[string]*cgen.Owner, moduleOwner *cgen.Owner) error {
	for _, vd := range def.Vars {
		if vd.Name == "" {
			return fmt.Errorf("variable without a name")
		}
		if _, dup := body.Var(vd.Name); dup {
			return fmt.Errorf("duplicate variable %q", vd.Name)
		}
		kind, err := varKindOf(vd.Kind)
		if err != nil {
			return fmt.Errorf("variable %q: %w", vd.Name, err)
		}

		owner := body.Owner
		switch {
		case kind == cgen.KindModuleGlobal:
			owner = moduleOwner
		case vd.Owner != "":
			o, ok := owners[vd.Owner]
			if !ok {
				return fmt.Errorf("variable %q: unknown owner %q", vd.Name, vd.Owner)
			}
			owner = o
		}

		body.Vars = append(body.Vars, &cgen.Variable{
			Name:              vd.Name,
			Kind:              kind,
			Owner:             owner,
			SharedTechnically: vd.Shared,
			HasDelIndicator:   vd.DelIndicator,
			TempRef:           vd.TempRef,
		})
	}
	return nil
}

func resolveOps(body *Body, def bodyDef) error {
	for i, od := range def.Ops {
		verb, err := verbOf(od.Op)
		if err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		v, ok := body.Var(od.Var)
		if !ok {
			return fmt.Errorf("op %d: unknown variable %q", i, od.Var)
		}
		switch verb {
		case VerbDeclare:
			if v.Kind == cgen.KindModuleGlobal || v.Kind == cgen.KindMaybeLocal {
				return fmt.Errorf("op %d: %s %q is never locally declared", i, v.Kind, od.Var)
			}
		case VerbRead:
			if od.To == "" {
				return fmt.Errorf("op %d: read of %q misses destination", i, od.Var)
			}
		case VerbWrite:
			if od.From == "" {
				return fmt.Errorf("op %d: write of %q misses source", i, od.Var)
			}
			if v.Kind == cgen.KindMaybeLocal {
				return fmt.Errorf("op %d: %q resolves dynamically and has no writable slot", i, od.Var)
			}
		case VerbDelete:
			if v.Kind == cgen.KindMaybeLocal {
				return fmt.Errorf("op %d: %q resolves dynamically and has no deletable slot", i, od.Var)
			}
		}
		body.Ops = append(body.Ops, Op{
			Verb:      verb,
			Var:       v,
			To:        od.To,
			From:      od.From,
			Owned:     od.Owned,
			Tolerant:  od.Tolerant,
			InContext: od.InContext,
		})
	}
	return nil
}
