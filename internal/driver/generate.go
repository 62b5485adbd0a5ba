package driver

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"adder/internal/cgen"
	"adder/internal/config"
	"adder/internal/plan"
)

// Request describes one codegen run.
type Request struct {
	Plan *plan.Plan
	// Target is the resolved source-language compatibility version; the
	// plan's own pin wins over it.
	Target   int
	Progress ProgressSink
}

// BodyResult is the generated section for one body.
type BodyResult struct {
	Name           string
	Code           string
	Lines          int
	NeedsException bool
	// PendingTemps are temporaries whose owned reference was never
	// transferred; the surrounding generator releases them on exit.
	PendingTemps []string
	// Constants pooled while generating this body, in interning order.
	Constants []string
}

// Result is one module's assembled translation unit.
type Result struct {
	Module string
	Code   string
	Bodies []BodyResult
}

// Generate replays a plan and assembles the module's C translation unit.
// Bodies are generated concurrently; each body's generation context is
// confined to its worker goroutine.
func Generate(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Plan == nil {
		return nil, fmt.Errorf("missing codegen plan")
	}

	target := req.Target
	if req.Plan.Target != 0 {
		target = req.Plan.Target
	}
	if target == 0 {
		target = config.DefaultTarget
	}

	for _, b := range req.Plan.Bodies {
		publish(req.Progress, Event{Body: b.Name, Status: StatusQueued})
	}

	results := make([]BodyResult, len(req.Plan.Bodies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, b := range req.Plan.Bodies {
		i, b := i, b
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			publish(req.Progress, Event{Body: b.Name, Status: StatusWorking})
			res, err := generateBody(req.Plan, b, target)
			if err != nil {
				publish(req.Progress, Event{Body: b.Name, Status: StatusError, Err: err})
				return fmt.Errorf("body %q: %w", b.Name, err)
			}
			results[i] = res
			publish(req.Progress, Event{Body: b.Name, Status: StatusDone})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Module: req.Plan.Module,
		Code:   assembleModule(req.Plan.Module, results),
		Bodies: results,
	}, nil
}

func generateBody(p *plan.Plan, b *plan.Body, target int) (BodyResult, error) {
	pool := cgen.NewConstantPool()
	genctx := cgen.NewContext(b.Owner, p.Module, target, pool)
	w := &cgen.CodeWriter{}

	for i, op := range b.Ops {
		if err := applyOp(w, genctx, op); err != nil {
			return BodyResult{}, fmt.Errorf("op %d (%s %q): %w", i, op.Verb, op.Var.Name, err)
		}
	}

	return BodyResult{
		Name:           b.Name,
		Code:           renderBodySection(b, w, genctx),
		Lines:          w.Lines(),
		NeedsException: genctx.NeedsExceptionState(),
		PendingTemps:   genctx.CleanupTempNames(),
		Constants:      pool.Snapshot(),
	}, nil
}

func applyOp(w *cgen.CodeWriter, genctx *cgen.Context, op plan.Op) error {
	switch op.Verb {
	case plan.VerbDeclare:
		w.Emit(cgen.LocalDeclCode(op.Var, op.From, op.InContext))
	case plan.VerbRead:
		cgen.AccessCode(w, genctx, op.To, op.Var)
	case plan.VerbWrite:
		if op.Owned && !genctx.NeedsCleanup(op.From) {
			genctx.AddCleanupTempName(op.From)
		}
		cgen.AssignmentCode(w, genctx, op.Var, op.From)
	case plan.VerbDelete:
		cgen.DelCode(w, genctx, op.Var, op.Tolerant)
	default:
		return fmt.Errorf("unsupported verb")
	}
	return nil
}

// renderBodySection wraps one body's emitted operations with the
// exception-state plumbing its guards require.
func renderBodySection(b *plan.Body, w *cgen.CodeWriter, genctx *cgen.Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "/* %s %s */\n{\n", b.Owner.Kind, b.Name)

	if genctx.NeedsExceptionState() {
		sb.WriteString("PyObject *exception_type = NULL;\n")
		sb.WriteString("PyObject *exception_value = NULL;\n\n")
	}

	sb.WriteString(w.String())

	if genctx.NeedsExceptionState() {
		sb.WriteString("\ngoto frame_no_exception;\n\n")
		sb.WriteString("frame_exception_exit:\n")
		for _, tmp := range genctx.CleanupTempNames() {
			fmt.Fprintf(&sb, "Py_DECREF( %s );\n", tmp)
		}
		sb.WriteString("RESTORE_ERROR_OCCURRED( exception_type, exception_value );\n\n")
		sb.WriteString("frame_no_exception:;\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

// assembleModule renders the translation unit: preamble, merged constant
// declarations, then the body sections in plan order.
func assembleModule(module string, bodies []BodyResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "/* C code generated by adder for module %q */\n", module)
	sb.WriteString("#include \"adder/runtime.h\"\n\n")

	seen := make(map[string]struct{})
	for _, b := range bodies {
		for _, value := range b.Constants {
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			sb.WriteString(cgen.ConstantDeclCode(value))
			sb.WriteByte('\n')
		}
	}
	if len(seen) > 0 {
		sb.WriteByte('\n')
	}

	for i, b := range bodies {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Code)
	}
	return sb.String()
}
