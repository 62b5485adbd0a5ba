package cgen

// Generated context member paths. Bodies that need a heap context reach
// their storage through _context; generator closures additionally share
// one common context across resumptions.
const (
	accessOwnContext    = "_context->"
	accessCommonContext = "_context->common_context->"
)

// contextAccess computes the access-path prefix needed to reach a
// variable's storage from the current point of generation. forceClosure
// is true for genuine cross-scope accesses, i.e. the variable's declaring
// owner differs from the current generation owner.
func contextAccess(ctx *Context, forceClosure bool) string {
	owner := ctx.Owner()
	if owner.IsModule() {
		// Module variables are reached directly.
		return ""
	}

	if owner.NeedsClosure {
		if owner.IsGenerator() {
			if forceClosure {
				return accessCommonContext
			}
			return accessOwnContext
		}
		if forceClosure {
			return accessOwnContext
		}
		return ""
	}

	// Generators box their frame even without a created closure object.
	if owner.IsGenerator() {
		return accessOwnContext
	}
	return ""
}
