package cgen

import "fmt"

// AssignmentCode emits code that stores the tmpName temporary's value
// into a variable's storage. When the cleanup set holds tmpName the write
// consumes the owned reference and removes the name from the set;
// otherwise the storage acquires its own reference.
func AssignmentCode(w *CodeWriter, ctx *Context, v *Variable, tmpName string) {
	refCount := 0
	if ctx.NeedsCleanup(tmpName) {
		refCount = 1
	}

	switch v.Kind {
	case KindModuleGlobal:
		w.Emitf("UPDATE_STRING_DICT%d( moduledict_%s, (Adder_StringObject *)%s, %s );",
			refCount,
			ctx.ModuleName(),
			ctx.Pool().ConstantCode(v.Name),
			tmpName,
		)
	case KindLocal, KindParameter, KindTemporary:
		w.Emit(renderTemplate(writeTemplate(v.SharedTechnically, refCount), map[string]string{
			"identifier": VariableCode(ctx, v),
			"tmp_name":   tmpName,
		}))
	default:
		panic(fmt.Sprintf("cgen: cannot assign %s", v))
	}

	if refCount == 1 {
		// Ownership now belongs to the storage.
		ctx.RemoveCleanupTempName(tmpName)
	}
}

func writeTemplate(shared bool, refCount int) string {
	if shared {
		if refCount == 1 {
			return templateWriteSharedRef0
		}
		return templateWriteSharedRef1
	}
	if refCount == 1 {
		return templateWriteLocalRef0
	}
	return templateWriteLocalRef1
}
