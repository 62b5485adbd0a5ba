package cgen

import (
	"fmt"
	"strings"
)

// LocalDeclCode renders the one-time storage declaration for a variable.
// initFrom, when non-empty, initializes the slot directly (used to move a
// parameter's incoming argument into its slot). inContext declares the
// variable as a member of an enclosing heap context object, whose own
// construction handles initialization.
//
// Module variables are never locally declared; they live in the module's
// persistent namespace.
func LocalDeclCode(v *Variable, initFrom string, inContext bool) string {
	if v.Kind == KindModuleGlobal || v.Kind == KindMaybeLocal {
		panic(fmt.Sprintf("cgen: no local declaration for %s", v))
	}

	result := declarationTypeCode(v)
	if !strings.HasSuffix(result, "*") {
		result += " "
	}

	result += VariableCodeName(inContext, v)

	if !inContext {
		if v.Kind == KindTemporary {
			if initFrom != "" {
				panic(fmt.Sprintf("cgen: temporary %q cannot take an initializer", v.Name))
			}
			if v.SharedTechnically {
				// A boxed cell must exist before any branch reads it.
				result += " = PyCell_New( NULL )"
			}
		} else if initFrom != "" {
			if v.SharedTechnically {
				result += " = PyCell_New( " + initFrom + " )"
			} else {
				result += " = " + initFrom
			}
		}
	}

	result += ";"
	return result
}

func declarationTypeCode(v *Variable) string {
	if v.SharedTechnically {
		return "PyCellObject *"
	}
	return "PyObject *"
}
