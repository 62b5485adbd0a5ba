package cgen

import "strings"

// Runtime exception kinds the generated guards may raise.
const (
	excNameError         = "PyExc_NameError"
	excUnboundLocalError = "PyExc_UnboundLocalError"
)

// errorFormatExitCode guards a pointer result: when checkName is NULL the
// generated code raises exceptionKind with message and jumps to the
// body's exception exit.
func errorFormatExitCode(w *CodeWriter, ctx *Context, checkName, exceptionKind, message string) {
	ctx.MarkNeedsExceptionState()

	w.Emitf(`if ( %s == NULL )
{
    exception_type = %s;
    Py_INCREF( exception_type );
    exception_value = PyUnicode_FromString( "%s" );
    goto frame_exception_exit;
}`, checkName, exceptionKind, escapeCString(message))
}

// errorFormatExitBoolCode guards a boolean or int result the same way;
// condition is the full failure expression.
func errorFormatExitBoolCode(w *CodeWriter, ctx *Context, condition, exceptionKind, message string) {
	ctx.MarkNeedsExceptionState()

	w.Emitf(`if ( %s )
{
    exception_type = %s;
    Py_INCREF( exception_type );
    exception_value = PyUnicode_FromString( "%s" );
    goto frame_exception_exit;
}`, condition, exceptionKind, escapeCString(message))
}

func escapeCString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
