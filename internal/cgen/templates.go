package cgen

import "strings"

// The closed snippet catalog. Every template is an opaque parameterized C
// fragment selected by (operation, kind, sharing, reference disposition);
// substitution slots use the %(name)s form.
//
// Reference disposition: Ref0 consumes the reference the source temporary
// already owns, Ref1 acquires a new reference because the source is only
// a borrowed view.

const templateReadLocal = `%(tmp_name)s = %(identifier)s;`

// Shared reads go through the heap cell. The "known" variant is selected
// when deletion tracking says the cell may be empty, the "unclear" one
// for always-bound parameters; both load the same way and differ only in
// the guard their caller attaches.
const (
	templateReadSharedKnown   = `%(tmp_name)s = PyCell_GET( %(identifier)s );`
	templateReadSharedUnclear = `%(tmp_name)s = PyCell_GET( %(identifier)s );`
)

const templateReadModuleUnclear = `%(tmp_name)s = GET_STRING_DICT_VALUE( moduledict_%(module_identifier)s, (Adder_StringObject *)%(var_name)s );`

const templateReadMaybeLocalUnclear = `%(tmp_name)s = LOOKUP_MAYBE_LOCAL_VARIABLE( %(locals_dict)s, moduledict_%(module_identifier)s, (Adder_StringObject *)%(var_name)s );`

const templateWriteLocalRef0 = `{
    PyObject *old = %(identifier)s;
    %(identifier)s = %(tmp_name)s;
    Py_XDECREF( old );
}`

const templateWriteLocalRef1 = `{
    PyObject *old = %(identifier)s;
    Py_INCREF( %(tmp_name)s );
    %(identifier)s = %(tmp_name)s;
    Py_XDECREF( old );
}`

const templateWriteSharedRef0 = `{
    PyObject *old = PyCell_GET( %(identifier)s );
    PyCell_SET( %(identifier)s, %(tmp_name)s );
    Py_XDECREF( old );
}`

const templateWriteSharedRef1 = `{
    PyObject *old = PyCell_GET( %(identifier)s );
    Py_INCREF( %(tmp_name)s );
    PyCell_SET( %(identifier)s, %(tmp_name)s );
    Py_XDECREF( old );
}`

const templateDelLocalTolerant = `Py_XDECREF( %(identifier)s );
%(identifier)s = NULL;`

const templateDelLocalIntolerant = `bool %(result)s = %(identifier)s != NULL;
Py_XDECREF( %(identifier)s );
%(identifier)s = NULL;`

const templateDelSharedTolerant = `{
    PyObject *old = PyCell_GET( %(identifier)s );
    PyCell_SET( %(identifier)s, NULL );
    Py_XDECREF( old );
}`

const templateDelSharedIntolerant = `bool %(result)s = PyCell_GET( %(identifier)s ) != NULL;
{
    PyObject *old = PyCell_GET( %(identifier)s );
    PyCell_SET( %(identifier)s, NULL );
    Py_XDECREF( old );
}`

const templateDelGlobalUnclear = `int %(res_name)s = DEL_STRING_DICT_VALUE( moduledict_%(module_identifier)s, (Adder_StringObject *)%(var_name)s );
if ( %(res_name)s == -1 ) CLEAR_ERROR_OCCURRED();`

// renderTemplate substitutes the named slots of one catalog snippet.
func renderTemplate(tmpl string, args map[string]string) string {
	oldnew := make([]string, 0, len(args)*2)
	for name, value := range args {
		oldnew = append(oldnew, "%("+name+")s", value)
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}
