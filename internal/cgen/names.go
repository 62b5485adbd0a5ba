package cgen

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VariableCodeName returns the canonical storage identifier for a
// variable. inContext selects the closure-member form used when the
// variable is reached through a heap context object.
func VariableCodeName(inContext bool, v *Variable) string {
	switch {
	case inContext:
		return "closure_" + encodeNonASCII(v.Name)
	case v.Kind == KindParameter:
		return "par_" + encodeNonASCII(v.Name)
	case v.Kind == KindTemporary:
		return "tmp_" + encodeNonASCII(v.Name)
	default:
		return "var_" + encodeNonASCII(v.Name)
	}
}

// VariableCode returns the full access expression for a variable from the
// current generation point, context prefix included.
func VariableCode(ctx *Context, v *Variable) string {
	fromContext := contextAccess(ctx, v.Owner != ctx.Owner())

	// TODO: stop treating the generator context as always closure once
	// generator frame layout distinguishes own locals from captures.
	inContext := ctx.Owner() != v.Owner ||
		(!ctx.Owner().IsModule() && ctx.Owner().IsGenerator())

	return fromContext + VariableCodeName(inContext, v)
}

// encodeNonASCII maps a source-level identifier onto a safe C identifier.
// Names are NFKC-normalized first, matching the source language's
// identifier equivalence; every rune outside the ASCII identifier set is
// then escaped as $<codepoint>.
func encodeNonASCII(name string) string {
	name = norm.NFKC.String(name)

	plain := true
	for _, r := range name {
		if !isIdentRune(r) {
			plain = false
			break
		}
	}
	if plain {
		return name
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isIdentRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('$')
		b.WriteString(strconv.FormatInt(int64(r), 10))
	}
	return b.String()
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
