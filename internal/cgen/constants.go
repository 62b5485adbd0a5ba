package cgen

import (
	"fmt"

	"fortio.org/safecast"
)

// ConstantID indexes an interned constant inside one pool.
type ConstantID uint32

// ConstantPool interns the name strings referenced by generated namespace
// lookups and hands out stable storage identifiers for them. One pool is
// owned per generated body; the driver merges the snapshots into the
// module preamble.
type ConstantPool struct {
	byID  []string
	index map[string]ConstantID
}

func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		index: make(map[string]ConstantID),
	}
}

// ConstantCode interns value and returns the identifier generated code
// uses to reference the pooled constant.
func (p *ConstantPool) ConstantCode(value string) string {
	if _, ok := p.index[value]; !ok {
		id, err := safecast.Conv[ConstantID](len(p.byID))
		if err != nil {
			panic(fmt.Sprintf("cgen: constant pool overflow at %q", value))
		}
		p.byID = append(p.byID, value)
		p.index[value] = id
	}
	return constantCodeName(value)
}

// Has reports whether value is already pooled.
func (p *ConstantPool) Has(value string) bool {
	_, ok := p.index[value]
	return ok
}

// Snapshot returns the pooled values in interning order.
func (p *ConstantPool) Snapshot() []string {
	out := make([]string, len(p.byID))
	copy(out, p.byID)
	return out
}

func (p *ConstantPool) Len() int {
	return len(p.byID)
}

func constantCodeName(value string) string {
	return "const_str_plain_" + encodeNonASCII(value)
}

// ConstantDeclCode renders the preamble declaration for one pooled
// constant.
func ConstantDeclCode(value string) string {
	return fmt.Sprintf("static PyObject *%s;", constantCodeName(value))
}
