package cgen

import (
	"fmt"
	"sort"
)

// Context carries the mutable state threaded through one function, module
// or generator body's code generation. Exactly one Context is live per
// body, owned by the goroutine generating that body; the emitters mutate
// it only through the methods below.
type Context struct {
	owner      *Owner
	moduleName string

	// target is the source-language compatibility version, e.g. 340 for
	// 3.4. Versions older than 340 word module-global failures inside
	// functions as "global name ...".
	target int

	pool *ConstantPool

	intResCount  int
	boolResCount int

	// cleanup tracks temporary names that own one live reference pending
	// transfer or release.
	cleanup map[string]struct{}

	needsExceptionState bool
}

func NewContext(owner *Owner, moduleName string, target int, pool *ConstantPool) *Context {
	if owner == nil {
		panic("cgen: context requires an owner scope")
	}
	if pool == nil {
		pool = NewConstantPool()
	}
	return &Context{
		owner:      owner,
		moduleName: moduleName,
		target:     target,
		pool:       pool,
		cleanup:    make(map[string]struct{}),
	}
}

func (c *Context) Owner() *Owner       { return c.owner }
func (c *Context) ModuleName() string  { return c.moduleName }
func (c *Context) Target() int         { return c.target }
func (c *Context) Pool() *ConstantPool { return c.pool }

// NeedsCleanup reports whether tmpName currently owns a live reference.
func (c *Context) NeedsCleanup(tmpName string) bool {
	_, ok := c.cleanup[tmpName]
	return ok
}

// AddCleanupTempName records that tmpName owns one reference that must
// eventually be transferred into storage or released.
func (c *Context) AddCleanupTempName(tmpName string) {
	if _, ok := c.cleanup[tmpName]; ok {
		panic(fmt.Sprintf("cgen: temporary %q already owns a reference", tmpName))
	}
	c.cleanup[tmpName] = struct{}{}
}

// RemoveCleanupTempName transfers ownership away from tmpName. A given
// temporary is removed at most once; a second removal is a caller bug.
func (c *Context) RemoveCleanupTempName(tmpName string) {
	if _, ok := c.cleanup[tmpName]; !ok {
		panic(fmt.Sprintf("cgen: temporary %q owns no reference to transfer", tmpName))
	}
	delete(c.cleanup, tmpName)
}

// CleanupTempNames returns the temporaries still owning a reference, in
// stable order.
func (c *Context) CleanupTempNames() []string {
	names := make([]string, 0, len(c.cleanup))
	for name := range c.cleanup {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarkNeedsExceptionState records that the generated body must carry
// exception-state plumbing because some access may fail at runtime.
func (c *Context) MarkNeedsExceptionState() {
	c.needsExceptionState = true
}

func (c *Context) NeedsExceptionState() bool {
	return c.needsExceptionState
}

// IntResName allocates a fresh int result name for templates that signal
// failure through an int return.
func (c *Context) IntResName() string {
	name := fmt.Sprintf("tmp_res_%d", c.intResCount)
	c.intResCount++
	return name
}

// BoolResName allocates a fresh bool result name for templates that
// signal failure through a bool return.
func (c *Context) BoolResName() string {
	name := fmt.Sprintf("tmp_result_%d", c.boolResCount)
	c.boolResCount++
	return name
}
