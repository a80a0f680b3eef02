// Package hclexpr collects HCL expressions and reports what they refer to:
// the variables they traverse and the functions they call.
package hclexpr

import (
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/specialistvlad/isctransform/internal/hclutil"
)

// Container gathers expressions and analyzes them lazily. Results are cached
// until more expressions are added.
type Container struct {
	mu          sync.Mutex
	expressions []hcl.Expression
	analyzed    bool

	references []hcl.Traversal
	functions  []string
}

// NewContainer returns an empty container, optionally seeded with exprs.
func NewContainer(exprs ...hcl.Expression) *Container {
	c := &Container{}
	c.Add(exprs...)
	return c
}

// Add appends expressions; nil expressions are ignored.
func (c *Container) Add(exprs ...hcl.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, expr := range exprs {
		if expr != nil {
			c.expressions = append(c.expressions, expr)
			c.analyzed = false
		}
	}
}

// References returns every distinct traversal, sorted by its source form.
func (c *Container) References() []hcl.Traversal {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analyze()
	return c.references
}

// CalledFunctions returns the sorted names of every function called.
func (c *Container) CalledFunctions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analyze()
	return c.functions
}

// Locals returns the sorted names of the locals referenced through local.<name>.
func (c *Container) Locals() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, ref := range c.References() {
		name, ok := hclutil.LocalName(ref)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calls reports whether any collected expression calls one of names.
func (c *Container) Calls(names func(string) bool) bool {
	for _, fn := range c.CalledFunctions() {
		if names(fn) {
			return true
		}
	}
	return false
}

// analyze must be called with c.mu held.
func (c *Container) analyze() {
	if c.analyzed {
		return
	}
	traversals := make(map[string]hcl.Traversal)
	functions := make(map[string]struct{})

	for _, expr := range c.expressions {
		for _, tr := range expr.Variables() {
			traversals[hclutil.TraversalKey(tr)] = tr
		}
		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			collectCalls(syntaxExpr, functions)
		}
	}

	keys := make([]string, 0, len(traversals))
	for k := range traversals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c.references = make([]hcl.Traversal, 0, len(keys))
	for _, k := range keys {
		c.references = append(c.references, traversals[k])
	}

	c.functions = make([]string, 0, len(functions))
	for name := range functions {
		c.functions = append(c.functions, name)
	}
	sort.Strings(c.functions)
	c.analyzed = true
}

// collectCalls walks the syntax tree and records every function call name.
func collectCalls(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			functions[call.Name] = struct{}{}
		}
		return nil
	})
}
