package hclload

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/isctransform/document"
	"github.com/specialistvlad/isctransform/transform"
)

// Config is a loaded set of transform files with their locals evaluated.
// Its methods are safe for concurrent use.
type Config struct {
	Files      []string
	Transforms []*Transform

	scope *scope
}

// Local returns the evaluated value of a local: a transform.Value or a
// *transform.UsernameGenerator.
func (c *Config) Local(name string) (any, bool) {
	v, ok := c.scope.values[name]
	return v, ok
}

// Evaluate builds the root of t and resolves its refresh flag. The flag is
// nil when neither the block nor the file defaults set it.
func (c *Config) Evaluate(t *Transform) (transform.Buildable, *bool, hcl.Diagnostics) {
	root, diags := c.scope.buildable(t.root)
	if diags.HasErrors() {
		return nil, nil, diags
	}

	refresh, refreshDiags := c.flag(t.refresh)
	diags = append(diags, refreshDiags...)
	if refresh == nil && !refreshDiags.HasErrors() {
		refresh, refreshDiags = c.flag(t.fallback)
		diags = append(diags, refreshDiags...)
	}
	if diags.HasErrors() {
		return nil, nil, diags
	}
	return root, refresh, diags
}

// Document evaluates t and assembles it into a named document.
func (c *Config) Document(t *Transform) (*document.Document, error) {
	root, refresh, diags := c.Evaluate(t)
	if diags.HasErrors() {
		return nil, diags
	}
	var opts []document.Option
	if refresh != nil {
		opts = append(opts, document.WithPeriodicRefresh(*refresh))
	}
	doc, err := document.Assemble(t.Name, root, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: transform %q: %w", t.Range, t.Name, err)
	}
	return doc, nil
}

func (c *Config) flag(expr hcl.Expression) (*bool, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	v, diags := c.scope.ctyValue(expr, fmt.Sprintf("%q", attrRefresh))
	if diags.HasErrors() || v.IsNull() {
		return nil, diags
	}
	var b bool
	if err := gocty.FromCtyValue(v, &b); err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid refresh flag",
			Detail:   fmt.Sprintf("%q must be a bool: %s.", attrRefresh, err),
			Subject:  expr.Range().Ptr(),
		})
	}
	return &b, diags
}

// isNullExpr reports whether expr is the null placeholder gohcl sets for an
// absent attribute.
func isNullExpr(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	if len(expr.Variables()) > 0 {
		return false
	}
	v, diags := expr.Value(nil)
	return !diags.HasErrors() && v.IsNull() && v.Type() == cty.DynamicPseudoType
}
