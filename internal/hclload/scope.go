package hclload

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/specialistvlad/isctransform/internal/hclexpr"
	"github.com/specialistvlad/isctransform/internal/hclutil"
	"github.com/specialistvlad/isctransform/internal/registry"
	"github.com/specialistvlad/isctransform/transform"
)

// scope evaluates expressions against the registered transform functions
// and the locals evaluated so far. It is only written while locals are
// loaded; afterwards it is safe for concurrent use.
type scope struct {
	reg *registry.Registry
	// values holds every evaluated local: a transform.Value or a
	// *transform.UsernameGenerator.
	values map[string]any
	// scalars holds the locals that plain HCL expressions may read.
	scalars map[string]cty.Value
	ctx     *hcl.EvalContext
}

func newScope(reg *registry.Registry, funcs map[string]function.Function) *scope {
	s := &scope{
		reg:     reg,
		values:  make(map[string]any),
		scalars: make(map[string]cty.Value),
		ctx: &hcl.EvalContext{
			Variables: map[string]cty.Value{hclutil.LocalsRoot: cty.EmptyObjectVal},
			Functions: funcs,
		},
	}
	return s
}

// define stores an evaluated local.
func (s *scope) define(name string, v any) {
	s.values[name] = v
	if tv, ok := v.(transform.Value); ok {
		if cv, ok := toCty(tv); ok {
			s.scalars[name] = cv
			s.ctx.Variables[hclutil.LocalsRoot] = cty.ObjectVal(s.scalars)
		}
	}
}

// buildable evaluates a transform root.
func (s *scope) buildable(expr hcl.Expression) (transform.Buildable, hcl.Diagnostics) {
	v, diags := s.eval(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	switch x := v.(type) {
	case *transform.Node:
		return x, diags
	case *transform.UsernameGenerator:
		return x, diags
	}
	return nil, append(diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid transform root",
		Detail:   fmt.Sprintf("The root of a transform must be a transform function call, not %s.", describe(v)),
		Subject:  expr.Range().Ptr(),
	})
}

// value evaluates a nested parameter value.
func (s *scope) value(expr hcl.Expression) (transform.Value, hcl.Diagnostics) {
	v, diags := s.eval(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	if u, ok := v.(*transform.UsernameGenerator); ok {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid nested usernameGenerator",
			Detail:   fmt.Sprintf("A %s can only be the root of a transform.", u.Transform().Kind()),
			Subject:  expr.Range().Ptr(),
		})
	}
	if v == nil {
		return nil, diags
	}
	return v.(transform.Value), diags
}

func (s *scope) eval(expr hcl.Expression) (any, hcl.Diagnostics) {
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if fn, ok := s.reg.Lookup(e.Name); ok {
			return s.call(fn, e)
		}
	case *hclsyntax.ScopeTraversalExpr:
		if name, ok := hclutil.LocalName(e.Traversal); ok && len(e.Traversal) == 2 {
			if v, found := s.values[name]; found {
				return v, nil
			}
		}
	case *hclsyntax.ParenthesesExpr:
		return s.eval(e.Expression)
	case *hclsyntax.ObjectConsExpr:
		return s.table(e)
	case *hclsyntax.TupleConsExpr:
		return s.list(e)
	}
	v, diags := s.scalar(expr, "This expression")
	if v == nil {
		return nil, diags
	}
	return v, diags
}

func (s *scope) call(fn *registry.Function, e *hclsyntax.FunctionCallExpr) (any, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	if e.ExpandFinal {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported argument expansion",
			Detail:   fmt.Sprintf("Arguments of %s cannot be expanded with \"...\".", fn.Name),
			Subject:  e.Range().Ptr(),
		}}
	}

	values := make(map[string]transform.Value, len(fn.Params))
	if obj, named := namedArguments(fn, e); named {
		seen := make(map[string]hcl.Range)
		for _, item := range obj.Items {
			key, keyDiags := s.key(item.KeyExpr)
			diags = append(diags, keyDiags...)
			if keyDiags.HasErrors() {
				continue
			}
			p, ok := fn.Param(key)
			if !ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported argument",
					Detail:   fmt.Sprintf("%s has no argument named %q. Expected %s.", fn.Name, key, fn.Signature()),
					Subject:  item.KeyExpr.Range().Ptr(),
				})
				continue
			}
			if prev, dup := seen[key]; dup {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate argument",
					Detail:   fmt.Sprintf("Argument %q was already set at %s.", key, prev),
					Subject:  item.KeyExpr.Range().Ptr(),
				})
				continue
			}
			seen[key] = item.KeyExpr.Range()
			v, argDiags := s.argument(p, item.ValueExpr)
			diags = append(diags, argDiags...)
			if v != nil {
				values[p.Name] = v
			}
		}
	} else {
		if len(e.Args) > len(fn.Params) {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Too many arguments",
				Detail:   fmt.Sprintf("%s takes at most %d arguments: %s.", fn.Name, len(fn.Params), fn.Signature()),
				Subject:  e.Args[len(fn.Params)].Range().Ptr(),
			}}
		}
		for i, arg := range e.Args {
			v, argDiags := s.argument(fn.Params[i], arg)
			diags = append(diags, argDiags...)
			if v != nil {
				values[fn.Params[i].Name] = v
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	b, err := fn.Call(values)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid transform configuration",
			Detail:   err.Error(),
			Subject:  e.Range().Ptr(),
		})
	}
	return b, diags
}

// namedArguments reports whether the call uses the single object-literal
// form. Table-first functions always take their table positionally.
func namedArguments(fn *registry.Function, e *hclsyntax.FunctionCallExpr) (*hclsyntax.ObjectConsExpr, bool) {
	if len(e.Args) != 1 || fn.TableFirst() {
		return nil, false
	}
	obj, ok := e.Args[0].(*hclsyntax.ObjectConsExpr)
	return obj, ok
}

var scalarTypes = map[registry.ParamType]cty.Type{
	registry.TypeString: cty.String,
	registry.TypeInt:    cty.Number,
	registry.TypeBool:   cty.Bool,
}

// argument evaluates one call argument. Scalar parameters go through HCL
// type conversion, so "1" is accepted for a number and 1 for a string.
func (s *scope) argument(p registry.Param, expr hclsyntax.Expression) (transform.Value, hcl.Diagnostics) {
	want, isScalar := scalarTypes[p.Type]
	if !isScalar {
		return s.value(expr)
	}

	v, diags := s.ctyValue(expr, fmt.Sprintf("Argument %q", p.HCLName))
	if diags.HasErrors() || v.IsNull() {
		return nil, diags
	}
	converted, err := convert.Convert(v, want)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid argument type",
			Detail:   fmt.Sprintf("Argument %q requires a %s: %s.", p.HCLName, p.Type, err),
			Subject:  expr.Range().Ptr(),
		})
	}
	out, convDiags := fromCty(converted, expr.Range())
	return out, append(diags, convDiags...)
}

func (s *scope) table(e *hclsyntax.ObjectConsExpr) (*transform.Table, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	entries := make([]transform.Entry, 0, len(e.Items))
	seen := make(map[string]bool, len(e.Items))
	for _, item := range e.Items {
		key, keyDiags := s.key(item.KeyExpr)
		diags = append(diags, keyDiags...)
		if keyDiags.HasErrors() {
			continue
		}
		if seen[key] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate key",
				Detail:   fmt.Sprintf("The key %q is set more than once.", key),
				Subject:  item.KeyExpr.Range().Ptr(),
			})
			continue
		}
		seen[key] = true
		v, valDiags := s.value(item.ValueExpr)
		diags = append(diags, valDiags...)
		if v == nil {
			continue
		}
		entries = append(entries, transform.Entry{Key: key, Value: v})
	}
	return transform.NewTable(entries...), diags
}

func (s *scope) list(e *hclsyntax.TupleConsExpr) (transform.List, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	list := make(transform.List, 0, len(e.Exprs))
	for _, item := range e.Exprs {
		v, itemDiags := s.value(item)
		diags = append(diags, itemDiags...)
		if itemDiags.HasErrors() {
			continue
		}
		if v == nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Null list element",
				Detail:   "Lists passed to transforms must not contain null.",
				Subject:  item.Range().Ptr(),
			})
			continue
		}
		list = append(list, v)
	}
	return list, diags
}

func (s *scope) key(expr hclsyntax.Expression) (string, hcl.Diagnostics) {
	v, diags := expr.Value(s.ctx)
	if diags.HasErrors() {
		return "", diags
	}
	if v.IsNull() || !v.IsKnown() {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid key",
			Detail:   "Object keys must be known strings.",
			Subject:  expr.Range().Ptr(),
		})
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid key",
			Detail:   fmt.Sprintf("Object keys must be strings: %s.", err),
			Subject:  expr.Range().Ptr(),
		})
	}
	return sv.AsString(), diags
}

// scalar evaluates a plain HCL expression into a transform value.
func (s *scope) scalar(expr hcl.Expression, what string) (transform.Value, hcl.Diagnostics) {
	v, diags := s.ctyValue(expr, what)
	if diags.HasErrors() {
		return nil, diags
	}
	out, convDiags := fromCty(v, expr.Range())
	return out, append(diags, convDiags...)
}

// ctyValue evaluates expr with go-cty after making sure it does not involve
// any transform node, which plain HCL cannot represent.
func (s *scope) ctyValue(expr hcl.Expression, what string) (cty.Value, hcl.Diagnostics) {
	refs := hclexpr.NewContainer(expr)
	if refs.Calls(s.reg.IsTransform) {
		var names []string
		for _, fn := range refs.CalledFunctions() {
			if s.reg.IsTransform(fn) {
				names = append(names, fn)
			}
		}
		return cty.NilVal, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unexpected transform",
			Detail: fmt.Sprintf("%s must be a plain value, but it calls %s. Transform functions can only be used as a transform root, as an argument of another transform function, or inside an object or list literal.",
				what, strings.Join(names, ", ")),
			Subject: expr.Range().Ptr(),
		}}
	}
	for _, name := range refs.Locals() {
		if _, isScalar := s.scalars[name]; isScalar {
			continue
		}
		if v, found := s.values[name]; found {
			return cty.NilVal, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unexpected transform",
				Detail:   fmt.Sprintf("%s must be a plain value, but local.%s is %s.", what, name, describe(v)),
				Subject:  expr.Range().Ptr(),
			}}
		}
	}
	return expr.Value(s.ctx)
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *transform.Node:
		return fmt.Sprintf("a %s transform", x.Kind())
	case *transform.UsernameGenerator:
		return "a usernameGenerator transform"
	case transform.String:
		return "a string"
	case transform.Int:
		return "a number"
	case transform.Bool:
		return "a bool"
	case transform.List:
		return "a list"
	case *transform.Table:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
