package hclload

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/specialistvlad/isctransform/internal/ctxlog"
	"github.com/specialistvlad/isctransform/internal/dag"
	"github.com/specialistvlad/isctransform/internal/fsutil"
	"github.com/specialistvlad/isctransform/internal/hclexpr"
	"github.com/specialistvlad/isctransform/internal/hclutil"
	"github.com/specialistvlad/isctransform/internal/registry"
)

// FileExtension is the extension of transform definition files.
const FileExtension = ".hcl"

// Loader parses and evaluates transform definition files.
type Loader struct {
	reg   *registry.Registry
	funcs map[string]function.Function
}

// NewLoader returns a loader that resolves transform functions in reg and
// makes funcs available to plain HCL expressions.
func NewLoader(reg *registry.Registry, funcs map[string]function.Function) *Loader {
	return &Loader{reg: reg, funcs: funcs}
}

// Load reads every .hcl file found under paths. A path may name a single
// file or a directory, which is searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, FileExtension)
	if err != nil {
		return nil, fmt.Errorf("find transform files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", FileExtension, paths)
	}
	logger.Debug("Found transform files.", "files", files)

	parser := hclparse.NewParser()
	var diags hcl.Diagnostics
	var parsed []*hcl.File
	for _, path := range files {
		f, parseDiags := parser.ParseHCLFile(path)
		diags = append(diags, parseDiags...)
		if f != nil {
			parsed = append(parsed, f)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return l.load(ctx, files, parsed)
}

// LoadSource evaluates a single in-memory file. filename is only used in
// diagnostics.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*Config, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return l.load(ctx, []string{filename}, []*hcl.File{f})
}

func (l *Loader) load(ctx context.Context, names []string, files []*hcl.File) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	var diags hcl.Diagnostics
	locals := make(map[string]*local)
	var transforms []*Transform
	seen := make(map[string]*Transform)

	for i, f := range files {
		content, contentDiags := f.Body.Content(fileSchema)
		diags = append(diags, contentDiags...)
		if content == nil {
			continue
		}

		var fallback hcl.Expression
		defaults, uniqueDiags := hclutil.FindUniqueBlock(content.Blocks, blockDefaults)
		diags = append(diags, uniqueDiags...)
		if defaults != nil {
			var body defaultsBody
			diags = append(diags, gohcl.DecodeBody(defaults.Body, nil, &body)...)
			fallback = body.Refresh
		}

		for _, block := range content.Blocks {
			switch block.Type {
			case blockLocals:
				attrs, attrDiags := block.Body.JustAttributes()
				diags = append(diags, attrDiags...)
				diags = append(diags, addLocals(locals, attrs)...)

			case blockTransform:
				var body transformBody
				decodeDiags := gohcl.DecodeBody(block.Body, nil, &body)
				diags = append(diags, decodeDiags...)
				if decodeDiags.HasErrors() {
					continue
				}
				if isNullExpr(body.Root) {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Missing root",
						Detail:   fmt.Sprintf("Transform %q needs a root expression.", block.Labels[0]),
						Subject:  block.DefRange.Ptr(),
					})
					continue
				}
				t := &Transform{
					Name:     block.Labels[0],
					File:     names[i],
					Range:    block.DefRange,
					root:     body.Root,
					refresh:  body.Refresh,
					fallback: fallback,
				}
				if t.Name == "" {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Empty transform name",
						Detail:   "A transform block needs a non-empty name label.",
						Subject:  block.LabelRanges[0].Ptr(),
					})
					continue
				}
				if prev, dup := seen[t.Name]; dup {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Duplicate transform",
						Detail:   fmt.Sprintf("A transform named %q is already defined at %s.", t.Name, prev.Range),
						Subject:  block.DefRange.Ptr(),
					})
					continue
				}
				seen[t.Name] = t
				transforms = append(transforms, t)
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	s := newScope(l.reg, l.funcs)
	order, orderDiags := orderLocals(locals)
	diags = append(diags, orderDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	for _, name := range order {
		loc := locals[name]
		v, evalDiags := s.eval(loc.expr)
		diags = append(diags, evalDiags...)
		if evalDiags.HasErrors() {
			continue
		}
		s.define(name, v)
		logger.Debug("Evaluated local.", "name", name, "value", describe(v))
	}
	if diags.HasErrors() {
		return nil, diags
	}

	for _, d := range diags {
		logger.Warn(d.Summary, "detail", d.Detail, "range", d.Subject)
	}
	logger.Debug("Transform configuration loaded.", "files", len(files), "locals", len(locals), "transforms", len(transforms))

	return &Config{Files: names, Transforms: transforms, scope: s}, nil
}

func addLocals(locals map[string]*local, attrs hcl.Attributes) hcl.Diagnostics {
	var diags hcl.Diagnostics
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attr := attrs[name]
		if prev, dup := locals[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate local value",
				Detail:   fmt.Sprintf("A local value named %q was already defined at %s.", name, prev.rng),
				Subject:  attr.NameRange.Ptr(),
			})
			continue
		}
		locals[name] = &local{name: name, expr: attr.Expr, rng: attr.Range}
	}
	return diags
}

// orderLocals sorts locals so that every local comes after the locals it
// refers to.
func orderLocals(locals map[string]*local) ([]string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	g := dag.New()
	for name := range locals {
		g.AddNode(name)
	}

	names := make([]string, 0, len(locals))
	for name := range locals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		loc := locals[name]
		for _, ref := range hclexpr.NewContainer(loc.expr).References() {
			dep, ok := hclutil.LocalName(ref)
			if !ok {
				continue
			}
			if !g.Has(dep) {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Reference to undeclared local value",
					Detail:   fmt.Sprintf("No local value named %q is declared.", dep),
					Subject:  ref.SourceRange().Ptr(),
				})
				continue
			}
			if err := g.AddEdge(dep, name); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Self-referencing local value",
					Detail:   fmt.Sprintf("%s: %s.", hclutil.TraversalKey(ref), err),
					Subject:  ref.SourceRange().Ptr(),
				})
			}
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Cycle in local values",
			Detail:   fmt.Sprintf("Local values cannot depend on each other in a loop: %s.", err),
		}}
	}
	return order, nil
}
