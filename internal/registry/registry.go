package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/isctransform/internal/ctxlog"
	"github.com/specialistvlad/isctransform/transform"
)

// Module registers a group of functions.
type Module interface {
	Register(r *Registry)
}

// Registry holds the HCL-callable transform functions of one application
// instance.
type Registry struct {
	functions map[string]*Function
}

// New creates an empty registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{functions: make(map[string]*Function)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a function. It panics on an empty name, a missing Build
// function or a name that is already taken: all of those are programming
// errors.
func (r *Registry) Register(fn *Function) {
	if fn == nil || fn.Name == "" {
		panic("registry: function must have a name")
	}
	if fn.Build == nil {
		panic(fmt.Sprintf("registry: function '%s' has no Build", fn.Name))
	}
	if _, exists := r.functions[fn.Name]; exists {
		panic(fmt.Sprintf("registry: function '%s' already registered", fn.Name))
	}
	r.functions[fn.Name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (*Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// IsTransform reports whether name is a registered transform function.
func (r *Registry) IsTransform(name string) bool {
	_, ok := r.functions[name]
	return ok
}

// Names returns the registered function names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions returns the registered functions ordered by name.
func (r *Registry) Functions() []*Function {
	names := r.Names()
	out := make([]*Function, len(names))
	for i, name := range names {
		out[i] = r.functions[name]
	}
	return out
}

// Validate checks that every transform kind is reachable from some function
// and that every function declares a sane parameter list.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	covered := make(map[transform.Kind]bool)
	for _, fn := range r.Functions() {
		if !fn.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("function '%s': unknown kind '%s'", fn.Name, fn.Kind))
		}
		covered[fn.Kind] = true

		seen := make(map[string]bool)
		for i, p := range fn.Params {
			if p.Name == "" || p.HCLName == "" {
				errs = append(errs, fmt.Sprintf("function '%s': parameter %d has no name", fn.Name, i))
				continue
			}
			if seen[p.HCLName] {
				errs = append(errs, fmt.Sprintf("function '%s': duplicate parameter '%s'", fn.Name, p.HCLName))
			}
			seen[p.HCLName] = true
		}
		if fn.TableFirst() && len(fn.Params) > 1 {
			for _, p := range fn.Params[1:] {
				if p.Required {
					errs = append(errs, fmt.Sprintf("function '%s': required parameter '%s' follows the table", fn.Name, p.HCLName))
				}
			}
		}
		logger.Debug("Validated transform function.", "function", fn.Name, "kind", fn.Kind, "params", len(fn.Params))
	}

	for _, kind := range transform.Kinds() {
		if !covered[kind] {
			errs = append(errs, fmt.Sprintf("kind '%s' has no registered function", kind))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
