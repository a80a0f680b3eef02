package registry

import (
	"github.com/specialistvlad/isctransform/transform"
	"k8s.io/utils/ptr"
)

// Args holds bound arguments keyed by parameter Name. The getters return the
// zero value for absent parameters; Bind has already checked the types.
type Args struct {
	values map[string]transform.Value
}

// NewArgs wraps values without checking them. Prefer Function.Bind.
func NewArgs(values map[string]transform.Value) Args {
	return Args{values: values}
}

// Has reports whether the parameter was supplied.
func (a Args) Has(name string) bool {
	v, ok := a.values[name]
	return ok && v != nil
}

// Value returns the raw parameter value.
func (a Args) Value(name string) transform.Value {
	return a.values[name]
}

func (a Args) String(name string) string {
	s, _ := a.values[name].(transform.String)
	return string(s)
}

func (a Args) Int(name string) int {
	i, _ := a.values[name].(transform.Int)
	return int(i)
}

// IntPtr returns nil when the parameter is absent.
func (a Args) IntPtr(name string) *int {
	if !a.Has(name) {
		return nil
	}
	return ptr.To(a.Int(name))
}

// BoolPtr returns nil when the parameter is absent.
func (a Args) BoolPtr(name string) *bool {
	b, ok := a.values[name].(transform.Bool)
	if !ok {
		return nil
	}
	return ptr.To(bool(b))
}

func (a Args) List(name string) []transform.Value {
	list, _ := a.values[name].(transform.List)
	return list
}

func (a Args) Strings(name string) []string {
	list := a.List(name)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(transform.String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func (a Args) Table(name string) *transform.Table {
	t, _ := a.values[name].(*transform.Table)
	return t
}

// Vars turns a mapping parameter into ordered variables.
func (a Args) Vars(name string) []transform.Var {
	entries := a.Table(name).Entries()
	vars := make([]transform.Var, len(entries))
	for i, e := range entries {
		vars[i] = transform.Var{Name: e.Key, Value: e.Value}
	}
	return vars
}
