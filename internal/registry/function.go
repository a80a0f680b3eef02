package registry

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/isctransform/transform"
)

// ParamType is the shape of value a parameter accepts.
type ParamType int

const (
	// TypeValue accepts a literal or a nested transform.
	TypeValue ParamType = iota
	TypeString
	TypeInt
	TypeBool
	// TypeList accepts a sequence of values.
	TypeList
	// TypeStrings accepts a sequence of strings.
	TypeStrings
	// TypeTable accepts a string-keyed mapping.
	TypeTable
	// TypeVars accepts a mapping of variable names to values.
	TypeVars
)

func (t ParamType) String() string {
	switch t {
	case TypeValue:
		return "value"
	case TypeString:
		return "string"
	case TypeInt:
		return "number"
	case TypeBool:
		return "bool"
	case TypeList:
		return "list"
	case TypeStrings:
		return "list of string"
	case TypeTable:
		return "map"
	case TypeVars:
		return "map of variables"
	default:
		return "unknown"
	}
}

// Param declares one parameter of a Function.
type Param struct {
	// Name is the parameter name used inside the transform package and in
	// error messages.
	Name string
	// HCLName is the attribute name accepted in the object-literal form.
	HCLName  string
	Type     ParamType
	Required bool
}

// Function is an HCL-callable transform constructor.
type Function struct {
	Name        string
	Kind        transform.Kind
	Description string
	Params      []Param
	Build       func(Args) (transform.Buildable, error)
}

// TableFirst reports whether the first argument is a mapping. Such functions
// are only callable positionally, because a lone object literal would be
// ambiguous.
func (f *Function) TableFirst() bool {
	return len(f.Params) > 0 && f.Params[0].Type == TypeTable
}

// Param looks a parameter up by its HCL name.
func (f *Function) Param(hclName string) (Param, bool) {
	for _, p := range f.Params {
		if p.HCLName == hclName {
			return p, true
		}
	}
	return Param{}, false
}

// Signature renders the positional call form, e.g.
// "split(delimiter, index, input?, throws?)".
func (f *Function) Signature() string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.HCLName
		if !p.Required {
			names[i] += "?"
		}
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(names, ", "))
}

// Bind checks values, keyed by parameter Name, against the declaration and
// returns the Args to pass to Build. Absent optional parameters stay absent.
func (f *Function) Bind(values map[string]transform.Value) (Args, error) {
	for name := range values {
		if !f.hasParam(name) {
			return Args{}, f.malformed(name, "is not a parameter of %s", f.Name)
		}
	}
	for _, p := range f.Params {
		v, ok := values[p.Name]
		if !ok || v == nil {
			if p.Required {
				return Args{}, &transform.ConfigError{Kind: f.Kind, Param: p.Name, Reason: "is required", Err: transform.ErrInvalidConfiguration}
			}
			continue
		}
		if !accepts(p.Type, v) {
			return Args{}, f.malformed(p.Name, "expected %s, got %s", p.Type, describe(v))
		}
	}
	return Args{values: values}, nil
}

// Call binds values and runs the constructor.
func (f *Function) Call(values map[string]transform.Value) (transform.Buildable, error) {
	args, err := f.Bind(values)
	if err != nil {
		return nil, err
	}
	return f.Build(args)
}

func (f *Function) hasParam(name string) bool {
	for _, p := range f.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (f *Function) malformed(param, format string, args ...any) error {
	return &transform.ConfigError{Kind: f.Kind, Param: param, Reason: fmt.Sprintf(format, args...), Err: transform.ErrMalformedInput}
}

func accepts(t ParamType, v transform.Value) bool {
	switch t {
	case TypeValue:
		_, isList := v.(transform.List)
		return !isList
	case TypeString:
		_, ok := v.(transform.String)
		return ok
	case TypeInt:
		_, ok := v.(transform.Int)
		return ok
	case TypeBool:
		_, ok := v.(transform.Bool)
		return ok
	case TypeList:
		_, ok := v.(transform.List)
		return ok
	case TypeStrings:
		list, ok := v.(transform.List)
		if !ok {
			return false
		}
		for _, item := range list {
			if _, isString := item.(transform.String); !isString {
				return false
			}
		}
		return true
	case TypeTable, TypeVars:
		_, ok := v.(*transform.Table)
		return ok
	}
	return false
}

func describe(v transform.Value) string {
	switch x := v.(type) {
	case transform.String:
		return "string"
	case transform.Int:
		return "number"
	case transform.Bool:
		return "bool"
	case transform.List:
		return "list"
	case *transform.Table:
		return "map"
	case *transform.Node:
		return x.Kind().String() + " transform"
	default:
		return fmt.Sprintf("%T", v)
	}
}
