package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/isctransform/transform"
)

func identityFunction() *Function {
	return &Function{
		Name:   "identityAttribute",
		Kind:   transform.KindIdentityAttribute,
		Params: []Param{{Name: "name", HCLName: "name", Type: TypeString, Required: true}},
		Build: func(a Args) (transform.Buildable, error) {
			return transform.IdentityAttribute(a.String("name"))
		},
	}
}

func lookupFunction() *Function {
	return &Function{
		Name: "lookup",
		Kind: transform.KindLookup,
		Params: []Param{
			{Name: "table", HCLName: "table", Type: TypeTable, Required: true},
			{Name: "input", HCLName: "input", Type: TypeValue},
		},
		Build: func(a Args) (transform.Buildable, error) {
			return transform.Lookup(a.Table("table"), a.Value("input"))
		},
	}
}

type moduleFunc func(r *Registry)

func (m moduleFunc) Register(r *Registry) { m(r) }

func TestRegisterAndLookup(t *testing.T) {
	r := New(moduleFunc(func(r *Registry) {
		r.Register(lookupFunction())
		r.Register(identityFunction())
	}))

	assert.Equal(t, []string{"identityAttribute", "lookup"}, r.Names())
	fn, ok := r.Lookup("lookup")
	require.True(t, ok)
	assert.True(t, fn.TableFirst())
	assert.True(t, r.IsTransform("identityAttribute"))
	assert.False(t, r.IsTransform("format"))
	assert.Len(t, r.Functions(), 2)
}

func TestRegisterPanics(t *testing.T) {
	r := New()
	r.Register(identityFunction())
	assert.PanicsWithValue(t, "registry: function 'identityAttribute' already registered", func() {
		r.Register(identityFunction())
	})
	assert.Panics(t, func() { r.Register(&Function{Name: "x"}) })
	assert.Panics(t, func() { r.Register(&Function{}) })
}

func TestValidateReportsUncoveredKinds(t *testing.T) {
	r := New()
	r.Register(identityFunction())
	r.Register(&Function{
		Name:   "bogus",
		Kind:   transform.Kind("bogus"),
		Params: []Param{{Name: "a", HCLName: "a"}, {Name: "b", HCLName: "a"}},
		Build:  func(Args) (transform.Buildable, error) { return nil, nil },
	})

	err := r.Validate(context.Background())
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "registry validation failed:\n- "))
	assert.Contains(t, msg, "function 'bogus': unknown kind 'bogus'")
	assert.Contains(t, msg, "function 'bogus': duplicate parameter 'a'")
	assert.Contains(t, msg, "kind 'concat' has no registered function")
	assert.NotContains(t, msg, "kind 'identityAttribute'")
}

func TestBind(t *testing.T) {
	fn := lookupFunction()

	t.Run("valid", func(t *testing.T) {
		table := transform.StringTable("default", "x")
		args, err := fn.Bind(map[string]transform.Value{"table": table})
		require.NoError(t, err)
		assert.Same(t, table, args.Table("table"))
		assert.False(t, args.Has("input"))
	})

	t.Run("missing required", func(t *testing.T) {
		_, err := fn.Bind(map[string]transform.Value{})
		var cfgErr *transform.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "table", cfgErr.Param)
		assert.ErrorIs(t, err, transform.ErrInvalidConfiguration)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := fn.Bind(map[string]transform.Value{"table": transform.String("x")})
		assert.ErrorIs(t, err, transform.ErrMalformedInput)
		assert.ErrorContains(t, err, "expected map, got string")
	})

	t.Run("unknown parameter", func(t *testing.T) {
		_, err := fn.Bind(map[string]transform.Value{"table": transform.StringTable("default", "x"), "bogus": transform.Int(1)})
		assert.ErrorIs(t, err, transform.ErrMalformedInput)
	})

	t.Run("list is not a value", func(t *testing.T) {
		_, err := fn.Bind(map[string]transform.Value{"table": transform.StringTable("default", "x"), "input": transform.Strings("a")})
		assert.ErrorContains(t, err, "expected value, got list")
	})
}

func TestCall(t *testing.T) {
	b, err := identityFunction().Call(map[string]transform.Value{"name": transform.String("email")})
	require.NoError(t, err)
	assert.Equal(t, transform.KindIdentityAttribute, b.(*transform.Node).Kind())
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "lookup(table, input?)", lookupFunction().Signature())
}

func TestArgs(t *testing.T) {
	node, err := transform.IdentityAttribute("x")
	require.NoError(t, err)
	args := NewArgs(map[string]transform.Value{
		"s":     transform.String("a"),
		"i":     transform.Int(3),
		"b":     transform.Bool(false),
		"list":  transform.List{node, transform.String("b")},
		"strs":  transform.Strings("p", "q"),
		"table": transform.NewTable(transform.Entry{Key: "fn", Value: node}),
	})

	assert.Equal(t, "a", args.String("s"))
	assert.Equal(t, 3, args.Int("i"))
	require.NotNil(t, args.IntPtr("i"))
	assert.Equal(t, 3, *args.IntPtr("i"))
	assert.Nil(t, args.IntPtr("missing"))
	require.NotNil(t, args.BoolPtr("b"))
	assert.False(t, *args.BoolPtr("b"))
	assert.Nil(t, args.BoolPtr("missing"))
	assert.Len(t, args.List("list"), 2)
	assert.Equal(t, []string{"p", "q"}, args.Strings("strs"))
	assert.Equal(t, []transform.Var{{Name: "fn", Value: node}}, args.Vars("table"))
	assert.Empty(t, args.Vars("missing"))
	assert.Equal(t, "", args.String("missing"))
}
