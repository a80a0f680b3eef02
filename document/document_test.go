package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/isctransform/transform"
)

func must(n *transform.Node, err error) *transform.Node {
	if err != nil {
		panic(err)
	}
	return n
}

func TestAssembleIdentityAttribute(t *testing.T) {
	root := must(transform.IdentityAttribute("email"))

	doc, err := Assemble("N", root)
	require.NoError(t, err)

	obj := doc.Object()
	assert.Equal(t, []string{"name", "attributes", "type"}, obj.Keys())
	name, _ := obj.Get("name")
	assert.Equal(t, "N", name)
	typ, _ := obj.Get("type")
	assert.Equal(t, "identityAttribute", typ)
	attrs, _ := obj.Get("attributes")
	attrName, _ := attrs.(*Object).Get("name")
	assert.Equal(t, "email", attrName)
}

func TestAssembleRefreshFlagIsNested(t *testing.T) {
	root := must(transform.IdentityAttribute("email"))

	for _, refresh := range []bool{true, false} {
		doc, err := Assemble("N", root, WithPeriodicRefresh(refresh))
		require.NoError(t, err)

		obj := doc.Object()
		_, top := obj.Get(RefreshAttribute)
		assert.False(t, top, "refresh flag must not be a top-level member")

		attrs, _ := obj.Get("attributes")
		got, ok := attrs.(*Object).Get(RefreshAttribute)
		require.True(t, ok)
		assert.Equal(t, refresh, got)
	}

	_, ok := root.Param(RefreshAttribute)
	assert.False(t, ok, "root node must not be modified")
}

func TestAssembleWithoutRefreshOmitsFlag(t *testing.T) {
	root := must(transform.Trim(nil))

	doc, err := Assemble("T", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "type"}, doc.Object().Keys())

	doc, err = Assemble("T", root, WithPeriodicRefresh(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "type", "attributes"}, doc.Object().Keys())
}

func TestAssembleEnvelope(t *testing.T) {
	fn := must(transform.IdentityAttribute("firstname"))
	for _, vars := range [][]transform.Var{
		nil,
		{{Name: "fn", Value: fn}},
		{{Name: "fn", Value: fn}, {Name: "ln", Value: fn}, {Name: "mi", Value: fn}},
	} {
		u, err := transform.NewUsernameGenerator(transform.UsernameGeneratorParams{
			Patterns:  []string{"$fn"},
			Variables: vars,
		})
		require.NoError(t, err)

		doc, err := Assemble("Username", u)
		require.NoError(t, err)
		obj := doc.Object()
		assert.Equal(t, []string{"name", "transform", "attributes", "isRequired", "type", "isMultiValued"}, obj.Keys())

		attrs, _ := obj.Get("attributes")
		size, _ := attrs.(*Object).Get("cloudMaxSize")
		assert.Equal(t, "255", size)
		checks, _ := attrs.(*Object).Get("cloudMaxUniqueChecks")
		assert.Equal(t, "50", checks)
		required, _ := attrs.(*Object).Get("cloudRequired")
		assert.Equal(t, "true", required)
		typ, _ := obj.Get("type")
		assert.Equal(t, "string", typ)
	}
}

func TestAssembleEnvelopeRefresh(t *testing.T) {
	u, err := transform.NewUsernameGenerator(transform.UsernameGeneratorParams{Patterns: []string{"$x"}})
	require.NoError(t, err)

	doc, err := Assemble("Username", u, WithPeriodicRefresh(true))
	require.NoError(t, err)
	attrs, _ := doc.Object().Get("attributes")
	assert.Equal(t, []string{"cloudMaxSize", "cloudMaxUniqueChecks", "cloudRequired", RefreshAttribute}, attrs.(*Object).Keys())
}

func TestAssembleErrors(t *testing.T) {
	root := must(transform.IdentityAttribute("email"))

	_, err := Assemble("", root)
	assert.ErrorIs(t, err, transform.ErrInvalidConfiguration)

	_, err = Assemble("N", nil)
	assert.ErrorIs(t, err, transform.ErrInvalidConfiguration)

	_, err = Assemble("N", (*transform.Node)(nil))
	assert.ErrorIs(t, err, transform.ErrInvalidConfiguration)
}

func TestReusedNodeIsCopied(t *testing.T) {
	first := must(transform.IdentityAttribute("firstname"))
	root := must(transform.Concat(first, transform.String("."), first))

	doc, err := Assemble("Dotted", root)
	require.NoError(t, err)

	out, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)

	var decoded struct {
		Attributes struct {
			Values []json.RawMessage `json:"values"`
		} `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Attributes.Values, 3)
	assert.JSONEq(t, string(decoded.Attributes.Values[0]), string(decoded.Attributes.Values[2]))
	assert.JSONEq(t, `{"attributes":{"name":"firstname"},"type":"identityAttribute"}`, string(decoded.Attributes.Values[0]))

	attrs, _ := doc.Object().Get("attributes")
	values, _ := attrs.(*Object).Get("values")
	list := values.([]any)
	list[0].(*Object).set("type", "changed")
	kind, _ := list[2].(*Object).Get("type")
	assert.Equal(t, "identityAttribute", kind, "each occurrence must be an independent copy")
}

func TestConditionalRefreshFlagFollowsType(t *testing.T) {
	cond := must(transform.Conditional(transform.ConditionalParams{
		Expression:              "a eq b",
		PositiveCondition:       transform.String("yes"),
		NegativeCondition:       transform.String("no"),
		RequiresPeriodicRefresh: true,
	}))
	root := must(transform.Concat(cond))

	doc, err := Assemble("Flagged", root)
	require.NoError(t, err)

	attrs, _ := doc.Object().Get("attributes")
	values, _ := attrs.(*Object).Get("values")
	inner := values.([]any)[0].(*Object)
	assert.Equal(t, []string{"attributes", "type", RefreshAttribute}, inner.Keys())
	flag, _ := inner.Get(RefreshAttribute)
	assert.Equal(t, true, flag)

	innerAttrs, _ := inner.Get("attributes")
	_, nested := innerAttrs.(*Object).Get(RefreshAttribute)
	assert.False(t, nested)
}
