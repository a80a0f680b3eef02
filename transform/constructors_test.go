package transform

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

// paramNames lists the node's parameter names in order.
func paramNames(n *Node) []string {
	var names []string
	for _, p := range n.Params() {
		names = append(names, p.Name)
	}
	return names
}

func mustNode(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

func requireConfigError(t *testing.T, err error, kind Kind, param string) *ConfigError {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %T", err)
	assert.Equal(t, kind, cfgErr.Kind)
	assert.Equal(t, param, cfgErr.Param)
	return cfgErr
}

func TestIdentityAttribute(t *testing.T) {
	n := mustNode(IdentityAttribute("email"))
	assert.Equal(t, KindIdentityAttribute, n.Kind())
	v, ok := n.Param("name")
	require.True(t, ok)
	assert.Equal(t, String("email"), v)

	_, err := IdentityAttribute("")
	requireConfigError(t, err, KindIdentityAttribute, "name")
}

func TestAccountAttribute(t *testing.T) {
	t.Run("optional parameters are omitted", func(t *testing.T) {
		n := mustNode(AccountAttribute(AccountAttributeParams{SourceName: "AD", AttributeName: "mail"}))
		assert.Equal(t, []string{"sourceName", "attributeName"}, paramNames(n))
	})

	t.Run("all parameters in order", func(t *testing.T) {
		n := mustNode(AccountAttribute(AccountAttributeParams{
			SourceName:      "AD",
			AttributeName:   "mail",
			SortAttribute:   "created",
			SortDescending:  ptr.To(false),
			ReturnFirstLink: ptr.To(true),
			PropertyFilter:  "(status == active)",
			Filter:          "!(nativeIdentity.startsWith(\"*DELETED*\"))",
		}))
		want := []string{
			"sourceName", "attributeName", "accountSortAttribute", "accountSortDescending",
			"accountReturnFirstLink", "accountPropertyFilter", "accountFilter",
		}
		assert.Equal(t, want, paramNames(n))
		v, _ := n.Param("accountSortDescending")
		assert.Equal(t, Bool(false), v)
	})

	t.Run("required parameters", func(t *testing.T) {
		_, err := AccountAttribute(AccountAttributeParams{AttributeName: "mail"})
		requireConfigError(t, err, KindAccountAttribute, "sourceName")
		_, err = AccountAttribute(AccountAttributeParams{SourceName: "AD"})
		requireConfigError(t, err, KindAccountAttribute, "attributeName")
	})
}

func TestFlattenText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single line kept verbatim", in: "Created by ISC ", want: "Created by ISC "},
		{name: "indented template", in: "#if( $x )\n    A\n#end", want: "#if( $x )A#end"},
		{name: "crlf and blank lines", in: "  a\r\n\r\n  b  \r\n", want: "ab"},
		{name: "only whitespace lines", in: "\n   \n", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FlattenText(tc.in))
		})
	}
}

func TestStatic(t *testing.T) {
	t.Run("single-line value keeps its spaces", func(t *testing.T) {
		n := mustNode(Static("Created by ISC "))
		v, _ := n.Param("value")
		assert.Equal(t, String("Created by ISC "), v)
	})

	t.Run("multi-line value is flattened", func(t *testing.T) {
		n := mustNode(Static("#if( $x )\n    A\n#end"))
		v, _ := n.Param("value")
		assert.Equal(t, String("#if( $x )A#end"), v)
	})

	t.Run("empty value is omitted", func(t *testing.T) {
		n := mustNode(Static(""))
		assert.Empty(t, n.Params())
		n = mustNode(Static("\n  \n"))
		assert.Empty(t, n.Params())
	})

	t.Run("variables precede value", func(t *testing.T) {
		email := mustNode(IdentityAttribute("email"))
		n := mustNode(Static("$mail", Var{Name: "mail", Value: email}))
		assert.Equal(t, []string{"mail", "value"}, paramNames(n))
	})

	t.Run("variable named value is rejected", func(t *testing.T) {
		_, err := Static("x", Var{Name: "value", Value: String("y")})
		requireConfigError(t, err, KindStatic, "variables")
	})
}

func TestConcat(t *testing.T) {
	a := mustNode(IdentityAttribute("firstname"))
	n := mustNode(Concat(a, String(" "), a))
	v, _ := n.Param("values")
	assert.Equal(t, List{a, String(" "), a}, v)

	_, err := Concat()
	requireConfigError(t, err, KindConcat, "values")

	_, err = Concat(String("x"), (*Node)(nil))
	requireConfigError(t, err, KindConcat, "values")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestConditional(t *testing.T) {
	domain := mustNode(IdentityAttribute("domain"))
	in := mustNode(Static("Interno"))
	out := mustNode(Static("Externo"))

	t.Run("extra variables follow fixed parameters in order", func(t *testing.T) {
		n := mustNode(Conditional(ConditionalParams{
			Expression:        "$domain eq company.com",
			PositiveCondition: in,
			NegativeCondition: out,
			ExtraVariables: []Var{
				{Name: "domain", Value: domain},
				{Name: "alt", Value: String("x")},
			},
		}))
		want := []string{"expression", "positiveCondition", "negativeCondition", "domain", "alt"}
		assert.Equal(t, want, paramNames(n))
		assert.False(t, n.RequiresPeriodicRefresh())
	})

	t.Run("refresh flag stays off the attributes", func(t *testing.T) {
		n := mustNode(Conditional(ConditionalParams{
			Expression:              "a eq b",
			PositiveCondition:       in,
			NegativeCondition:       out,
			RequiresPeriodicRefresh: true,
		}))
		assert.True(t, n.RequiresPeriodicRefresh())
		assert.Equal(t, []string{"expression", "positiveCondition", "negativeCondition"}, paramNames(n))
		assert.True(t, n.With("alt", String("x")).RequiresPeriodicRefresh())
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			p     ConditionalParams
			param string
		}{
			{name: "no expression", p: ConditionalParams{PositiveCondition: in, NegativeCondition: out}, param: "expression"},
			{name: "no positive", p: ConditionalParams{Expression: "a eq b", NegativeCondition: out}, param: "positiveCondition"},
			{name: "no negative", p: ConditionalParams{Expression: "a eq b", PositiveCondition: in}, param: "negativeCondition"},
			{
				name:  "variable shadows fixed parameter",
				p:     ConditionalParams{Expression: "a eq b", PositiveCondition: in, NegativeCondition: out, ExtraVariables: []Var{{Name: "expression", Value: domain}}},
				param: "extraVariables",
			},
			{
				name: "duplicate variable",
				p: ConditionalParams{Expression: "a eq b", PositiveCondition: in, NegativeCondition: out, ExtraVariables: []Var{
					{Name: "d", Value: domain}, {Name: "d", Value: domain},
				}},
				param: "extraVariables",
			},
			{
				name:  "variable without value",
				p:     ConditionalParams{Expression: "a eq b", PositiveCondition: in, NegativeCondition: out, ExtraVariables: []Var{{Name: "d"}}},
				param: "d",
			},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				n, err := Conditional(tc.p)
				assert.Nil(t, n)
				requireConfigError(t, err, KindConditional, tc.param)
			})
		}
	})
}

func TestDateCompare(t *testing.T) {
	first := mustNode(IdentityAttribute("endDate"))

	t.Run("defaults", func(t *testing.T) {
		n := mustNode(DateCompare(DateCompareParams{FirstDate: first, SecondDate: String("now"), Operator: "lte"}))
		assert.Equal(t, []string{"firstDate", "secondDate", "operator", "positiveCondition", "negativeCondition"}, paramNames(n))
		op, _ := n.Param("operator")
		assert.Equal(t, String("lte"), op)
		pos, _ := n.Param("positiveCondition")
		neg, _ := n.Param("negativeCondition")
		assert.Equal(t, String("yes"), pos)
		assert.Equal(t, String("no"), neg)
	})

	t.Run("operators", func(t *testing.T) {
		for _, op := range []string{"LT", "LTE", "GT", "GTE", "gt"} {
			_, err := DateCompare(DateCompareParams{FirstDate: first, SecondDate: String("now"), Operator: op})
			assert.NoError(t, err, op)
		}
		_, err := DateCompare(DateCompareParams{FirstDate: first, SecondDate: String("now"), Operator: "EQ"})
		requireConfigError(t, err, KindDateCompare, "operator")
		_, err = DateCompare(DateCompareParams{FirstDate: first, SecondDate: String("now")})
		requireConfigError(t, err, KindDateCompare, "operator")
	})

	t.Run("dates are required", func(t *testing.T) {
		_, err := DateCompare(DateCompareParams{SecondDate: String("now"), Operator: "LT"})
		requireConfigError(t, err, KindDateCompare, "firstDate")
		_, err = DateCompare(DateCompareParams{FirstDate: first, Operator: "LT"})
		requireConfigError(t, err, KindDateCompare, "secondDate")
	})
}

func TestDateFormatAndMath(t *testing.T) {
	n := mustNode(DateFormat(DateFormatParams{}))
	assert.Empty(t, n.Params())

	in := mustNode(DateMath(DateMathParams{Expression: "now"}))
	n = mustNode(DateFormat(DateFormatParams{InputFormat: "ISO8601", OutputFormat: "yyyy-MM-dd", Input: in}))
	assert.Equal(t, []string{"input", "inputFormat", "outputFormat"}, paramNames(n))

	n = mustNode(DateMath(DateMathParams{Expression: "now+1w", RoundUp: ptr.To(true), Input: String("2020")}))
	assert.Equal(t, []string{"roundUp", "input", "expression"}, paramNames(n))

	_, err := DateMath(DateMathParams{})
	requireConfigError(t, err, KindDateMath, "expression")
}

func TestFirstValid(t *testing.T) {
	a := mustNode(IdentityAttribute("a"))
	n := mustNode(FirstValid(FirstValidParams{Values: []Value{a, String("none")}}))
	assert.Equal(t, []string{"values"}, paramNames(n))

	n = mustNode(FirstValid(FirstValidParams{Values: []Value{a}, IgnoreErrors: ptr.To(true)}))
	assert.Equal(t, []string{"values", "ignoreErrors"}, paramNames(n))

	_, err := FirstValid(FirstValidParams{})
	requireConfigError(t, err, KindFirstValid, "values")
}

func TestLookup(t *testing.T) {
	t.Run("table is kept in order", func(t *testing.T) {
		table := StringTable("US", "United States", "BR", "Brazil", "default", "Unknown")
		n := mustNode(Lookup(table, nil))
		v, _ := n.Param("table")
		got := v.(*Table).Entries()
		want := []Entry{
			{Key: "US", Value: String("United States")},
			{Key: "BR", Value: String("Brazil")},
			{Key: "default", Value: String("Unknown")},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("table mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []string{"table"}, paramNames(n))
	})

	t.Run("missing default", func(t *testing.T) {
		_, err := Lookup(StringTable("US", "United States"), nil)
		requireConfigError(t, err, KindLookup, "table")
		assert.NotErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("nil table is malformed", func(t *testing.T) {
		_, err := Lookup(nil, nil)
		requireConfigError(t, err, KindLookup, "table")
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestRandom(t *testing.T) {
	for _, ctor := range []struct {
		kind Kind
		fn   func(int) (*Node, error)
	}{
		{KindRandomAlphaNumeric, RandomAlphaNumeric},
		{KindRandomNumeric, RandomNumeric},
	} {
		t.Run(string(ctor.kind), func(t *testing.T) {
			for _, length := range []int{1, DefaultRandomLength, MaxRandomLength} {
				n := mustNode(ctor.fn(length))
				assert.Equal(t, ctor.kind, n.Kind())
				v, _ := n.Param("length")
				assert.Equal(t, Int(length), v)
			}
			for _, length := range []int{-1, 0, MaxRandomLength + 1} {
				n, err := ctor.fn(length)
				assert.Nil(t, n)
				requireConfigError(t, err, ctor.kind, "length")
			}
		})
	}
}

func TestGenerateRandomString(t *testing.T) {
	n := mustNode(GenerateRandomString(GenerateRandomStringParams{Length: 8, IncludeSpecialChars: ptr.To(false)}))
	assert.Equal(t, KindRule, n.Kind())
	want := []Param{
		{Name: "name", Value: String(RuleLibrary)},
		{Name: "operation", Value: String("generateRandomString")},
		{Name: "length", Value: String("8")},
		{Name: "includeNumbers", Value: String("true")},
		{Name: "includeSpecialChars", Value: String("false")},
	}
	if diff := cmp.Diff(want, n.Params()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}

	_, err := GenerateRandomString(GenerateRandomStringParams{})
	requireConfigError(t, err, KindRule, "length")
}

func TestGetReferenceIdentityAttribute(t *testing.T) {
	n := mustNode(GetReferenceIdentityAttribute("manager", "email"))
	assert.Equal(t, []string{"name", "operation", "uid", "attributeName"}, paramNames(n))

	_, err := GetReferenceIdentityAttribute("", "email")
	requireConfigError(t, err, KindRule, "uid")
	_, err = GetReferenceIdentityAttribute("manager", "")
	requireConfigError(t, err, KindRule, "attributeName")
}

func TestPadding(t *testing.T) {
	n := mustNode(LeftPad(PadParams{Length: 6}))
	assert.Equal(t, KindLeftPad, n.Kind())
	v, _ := n.Param("padding")
	assert.Equal(t, String(" "), v)
	assert.Equal(t, []string{"length", "padding"}, paramNames(n))

	n = mustNode(RightPad(PadParams{Length: 6, Padding: "0", Input: String("42")}))
	assert.Equal(t, []string{"length", "padding", "input"}, paramNames(n))

	_, err := RightPad(PadParams{})
	requireConfigError(t, err, KindRightPad, "length")
}

func TestReplace(t *testing.T) {
	n := mustNode(Replace("[^a-z]", "", nil))
	v, ok := n.Param("replacement")
	require.True(t, ok)
	assert.Equal(t, String(""), v)

	_, err := Replace("", "x", nil)
	requireConfigError(t, err, KindReplace, "regex")

	n = mustNode(ReplaceAll(StringTable("-", " ", "\\.", ""), String("a-b.c")))
	assert.Equal(t, []string{"table", "input"}, paramNames(n))

	_, err = ReplaceAll(NewTable(), nil)
	requireConfigError(t, err, KindReplaceAll, "table")
	_, err = ReplaceAll(nil, nil)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestSplitAndSubstring(t *testing.T) {
	n := mustNode(Split(SplitParams{Delimiter: "@", Index: 1}))
	assert.Equal(t, []string{"delimiter", "index", "throws"}, paramNames(n))
	v, _ := n.Param("throws")
	assert.Equal(t, Bool(true), v)

	n = mustNode(Split(SplitParams{Delimiter: ",", Index: 0, Input: String("a,b"), Throws: ptr.To(false)}))
	assert.Equal(t, []string{"delimiter", "index", "input", "throws"}, paramNames(n))

	_, err := Split(SplitParams{Index: 1})
	requireConfigError(t, err, KindSplit, "delimiter")

	n = mustNode(Substring(SubstringParams{Begin: 0}))
	assert.Equal(t, []string{"begin"}, paramNames(n))
	n = mustNode(Substring(SubstringParams{Begin: 1, End: ptr.To(3), EndOffset: ptr.To(1), Input: String("abcdef")}))
	assert.Equal(t, []string{"begin", "end", "endOffset", "input"}, paramNames(n))
}

func TestInputOnlyKinds(t *testing.T) {
	in := mustNode(IdentityAttribute("lastname"))
	for _, tc := range []struct {
		kind Kind
		fn   func(Value) (*Node, error)
	}{
		{KindLower, Lower},
		{KindUpper, Upper},
		{KindTrim, Trim},
		{KindNormalizeNames, NormalizeNames},
	} {
		t.Run(string(tc.kind), func(t *testing.T) {
			n := mustNode(tc.fn(nil))
			assert.Equal(t, tc.kind, n.Kind())
			assert.Empty(t, n.Params())
			n = mustNode(tc.fn(in))
			assert.Equal(t, []string{"input"}, paramNames(n))
		})
	}
}

func TestReference(t *testing.T) {
	n := mustNode(Reference("Cleanup Name", String("x")))
	assert.Equal(t, []string{"id", "input"}, paramNames(n))
	_, err := Reference("", nil)
	requireConfigError(t, err, KindReference, "id")
}

func TestNewUsernameGenerator(t *testing.T) {
	fn := mustNode(IdentityAttribute("firstname"))
	ln := mustNode(IdentityAttribute("lastname"))

	u, err := NewUsernameGenerator(UsernameGeneratorParams{
		Patterns:  []string{"$fn.$ln", "$fn.$ln${uniqueCounter}"},
		Variables: []Var{{Name: "fn", Value: fn}, {Name: "ln", Value: ln}},
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeEnvelope, u.Shape())
	assert.Equal(t, KindUsernameGenerator, u.Transform().Kind())
	assert.Equal(t, []string{"sourceCheck", "patterns", "fn", "ln"}, paramNames(u.Transform()))
	assert.Equal(t, DefaultCloudMaxSize, u.CloudMaxSize())
	assert.Equal(t, DefaultCloudMaxUniqueChecks, u.CloudMaxUniqueChecks())

	want := []Entry{
		{Key: "cloudMaxSize", Value: String("255")},
		{Key: "cloudMaxUniqueChecks", Value: String("50")},
		{Key: "cloudRequired", Value: String("true")},
	}
	if diff := cmp.Diff(want, u.Attributes().Entries()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, u.IsRequired())
	assert.False(t, u.IsMultiValued())
	assert.Equal(t, "string", u.AttributeType())

	u, err = NewUsernameGenerator(UsernameGeneratorParams{Patterns: []string{"$x"}, SourceCheck: ptr.To(false), CloudMaxSize: 20, CloudMaxUniqueChecks: 5})
	require.NoError(t, err)
	v, _ := u.Transform().Param("sourceCheck")
	assert.Equal(t, Bool(false), v)
	assert.Equal(t, String("20"), must(u.Attributes().Get("cloudMaxSize")))

	_, err = NewUsernameGenerator(UsernameGeneratorParams{})
	requireConfigError(t, err, KindUsernameGenerator, "patterns")
	_, err = NewUsernameGenerator(UsernameGeneratorParams{Patterns: []string{"$x"}, Variables: []Var{{Name: "patterns", Value: fn}}})
	requireConfigError(t, err, KindUsernameGenerator, "variables")
}

func must(v Value, _ bool) Value { return v }
