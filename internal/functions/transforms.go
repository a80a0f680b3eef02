package functions

import (
	"k8s.io/utils/ptr"

	"github.com/specialistvlad/isctransform/internal/registry"
	"github.com/specialistvlad/isctransform/transform"
)

// Transforms registers every transform constructor.
type Transforms struct{}

// Register implements registry.Module.
func (Transforms) Register(r *registry.Registry) {
	for _, fn := range transformFunctions() {
		r.Register(fn)
	}
}

func required(name, hclName string, t registry.ParamType) registry.Param {
	return registry.Param{Name: name, HCLName: hclName, Type: t, Required: true}
}

func optional(name, hclName string, t registry.ParamType) registry.Param {
	return registry.Param{Name: name, HCLName: hclName, Type: t}
}

var input = optional("input", "input", registry.TypeValue)

func node(n *transform.Node, err error) (transform.Buildable, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func inputOnly(name string, kind transform.Kind, desc string, ctor func(transform.Value) (*transform.Node, error)) *registry.Function {
	return &registry.Function{
		Name:        name,
		Kind:        kind,
		Description: desc,
		Params:      []registry.Param{input},
		Build: func(a registry.Args) (transform.Buildable, error) {
			return node(ctor(a.Value("input")))
		},
	}
}

func pad(name string, kind transform.Kind, desc string, ctor func(transform.PadParams) (*transform.Node, error)) *registry.Function {
	return &registry.Function{
		Name:        name,
		Kind:        kind,
		Description: desc,
		Params: []registry.Param{
			required("length", "length", registry.TypeInt),
			optional("padding", "padding", registry.TypeString),
			input,
		},
		Build: func(a registry.Args) (transform.Buildable, error) {
			return node(ctor(transform.PadParams{Length: a.Int("length"), Padding: a.String("padding"), Input: a.Value("input")}))
		},
	}
}

func random(name string, kind transform.Kind, desc string, ctor func(int) (*transform.Node, error)) *registry.Function {
	return &registry.Function{
		Name:        name,
		Kind:        kind,
		Description: desc,
		Params:      []registry.Param{optional("length", "length", registry.TypeInt)},
		Build: func(a registry.Args) (transform.Buildable, error) {
			length := transform.DefaultRandomLength
			if a.Has("length") {
				length = a.Int("length")
			}
			return node(ctor(length))
		},
	}
}

func transformFunctions() []*registry.Function {
	return []*registry.Function{
		{
			Name:        "accountAttribute",
			Kind:        transform.KindAccountAttribute,
			Description: "Reads an attribute from an account on a source.",
			Params: []registry.Param{
				required("sourceName", "source_name", registry.TypeString),
				required("attributeName", "attribute_name", registry.TypeString),
				optional("accountSortAttribute", "account_sort_attribute", registry.TypeString),
				optional("accountSortDescending", "account_sort_descending", registry.TypeBool),
				optional("accountReturnFirstLink", "account_return_first_link", registry.TypeBool),
				optional("accountPropertyFilter", "account_property_filter", registry.TypeString),
				optional("accountFilter", "account_filter", registry.TypeString),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.AccountAttribute(transform.AccountAttributeParams{
					SourceName:      a.String("sourceName"),
					AttributeName:   a.String("attributeName"),
					SortAttribute:   a.String("accountSortAttribute"),
					SortDescending:  a.BoolPtr("accountSortDescending"),
					ReturnFirstLink: a.BoolPtr("accountReturnFirstLink"),
					PropertyFilter:  a.String("accountPropertyFilter"),
					Filter:          a.String("accountFilter"),
				}))
			},
		},
		{
			Name:        "concat",
			Kind:        transform.KindConcat,
			Description: "Joins values in order.",
			Params:      []registry.Param{required("values", "values", registry.TypeList)},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Concat(a.List("values")...))
			},
		},
		{
			Name:        "conditional",
			Kind:        transform.KindConditional,
			Description: "Yields one of two values depending on an expression.",
			Params: []registry.Param{
				required("expression", "expression", registry.TypeString),
				required("positiveCondition", "positive_condition", registry.TypeValue),
				required("negativeCondition", "negative_condition", registry.TypeValue),
				optional("extraVariables", "variables", registry.TypeVars),
				optional("requiresPeriodicRefresh", "requires_periodic_refresh", registry.TypeBool),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Conditional(transform.ConditionalParams{
					Expression:              a.String("expression"),
					PositiveCondition:       a.Value("positiveCondition"),
					NegativeCondition:       a.Value("negativeCondition"),
					ExtraVariables:          a.Vars("extraVariables"),
					RequiresPeriodicRefresh: ptr.Deref(a.BoolPtr("requiresPeriodicRefresh"), false),
				}))
			},
		},
		{
			Name:        "dateCompare",
			Kind:        transform.KindDateCompare,
			Description: "Compares two dates with LT, LTE, GT or GTE.",
			Params: []registry.Param{
				required("firstDate", "first_date", registry.TypeValue),
				required("secondDate", "second_date", registry.TypeValue),
				required("operator", "operator", registry.TypeString),
				optional("positiveCondition", "positive_condition", registry.TypeValue),
				optional("negativeCondition", "negative_condition", registry.TypeValue),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.DateCompare(transform.DateCompareParams{
					FirstDate:         a.Value("firstDate"),
					SecondDate:        a.Value("secondDate"),
					Operator:          a.String("operator"),
					PositiveCondition: a.Value("positiveCondition"),
					NegativeCondition: a.Value("negativeCondition"),
				}))
			},
		},
		{
			Name:        "dateFormat",
			Kind:        transform.KindDateFormat,
			Description: "Converts a date between formats.",
			Params: []registry.Param{
				optional("inputFormat", "input_format", registry.TypeString),
				optional("outputFormat", "output_format", registry.TypeString),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.DateFormat(transform.DateFormatParams{
					InputFormat:  a.String("inputFormat"),
					OutputFormat: a.String("outputFormat"),
					Input:        a.Value("input"),
				}))
			},
		},
		{
			Name:        "dateMath",
			Kind:        transform.KindDateMath,
			Description: "Adds, subtracts or rounds a date.",
			Params: []registry.Param{
				required("expression", "expression", registry.TypeString),
				optional("roundUp", "round_up", registry.TypeBool),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.DateMath(transform.DateMathParams{
					Expression: a.String("expression"),
					RoundUp:    a.BoolPtr("roundUp"),
					Input:      a.Value("input"),
				}))
			},
		},
		{
			Name:        "firstValid",
			Kind:        transform.KindFirstValid,
			Description: "Yields the first value that is not null.",
			Params: []registry.Param{
				required("values", "values", registry.TypeList),
				optional("ignoreErrors", "ignore_errors", registry.TypeBool),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.FirstValid(transform.FirstValidParams{
					Values:       a.List("values"),
					IgnoreErrors: a.BoolPtr("ignoreErrors"),
				}))
			},
		},
		{
			Name:        "generateRandomString",
			Kind:        transform.KindRule,
			Description: "Generates a random string through the rule library.",
			Params: []registry.Param{
				required("length", "length", registry.TypeInt),
				optional("includeNumbers", "include_numbers", registry.TypeBool),
				optional("includeSpecialChars", "include_special_chars", registry.TypeBool),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.GenerateRandomString(transform.GenerateRandomStringParams{
					Length:              a.Int("length"),
					IncludeNumbers:      a.BoolPtr("includeNumbers"),
					IncludeSpecialChars: a.BoolPtr("includeSpecialChars"),
				}))
			},
		},
		{
			Name:        "getReferenceIdentityAttribute",
			Kind:        transform.KindRule,
			Description: "Reads an attribute of a referenced identity, such as the manager.",
			Params: []registry.Param{
				required("uid", "uid", registry.TypeString),
				required("attributeName", "attribute_name", registry.TypeString),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.GetReferenceIdentityAttribute(a.String("uid"), a.String("attributeName")))
			},
		},
		{
			Name:        "identityAttribute",
			Kind:        transform.KindIdentityAttribute,
			Description: "Reads an identity attribute by its system name.",
			Params:      []registry.Param{required("name", "name", registry.TypeString)},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.IdentityAttribute(a.String("name")))
			},
		},
		pad("leftPad", transform.KindLeftPad, "Pads the input on the left.", transform.LeftPad),
		{
			Name:        "lookup",
			Kind:        transform.KindLookup,
			Description: "Maps the input through a table with a default entry.",
			Params: []registry.Param{
				required("table", "table", registry.TypeTable),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Lookup(a.Table("table"), a.Value("input")))
			},
		},
		inputOnly("lower", transform.KindLower, "Lower-cases the input.", transform.Lower),
		inputOnly("normalizeNames", transform.KindNormalizeNames, "Normalizes the capitalization of a name.", transform.NormalizeNames),
		random("randomAlphaNumeric", transform.KindRandomAlphaNumeric, "Generates random letters and digits.", transform.RandomAlphaNumeric),
		random("randomNumeric", transform.KindRandomNumeric, "Generates random digits.", transform.RandomNumeric),
		{
			Name:        "reference",
			Kind:        transform.KindReference,
			Description: "Runs another deployed transform by id.",
			Params: []registry.Param{
				required("id", "id", registry.TypeString),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Reference(a.String("id"), a.Value("input")))
			},
		},
		{
			Name:        "replace",
			Kind:        transform.KindReplace,
			Description: "Replaces every match of a regex.",
			Params: []registry.Param{
				required("regex", "regex", registry.TypeString),
				required("replacement", "replacement", registry.TypeString),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Replace(a.String("regex"), a.String("replacement"), a.Value("input")))
			},
		},
		{
			Name:        "replaceAll",
			Kind:        transform.KindReplaceAll,
			Description: "Applies a table of regex replacements.",
			Params: []registry.Param{
				required("table", "table", registry.TypeTable),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.ReplaceAll(a.Table("table"), a.Value("input")))
			},
		},
		pad("rightPad", transform.KindRightPad, "Pads the input on the right.", transform.RightPad),
		{
			Name:        "split",
			Kind:        transform.KindSplit,
			Description: "Splits the input and yields one element.",
			Params: []registry.Param{
				required("delimiter", "delimiter", registry.TypeString),
				required("index", "index", registry.TypeInt),
				input,
				optional("throws", "throws", registry.TypeBool),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Split(transform.SplitParams{
					Delimiter: a.String("delimiter"),
					Index:     a.Int("index"),
					Input:     a.Value("input"),
					Throws:    a.BoolPtr("throws"),
				}))
			},
		},
		{
			Name:        "static",
			Kind:        transform.KindStatic,
			Description: "Yields a fixed value or a velocity template.",
			Params: []registry.Param{
				required("value", "value", registry.TypeString),
				optional("variables", "variables", registry.TypeVars),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Static(a.String("value"), a.Vars("variables")...))
			},
		},
		{
			Name:        "substring",
			Kind:        transform.KindSubstring,
			Description: "Extracts part of the input.",
			Params: []registry.Param{
				required("begin", "begin", registry.TypeInt),
				optional("end", "end", registry.TypeInt),
				optional("beginOffset", "begin_offset", registry.TypeInt),
				optional("endOffset", "end_offset", registry.TypeInt),
				input,
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				return node(transform.Substring(transform.SubstringParams{
					Begin:       a.Int("begin"),
					End:         a.IntPtr("end"),
					BeginOffset: a.IntPtr("beginOffset"),
					EndOffset:   a.IntPtr("endOffset"),
					Input:       a.Value("input"),
				}))
			},
		},
		inputOnly("trim", transform.KindTrim, "Trims surrounding whitespace.", transform.Trim),
		inputOnly("upper", transform.KindUpper, "Upper-cases the input.", transform.Upper),
		{
			Name:        "usernameGenerator",
			Kind:        transform.KindUsernameGenerator,
			Description: "Generates a unique account name from patterns.",
			Params: []registry.Param{
				required("patterns", "patterns", registry.TypeStrings),
				optional("sourceCheck", "source_check", registry.TypeBool),
				optional("cloudMaxSize", "cloud_max_size", registry.TypeInt),
				optional("cloudMaxUniqueChecks", "cloud_max_unique_checks", registry.TypeInt),
				optional("variables", "variables", registry.TypeVars),
			},
			Build: func(a registry.Args) (transform.Buildable, error) {
				u, err := transform.NewUsernameGenerator(transform.UsernameGeneratorParams{
					Patterns:             a.Strings("patterns"),
					SourceCheck:          a.BoolPtr("sourceCheck"),
					CloudMaxSize:         a.Int("cloudMaxSize"),
					CloudMaxUniqueChecks: a.Int("cloudMaxUniqueChecks"),
					Variables:            a.Vars("variables"),
				})
				if err != nil {
					return nil, err
				}
				return u, nil
			},
		},
	}
}
