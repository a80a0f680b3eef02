package transform

import (
	"strings"

	"k8s.io/utils/ptr"
)

// FlattenText collapses a multi-line literal into a single line: every line
// is trimmed of surrounding whitespace and the lines are joined without a
// separator. Text without line breaks is returned unchanged.
func FlattenText(s string) string {
	if !strings.ContainsFunc(s, isLineBreak) {
		return s
	}
	var sb strings.Builder
	for _, line := range strings.FieldsFunc(s, isLineBreak) {
		sb.WriteString(strings.TrimSpace(line))
	}
	return sb.String()
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Static returns a fixed value or a velocity template. Variables are named
// sub-expressions the template can refer to; they precede the value. An empty
// value is left out of the node.
func Static(value string, vars ...Var) (*Node, error) {
	b := newBuilder(KindStatic)
	if err := b.vars("variables", vars, "value"); err != nil {
		return nil, err
	}
	b.setOptional("value", optionalString(FlattenText(value)))
	return b.node(), nil
}

// Concat joins the values in order.
func Concat(values ...Value) (*Node, error) {
	if len(values) == 0 {
		return nil, missing(KindConcat, "values")
	}
	for i, v := range values {
		if isAbsent(v) {
			return nil, malformed(KindConcat, "values", "element %d is empty", i)
		}
	}
	return newBuilder(KindConcat).set("values", List(values)).node(), nil
}

// Lower lower-cases its input.
func Lower(input Value) (*Node, error) {
	return newBuilder(KindLower).setOptional("input", input).node(), nil
}

// Upper upper-cases its input.
func Upper(input Value) (*Node, error) {
	return newBuilder(KindUpper).setOptional("input", input).node(), nil
}

// Trim removes leading and trailing whitespace from its input.
func Trim(input Value) (*Node, error) {
	return newBuilder(KindTrim).setOptional("input", input).node(), nil
}

// NormalizeNames normalizes the capitalization of a person's name.
func NormalizeNames(input Value) (*Node, error) {
	return newBuilder(KindNormalizeNames).setOptional("input", input).node(), nil
}

// DefaultPadding is the pad character used when PadParams.Padding is empty.
const DefaultPadding = " "

// PadParams configures leftPad and rightPad nodes.
type PadParams struct {
	Length  int
	Padding string
	Input   Value
}

// LeftPad pads its input on the left up to Length characters.
func LeftPad(p PadParams) (*Node, error) { return pad(KindLeftPad, p) }

// RightPad pads its input on the right up to Length characters.
func RightPad(p PadParams) (*Node, error) { return pad(KindRightPad, p) }

func pad(kind Kind, p PadParams) (*Node, error) {
	if p.Length <= 0 {
		return nil, invalid(kind, "length", "must be a positive integer, got %d", p.Length)
	}
	padding := p.Padding
	if padding == "" {
		padding = DefaultPadding
	}
	b := newBuilder(kind).
		set("length", Int(p.Length)).
		set("padding", String(padding)).
		setOptional("input", p.Input)
	return b.node(), nil
}

// Replace substitutes every match of regex in its input. An empty
// replacement deletes the matches.
func Replace(regex, replacement string, input Value) (*Node, error) {
	if regex == "" {
		return nil, missing(KindReplace, "regex")
	}
	b := newBuilder(KindReplace).
		set("regex", String(regex)).
		set("replacement", String(replacement)).
		setOptional("input", input)
	return b.node(), nil
}

// ReplaceAll applies every regex/replacement pair of table to its input.
func ReplaceAll(table *Table, input Value) (*Node, error) {
	if table == nil {
		return nil, malformed(KindReplaceAll, "table", "must be a mapping of regex to replacement")
	}
	if table.Len() == 0 {
		return nil, invalid(KindReplaceAll, "table", "must contain at least one regex-replacement pair")
	}
	return newBuilder(KindReplaceAll).set("table", table).setOptional("input", input).node(), nil
}

// SplitParams configures a split node. Throws defaults to true.
type SplitParams struct {
	Delimiter string
	Index     int
	Input     Value
	Throws    *bool
}

// Split cuts its input at Delimiter and returns the element at Index.
func Split(p SplitParams) (*Node, error) {
	if p.Delimiter == "" {
		return nil, missing(KindSplit, "delimiter")
	}
	b := newBuilder(KindSplit).
		set("delimiter", String(p.Delimiter)).
		set("index", Int(p.Index)).
		setOptional("input", p.Input).
		set("throws", Bool(ptr.Deref(p.Throws, true)))
	return b.node(), nil
}

// SubstringParams configures a substring node. Nil fields are left out.
type SubstringParams struct {
	Begin       int
	End         *int
	BeginOffset *int
	EndOffset   *int
	Input       Value
}

// Substring extracts the characters between Begin and End of its input.
func Substring(p SubstringParams) (*Node, error) {
	b := newBuilder(KindSubstring).
		set("begin", Int(p.Begin)).
		setOptional("end", optionalInt(p.End)).
		setOptional("beginOffset", optionalInt(p.BeginOffset)).
		setOptional("endOffset", optionalInt(p.EndOffset)).
		setOptional("input", p.Input)
	return b.node(), nil
}
