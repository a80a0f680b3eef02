package transform

import (
	"slices"
	"strings"
)

// Comparison operators accepted by DateCompare.
const (
	OperatorLT  = "LT"
	OperatorLTE = "LTE"
	OperatorGT  = "GT"
	OperatorGTE = "GTE"
)

var dateOperators = []string{OperatorLT, OperatorLTE, OperatorGT, OperatorGTE}

// DateCompareParams configures a dateCompare node. Empty conditions fall
// back to "yes" and "no".
type DateCompareParams struct {
	FirstDate         Value
	SecondDate        Value
	Operator          string
	PositiveCondition Value
	NegativeCondition Value
}

// DateCompare compares two dates with Operator.
func DateCompare(p DateCompareParams) (*Node, error) {
	if isAbsent(p.FirstDate) {
		return nil, missing(KindDateCompare, "firstDate")
	}
	if isAbsent(p.SecondDate) {
		return nil, missing(KindDateCompare, "secondDate")
	}
	if p.Operator == "" {
		return nil, missing(KindDateCompare, "operator")
	}
	if !slices.Contains(dateOperators, strings.ToUpper(p.Operator)) {
		return nil, invalid(KindDateCompare, "operator", "must be one of %s, got %q", strings.Join(dateOperators, ", "), p.Operator)
	}
	positive, negative := p.PositiveCondition, p.NegativeCondition
	if isAbsent(positive) {
		positive = String("yes")
	}
	if isAbsent(negative) {
		negative = String("no")
	}
	b := newBuilder(KindDateCompare).
		set("firstDate", p.FirstDate).
		set("secondDate", p.SecondDate).
		set("operator", String(p.Operator)).
		set("positiveCondition", positive).
		set("negativeCondition", negative)
	return b.node(), nil
}

// DateFormatParams configures a dateFormat node. Every field is optional.
type DateFormatParams struct {
	InputFormat  string
	OutputFormat string
	Input        Value
}

// DateFormat converts a date between formats.
func DateFormat(p DateFormatParams) (*Node, error) {
	b := newBuilder(KindDateFormat).
		setOptional("input", p.Input).
		setOptional("inputFormat", optionalString(p.InputFormat)).
		setOptional("outputFormat", optionalString(p.OutputFormat))
	return b.node(), nil
}

// DateMathParams configures a dateMath node.
type DateMathParams struct {
	Expression string
	RoundUp    *bool
	Input      Value
}

// DateMath adds, subtracts or rounds a date according to Expression, e.g. "now+1w/d".
func DateMath(p DateMathParams) (*Node, error) {
	if p.Expression == "" {
		return nil, missing(KindDateMath, "expression")
	}
	b := newBuilder(KindDateMath).
		setOptional("roundUp", optionalBool(p.RoundUp)).
		setOptional("input", p.Input).
		set("expression", String(p.Expression))
	return b.node(), nil
}
