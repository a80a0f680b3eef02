package transform

// ConditionalParams configures a conditional node. ExtraVariables are named
// sub-expressions the expression can refer to; they follow the three fixed
// parameters in the order given. RequiresPeriodicRefresh marks the node
// itself for reevaluation during the nightly identity refresh.
type ConditionalParams struct {
	Expression              string
	PositiveCondition       Value
	NegativeCondition       Value
	ExtraVariables          []Var
	RequiresPeriodicRefresh bool
}

// Conditional evaluates Expression and yields one of the two conditions.
func Conditional(p ConditionalParams) (*Node, error) {
	if p.Expression == "" {
		return nil, missing(KindConditional, "expression")
	}
	if isAbsent(p.PositiveCondition) {
		return nil, missing(KindConditional, "positiveCondition")
	}
	if isAbsent(p.NegativeCondition) {
		return nil, missing(KindConditional, "negativeCondition")
	}
	b := newBuilder(KindConditional).
		set("expression", String(p.Expression)).
		set("positiveCondition", p.PositiveCondition).
		set("negativeCondition", p.NegativeCondition)
	if err := b.vars("extraVariables", p.ExtraVariables); err != nil {
		return nil, err
	}
	b.refresh = p.RequiresPeriodicRefresh
	return b.node(), nil
}

// FirstValidParams configures a firstValid node.
type FirstValidParams struct {
	Values       []Value
	IgnoreErrors *bool
}

// FirstValid yields the first of Values that is not null.
func FirstValid(p FirstValidParams) (*Node, error) {
	if len(p.Values) == 0 {
		return nil, missing(KindFirstValid, "values")
	}
	for i, v := range p.Values {
		if isAbsent(v) {
			return nil, malformed(KindFirstValid, "values", "element %d is empty", i)
		}
	}
	b := newBuilder(KindFirstValid).
		set("values", List(p.Values)).
		setOptional("ignoreErrors", optionalBool(p.IgnoreErrors))
	return b.node(), nil
}

// LookupDefaultKey is the table entry used when no other key matches.
const LookupDefaultKey = "default"

// Lookup maps its input through table. The table must hold a "default" entry.
func Lookup(table *Table, input Value) (*Node, error) {
	if table == nil {
		return nil, malformed(KindLookup, "table", "must be a mapping")
	}
	if !table.Has(LookupDefaultKey) {
		return nil, invalid(KindLookup, "table", "must include a %q key for unmatched values", LookupDefaultKey)
	}
	return newBuilder(KindLookup).set("table", table).setOptional("input", input).node(), nil
}
