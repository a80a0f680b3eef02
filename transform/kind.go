package transform

import "slices"

// Kind is the type tag of a transform node, as the identity platform spells it.
type Kind string

const (
	KindAccountAttribute   Kind = "accountAttribute"
	KindConcat             Kind = "concat"
	KindConditional        Kind = "conditional"
	KindDateCompare        Kind = "dateCompare"
	KindDateFormat         Kind = "dateFormat"
	KindDateMath           Kind = "dateMath"
	KindFirstValid         Kind = "firstValid"
	KindIdentityAttribute  Kind = "identityAttribute"
	KindLeftPad            Kind = "leftPad"
	KindLookup             Kind = "lookup"
	KindLower              Kind = "lower"
	KindNormalizeNames     Kind = "normalizeNames"
	KindRandomAlphaNumeric Kind = "randomAlphaNumeric"
	KindRandomNumeric      Kind = "randomNumeric"
	KindReference          Kind = "reference"
	KindReplace            Kind = "replace"
	KindReplaceAll         Kind = "replaceAll"
	KindRightPad           Kind = "rightPad"
	KindRule               Kind = "rule"
	KindSplit              Kind = "split"
	KindStatic             Kind = "static"
	KindSubstring          Kind = "substring"
	KindTrim               Kind = "trim"
	KindUpper              Kind = "upper"
	KindUsernameGenerator  Kind = "usernameGenerator"
)

// layout describes how a kind is laid out when serialized.
type layout struct {
	// typeFirst puts the "type" member ahead of "attributes".
	typeFirst bool
	// omitEmpty drops the "attributes" member when there are no parameters.
	omitEmpty bool
}

var layouts = map[Kind]layout{
	KindAccountAttribute:   {},
	KindConcat:             {},
	KindConditional:        {},
	KindDateCompare:        {},
	KindDateFormat:         {},
	KindDateMath:           {},
	KindFirstValid:         {},
	KindIdentityAttribute:  {},
	KindLeftPad:            {typeFirst: true},
	KindLookup:             {typeFirst: true},
	KindLower:              {},
	KindNormalizeNames:     {typeFirst: true, omitEmpty: true},
	KindRandomAlphaNumeric: {},
	KindRandomNumeric:      {},
	KindReference:          {},
	KindReplace:            {},
	KindReplaceAll:         {},
	KindRightPad:           {typeFirst: true},
	KindRule:               {},
	KindSplit:              {typeFirst: true},
	KindStatic:             {},
	KindSubstring:          {typeFirst: true},
	KindTrim:               {typeFirst: true, omitEmpty: true},
	KindUpper:              {typeFirst: true},
	KindUsernameGenerator:  {typeFirst: true},
}

// Kinds returns every supported kind in lexical order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(layouts))
	for k := range layouts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Valid reports whether k belongs to the closed set of supported kinds.
func (k Kind) Valid() bool {
	_, ok := layouts[k]
	return ok
}

// TypeFirst reports whether the serialized node lists "type" before "attributes".
func (k Kind) TypeFirst() bool { return layouts[k].typeFirst }

// OmitsEmptyAttributes reports whether a node of this kind drops its
// "attributes" member entirely when it carries no parameters.
func (k Kind) OmitsEmptyAttributes() bool { return layouts[k].omitEmpty }

func (k Kind) String() string { return string(k) }
