package transform

// RuleLibrary is the name of the platform rule that backs the rule-based
// operations (getReferenceIdentityAttribute, generateRandomString).
const RuleLibrary = "Cloud Services Deployment Utility"

// IdentityAttribute reads an identity attribute by its system (camel-cased) name.
func IdentityAttribute(name string) (*Node, error) {
	if name == "" {
		return nil, missing(KindIdentityAttribute, "name")
	}
	return newBuilder(KindIdentityAttribute).set("name", String(name)).node(), nil
}

// AccountAttributeParams configures an accountAttribute node. Zero-valued
// optional fields are left out of the node.
type AccountAttributeParams struct {
	SourceName      string
	AttributeName   string
	SortAttribute   string
	SortDescending  *bool
	ReturnFirstLink *bool
	PropertyFilter  string
	Filter          string
}

// AccountAttribute reads an attribute from an account on the named source.
func AccountAttribute(p AccountAttributeParams) (*Node, error) {
	if p.SourceName == "" {
		return nil, missing(KindAccountAttribute, "sourceName")
	}
	if p.AttributeName == "" {
		return nil, missing(KindAccountAttribute, "attributeName")
	}
	b := newBuilder(KindAccountAttribute).
		set("sourceName", String(p.SourceName)).
		set("attributeName", String(p.AttributeName)).
		setOptional("accountSortAttribute", optionalString(p.SortAttribute)).
		setOptional("accountSortDescending", optionalBool(p.SortDescending)).
		setOptional("accountReturnFirstLink", optionalBool(p.ReturnFirstLink)).
		setOptional("accountPropertyFilter", optionalString(p.PropertyFilter)).
		setOptional("accountFilter", optionalString(p.Filter))
	return b.node(), nil
}

// Reference runs another, already deployed transform by its id.
func Reference(id string, input Value) (*Node, error) {
	if id == "" {
		return nil, missing(KindReference, "id")
	}
	return newBuilder(KindReference).set("id", String(id)).setOptional("input", input).node(), nil
}

// GetReferenceIdentityAttribute reads an attribute of a referenced identity,
// e.g. the manager, through the rule library.
func GetReferenceIdentityAttribute(uid, attributeName string) (*Node, error) {
	if uid == "" {
		return nil, missing(KindRule, "uid")
	}
	if attributeName == "" {
		return nil, missing(KindRule, "attributeName")
	}
	b := newBuilder(KindRule).
		set("name", String(RuleLibrary)).
		set("operation", String("getReferenceIdentityAttribute")).
		set("uid", String(uid)).
		set("attributeName", String(attributeName))
	return b.node(), nil
}
