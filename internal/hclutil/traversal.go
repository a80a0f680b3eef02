package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// LocalsRoot is the root name under which locals are referenced.
const LocalsRoot = "local"

// TraversalKey renders a traversal the way it is written in source, e.g.
// local.email, for use as a map key or in messages.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// LocalName returns the local a traversal refers to: "email" for
// local.email or local.email.x. ok is false for any other traversal.
func LocalName(t hcl.Traversal) (name string, ok bool) {
	if len(t) < 2 || t.RootName() != LocalsRoot {
		return "", false
	}
	attr, isAttr := t[1].(hcl.TraverseAttr)
	if !isAttr {
		return "", false
	}
	return attr.Name, true
}
