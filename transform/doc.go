// Package transform builds the nodes of an identity-platform attribute
// transform expression tree.
//
// Every supported transform kind has one constructor. A constructor validates
// its parameters, fails with a *ConfigError when something required is
// missing or malformed, and otherwise returns an immutable *Node. Nodes are
// composed bottom-up: leaf constructors such as IdentityAttribute or Static
// take literal parameters, while combinators such as Concat, Conditional or
// Lookup accept already-built nodes as their inputs.
//
//	email, _ := transform.IdentityAttribute("email")
//	domain, _ := transform.Split(transform.SplitParams{Delimiter: "@", Index: 1, Input: email})
//
// A node may be reused at any number of positions. It is never shared in the
// serialized output: every occurrence is written as a full copy.
//
// The username generator is the one kind that does not produce a plain node.
// NewUsernameGenerator returns a *UsernameGenerator envelope that layers
// provisioning metadata around the inner node. Both shapes satisfy Buildable,
// which is what the document package assembles and serializes.
package transform
