// Package hclload reads transform definitions written in HCL.
//
// A configuration is one or more .hcl files. Files may declare `locals`
// blocks, whose attributes can refer to each other in any order and across
// files, `transform "<name>"` blocks, each holding a `root` expression and an
// optional `requires_periodic_refresh` flag, and at most one `defaults` block
// per file that supplies the flag for the transforms of that file.
//
// Expressions are evaluated in two ways. Calls to registered transform
// functions, object literals, tuples and references to locals are walked
// directly so that nodes can be passed around and object literals keep their
// source order. Everything else is plain HCL evaluated with go-cty and turned
// into a scalar transform value.
package hclload
