// Package functions defines the functions available in transform files: one
// transform function per constructor of the transform package, and a small
// set of scalar helpers from go-cty's standard library.
package functions
