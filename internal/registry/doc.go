// Package registry maps the function names used in HCL transform files to
// the Go constructors of the transform package.
//
// Each registered Function declares its parameters in positional order,
// together with the snake_case names accepted in the object-literal call
// form. The registry is populated once at startup and then validated, so a
// kind without a function, or a function naming an unknown kind, is caught
// before any file is evaluated.
package registry
