// Package builtin is the minimal node-type library this module ships to
// exercise pkg/resolver, pkg/builder, pkg/flow, and pkg/parser end to
// end. All returns a stable-ordered slice of the built-in types that need
// no constructor argument, suitable for resolver.NewBuiltinResolver; the
// others are built with their own New* functions.
package builtin
