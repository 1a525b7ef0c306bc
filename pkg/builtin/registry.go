package builtin

import "github.com/cuemby/flowrt/pkg/nodetype"

// All returns every scalar-arity built-in type in a stable order,
// suitable for resolver.NewBuiltinResolver. Types whose port layout
// depends on a constructor argument (NewAnd, NewWallclockMinute,
// ComposedNewMetatype's products) are not included here since there is
// no single canonical instance to register; callers construct those
// directly and add them to their own resolver chain or DECLARE metatype
// registry.
func All() []nodetype.Type {
	return []nodetype.Type{
		Not,
		Addition,
	}
}
