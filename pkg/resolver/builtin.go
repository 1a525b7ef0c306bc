package resolver

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
)

// BuiltinResolver iterates every built-in type and returns the one whose
// description name equals id, with empty default named-options.
type BuiltinResolver struct {
	types []nodetype.Type
}

// NewBuiltinResolver builds a resolver over the given built-in types.
func NewBuiltinResolver(types...nodetype.Type) *BuiltinResolver {
	return &BuiltinResolver{types: types}
}

func (r *BuiltinResolver) Resolve(id string) (Resolved, error) {
	for _, t := range r.types {
		if t.Description().Name == id {
			return Resolved{Type: t, Options: option.Named{}}, nil
		}
	}
	return Resolved{}, fmt.Errorf("resolver: builtin %q: %w", id, flowerrors.ErrNotFound)
}
