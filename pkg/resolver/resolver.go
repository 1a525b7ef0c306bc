package resolver

import (
	"errors"
	"fmt"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
)

// Resolved is what a successful resolution yields: a concrete node type
// plus the default named options that apply unless overridden.
type Resolved struct {
	Type    nodetype.Type
	Options option.Named
}

// Resolver maps a textual component identifier to a Resolved value. A
// miss must be reported as an error wrapping flowerrors.ErrNotFound and
// must not mutate any resolver state.
type Resolver interface {
	Resolve(id string) (Resolved, error)
}

// Chain consults each Resolver in order, returning the first success.
// A non-NotFound error aborts the chain immediately and is surfaced to
// the caller.
type Chain []Resolver

func (c Chain) Resolve(id string) (Resolved, error) {
	for _, r := range c {
		res, err := r.Resolve(id)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, flowerrors.ErrNotFound) {
			return Resolved{}, err
		}
	}
	return Resolved{}, fmt.Errorf("resolver: %q: %w", id, flowerrors.ErrNotFound)
}
