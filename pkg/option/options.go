package option

import (
	"fmt"
	"strings"

	"github.com/cuemby/flowrt/pkg/flowerrors"
)

// Member describes one named option.
type Member struct {
	Name       string
	Kind       Kind
	Required   bool
	HasDefault bool
	Default    Value
}

// Description is a type's ordered option-member layout.
type Description struct {
	Members []Member
}

// ByName returns the member with the given name, if any.
func (d *Description) ByName(name string) (Member, bool) {
	if d == nil {
		return Member{}, false
	}
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Named is an unordered set of {name: typed value} pairs, the
// representation used while parsing and resolving, before an Options
// blob is materialised.
type Named map[string]Value

// Merge returns a new Named with every pair of override applied on top of
// n (override wins on conflicts). Used by the parser to merge
// resolver-returned defaults with inline metadata.
func (n Named) Merge(override Named) Named {
	out := make(Named, len(n)+len(override))
	for k, v := range n {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// ParseNamedFromStrings parses an array of "name=value" strings against
// desc, type-dispatching each value by its member's kind.
func ParseNamedFromStrings(desc *Description, kv []string) (Named, error) {
	named := make(Named, len(kv))
	for _, s := range kv {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("option: %q: %w", s, flowerrors.ErrInvalidArgument)
		}
		m, ok := desc.ByName(name)
		if !ok {
			return nil, fmt.Errorf("option: member %q: %w", name, flowerrors.ErrNotFound)
		}
		v, err := ParseValue(m.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("option: member %q: %w", name, err)
		}
		named[name] = v
	}
	return named, nil
}

// Options is a materialised, member-validated configuration blob, valid
// for a node's entire lifetime.
type Options struct {
	desc   *Description
	values Named
}

// New materialises an Options blob from desc and named, filling each
// member from named if present, else from its default, and failing with
// ErrMissingOption if a required member has neither.
func New(desc *Description, named Named) (*Options, error) {
	values := make(Named, len(desc.Members))
	for _, m := range desc.Members {
		if v, ok := named[m.Name]; ok {
			if v.Kind != m.Kind {
				return nil, fmt.Errorf("option: member %q: expected %s, got %s: %w",
					m.Name, m.Kind, v.Kind, flowerrors.ErrInvalidOption)
			}
			values[m.Name] = v
			continue
		}
		if m.HasDefault {
			values[m.Name] = m.Default
			continue
		}
		if m.Required {
			return nil, fmt.Errorf("option: member %q: %w", m.Name, flowerrors.ErrMissingOption)
		}
	}
	return &Options{desc: desc, values: values}, nil
}

// Get returns the value of member name, if set.
func (o *Options) Get(name string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.values[name]
	return v, ok
}

// Description returns the member layout this Options was built from.
func (o *Options) Description() *Description { return o.desc }

// Named returns the underlying {name: value} set, for round-tripping.
func (o *Options) Named() Named {
	out := make(Named, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}
