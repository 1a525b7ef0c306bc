package packet

import "fmt"

// NewComposed creates a composed packet over typ (which must itself have
// been built with NewComposedType), packing children in order. It fails
// if the number or types of children do not match typ.Children.
func NewComposed(typ *Type, children []*Packet) (*Packet, error) {
	if typ == nil || typ.Children == nil {
		return nil, fmt.Errorf("packet: %w: not a composed type", ErrWrongType)
	}
	if len(children) != len(typ.Children) {
		return nil, fmt.Errorf("packet: composed packet expects %d children, got %d",
			len(typ.Children), len(children))
	}
	for i, c := range children {
		if !c.Type().Equal(typ.Children[i]) {
			return nil, fmt.Errorf("packet: composed child %d: %w", i, ErrWrongType)
		}
	}
	return newPacket(typ, append([]*Packet(nil), children...)), nil
}

// AsComposed returns the length and children of a composed packet, or
// ErrWrongType if p is not composed.
func AsComposed(p *Packet) (int, []*Packet, error) {
	if p == nil || p.typ == nil || p.typ.Children == nil {
		return 0, nil, ErrWrongType
	}
	children, ok := p.value.([]*Packet)
	if !ok {
		return 0, nil, ErrWrongType
	}
	return len(children), children, nil
}
