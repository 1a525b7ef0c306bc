package nodetype

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/packet"
)

// ErrorPortIndex is the well-known, out-of-band output port index every
// node implicitly exposes for error packets.
const ErrorPortIndex uint16 = 0xfffe

// InPortDesc describes one input port: its packet type and its
// connect/disconnect/process hooks.
type InPortDesc struct {
	PacketType *packet.Type
	Connect    func(n *Node, port, connID uint16) error
	Disconnect func(n *Node, port, connID uint16) error
	Process    func(n *Node, port, connID uint16, p *packet.Packet) error
}

// OutPortDesc describes one output port: its packet type and its
// connect/disconnect hooks.
type OutPortDesc struct {
	PacketType *packet.Type
	Connect    func(n *Node, port, connID uint16) error
	Disconnect func(n *Node, port, connID uint16) error
}

// InPortSpec is one named input port (scalar or array) in a type's port table.
// Size == 0 means a scalar port occupying exactly index Base; Size > 0
// means an array port spanning [Base, Base+Size).
type InPortSpec struct {
	Name string
	Base uint16
	Size uint16
	Desc *InPortDesc
}

type OutPortSpec struct {
	Name string
	Base uint16
	Size uint16
	Desc *OutPortDesc
}

// InPortTable is an ordered list of input port specs; it implements
// lookup by flat numeric index and by name, the two operations both
// get_port_in and connect-by-name need.
type InPortTable []InPortSpec

// OutPortTable is the output-port analogue of InPortTable.
type OutPortTable []OutPortSpec

// Count returns the number of distinct numeric indices the table covers
// (sum of each spec's width; a scalar port has width 1).
func (t InPortTable) Count() int {
	n := 0
	for _, s := range t {
		n += width(s.Size)
	}
	return n
}

func (t OutPortTable) Count() int {
	n := 0
	for _, s := range t {
		n += width(s.Size)
	}
	return n
}

func width(size uint16) int {
	if size == 0 {
		return 1
	}
	return int(size)
}

// Lookup returns the descriptor covering the flat numeric index i.
func (t InPortTable) Lookup(i uint16) (*InPortDesc, error) {
	for _, s := range t {
		if inSpan(i, s.Base, s.Size) {
			return s.Desc, nil
		}
	}
	return nil, fmt.Errorf("nodetype: input port %d: %w", i, flowerrors.ErrNotFound)
}

// Lookup returns the descriptor covering the flat numeric index i, or the
// implicit error port descriptor if i is ErrorPortIndex.
func (t OutPortTable) Lookup(i uint16) (*OutPortDesc, error) {
	if i == ErrorPortIndex {
		return implicitErrorPort, nil
	}
	for _, s := range t {
		if inSpan(i, s.Base, s.Size) {
			return s.Desc, nil
		}
	}
	return nil, fmt.Errorf("nodetype: output port %d: %w", i, flowerrors.ErrNotFound)
}

func inSpan(i, base, size uint16) bool {
	w := uint16(width(size))
	return i >= base && i < base+w
}

// ByName resolves a port name (and, for array ports, a zero-based
// sub-index; idx == -1 means "not an array") to a flat numeric index.
func (t InPortTable) ByName(name string, idx int) (uint16, error) {
	for _, s := range t {
		if s.Name != name {
			continue
		}
		return resolveIndex(s.Base, s.Size, idx)
	}
	return 0, fmt.Errorf("nodetype: input port %q: %w", name, flowerrors.ErrNotFound)
}

func (t OutPortTable) ByName(name string, idx int) (uint16, error) {
	if name == "ERROR" {
		if idx != -1 {
			return 0, fmt.Errorf("nodetype: %w: ERROR port is not an array", flowerrors.ErrNotArrayPort)
		}
		return ErrorPortIndex, nil
	}
	for _, s := range t {
		if s.Name != name {
			continue
		}
		return resolveIndex(s.Base, s.Size, idx)
	}
	return 0, fmt.Errorf("nodetype: output port %q: %w", name, flowerrors.ErrNotFound)
}

func resolveIndex(base, size uint16, idx int) (uint16, error) {
	if size == 0 {
		if idx != -1 {
			return 0, fmt.Errorf("nodetype: %w", flowerrors.ErrNotArrayPort)
		}
		return base, nil
	}
	if idx == -1 {
		return 0, fmt.Errorf("nodetype: %w", flowerrors.ErrMissingIndex)
	}
	if idx < 0 || uint16(idx) >= size {
		return 0, fmt.Errorf("nodetype: %w", flowerrors.ErrPortIndexOutOfRange)
	}
	return base + uint16(idx), nil
}

// implicitErrorPort is the shared descriptor for every node's implicit
// ERROR output port: it accepts any connection and carries packet.Error.
var implicitErrorPort = &OutPortDesc{
	PacketType: packet.Error,
	Connect:    func(*Node, uint16, uint16) error { return nil },
	Disconnect: func(*Node, uint16, uint16) error { return nil },
}
