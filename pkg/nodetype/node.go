package nodetype

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// Node is a live instance of a Type. Its private state is
// whatever Data holds; in the target C ABI this was a fixed-size byte
// area (type.data_size), but in Go a type-asserted interface{} field is
// the idiomatic equivalent.
type Node struct {
	Type    Type
	ID      string
	Options *option.Options
	Parent  *Node
	Data    any

	// ChildIndex is this node's position within Parent's child table, or
	// -1 if Parent is nil. pkg/flow sets it when instantiating a
	// composite's children; Send uses it to identify the source child to
	// the parent's ContainerType.Send hook.
	ChildIndex int

	// outRefs/inRefs are per-port connection reference counts, maintained
	// by the owning container. Indexed by numeric port
	// index; ErrorPortIndex is tracked like any other.
	outRefs map[uint16]int
	inRefs  map[uint16]int
}

// NewNode allocates a Node of the given type. Callers (pkg/flow,
// pkg/wrapper) still must invoke Type.Open before the node is live.
func NewNode(t Type, id string, opts *option.Options, parent *Node) *Node {
	return &Node{
		Type:       t,
		ID:         id,
		Options:    opts,
		Parent:     parent,
		ChildIndex: -1,
		outRefs:    make(map[uint16]int),
		inRefs:     make(map[uint16]int),
	}
}

// Send delivers a packet emitted by n on output port p to n's container
// parent. A node with no parent — e.g. a node under test in isolation —
// has nowhere to route to and returns ErrNotSupported.
func Send(n *Node, port uint16, p *packet.Packet) error {
	if n.Parent == nil {
		return fmt.Errorf("nodetype: send from %q: %w: node has no parent", n.ID, flowerrors.ErrNotSupported)
	}
	ct, ok := n.Parent.Type.(ContainerType)
	if !ok {
		return fmt.Errorf("nodetype: send from %q: %w: parent type is not a container", n.ID, flowerrors.ErrNotSupported)
	}
	return ct.Send(n.Parent, n.ChildIndex, port, p)
}

// OutRefs returns the current outgoing-connection count for port p.
func (n *Node) OutRefs(p uint16) int { return n.outRefs[p] }

// InRefs returns the current incoming-connection count for port p.
func (n *Node) InRefs(p uint16) int { return n.inRefs[p] }

// AddOutRef increments the outgoing-connection count for port p and
// returns the new count.
func (n *Node) AddOutRef(p uint16) int {
	n.outRefs[p]++
	return n.outRefs[p]
}

// RemoveOutRef decrements the outgoing-connection count for port p and
// returns the new count.
func (n *Node) RemoveOutRef(p uint16) int {
	if n.outRefs[p] > 0 {
		n.outRefs[p]--
	}
	return n.outRefs[p]
}

// AddInRef increments the incoming-connection count for port p and
// returns the new count.
func (n *Node) AddInRef(p uint16) int {
	n.inRefs[p]++
	return n.inRefs[p]
}

// RemoveInRef decrements the incoming-connection count for port p and
// returns the new count.
func (n *Node) RemoveInRef(p uint16) int {
	if n.inRefs[p] > 0 {
		n.inRefs[p]--
	}
	return n.inRefs[p]
}
