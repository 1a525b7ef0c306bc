package nodetype

import (
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// Flags is a bitset describing a node type's capabilities.
type Flags uint32

const (
	// FlagContainer marks a type as owning child nodes and receiving
	// their outgoing packets through a dedicated Send hook. Composite
	// types (pkg/builder, pkg/flow) and the single-node wrapper
	// (pkg/wrapper) both set this bit.
	FlagContainer Flags = 1 << iota
)

// Description is a node type's human-readable metadata.
type Description struct {
	Name          string
	Category      string
	Summary       string
	Author        string
	URL           string
	License       string
	Version       string
	// Symbol and OptionsSymbol are plain strings used by tooling; the
	// builder derives them automatically for generated composite types.
	Symbol        string
	OptionsSymbol string
}

// Type is the contract every node class satisfies. It is a
// plain interface: no inheritance. Concrete implementers include leaf
// library node types (pkg/builtin), generated composite types
// (pkg/builder), and the single-node wrapper (pkg/wrapper).
type Type interface {
	// Description returns this type's metadata.
	Description() *Description

	// PortsIn and PortsOut return this type's input/output port tables,
	// used for get_port_in(i)/get_port_out(i) lookups and for name-based
	// resolution during building and parsing.
	PortsIn() InPortTable
	PortsOut() OutPortTable

	// Options returns the member layout used to build an *option.Options
	// blob for a node of this type.
	Options() *option.Description

	// Open is called once during instantiation, before any process call;
	// it may send initial packets on output ports.
	Open(n *Node, opts *option.Options) error
	// Close is called once during destruction, after the last process
	// call.
	Close(n *Node)

	// InitType resolves late-bound packet type identities; it is called
	// at most once per process and must be idempotent.
	InitType() error
	// DisposeType frees type-owned resources; only meaningful for
	// dynamically created types such as composite types.
	DisposeType()

	// Flags reports this type's capability bitset.
	Flags() Flags
}

// ContainerType is implemented by any Type with FlagContainer set: it
// receives packets sent by its children.
type ContainerType interface {
	Type
	// Send delivers a packet emitted by child srcChild on its output
	// port srcPort. container is the Node instance of this container
	// type.
	Send(container *Node, srcChild int, srcPort uint16, p *packet.Packet) error
}
