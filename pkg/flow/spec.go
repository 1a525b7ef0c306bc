package flow

import (
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
)

// NodeSpec is one child recorded by the builder via AddNode/AddNodeByType.
type NodeSpec struct {
	Name        string
	Type        nodetype.Type
	Options     *option.Options
	OwnsOptions bool
}

// Connection is one edge of the builder's connection list, already
// resolved to numeric child indices and port numbers.
type Connection struct {
	SrcIdx  int
	SrcPort uint16
	DstIdx  int
	DstPort uint16
}

// Less implements the canonical (src, src_port, dst, dst_port)
// lexicographic ordering the builder sorts connections into at finalise
// time.
func (c Connection) Less(o Connection) bool {
	if c.SrcIdx != o.SrcIdx {
		return c.SrcIdx < o.SrcIdx
	}
	if c.SrcPort != o.SrcPort {
		return c.SrcPort < o.SrcPort
	}
	if c.DstIdx != o.DstIdx {
		return c.DstIdx < o.DstIdx
	}
	return c.DstPort < o.DstPort
}

// Equal reports whether two connections name the exact same edge, used to
// reject duplicate connect calls.
func (c Connection) Equal(o Connection) bool {
	return c == o
}

// ExportedPort is one contiguous run of composite-level port numbers that
// forward to (or from) specific child ports. Size is 1 for a scalar export or an
// explicit array index; it is the full array width when an entire array
// port is exported at once.
type ExportedPort struct {
	Name    string
	Base    uint16
	Size    uint16
	Targets []PortTarget
}

// PortTarget names the child port a single composite-level exported port
// offset forwards to.
type PortTarget struct {
	ChildIdx  int
	ChildPort uint16
}

// ExportedOption is one member of the composite options blob that the
// builder forwards into a child's options at open time.
type ExportedOption struct {
	ChildIdx     int
	OptionName   string
	ExportedName string
	Member       option.Member
}

// CompositeSpec is the immutable output of Builder.GetNodeType: everything
// needed to instantiate and describe a composite node type.
type CompositeSpec struct {
	Description     nodetype.Description
	Nodes           []NodeSpec
	Connections     []Connection
	ExportedIn      []ExportedPort
	ExportedOut     []ExportedPort
	ExportedOptions []ExportedOption
	OptionsDesc     *option.Description
}
