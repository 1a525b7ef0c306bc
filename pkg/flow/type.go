package flow

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// CompositeType is the nodetype.Type (and nodetype.ContainerType) produced
// by Builder.GetNodeType. Opening it instantiates a Container holding the
// live children.
type CompositeType struct {
	spec     *CompositeSpec
	portsIn  nodetype.InPortTable
	portsOut nodetype.OutPortTable
}

// NewCompositeType builds the node type for a finalised builder spec. It
// does not instantiate any children; that happens per-Open.
func NewCompositeType(spec *CompositeSpec) (*CompositeType, error) {
	ct := &CompositeType{spec: spec}

	in, err := buildInPorts(spec)
	if err != nil {
		return nil, err
	}
	out, err := buildOutPorts(spec)
	if err != nil {
		return nil, err
	}
	ct.portsIn = in
	ct.portsOut = out
	return ct, nil
}

func buildInPorts(spec *CompositeSpec) (nodetype.InPortTable, error) {
	table := make(nodetype.InPortTable, 0, len(spec.ExportedIn))
	for _, exp := range spec.ExportedIn {
		exp := exp
		pt, err := childInPacketType(spec, exp.Targets[0])
		if err != nil {
			return nil, err
		}
		desc := &nodetype.InPortDesc{
			PacketType: pt,
			Connect:    func(*nodetype.Node, uint16, uint16) error { return nil },
			Disconnect: func(*nodetype.Node, uint16, uint16) error { return nil },
			Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
				c, ok := n.Data.(*Container)
				if !ok {
					return fmt.Errorf("flow: exported port %q: %w: container not open", exp.Name, flowerrors.ErrInvalidArgument)
				}
				offset := int(port - exp.Base)
				if offset < 0 || offset >= len(exp.Targets) {
					return fmt.Errorf("flow: exported port %q: %w", exp.Name, flowerrors.ErrPortIndexOutOfRange)
				}
				target := exp.Targets[offset]
				return c.deliverToChild(target.ChildIdx, target.ChildPort, p)
			},
		}
		table = append(table, nodetype.InPortSpec{Name: exp.Name, Base: exp.Base, Size: arraySize(exp.Size), Desc: desc})
	}
	return table, nil
}

func buildOutPorts(spec *CompositeSpec) (nodetype.OutPortTable, error) {
	table := make(nodetype.OutPortTable, 0, len(spec.ExportedOut))
	for _, exp := range spec.ExportedOut {
		exp := exp
		pt, err := childOutPacketType(spec, exp.Targets[0])
		if err != nil {
			return nil, err
		}
		desc := &nodetype.OutPortDesc{
			PacketType: pt,
			Connect:    func(*nodetype.Node, uint16, uint16) error { return nil },
			Disconnect: func(*nodetype.Node, uint16, uint16) error { return nil },
		}
		table = append(table, nodetype.OutPortSpec{Name: exp.Name, Base: exp.Base, Size: arraySize(exp.Size), Desc: desc})
	}
	return table, nil
}

func arraySize(size uint16) uint16 {
	if size <= 1 {
		return 0
	}
	return size
}

func childInPacketType(spec *CompositeSpec, t PortTarget) (*packet.Type, error) {
	desc, err := spec.Nodes[t.ChildIdx].Type.PortsIn().Lookup(t.ChildPort)
	if err != nil {
		return nil, fmt.Errorf("flow: child %q port %d: %w", spec.Nodes[t.ChildIdx].Name, t.ChildPort, err)
	}
	return desc.PacketType, nil
}

func childOutPacketType(spec *CompositeSpec, t PortTarget) (*packet.Type, error) {
	desc, err := spec.Nodes[t.ChildIdx].Type.PortsOut().Lookup(t.ChildPort)
	if err != nil {
		return nil, fmt.Errorf("flow: child %q port %d: %w", spec.Nodes[t.ChildIdx].Name, t.ChildPort, err)
	}
	return desc.PacketType, nil
}

func (ct *CompositeType) Description() *nodetype.Description { return &ct.spec.Description }
func (ct *CompositeType) PortsIn() nodetype.InPortTable       { return ct.portsIn }
func (ct *CompositeType) PortsOut() nodetype.OutPortTable     { return ct.portsOut }
func (ct *CompositeType) Options() *option.Description        { return ct.spec.OptionsDesc }
func (ct *CompositeType) InitType() error                     { return nil }
func (ct *CompositeType) DisposeType()                         {}
func (ct *CompositeType) Flags() nodetype.Flags               { return nodetype.FlagContainer }

// Open instantiates every child in spec.Nodes, in order, applying the
// composite's options_setter to forward exported option values into each
// child's options before that child's own Open runs. It then
// wires the sorted connection table by invoking each endpoint's Connect
// callback.
func (ct *CompositeType) Open(n *nodetype.Node, opts *option.Options) error {
	c := &Container{composite: n, spec: ct.spec}
	n.Data = c

	for idx, ns := range ct.spec.Nodes {
		childOpts := applyExportedOptions(ct.spec, idx, ns.Options, opts)
		child := nodetype.NewNode(ns.Type, fmt.Sprintf("%s/%s", n.ID, ns.Name), childOpts, n)
		child.ChildIndex = idx
		if err := ns.Type.Open(child, childOpts); err != nil {
			c.closeChildren(idx - 1)
			return fmt.Errorf("flow: open child %q: %w", ns.Name, err)
		}
		c.children = append(c.children, child)
	}

	connIDs := make(map[connKey]uint16)
	for i, conn := range ct.spec.Connections {
		key := connKey{conn.SrcIdx, conn.SrcPort}
		id := connIDs[key]
		connIDs[key] = id + 1

		src := c.children[conn.SrcIdx]
		dst := c.children[conn.DstIdx]

		srcDesc, err := src.Type.PortsOut().Lookup(conn.SrcPort)
		if err != nil {
			c.unwindConnections(i - 1)
			c.closeChildren(len(c.children) - 1)
			return fmt.Errorf("flow: connect: %w", err)
		}
		dstDesc, err := dst.Type.PortsIn().Lookup(conn.DstPort)
		if err != nil {
			c.unwindConnections(i - 1)
			c.closeChildren(len(c.children) - 1)
			return fmt.Errorf("flow: connect: %w", err)
		}

		if srcDesc.Connect != nil {
			if err := srcDesc.Connect(src, conn.SrcPort, id); err != nil {
				c.unwindConnections(i - 1)
				c.closeChildren(len(c.children) - 1)
				return fmt.Errorf("flow: connect src: %w", err)
			}
		}
		if dstDesc.Connect != nil {
			if err := dstDesc.Connect(dst, conn.DstPort, id); err != nil {
				c.unwindConnections(i - 1)
				c.closeChildren(len(c.children) - 1)
				return fmt.Errorf("flow: connect dst: %w", err)
			}
		}
		src.AddOutRef(conn.SrcPort)
		dst.AddInRef(conn.DstPort)
		c.connIDs = append(c.connIDs, id)
	}

	return nil
}

// Send implements nodetype.ContainerType: it dispatches to the live
// Container stored in container.Data by Open.
func (ct *CompositeType) Send(container *nodetype.Node, srcChild int, srcPort uint16, p *packet.Packet) error {
	c, ok := container.Data.(*Container)
	if !ok {
		return fmt.Errorf("flow: %w: container not open", flowerrors.ErrInvalidArgument)
	}
	return c.send(srcChild, srcPort, p)
}

// Close tears the container down in the reverse of Open's order: connect
// callbacks are undone first (in reverse connection order), then children
// are closed in reverse order.
func (ct *CompositeType) Close(n *nodetype.Node) {
	c, ok := n.Data.(*Container)
	if !ok {
		return
	}
	c.unwindConnections(len(c.spec.Connections) - 1)
	c.closeChildren(len(c.children) - 1)
}

type connKey struct {
	srcIdx  int
	srcPort uint16
}

func applyExportedOptions(spec *CompositeSpec, childIdx int, base *option.Options, composite *option.Options) *option.Options {
	if composite == nil {
		return base
	}
	override := option.Named{}
	for _, eo := range spec.ExportedOptions {
		if eo.ChildIdx != childIdx {
			continue
		}
		v, ok := composite.Get(eo.ExportedName)
		if !ok {
			continue
		}
		override[eo.OptionName] = v
	}
	if len(override) == 0 {
		return base
	}
	named := option.Named{}
	if base != nil {
		named = base.Named()
	}
	merged := named.Merge(override)
	desc := spec.Nodes[childIdx].Type.Options()
	opts, err := option.New(desc, merged)
	if err != nil {
		return base
	}
	return opts
}
