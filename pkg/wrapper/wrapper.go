package wrapper

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// ProcessFunc is the user callback a wrapper delivers outbound packets
// to. It is only invoked for a port the caller has connected via
// Instance.ConnectPortOut or the initial-connected-ports list.
type ProcessFunc func(userData any, node *nodetype.Node, port uint16, p *packet.Packet)

// Type exposes one arbitrary inner node type as a standalone node
// type. Its port layout, description, and options pass through to
// inner unchanged; its own implementation is a container of exactly
// one child.
type Type struct {
	inner      nodetype.Type
	onProcess  ProcessFunc
	userData   any
	initialIn  []uint16
	initialOut []uint16
}

// New builds a wrapper Type around inner. initialIn/initialOut name the
// port indices considered connected from construction.
func New(inner nodetype.Type, onProcess ProcessFunc, userData any, initialIn, initialOut []uint16) *Type {
	return &Type{
		inner:      inner,
		onProcess:  onProcess,
		userData:   userData,
		initialIn:  append([]uint16(nil), initialIn...),
		initialOut: append([]uint16(nil), initialOut...),
	}
}

func (t *Type) Description() *nodetype.Description { return t.inner.Description() }
func (t *Type) Options() *option.Description        { return t.inner.Options() }
func (t *Type) InitType() error                      { return t.inner.InitType() }
func (t *Type) DisposeType()                         {}
func (t *Type) Flags() nodetype.Flags                { return nodetype.FlagContainer }

// PortsIn mirrors the inner type's input ports, but routes Connect,
// Disconnect, and Process through the live Instance's refcounting and
// forwarding.
func (t *Type) PortsIn() nodetype.InPortTable {
	inner := t.inner.PortsIn()
	out := make(nodetype.InPortTable, len(inner))
	for i, spec := range inner {
		spec := spec
		out[i] = nodetype.InPortSpec{
			Name: spec.Name, Base: spec.Base, Size: spec.Size,
			Desc: &nodetype.InPortDesc{
				PacketType: spec.Desc.PacketType,
				Connect: func(n *nodetype.Node, port, connID uint16) error {
					inst, err := instanceOf(n)
					if err != nil {
						return err
					}
					return inst.ConnectPortIn(port)
				},
				Disconnect: func(n *nodetype.Node, port, connID uint16) error {
					inst, err := instanceOf(n)
					if err != nil {
						return err
					}
					return inst.DisconnectPortIn(port)
				},
				Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
					inst, err := instanceOf(n)
					if err != nil {
						return err
					}
					return inst.forwardIn(port, p)
				},
			},
		}
	}
	return out
}

// PortsOut mirrors the inner type's output ports the same way.
func (t *Type) PortsOut() nodetype.OutPortTable {
	inner := t.inner.PortsOut()
	out := make(nodetype.OutPortTable, len(inner))
	for i, spec := range inner {
		spec := spec
		out[i] = nodetype.OutPortSpec{
			Name: spec.Name, Base: spec.Base, Size: spec.Size,
			Desc: &nodetype.OutPortDesc{
				PacketType: spec.Desc.PacketType,
				Connect: func(n *nodetype.Node, port, connID uint16) error {
					inst, err := instanceOf(n)
					if err != nil {
						return err
					}
					return inst.ConnectPortOut(port)
				},
				Disconnect: func(n *nodetype.Node, port, connID uint16) error {
					inst, err := instanceOf(n)
					if err != nil {
						return err
					}
					return inst.DisconnectPortOut(port)
				},
			},
		}
	}
	return out
}

// Open creates the inner node with the given options and applies the
// initial connected-port sets.
func (t *Type) Open(n *nodetype.Node, opts *option.Options) error {
	inner := nodetype.NewNode(t.inner, n.ID+"/inner", opts, n)
	inner.ChildIndex = 0
	inst := &Instance{wrapper: t, node: n, inner: inner}
	n.Data = inst

	if err := t.inner.Open(inner, opts); err != nil {
		return fmt.Errorf("wrapper: open inner %q: %w", n.ID, err)
	}
	for _, p := range t.initialIn {
		if err := inst.ConnectPortIn(p); err != nil {
			return err
		}
	}
	for _, p := range t.initialOut {
		if err := inst.ConnectPortOut(p); err != nil {
			return err
		}
	}
	return nil
}

// Close tears down every still-connected port (in reverse of connection
// order is not observable here since ports are independent) then closes
// the inner node.
func (t *Type) Close(n *nodetype.Node) {
	inst, err := instanceOf(n)
	if err != nil {
		return
	}
	for port, refs := range inst.inRefs {
		for i := 0; i < refs; i++ {
			_ = inst.DisconnectPortIn(port)
		}
	}
	for port, refs := range inst.outRefs {
		for i := 0; i < refs; i++ {
			_ = inst.DisconnectPortOut(port)
		}
	}
	t.inner.Close(inst.inner)
}

// Send implements nodetype.ContainerType: the inner node emitted a
// packet on srcPort. It is delivered to the wrapper's user callback if
// that port is connected, otherwise dropped.
func (t *Type) Send(container *nodetype.Node, srcChild int, srcPort uint16, p *packet.Packet) error {
	inst, err := instanceOf(container)
	if err != nil {
		return err
	}
	if inst.outRefs[srcPort] > 0 && t.onProcess != nil {
		t.onProcess(t.userData, container, srcPort, p)
	}
	return p.Release()
}

// Instance is the live per-node state stored in a wrapper node's Data
// field: the inner node plus per-port connection refcounts.
type Instance struct {
	wrapper *Type
	node    *nodetype.Node
	inner   *nodetype.Node

	inRefs  map[uint16]int
	outRefs map[uint16]int
}

// Inner returns the wrapped node, for callers that need direct access
// (e.g. tests, or a caller feeding packets via nodetype.Send on the
// inner node's behalf).
func (inst *Instance) Inner() *nodetype.Node { return inst.inner }

func instanceOf(n *nodetype.Node) (*Instance, error) {
	inst, ok := n.Data.(*Instance)
	if !ok {
		return nil, fmt.Errorf("wrapper: %w: node not open", flowerrors.ErrInvalidArgument)
	}
	return inst, nil
}

func (inst *Instance) forwardIn(port uint16, p *packet.Packet) error {
	desc, err := inst.wrapper.inner.PortsIn().Lookup(port)
	if err != nil {
		return err
	}
	if desc.Process == nil {
		return nil
	}
	return desc.Process(inst.inner, port, 0, p)
}

// ConnectPortIn increments the refcount for input port idx, firing the
// inner port's Connect callback on the 0->1 transition.
func (inst *Instance) ConnectPortIn(idx uint16) error {
	if inst.inRefs == nil {
		inst.inRefs = make(map[uint16]int)
	}
	was := inst.inRefs[idx]
	inst.inRefs[idx] = was + 1
	inst.inner.AddInRef(idx)
	if was != 0 {
		return nil
	}
	desc, err := inst.wrapper.inner.PortsIn().Lookup(idx)
	if err != nil {
		return err
	}
	if desc.Connect == nil {
		return nil
	}
	return desc.Connect(inst.inner, idx, 0)
}

// DisconnectPortIn decrements the refcount for input port idx, firing the
// inner port's Disconnect callback on the 1->0 transition.
func (inst *Instance) DisconnectPortIn(idx uint16) error {
	if inst.inRefs[idx] == 0 {
		return nil
	}
	inst.inRefs[idx]--
	inst.inner.RemoveInRef(idx)
	if inst.inRefs[idx] != 0 {
		return nil
	}
	desc, err := inst.wrapper.inner.PortsIn().Lookup(idx)
	if err != nil {
		return err
	}
	if desc.Disconnect == nil {
		return nil
	}
	return desc.Disconnect(inst.inner, idx, 0)
}

// ConnectPortOut increments the refcount for output port idx, firing the
// inner port's Connect callback on the 0->1 transition.
func (inst *Instance) ConnectPortOut(idx uint16) error {
	if inst.outRefs == nil {
		inst.outRefs = make(map[uint16]int)
	}
	was := inst.outRefs[idx]
	inst.outRefs[idx] = was + 1
	inst.inner.AddOutRef(idx)
	if was != 0 {
		return nil
	}
	desc, err := inst.wrapper.inner.PortsOut().Lookup(idx)
	if err != nil {
		return err
	}
	if desc.Connect == nil {
		return nil
	}
	return desc.Connect(inst.inner, idx, 0)
}

// DisconnectPortOut decrements the refcount for output port idx, firing
// the inner port's Disconnect callback on the 1->0 transition.
func (inst *Instance) DisconnectPortOut(idx uint16) error {
	if inst.outRefs[idx] == 0 {
		return nil
	}
	inst.outRefs[idx]--
	inst.inner.RemoveOutRef(idx)
	if inst.outRefs[idx] != 0 {
		return nil
	}
	desc, err := inst.wrapper.inner.PortsOut().Lookup(idx)
	if err != nil {
		return err
	}
	if desc.Disconnect == nil {
		return nil
	}
	return desc.Disconnect(inst.inner, idx, 0)
}

// InstanceOf returns the live Instance backing a wrapper node, if n was
// opened by a *Type.
func InstanceOf(n *nodetype.Node) (*Instance, bool) {
	inst, ok := n.Data.(*Instance)
	return inst, ok
}
