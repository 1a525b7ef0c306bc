package flow

import (
	"fmt"
	"sort"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/packet"
)

// exportedConnID is the connection id recorded for deliveries that arrive
// via exported-port forwarding rather than an internal child-to-child
// connection; it never needs to be stable across calls since exported
// ports have no fan-out to disambiguate.
const exportedConnID uint16 = 0

// Container is the live instance of a CompositeType: the child node
// table, the wired connections, and (for a top-level container with no
// parent) an optional hook for packets the composite sends on an
// exported output port.
type Container struct {
	composite *nodetype.Node
	spec      *CompositeSpec
	children  []*nodetype.Node
	connIDs   []uint16

	// OnOutput receives packets the composite sends on an exported output
	// port when composite has no parent to forward to. Left nil, such packets are dropped (and
	// released).
	OnOutput func(port uint16, p *packet.Packet)

	// OnDeliveryError observes an error returned from a destination's
	// input-port Process during Send; delivery to the remaining
	// destinations continues regardless. Left nil, errors are silently discarded.
	OnDeliveryError func(src *nodetype.Node, srcPort uint16, dst *nodetype.Node, dstPort uint16, err error)
}

// ContainerOf returns the Container backing a composite node, if n was
// opened by a CompositeType.
func ContainerOf(n *nodetype.Node) (*Container, bool) {
	c, ok := n.Data.(*Container)
	return c, ok
}

// Children returns the live child nodes in builder order.
func (c *Container) Children() []*nodetype.Node { return append([]*nodetype.Node(nil), c.children...) }

// send backs CompositeType.Send: a child identified by srcChild emitted a
// packet on its output port srcPort. It looks up the contiguous run of
// connections for (srcChild, srcPort) via binary search over the sorted
// connection table, delivers to each destination in order, forwards
// upward if srcPort is also exported, and releases the packet exactly
// once: a packet forwarded to a parent container is released by the
// parent's send, any other packet here.
func (c *Container) send(srcChild int, srcPort uint16, p *packet.Packet) error {
	conns := c.spec.Connections
	lo := sort.Search(len(conns), func(i int) bool {
		return !connLess(conns[i].SrcIdx, conns[i].SrcPort, srcChild, srcPort)
	})
	for i := lo; i < len(conns) && conns[i].SrcIdx == srcChild && conns[i].SrcPort == srcPort; i++ {
		conn := conns[i]
		dst := c.children[conn.DstIdx]
		dstDesc, err := dst.Type.PortsIn().Lookup(conn.DstPort)
		if err != nil {
			continue
		}
		if dstDesc.Process == nil {
			continue
		}
		connID := c.connIDs[i]
		if err := dstDesc.Process(dst, conn.DstPort, connID, p); err != nil && c.OnDeliveryError != nil {
			src := c.children[srcChild]
			c.OnDeliveryError(src, srcPort, dst, conn.DstPort, err)
		}
	}

	handedUp := false
	for _, exp := range c.spec.ExportedOut {
		for offset, target := range exp.Targets {
			if target.ChildIdx != srcChild || target.ChildPort != srcPort {
				continue
			}
			handedUp = handedUp || c.composite.Parent != nil
			if err := c.forwardOut(exp.Base+uint16(offset), p); err != nil && c.OnDeliveryError != nil {
				c.OnDeliveryError(c.children[srcChild], srcPort, nil, 0, err)
			}
		}
	}

	if handedUp {
		return nil
	}
	return p.Release()
}

// connLess implements the same ordering Connection.Less uses, restricted
// to the (src, src_port) prefix Send searches on.
func connLess(srcIdx int, srcPort uint16, wantIdx int, wantPort uint16) bool {
	if srcIdx != wantIdx {
		return srcIdx < wantIdx
	}
	return srcPort < wantPort
}

// forwardOut delivers a packet emitted on the composite's own exported
// output port upward: to the parent container if any, otherwise to
// OnOutput if set.
func (c *Container) forwardOut(port uint16, p *packet.Packet) error {
	if c.composite.Parent != nil {
		return nodetype.Send(c.composite, port, p)
	}
	if c.OnOutput != nil {
		c.OnOutput(port, p)
	}
	return nil
}

// deliverToChild forwards a packet that arrived on one of the composite's
// exported input ports to the recorded child port.
func (c *Container) deliverToChild(childIdx int, childPort uint16, p *packet.Packet) error {
	if childIdx < 0 || childIdx >= len(c.children) {
		return fmt.Errorf("flow: %w: exported input target out of range", flowerrors.ErrInvalidArgument)
	}
	child := c.children[childIdx]
	desc, err := child.Type.PortsIn().Lookup(childPort)
	if err != nil {
		return err
	}
	if desc.Process == nil {
		return nil
	}
	return desc.Process(child, childPort, exportedConnID, p)
}

func (c *Container) closeChildren(fromIdx int) {
	for i := fromIdx; i >= 0; i-- {
		child := c.children[i]
		child.Type.Close(child)
	}
}

func (c *Container) unwindConnections(fromIdx int) {
	for i := fromIdx; i >= 0; i-- {
		conn := c.spec.Connections[i]
		if conn.SrcIdx >= len(c.children) || conn.DstIdx >= len(c.children) {
			continue
		}
		src := c.children[conn.SrcIdx]
		dst := c.children[conn.DstIdx]
		if srcDesc, err := src.Type.PortsOut().Lookup(conn.SrcPort); err == nil && srcDesc.Disconnect != nil {
			id := uint16(0)
			if i < len(c.connIDs) {
				id = c.connIDs[i]
			}
			_ = srcDesc.Disconnect(src, conn.SrcPort, id)
		}
		if dstDesc, err := dst.Type.PortsIn().Lookup(conn.DstPort); err == nil && dstDesc.Disconnect != nil {
			id := uint16(0)
			if i < len(c.connIDs) {
				id = c.connIDs[i]
			}
			_ = dstDesc.Disconnect(dst, conn.DstPort, id)
		}
		src.RemoveOutRef(conn.SrcPort)
		dst.RemoveInRef(conn.DstPort)
	}
}
