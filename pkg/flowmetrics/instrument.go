package flowmetrics

import (
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// instrumentedType wraps a nodetype.Type to count Open/Close calls under
// its description's name, without changing its behaviour. It forwards
// ContainerType.Send when inner implements it, so wrapping a composite or
// wrapper type doesn't drop its routing capability.
type instrumentedType struct {
	inner nodetype.Type
	name  string
}

// InstrumentType wraps t so every Open/Close call is counted in
// NodesOpened/NodesClosed under t's description name.
func InstrumentType(t nodetype.Type) nodetype.Type {
	name := t.Description().Name
	if _, ok := t.(nodetype.ContainerType); ok {
		return instrumentedContainerType{instrumentedType{inner: t, name: name}}
	}
	return instrumentedType{inner: t, name: name}
}

func (t instrumentedType) Description() *nodetype.Description { return t.inner.Description() }
func (t instrumentedType) PortsIn() nodetype.InPortTable       { return t.inner.PortsIn() }
func (t instrumentedType) PortsOut() nodetype.OutPortTable     { return t.inner.PortsOut() }
func (t instrumentedType) Options() *option.Description        { return t.inner.Options() }
func (t instrumentedType) InitType() error                     { return t.inner.InitType() }
func (t instrumentedType) DisposeType()                        { t.inner.DisposeType() }
func (t instrumentedType) Flags() nodetype.Flags               { return t.inner.Flags() }

func (t instrumentedType) Open(n *nodetype.Node, opts *option.Options) error {
	if err := t.inner.Open(n, opts); err != nil {
		return err
	}
	RecordNodeOpened(t.name)
	return nil
}

func (t instrumentedType) Close(n *nodetype.Node) {
	t.inner.Close(n)
	RecordNodeClosed(t.name)
}

type instrumentedContainerType struct {
	instrumentedType
}

func (t instrumentedContainerType) Send(container *nodetype.Node, srcChild int, srcPort uint16, p *packet.Packet) error {
	return t.inner.(nodetype.ContainerType).Send(container, srcChild, srcPort, p)
}
