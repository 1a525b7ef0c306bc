package builder

import (
	"fmt"
	"testing"

	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notType inverts a boolean on IN and re-sends it on OUT.
type notType struct{}

func (notType) Description() *nodetype.Description { return &nodetype.Description{Name: "test/not"} }
func (notType) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{PacketType: packet.Boolean}}}
}
func (notType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Desc: &nodetype.InPortDesc{
		PacketType: packet.Boolean,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			v, err := packet.AsBool(p)
			if err != nil {
				return err
			}
			return nodetype.Send(n, 0, packet.NewBool(!v))
		},
	}}}
}
func (notType) Options() *option.Description              { return &option.Description{} }
func (notType) Open(*nodetype.Node, *option.Options) error { return nil }
func (notType) Close(*nodetype.Node)                       {}
func (notType) InitType() error                            { return nil }
func (notType) DisposeType()                                {}
func (notType) Flags() nodetype.Flags                       { return 0 }

// captureType records every boolean it receives on IN.
type captureType struct{}

func (captureType) Description() *nodetype.Description { return &nodetype.Description{Name: "test/capture"} }
func (captureType) PortsOut() nodetype.OutPortTable     { return nil }
func (captureType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Desc: &nodetype.InPortDesc{
		PacketType: packet.Boolean,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			v, err := packet.AsBool(p)
			if err != nil {
				return err
			}
			rec := n.Data.(*[]bool)
			*rec = append(*rec, v)
			return nil
		},
	}}}
}
func (captureType) Options() *option.Description { return &option.Description{} }
func (captureType) Open(n *nodetype.Node, _ *option.Options) error {
	rec := []bool{}
	n.Data = &rec
	return nil
}
func (captureType) Close(*nodetype.Node) {}
func (captureType) InitType() error      { return nil }
func (captureType) DisposeType()          {}
func (captureType) Flags() nodetype.Flags { return 0 }

// and4Type is a 4-wide array-port AND gate: OUT reflects the logical AND
// of the most recently seen value on each IN[i].
type and4Type struct{}

func (and4Type) Description() *nodetype.Description { return &nodetype.Description{Name: "test/and4"} }
func (and4Type) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{PacketType: packet.Boolean}}}
}
func (and4Type) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Base: 0, Size: 4, Desc: &nodetype.InPortDesc{
		PacketType: packet.Boolean,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			v, err := packet.AsBool(p)
			if err != nil {
				return err
			}
			state := n.Data.(*[4]bool)
			state[port] = v
			result := true
			for _, b := range state {
				result = result && b
			}
			return nodetype.Send(n, 0, packet.NewBool(result))
		},
	}}}
}
func (and4Type) Options() *option.Description { return &option.Description{} }
func (and4Type) Open(n *nodetype.Node, _ *option.Options) error {
	state := [4]bool{true, true, true, true}
	n.Data = &state
	return nil
}
func (and4Type) Close(*nodetype.Node) {}
func (and4Type) InitType() error      { return nil }
func (and4Type) DisposeType()          {}
func (and4Type) Flags() nodetype.Flags { return 0 }

// optNodeType has a single bool option "opt" (default true) and records
// whatever value it was actually opened with.
type optNodeType struct{}

func (optNodeType) Description() *nodetype.Description { return &nodetype.Description{Name: "test/opt"} }
func (optNodeType) PortsIn() nodetype.InPortTable       { return nil }
func (optNodeType) PortsOut() nodetype.OutPortTable     { return nil }
func (optNodeType) Options() *option.Description {
	return &option.Description{Members: []option.Member{
		{Name: "opt", Kind: option.KindBool, HasDefault: true, Default: option.Bool(true)},
	}}
}
func (optNodeType) Open(n *nodetype.Node, opts *option.Options) error {
	v := true
	if opts != nil {
		if raw, ok := opts.Get("opt"); ok {
			v, _ = raw.AsBool()
		}
	}
	n.Data = v
	return nil
}
func (optNodeType) Close(*nodetype.Node) {}
func (optNodeType) InitType() error      { return nil }
func (optNodeType) DisposeType()          {}
func (optNodeType) Flags() nodetype.Flags { return 0 }

func TestAddNodeRejectsDuplicateName(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("a", notType{}, nil))
	err := b.AddNode("a", notType{}, nil)
	assert.ErrorIs(t, err, flowerrors.ErrDuplicateName)
}

func TestConnectRejectsExactDuplicate(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("a", notType{}, nil))
	require.NoError(t, b.AddNode("b", notType{}, nil))
	require.NoError(t, b.Connect("a", "OUT", -1, "b", "IN", -1))
	err := b.Connect("a", "OUT", -1, "b", "IN", -1)
	assert.ErrorIs(t, err, flowerrors.ErrDuplicateConnection)
}

func TestConnectByIndexRejectsOutOfRangeNode(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("a", notType{}, nil))
	err := b.ConnectByIndex(0, 0, 5, 0)
	assert.ErrorIs(t, err, flowerrors.ErrPortIndexOutOfRange)
}

func TestGetNodeTypeRejectsMutationAfterFinalise(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("a", captureType{}, nil))
	require.NoError(t, b.ExportInPort("a", "IN", -1, "IN"))
	_, err := b.GetNodeType()
	require.NoError(t, err)

	err = b.AddNode("b", captureType{}, nil)
	assert.ErrorIs(t, err, flowerrors.ErrAlreadyFinalised)

	_, err = b.GetNodeType()
	assert.ErrorIs(t, err, flowerrors.ErrAlreadyFinalised)
}

func TestFanOutDeliversToBothDestinationsRegardlessOfConnectOrder(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("src", notType{}, nil))
	require.NoError(t, b.AddNode("d1", captureType{}, nil))
	require.NoError(t, b.AddNode("d2", captureType{}, nil))
	require.NoError(t, b.Connect("src", "OUT", -1, "d2", "IN", -1))
	require.NoError(t, b.Connect("src", "OUT", -1, "d1", "IN", -1))
	require.NoError(t, b.ExportInPort("src", "IN", -1, "IN"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)
	_, ok := ct.(*flow.CompositeType)
	require.True(t, ok)

	n := nodetype.NewNode(ct, "fanout", nil, nil)
	require.NoError(t, ct.Open(n, nil))

	c, ok := flow.ContainerOf(n)
	require.True(t, ok)
	d1 := c.Children()[1]
	d2 := c.Children()[2]

	inIdx, err := ct.PortsIn().ByName("IN", -1)
	require.NoError(t, err)
	inDesc, err := ct.PortsIn().Lookup(inIdx)
	require.NoError(t, err)
	p := packet.NewBool(true)
	require.NoError(t, inDesc.Process(n, inIdx, 0, p))

	assert.Equal(t, []bool{false}, *d1.Data.(*[]bool))
	assert.Equal(t, []bool{false}, *d2.Data.(*[]bool))
}

func TestTrivialBooleanChainTwoInversions(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("not1", notType{}, nil))
	require.NoError(t, b.AddNode("not2", notType{}, nil))
	require.NoError(t, b.AddNode("console", captureType{}, nil))
	require.NoError(t, b.Connect("not1", "OUT", -1, "not2", "IN", -1))
	require.NoError(t, b.Connect("not2", "OUT", -1, "console", "IN", -1))
	require.NoError(t, b.ExportInPort("not1", "IN", -1, "IN"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)

	n := nodetype.NewNode(ct, "chain", nil, nil)
	require.NoError(t, ct.Open(n, nil))

	c, ok := flow.ContainerOf(n)
	require.True(t, ok)
	console := c.Children()[2]

	inIdx, err := ct.PortsIn().ByName("IN", -1)
	require.NoError(t, err)
	inDesc, err := ct.PortsIn().Lookup(inIdx)
	require.NoError(t, err)

	p := packet.NewBool(true)
	require.NoError(t, inDesc.Process(n, inIdx, 0, p))

	rec := console.Data.(*[]bool)
	require.Len(t, *rec, 1)
	assert.True(t, (*rec)[0])
}

func TestArrayPortFanIn(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("and", and4Type{}, nil))
	for i := 0; i < 4; i++ {
		require.NoError(t, b.ExportInPort("and", "IN", i, fmt.Sprintf("IN%d", i)))
	}
	require.NoError(t, b.ExportOutPort("and", "OUT", -1, "OUT"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)

	n := nodetype.NewNode(ct, "and4", nil, nil)
	require.NoError(t, ct.Open(n, nil))

	c, ok := flow.ContainerOf(n)
	require.True(t, ok)
	var lastOut bool
	c.OnOutput = func(port uint16, p *packet.Packet) {
		lastOut, _ = packet.AsBool(p)
	}

	values := []bool{true, true, true, false}
	for i, v := range values {
		idx, err := ct.PortsIn().ByName(fmt.Sprintf("IN%d", i), -1)
		require.NoError(t, err)
		desc, err := ct.PortsIn().Lookup(idx)
		require.NoError(t, err)
		p := packet.NewBool(v)
		require.NoError(t, desc.Process(n, idx, 0, p))
	}

	assert.False(t, lastOut)
}

func TestExportedOptionOverridesChildDefault(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddNode("child", optNodeType{}, nil))
	require.NoError(t, b.ExportOption("child", "opt", "myopt"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)

	compositeOpts, err := option.New(ct.Options(), option.Named{"myopt": option.Bool(false)})
	require.NoError(t, err)

	n := nodetype.NewNode(ct, "x", compositeOpts, nil)
	require.NoError(t, ct.Open(n, compositeOpts))

	c, ok := flow.ContainerOf(n)
	require.True(t, ok)
	child := c.Children()[0]
	assert.False(t, child.Data.(bool))
}
