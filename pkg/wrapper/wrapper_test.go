package wrapper

import (
	"testing"

	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoType is a minimal one-in one-out node type: whatever it receives
// on IN it re-sends, unchanged, on OUT.
type echoType struct {
	connects    int
	disconnects int
}

func (t *echoType) Description() *nodetype.Description { return &nodetype.Description{Name: "test/echo"} }
func (t *echoType) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{
		PacketType: packet.Boolean,
		Connect:    func(*nodetype.Node, uint16, uint16) error { t.connects++; return nil },
		Disconnect: func(*nodetype.Node, uint16, uint16) error { t.disconnects++; return nil },
	}}}
}
func (t *echoType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Desc: &nodetype.InPortDesc{
		PacketType: packet.Boolean,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			v, err := packet.AsBool(p)
			if err != nil {
				return err
			}
			return nodetype.Send(n, 0, packet.NewBool(v))
		},
	}}}
}
func (t *echoType) Options() *option.Description              { return &option.Description{} }
func (t *echoType) Open(*nodetype.Node, *option.Options) error { return nil }
func (t *echoType) Close(*nodetype.Node)                       {}
func (t *echoType) InitType() error                            { return nil }
func (t *echoType) DisposeType()                               {}
func (t *echoType) Flags() nodetype.Flags                      { return 0 }

func TestWrapper_DropsUnconnectedOutput(t *testing.T) {
	inner := &echoType{}
	var got []bool
	wt := New(inner, func(userData any, n *nodetype.Node, port uint16, p *packet.Packet) {
		v, _ := packet.AsBool(p)
		got = append(got, v)
	}, nil, []uint16{0}, nil)

	n := nodetype.NewNode(wt, "w", nil, nil)
	require.NoError(t, wt.Open(n, nil))

	desc, err := wt.PortsIn().Lookup(0)
	require.NoError(t, err)
	require.NoError(t, desc.Process(n, 0, 0, packet.NewBool(true)))

	assert.Empty(t, got, "output port was never connected, callback must not fire")
}

func TestWrapper_DeliversToCallbackOnceConnected(t *testing.T) {
	inner := &echoType{}
	var got []bool
	wt := New(inner, func(userData any, n *nodetype.Node, port uint16, p *packet.Packet) {
		v, _ := packet.AsBool(p)
		got = append(got, v)
	}, nil, []uint16{0}, []uint16{0})

	n := nodetype.NewNode(wt, "w", nil, nil)
	require.NoError(t, wt.Open(n, nil))
	assert.Equal(t, 1, inner.connects, "initial connected-ports list must fire the inner Connect callback once")

	inDesc, err := wt.PortsIn().Lookup(0)
	require.NoError(t, err)
	require.NoError(t, inDesc.Process(n, 0, 0, packet.NewBool(true)))
	require.NoError(t, inDesc.Process(n, 0, 0, packet.NewBool(false)))

	assert.Equal(t, []bool{true, false}, got)
}

func TestWrapper_ConnectDisconnectTransitionsAreEdgeTriggered(t *testing.T) {
	inner := &echoType{}
	wt := New(inner, nil, nil, nil, nil)
	n := nodetype.NewNode(wt, "w", nil, nil)
	require.NoError(t, wt.Open(n, nil))

	outDesc, err := wt.PortsOut().Lookup(0)
	require.NoError(t, err)

	require.NoError(t, outDesc.Connect(n, 0, 0))
	require.NoError(t, outDesc.Connect(n, 0, 0))
	assert.Equal(t, 1, inner.connects, "second connect on an already-connected port must not re-fire")

	require.NoError(t, outDesc.Disconnect(n, 0, 0))
	assert.Equal(t, 0, inner.disconnects, "refcount 2->1 must not fire disconnect")

	require.NoError(t, outDesc.Disconnect(n, 0, 0))
	assert.Equal(t, 1, inner.disconnects, "refcount 1->0 must fire disconnect")
}
