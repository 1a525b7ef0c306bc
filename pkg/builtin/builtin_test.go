package builtin

import (
	"bytes"
	"testing"

	"github.com/cuemby/flowrt/pkg/builder"
	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBooleanChain_TwoNotsThroughConsole wires not1 -> not2 -> console;
// feeding not1.IN a true should leave console observing true (two
// inversions).
func TestBooleanChain_TwoNotsThroughConsole(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole("test/console", packet.Boolean, func(p *packet.Packet) string {
		v, _ := packet.AsBool(p)
		if v {
			return "true"
		}
		return "false"
	}, &out)

	b := builder.New(nil)
	require.NoError(t, b.AddNode("not1", Not, nil))
	require.NoError(t, b.AddNode("not2", Not, nil))
	require.NoError(t, b.AddNode("console", console, nil))
	require.NoError(t, b.Connect("not1", "OUT", -1, "not2", "IN", -1))
	require.NoError(t, b.Connect("not2", "OUT", -1, "console", "IN", -1))
	require.NoError(t, b.ExportInPort("not1", "IN", -1, "IN"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)

	n := nodetype.NewNode(ct, "root", nil, nil)
	require.NoError(t, ct.Open(n, nil))

	inDesc, err := ct.PortsIn().Lookup(0)
	require.NoError(t, err)
	require.NoError(t, inDesc.Process(n, 0, 0, packet.NewBool(true)))

	assert.Equal(t, "true\n", out.String())
}

// TestArrayAnd_FanInRequiresAllTrue checks that a 4-wide IN[] with 3
// true and 1 false outputs false. The AND node is
// wrapped in a one-child composite so OUT has somewhere real to route
// to: a console sink recording every value it sees.
func TestArrayAnd_FanInRequiresAllTrue(t *testing.T) {
	and := NewAnd(4)

	var results []bool
	b := builder.New(nil)
	require.NoError(t, b.AddNode("and", and, nil))
	sink := NewConsole("test/sink", packet.Boolean, func(p *packet.Packet) string {
		v, _ := packet.AsBool(p)
		results = append(results, v)
		return ""
	}, bytes.NewBuffer(nil))
	require.NoError(t, b.AddNode("sink", sink, nil))
	require.NoError(t, b.Connect("and", "OUT", -1, "sink", "IN", -1))
	for i := 0; i < 4; i++ {
		require.NoError(t, b.ExportInPort("and", "IN", i, portName(i)))
	}
	ct, err := b.GetNodeType()
	require.NoError(t, err)

	root := nodetype.NewNode(ct, "root", nil, nil)
	require.NoError(t, ct.Open(root, nil))

	vals := []bool{true, true, false, true}
	for i, v := range vals {
		desc, err := ct.PortsIn().Lookup(uint16(i))
		require.NoError(t, err)
		require.NoError(t, desc.Process(root, uint16(i), 0, packet.NewBool(v)))
	}

	require.Len(t, results, 1)
	assert.False(t, results[0])
}

func portName(i int) string {
	names := []string{"P0", "P1", "P2", "P3"}
	return names[i]
}

// TestAddition_DefaultAndExportedOperand checks that exporting a child
// option overrides its default rather than compounding with it.
func TestAddition_DefaultAndExportedOperand(t *testing.T) {
	opts, err := option.New(Addition.Options(), option.Named{"operand": option.Int32(1)})
	require.NoError(t, err)

	b := builder.New(nil)
	require.NoError(t, b.AddNode("add", Addition, opts))
	require.NoError(t, b.ExportInPort("add", "IN", -1, "IN"))
	require.NoError(t, b.ExportOutPort("add", "OUT", -1, "OUT"))
	require.NoError(t, b.ExportOption("add", "operand", "myopt"))

	ct, err := b.GetNodeType()
	require.NoError(t, err)

	n := nodetype.NewNode(ct, "root", nil, nil)
	composedOpts, err := option.New(ct.Options(), option.Named{"myopt": option.Int32(5)})
	require.NoError(t, err)
	require.NoError(t, ct.Open(n, composedOpts))

	var gotValue int32
	c, ok := flow.ContainerOf(n)
	require.True(t, ok)
	c.OnOutput = func(port uint16, p *packet.Packet) {
		v, _ := packet.AsInt32Range(p)
		gotValue = v.Value
	}

	inDesc, err := ct.PortsIn().Lookup(0)
	require.NoError(t, err)
	require.NoError(t, inDesc.Process(n, 0, 0, packet.NewInt32Range(packet.IntRange{Value: 10})))

	assert.EqualValues(t, 15, gotValue, "exported option must override the child's own default (1), not add it")
}
