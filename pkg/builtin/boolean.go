package builtin

import (
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// notType implements "boolean/not": one scalar IN, one scalar OUT,
// sending the logical negation of whatever it receives.
type notType struct{}

// Not is the "boolean/not" built-in type.
var Not nodetype.Type = notType{}

func (notType) Description() *nodetype.Description {
	return &nodetype.Description{Name: "boolean/not", Category: "boolean", Summary: "Outputs the negation of its input"}
}
func (notType) Options() *option.Description { return &option.Description{} }
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
func (notType) Open(*nodetype.Node, *option.Options) error { return nil }
func (notType) Close(*nodetype.Node)                        {}
func (notType) InitType() error                             { return nil }
func (notType) DisposeType()                                {}
func (notType) Flags() nodetype.Flags                       { return 0 }

// andType implements "boolean/and": an N-wide array input port IN[] and
// a scalar OUT that fires true iff every input slot has received at
// least one packet and all of them are true. N
// is fixed per Type value since port layout is a type-level property;
// use NewAnd to build a type sized for a particular graph.
type andType struct {
	size uint16
}

// NewAnd builds a "boolean/and" type with an n-wide IN[] array port.
func NewAnd(n uint16) nodetype.Type { return andType{size: n} }

func (t andType) Description() *nodetype.Description {
	return &nodetype.Description{Name: "boolean/and", Category: "boolean", Summary: "Outputs the logical AND of every input slot"}
}
func (andType) Options() *option.Description { return &option.Description{} }
func (andType) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{PacketType: packet.Boolean}}}
}
func (t andType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Base: 0, Size: t.size, Desc: &nodetype.InPortDesc{
		PacketType: packet.Boolean,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			v, err := packet.AsBool(p)
			if err != nil {
				return err
			}
			st := andState(n, t.size)
			st.have[port] = true
			st.values[port] = v
			if len(st.have) < int(t.size) {
				return nil
			}
			result := true
			for _, set := range st.values {
				result = result && set
			}
			return nodetype.Send(n, 0, packet.NewBool(result))
		},
	}}}
}
func (andType) Open(n *nodetype.Node, _ *option.Options) error {
	n.Data = &andNodeState{have: map[uint16]bool{}, values: map[uint16]bool{}}
	return nil
}
func (andType) Close(*nodetype.Node) {}
func (andType) InitType() error      { return nil }
func (andType) DisposeType()         {}
func (andType) Flags() nodetype.Flags { return 0 }

type andNodeState struct {
	have   map[uint16]bool
	values map[uint16]bool
}

func andState(n *nodetype.Node, size uint16) *andNodeState {
	st, ok := n.Data.(*andNodeState)
	if !ok {
		st = &andNodeState{have: map[uint16]bool{}, values: map[uint16]bool{}}
		n.Data = st
	}
	return st
}
