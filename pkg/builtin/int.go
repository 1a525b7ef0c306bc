package builtin

import (
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// additionType implements "int/addition": a scalar IN receiving an
// int32-range value and a scalar OUT carrying IN's value plus a
// configurable "operand" option, defaulting to 0.
type additionType struct{}

// Addition is the "int/addition" built-in type.
var Addition nodetype.Type = additionType{}

func (additionType) Description() *nodetype.Description {
	return &nodetype.Description{Name: "int/addition", Category: "int", Summary: "Outputs IN plus a fixed operand"}
}
func (additionType) Options() *option.Description {
	return &option.Description{Members: []option.Member{
		{Name: "operand", Kind: option.KindInt32, HasDefault: true, Default: option.Int32(0)},
	}}
}
func (additionType) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{PacketType: packet.Int32Range}}}
}
func (additionType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Desc: &nodetype.InPortDesc{
		PacketType: packet.Int32Range,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			in, err := packet.AsInt32Range(p)
			if err != nil {
				return err
			}
			operand := int32(0)
			if n.Options != nil {
				if v, ok := n.Options.Get("operand"); ok {
					operand, _ = v.AsInt32()
				}
			}
			out := in
			out.Value += operand
			return nodetype.Send(n, 0, packet.NewInt32Range(out))
		},
	}}}
}
func (additionType) Open(*nodetype.Node, *option.Options) error { return nil }
func (additionType) Close(*nodetype.Node)                        {}
func (additionType) InitType() error                             { return nil }
func (additionType) DisposeType()                                {}
func (additionType) Flags() nodetype.Flags                       { return 0 }
