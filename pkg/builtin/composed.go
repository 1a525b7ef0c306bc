package builtin

import (
	"fmt"
	"strings"

	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
	"github.com/cuemby/flowrt/pkg/parser"
)

// componentNames maps a composed-new token to the built-in packet type
// it names.
var componentNames = map[string]*packet.Type{
	"empty": packet.Empty, "bool": packet.Boolean, "boolean": packet.Boolean,
	"byte": packet.Byte, "int": packet.Int32Range, "float": packet.DoubleRange,
	"string": packet.String, "blob": packet.Blob, "rgb": packet.RGB,
	"vector": packet.Vector3, "location": packet.Location,
	"timestamp": packet.Timestamp, "http": packet.HTTPResp,
}

// ComposedNewMetatype is the "composed-new" DECLARE creator. Contents is a
// comma-separated list of component-type tokens, e.g. "int,int"; the
// creator builds the corresponding composed packet.Type and returns a
// pass-through node type (one scalar IN, one scalar OUT, both of that
// composed type) so the declaration mechanism has something concrete to
// exercise beyond file inclusion.
func ComposedNewMetatype(ctx *parser.MetatypeContext) (nodetype.Type, error) {
	tokens := strings.Split(ctx.Contents, ",")
	if len(tokens) == 0 || (len(tokens) == 1 && strings.TrimSpace(tokens[0]) == "") {
		return nil, fmt.Errorf("builtin: composed-new %q: %w: empty component list", ctx.Name, flowerrors.ErrInvalidArgument)
	}
	children := make([]*packet.Type, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		pt, ok := componentNames[tok]
		if !ok {
			return nil, fmt.Errorf("builtin: composed-new %q: %w: unknown component type %q", ctx.Name, flowerrors.ErrInvalidArgument, tok)
		}
		children = append(children, pt)
	}
	composed := packet.NewComposedType(ctx.Name, children...)
	return newPassThrough(ctx.Name, composed), nil
}

// passThroughType re-sends whatever it receives, unchanged, over a
// caller-chosen packet type; used by ComposedNewMetatype.
type passThroughType struct {
	name string
	pt   *packet.Type
}

func newPassThrough(name string, pt *packet.Type) nodetype.Type {
	return passThroughType{name: name, pt: pt}
}

func (t passThroughType) Description() *nodetype.Description {
	return &nodetype.Description{Name: t.name, Category: "composed", Summary: "Re-emits received composed packets unchanged"}
}
func (passThroughType) Options() *option.Description { return &option.Description{} }
func (t passThroughType) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{PacketType: t.pt}}}
}
func (t passThroughType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Desc: &nodetype.InPortDesc{
		PacketType: t.pt,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			_, children, err := packet.AsComposed(p)
			if err != nil {
				return err
			}
			out, err := packet.NewComposed(t.pt, children)
			if err != nil {
				return err
			}
			return nodetype.Send(n, 0, out)
		},
	}}}
}
func (passThroughType) Open(*nodetype.Node, *option.Options) error { return nil }
func (passThroughType) Close(*nodetype.Node)                        {}
func (passThroughType) InitType() error                             { return nil }
func (passThroughType) DisposeType()                                {}
func (passThroughType) Flags() nodetype.Flags                       { return 0 }
