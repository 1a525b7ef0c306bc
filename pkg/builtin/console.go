package builtin

import (
	"fmt"
	"io"
	"os"

	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// consoleType implements a "console" sink: a scalar IN of a caller-fixed
// packet type, printed to an output writer (stdout by default). It has
// no output ports.
type consoleType struct {
	name   string
	in     *packet.Type
	format func(*packet.Packet) string
	out    io.Writer
}

// NewConsole builds a console sink over packet type pt. format renders a
// received packet for output; out defaults to os.Stdout if nil.
func NewConsole(name string, pt *packet.Type, format func(*packet.Packet) string, out io.Writer) nodetype.Type {
	if out == nil {
		out = os.Stdout
	}
	return consoleType{name: name, in: pt, format: format, out: out}
}

func (t consoleType) Description() *nodetype.Description {
	return &nodetype.Description{Name: t.name, Category: "console", Summary: "Prints every received packet"}
}
func (consoleType) Options() *option.Description   { return &option.Description{} }
func (consoleType) PortsOut() nodetype.OutPortTable { return nil }
func (t consoleType) PortsIn() nodetype.InPortTable {
	return nodetype.InPortTable{{Name: "IN", Desc: &nodetype.InPortDesc{
		PacketType: t.in,
		Process: func(n *nodetype.Node, port, connID uint16, p *packet.Packet) error {
			line := fmt.Sprintf("%v", p.Type())
			if t.format != nil {
				line = t.format(p)
			}
			fmt.Fprintln(t.out, line)
			return nil
		},
	}}}
}
func (consoleType) Open(*nodetype.Node, *option.Options) error { return nil }
func (consoleType) Close(*nodetype.Node)                        {}
func (consoleType) InitType() error                              { return nil }
func (consoleType) DisposeType()                                 {}
func (consoleType) Flags() nodetype.Flags                        { return 0 }
