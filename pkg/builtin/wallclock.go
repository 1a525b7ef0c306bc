package builtin

import (
	"time"

	"github.com/cuemby/flowrt/pkg/mainloop"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/packet"
)

// wallclockMinuteType implements "wallclock/minute": a source with one
// scalar OUT that fires at most once per tick of interval, carrying the
// current minute as an int32-range packet in [0, 59]. It only sends when OUT has at least one connection,
// matching the single-node wrapper test's "zero callbacks when
// unconnected" requirement.
type wallclockMinuteType struct {
	loop     mainloop.Loop
	interval time.Duration
	now      func() time.Time
}

// NewWallclockMinute builds a "wallclock/minute" type driven by loop,
// ticking every interval. now defaults to time.Now if nil, overridable
// for deterministic tests.
func NewWallclockMinute(loop mainloop.Loop, interval time.Duration, now func() time.Time) nodetype.Type {
	if now == nil {
		now = time.Now
	}
	return wallclockMinuteType{loop: loop, interval: interval, now: now}
}

func (wallclockMinuteType) Description() *nodetype.Description {
	return &nodetype.Description{Name: "wallclock/minute", Category: "wallclock", Summary: "Emits the current minute, once per tick"}
}
func (wallclockMinuteType) Options() *option.Description { return &option.Description{} }
func (wallclockMinuteType) PortsIn() nodetype.InPortTable { return nil }
func (wallclockMinuteType) PortsOut() nodetype.OutPortTable {
	return nodetype.OutPortTable{{Name: "OUT", Desc: &nodetype.OutPortDesc{PacketType: packet.Int32Range}}}
}

func (t wallclockMinuteType) Open(n *nodetype.Node, _ *option.Options) error {
	timeout, err := t.loop.AddTimeout(t.interval, func() bool {
		if n.OutRefs(0) > 0 {
			minute := int32(t.now().Minute())
			_ = nodetype.Send(n, 0, packet.NewInt32Range(packet.IntRange{Value: minute, Min: 0, Max: 59, Step: 1}))
		}
		return true
	})
	if err != nil {
		return err
	}
	n.Data = timeout
	return nil
}

func (wallclockMinuteType) Close(n *nodetype.Node) {
	if timeout, ok := n.Data.(mainloop.Timeout); ok {
		timeout.Delete()
	}
}
func (wallclockMinuteType) InitType() error       { return nil }
func (wallclockMinuteType) DisposeType()          {}
func (wallclockMinuteType) Flags() nodetype.Flags { return 0 }
