package packet

import (
	"sync/atomic"
	"time"
)

// Packet is an immutable, type-tagged value in flight between ports. A
// packet is created by one of the New* constructors, handed to the
// routing layer (pkg/flow), delivered synchronously to every connected
// destination, and released exactly once.
type Packet struct {
	typ      *Type
	value    any
	released atomic.Bool
}

// Type returns the packet's type identity.
func (p *Packet) Type() *Type {
	if p == nil {
		return nil
	}
	return p.typ
}

// Release marks the packet as delivered. The routing layer calls this
// exactly once per packet, after every destination's process callback has
// returned, regardless of how many destinations there were. Calling it twice is a programming error in the router
// and is reported rather than silently ignored.
func (p *Packet) Release() error {
	if !p.released.CompareAndSwap(false, true) {
		return ErrAlreadyReleased
	}
	return nil
}

// Released reports whether Release has already been called.
func (p *Packet) Released() bool {
	return p.released.Load()
}

func newPacket(t *Type, v any) *Packet {
	return &Packet{typ: t, value: v}
}

// NewEmpty creates an empty packet.
func NewEmpty() *Packet { return newPacket(Empty, nil) }

// NewBool creates a boolean packet.
func NewBool(v bool) *Packet { return newPacket(Boolean, v) }

// AsBool returns the value of a boolean packet, or ErrWrongType.
func AsBool(p *Packet) (bool, error) {
	if p == nil || !p.typ.Equal(Boolean) {
		return false, ErrWrongType
	}
	return p.value.(bool), nil
}

// NewByte creates a byte packet.
func NewByte(v byte) *Packet { return newPacket(Byte, v) }

// AsByte returns the value of a byte packet, or ErrWrongType.
func AsByte(p *Packet) (byte, error) {
	if p == nil || !p.typ.Equal(Byte) {
		return 0, ErrWrongType
	}
	return p.value.(byte), nil
}

// NewInt32Range creates an int32-range packet.
func NewInt32Range(v IntRange) *Packet { return newPacket(Int32Range, v) }

// AsInt32Range returns the value of an int32-range packet, or ErrWrongType.
func AsInt32Range(p *Packet) (IntRange, error) {
	if p == nil || !p.typ.Equal(Int32Range) {
		return IntRange{}, ErrWrongType
	}
	return p.value.(IntRange), nil
}

// NewDoubleRange creates a double-range packet.
func NewDoubleRange(v DoubleRangeValue) *Packet { return newPacket(DoubleRange, v) }

// AsDoubleRange returns the value of a double-range packet, or ErrWrongType.
func AsDoubleRange(p *Packet) (DoubleRangeValue, error) {
	if p == nil || !p.typ.Equal(DoubleRange) {
		return DoubleRangeValue{}, ErrWrongType
	}
	return p.value.(DoubleRangeValue), nil
}

// NewString creates a string packet.
func NewString(v string) *Packet { return newPacket(String, v) }

// AsString returns the value of a string packet, or ErrWrongType.
func AsString(p *Packet) (string, error) {
	if p == nil || !p.typ.Equal(String) {
		return "", ErrWrongType
	}
	return p.value.(string), nil
}

// NewBlob creates a blob packet over a byte buffer.
func NewBlob(v []byte) *Packet { return newPacket(Blob, v) }

// AsBlob returns the value of a blob packet, or ErrWrongType.
func AsBlob(p *Packet) ([]byte, error) {
	if p == nil || !p.typ.Equal(Blob) {
		return nil, ErrWrongType
	}
	return p.value.([]byte), nil
}

// NewRGB creates an RGB packet.
func NewRGB(v RGBValue) *Packet { return newPacket(RGB, v) }

// AsRGB returns the value of an RGB packet, or ErrWrongType.
func AsRGB(p *Packet) (RGBValue, error) {
	if p == nil || !p.typ.Equal(RGB) {
		return RGBValue{}, ErrWrongType
	}
	return p.value.(RGBValue), nil
}

// NewVector3 creates a direction-vector packet.
func NewVector3(v Vector3Value) *Packet { return newPacket(Vector3, v) }

// AsVector3 returns the value of a direction-vector packet, or ErrWrongType.
func AsVector3(p *Packet) (Vector3Value, error) {
	if p == nil || !p.typ.Equal(Vector3) {
		return Vector3Value{}, ErrWrongType
	}
	return p.value.(Vector3Value), nil
}

// NewLocation creates a geographic-location packet.
func NewLocation(v LocationValue) *Packet { return newPacket(Location, v) }

// AsLocation returns the value of a location packet, or ErrWrongType.
func AsLocation(p *Packet) (LocationValue, error) {
	if p == nil || !p.typ.Equal(Location) {
		return LocationValue{}, ErrWrongType
	}
	return p.value.(LocationValue), nil
}

// NewTimestamp creates a timestamp packet.
func NewTimestamp(t time.Time) *Packet { return newPacket(Timestamp, TimestampValue{Time: t}) }

// AsTimestamp returns the value of a timestamp packet, or ErrWrongType.
func AsTimestamp(p *Packet) (TimestampValue, error) {
	if p == nil || !p.typ.Equal(Timestamp) {
		return TimestampValue{}, ErrWrongType
	}
	return p.value.(TimestampValue), nil
}

// NewHTTPResponse creates an http-response packet.
func NewHTTPResponse(v HTTPResponseValue) *Packet { return newPacket(HTTPResp, v) }

// AsHTTPResponse returns the value of an http-response packet, or ErrWrongType.
func AsHTTPResponse(p *Packet) (HTTPResponseValue, error) {
	if p == nil || !p.typ.Equal(HTTPResp) {
		return HTTPResponseValue{}, ErrWrongType
	}
	return p.value.(HTTPResponseValue), nil
}

// NewError creates an error packet, the shape routed through every node's
// implicit error output port.
func NewError(code int32, message string) *Packet {
	return newPacket(Error, ErrorValue{Code: code, Message: message})
}

// AsError returns the value of an error packet, or ErrWrongType.
func AsError(p *Packet) (ErrorValue, error) {
	if p == nil || !p.typ.Equal(Error) {
		return ErrorValue{}, ErrWrongType
	}
	return p.value.(ErrorValue), nil
}
