package option

import "fmt"

// Kind tags the shape carried by a Value.
type Kind int

const (
	KindBool Kind = iota
	KindByte
	KindInt32
	KindFloat64
	KindIntRange
	KindDoubleRange
	KindRGB
	KindDirVector
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindByte:
		return "byte"
	case KindInt32:
		return "int32"
	case KindFloat64:
		return "float64"
	case KindIntRange:
		return "integer-range"
	case KindDoubleRange:
		return "double-range"
	case KindRGB:
		return "rgb"
	case KindDirVector:
		return "direction-vector"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IntRangeSpec is the value carried by a KindIntRange member.
type IntRangeSpec struct{ Value, Min, Max, Step int32 }

// DoubleRangeSpec is the value carried by a KindDoubleRange member.
type DoubleRangeSpec struct{ Value, Min, Max, Step float64 }

// RGBSpec is the value carried by a KindRGB member.
type RGBSpec struct{ R, G, B, RMax, GMax, BMax uint32 }

// DirVectorSpec is the value carried by a KindDirVector member.
type DirVectorSpec struct {
	X, Y, Z  float64
	Min, Max float64
}

// Value is a typed configuration value.
type Value struct {
	Kind    Kind
	payload any
}

func Bool(v bool) Value                   { return Value{Kind: KindBool, payload: v} }
func Byte(v byte) Value                   { return Value{Kind: KindByte, payload: v} }
func Int32(v int32) Value                 { return Value{Kind: KindInt32, payload: v} }
func Float64(v float64) Value             { return Value{Kind: KindFloat64, payload: v} }
func IntRange(v IntRangeSpec) Value       { return Value{Kind: KindIntRange, payload: v} }
func DoubleRange(v DoubleRangeSpec) Value { return Value{Kind: KindDoubleRange, payload: v} }
func RGB(v RGBSpec) Value                 { return Value{Kind: KindRGB, payload: v} }
func DirVector(v DirVectorSpec) Value     { return Value{Kind: KindDirVector, payload: v} }
func String(v string) Value               { return Value{Kind: KindString, payload: v} }

func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("option: %s is not boolean", v.Kind)
	}
	return v.payload.(bool), nil
}

func (v Value) AsByte() (byte, error) {
	if v.Kind != KindByte {
		return 0, fmt.Errorf("option: %s is not byte", v.Kind)
	}
	return v.payload.(byte), nil
}

func (v Value) AsInt32() (int32, error) {
	if v.Kind != KindInt32 {
		return 0, fmt.Errorf("option: %s is not int32", v.Kind)
	}
	return v.payload.(int32), nil
}

func (v Value) AsFloat64() (float64, error) {
	if v.Kind != KindFloat64 {
		return 0, fmt.Errorf("option: %s is not float64", v.Kind)
	}
	return v.payload.(float64), nil
}

func (v Value) AsIntRange() (IntRangeSpec, error) {
	if v.Kind != KindIntRange {
		return IntRangeSpec{}, fmt.Errorf("option: %s is not integer-range", v.Kind)
	}
	return v.payload.(IntRangeSpec), nil
}

func (v Value) AsDoubleRange() (DoubleRangeSpec, error) {
	if v.Kind != KindDoubleRange {
		return DoubleRangeSpec{}, fmt.Errorf("option: %s is not double-range", v.Kind)
	}
	return v.payload.(DoubleRangeSpec), nil
}

func (v Value) AsRGB() (RGBSpec, error) {
	if v.Kind != KindRGB {
		return RGBSpec{}, fmt.Errorf("option: %s is not rgb", v.Kind)
	}
	return v.payload.(RGBSpec), nil
}

func (v Value) AsDirVector() (DirVectorSpec, error) {
	if v.Kind != KindDirVector {
		return DirVectorSpec{}, fmt.Errorf("option: %s is not direction-vector", v.Kind)
	}
	return v.payload.(DirVectorSpec), nil
}

func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("option: %s is not string", v.Kind)
	}
	return v.payload.(string), nil
}
