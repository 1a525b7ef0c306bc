package packet

import "time"

// IntRange is the value carried by an Int32Range packet: a bounded,
// stepped 32-bit integer.
type IntRange struct {
	Value, Min, Max, Step int32
}

// DoubleRangeValue is the value carried by a DoubleRange packet.
type DoubleRangeValue struct {
	Value, Min, Max, Step float64
}

// RGBValue is the value carried by an RGB packet.
type RGBValue struct {
	R, G, B          uint32
	RMax, GMax, BMax uint32
}

// Vector3Value is the value carried by a direction-vector packet.
type Vector3Value struct {
	X, Y, Z  float64
	Min, Max float64
}

// LocationValue is the value carried by a Location packet.
type LocationValue struct {
	Latitude, Longitude, Altitude float64
}

// HTTPResponseValue is the value carried by an HTTPResp packet.
type HTTPResponseValue struct {
	StatusCode  int
	URL         string
	ContentType string
	Body        []byte
}

// ErrorValue is the value carried by an Error packet: a code/message pair.
type ErrorValue struct {
	Code    int32
	Message string
}

// TimestampValue is the value carried by a Timestamp packet.
type TimestampValue struct {
	Time time.Time
}
