// Package packet implements the value and type-identity layer that flows
// across node ports: packets and packet types.
//
// A packet is an opaque, type-tagged value. Two packets are type-compatible
// iff their packet types share identity: built-in types are process-wide
// singletons compared by pointer, composed types are compared structurally
// by their child type sequence. Packet ownership is exclusive: the routing
// layer in pkg/flow acquires a packet for a send and releases it exactly
// once after every destination has processed it.
package packet
