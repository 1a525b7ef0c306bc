// Package option implements the typed configuration model for node
// types: member descriptions, a strongly-typed Value union, and the two
// representations a node's configuration passes through — Named (an
// unordered {name: Value} map produced while parsing/resolving) and
// Options (an ordered, member-validated blob materialised for a node's
// lifetime).
//
// A typed Go value stands in for a byte-blob-with-offsets
// representation; there is no FFI boundary here to marshal across, so
// Options never touches raw bytes.
package option
