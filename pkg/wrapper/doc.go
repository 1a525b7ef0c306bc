// Package wrapper hosts a single arbitrary node type as a standalone
// node type, without a surrounding composite graph.
package wrapper
