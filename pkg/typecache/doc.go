// Package typecache persists composite node type descriptions in a
// bbolt-backed store: a single bucket holding JSON-marshalled records,
// each a flattened nodetype.Description plus its port and option
// layout. Entries are descriptive metadata only; no packet or node
// state is ever stored here, since those only make sense for a live
// process.
package typecache
