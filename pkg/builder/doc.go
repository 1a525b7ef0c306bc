/*
Package builder implements the stateful accumulator that turns a sequence
of add-node/connect/export calls into an immutable composite node type.

A Builder is consumed exactly once: operations accumulate state (Connect
and ConnectByIndex reject exact duplicate connections as they are
added), and GetNodeType finalises it into a *flow.CompositeType, sorting
the connection table and installing the options_setter implied by any
exported options. After GetNodeType, the
builder is spent — any further mutation fails with ErrAlreadyFinalised.

pkg/parser is the builder's main caller, translating an FBP text
document's AST into the corresponding sequence of Builder calls.
*/
package builder
