/*
Package parser implements a textual FBP-like graph language: node
declarations, anonymous nodes, chained connections, port/option
exports, and DECLARE metatype directives.

Parsing is a hand-written two-stage process (manual scanning over a
small grammar, no parser-generator dependency): ParseGraph lexes and
builds a *Graph AST, and Parser.Parse walks that AST issuing the
corresponding pkg/builder calls: all declarations first, then nodes,
connections and exports, each group in document order.

Anonymous node names (the `_(component)` form) are synthesised as
`_1`, `_2`,... in file order; a github.com/google/uuid suffix is used
only on the rare collision against an explicitly chosen name.
*/
package parser
