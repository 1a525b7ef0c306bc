package parser

import (
	"fmt"
	"strings"
)

// Unparse renders a Graph back to canonical FBP text, satisfying the
// round-trip law `parse(unparse(graph)) ≡ graph` up to anonymous-node
// renaming. Node declarations are emitted on their own line before any
// connection touching them, using the name already settled on at the
// first parse (including a previously-synthesised "_N" name) rather
// than the bare anonymous form: "_N" lexes as an ordinary node name
// (isNameByte accepts '_' and digits), so the round trip preserves
// connectivity exactly, at the cost of the re-parsed node no longer
// reporting Anonymous=true.
func Unparse(g *Graph) string {
	var b strings.Builder

	for _, d := range g.Declares {
		fmt.Fprintf(&b, "DECLARE=%s:%s:%s\n", d.Name, d.Metatype, d.Contents)
	}
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "%s\n", unparseNodeDecl(n))
	}
	for _, c := range g.Connections {
		fmt.Fprintf(&b, "%s -> %s %s\n", unparseEndpointSrc(c.Src), unparseEndpointDst(c.Dst), c.Dst.Node)
	}
	for _, e := range g.Exports {
		fmt.Fprintf(&b, "%s\n", unparseExport(e))
	}
	return b.String()
}

func unparseNodeDecl(n NodeDecl) string {
	name := n.Name
	if len(n.InlineOptions) == 0 {
		return fmt.Sprintf("%s(%s)", name, n.Component)
	}
	return fmt.Sprintf("%s(%s:%s)", name, n.Component, strings.Join(n.InlineOptions, ","))
}

func unparseEndpointSrc(e Endpoint) string {
	return fmt.Sprintf("%s.%s", e.Node, unparsePortRef(e.Port, e.Index))
}

func unparseEndpointDst(e Endpoint) string {
	return unparsePortRef(e.Port, e.Index)
}

func unparsePortRef(port string, idx int) string {
	if idx < 0 {
		return port
	}
	return fmt.Sprintf("%s[%d]", port, idx)
}

func unparseExport(e ExportDecl) string {
	var prefix string
	switch e.Kind {
	case ExportIn:
		prefix = "INPORT"
	case ExportOut:
		prefix = "OUTPORT"
	case ExportOption:
		prefix = "OPTION"
	}
	return fmt.Sprintf("%s=%s.%s:%s", prefix, e.Node, unparsePortRef(e.Port, e.Index), e.ExportedName)
}
