package parser

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NodeDecl is one `name(component[:opts])` or `_(component[:opts])`
// declaration.
type NodeDecl struct {
	Name          string
	Component     string
	InlineOptions []string
	Anonymous     bool
	Line          int
}

// Endpoint is one side of a connection: a node name plus an optional port
// and array sub-index (-1 means no index given).
type Endpoint struct {
	Node  string
	Port  string
	Index int
}

// ConnDecl is one edge parsed from a `src.PORT -> PORT dst` segment,
// including segments produced by chaining.
type ConnDecl struct {
	Src  Endpoint
	Dst  Endpoint
	Line int
}

// ExportDecl is one `INPORT=`/`OUTPORT=`/`OPTION=` line.
type ExportDecl struct {
	Kind         ExportKind
	Node         string
	Port         string
	Index        int
	ExportedName string
	Line         int
}

type ExportKind int

const (
	ExportIn ExportKind = iota
	ExportOut
	ExportOption
)

// DeclareDecl is one `DECLARE=name:metatype:contents` line.
type DeclareDecl struct {
	Name     string
	Metatype string
	Contents string
	Line     int
}

// Graph is the parsed AST of one FBP document.
type Graph struct {
	Nodes       []NodeDecl
	Connections []ConnDecl
	Exports     []ExportDecl
	Declares    []DeclareDecl
}

// nameState is shared across every line of one ParseGraph call: it
// synthesises anonymous node names in file order and remembers every name
// handed out so a later anonymous node cannot collide with one already in
// use.
type nameState struct {
	counter int
	seen    map[string]bool
}

func newNameState() *nameState { return &nameState{seen: make(map[string]bool)} }

// synth returns the next "_N" anonymous name, falling back to a
// uuid-derived name on the rare collision against an explicitly chosen
// node name.
func (ns *nameState) synth() string {
	ns.counter++
	name := fmt.Sprintf("_%d", ns.counter)
	if ns.seen[name] {
		name = "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	ns.seen[name] = true
	return name
}

// ParseGraph lexes and parses an FBP document into a Graph. filename is
// used only for ParseError messages.
func ParseGraph(filename, source string) (*Graph, error) {
	g := &Graph{}
	ns := newNameState()
	registered := make(map[string]bool)

	registerDecl := func(d NodeDecl) {
		if !registered[d.Name] {
			registered[d.Name] = true
			g.Nodes = append(g.Nodes, d)
		}
	}

	sc := bufio.NewScanner(strings.NewReader(source))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := stripComment(sc.Text())
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "DECLARE="):
			d, err := parseDeclareLine(filename, lineNo, line)
			if err != nil {
				return nil, err
			}
			g.Declares = append(g.Declares, *d)
		case strings.HasPrefix(line, "INPORT="):
			e, err := parseExportLine(filename, lineNo, ExportIn, line)
			if err != nil {
				return nil, err
			}
			g.Exports = append(g.Exports, *e)
		case strings.HasPrefix(line, "OUTPORT="):
			e, err := parseExportLine(filename, lineNo, ExportOut, line)
			if err != nil {
				return nil, err
			}
			g.Exports = append(g.Exports, *e)
		case strings.HasPrefix(line, "OPTION="):
			e, err := parseExportLine(filename, lineNo, ExportOption, line)
			if err != nil {
				return nil, err
			}
			g.Exports = append(g.Exports, *e)
		default:
			decls, conns, err := parseGraphLine(filename, lineNo, line, ns)
			if err != nil {
				return nil, err
			}
			for _, d := range decls {
				registerDecl(d)
			}
			g.Connections = append(g.Connections, conns...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parser: scan %s: %w", filename, err)
	}
	return g, nil
}

func stripComment(line string) string {
	inQuote := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inQuote {
			escaped = true
			continue
		}
		if ch == '"' {
			inQuote = !inQuote
			continue
		}
		if ch == '#' && !inQuote {
			return line[:i]
		}
	}
	return line
}

func parseDeclareLine(filename string, lineNo int, line string) (*DeclareDecl, error) {
	rest := strings.TrimPrefix(line, "DECLARE=")
	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return nil, &ParseError{Filename: filename, Line: lineNo, Message: "DECLARE requires name:metatype:contents"}
	}
	return &DeclareDecl{Name: parts[0], Metatype: parts[1], Contents: parts[2], Line: lineNo}, nil
}

func parseExportLine(filename string, lineNo int, kind ExportKind, line string) (*ExportDecl, error) {
	_, rest, ok := strings.Cut(line, "=")
	if !ok {
		return nil, &ParseError{Filename: filename, Line: lineNo, Message: "export line missing '='"}
	}
	nodePort, exportedName, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, &ParseError{Filename: filename, Line: lineNo, Message: "export line missing exported name after ':'"}
	}
	node, portSpec, ok := strings.Cut(nodePort, ".")
	if !ok {
		return nil, &ParseError{Filename: filename, Line: lineNo, Message: "export line missing '.' between node and port/option"}
	}
	port, idx, err := splitBracketIndex(portSpec)
	if err != nil {
		return nil, &ParseError{Filename: filename, Line: lineNo, Message: err.Error()}
	}
	return &ExportDecl{Kind: kind, Node: node, Port: port, Index: idx, ExportedName: exportedName, Line: lineNo}, nil
}

func splitBracketIndex(s string) (string, int, error) {
	open := strings.IndexByte(s, '[')
	if open == -1 {
		return s, -1, nil
	}
	if !strings.HasSuffix(s, "]") {
		return "", 0, fmt.Errorf("unterminated '[' in %q", s)
	}
	idx, err := strconv.Atoi(s[open+1: len(s)-1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid array index in %q: %w", s, err)
	}
	return s[:open], idx, nil
}

// cursor is a hand-rolled scanner over one graph/connection line.
type cursor struct {
	filename string
	line     int
	s        string
	i        int
	ns       *nameState
}

func (c *cursor) skipSpace() {
	for c.i < len(c.s) && (c.s[c.i] == ' ' || c.s[c.i] == '\t') {
		c.i++
	}
}

func (c *cursor) eof() bool { return c.i >= len(c.s) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.s[c.i]
}

func (c *cursor) errf(format string, args...any) error {
	return &ParseError{Filename: c.filename, Line: c.line, Column: c.i + 1, Message: fmt.Sprintf(format, args...)}
}

func isNameByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func (c *cursor) readWhile(pred func(byte) bool) string {
	start := c.i
	for !c.eof() && pred(c.s[c.i]) {
		c.i++
	}
	return c.s[start:c.i]
}

func (c *cursor) readUntilUnquoted(stop byte) string {
	return c.readUntilUnquotedAny(string(stop))
}

func (c *cursor) readUntilUnquotedAny(stops string) string {
	start := c.i
	inQuote := false
	escaped := false
	for !c.eof() {
		ch := c.s[c.i]
		if escaped {
			escaped = false
			c.i++
			continue
		}
		if ch == '\\' && inQuote {
			escaped = true
			c.i++
			continue
		}
		if ch == '"' {
			inQuote = !inQuote
			c.i++
			continue
		}
		if !inQuote && strings.IndexByte(stops, ch) != -1 {
			break
		}
		c.i++
	}
	return c.s[start:c.i]
}

func splitTopLevelComma(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			cur.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' && inQuote {
			cur.WriteByte(ch)
			escaped = true
			continue
		}
		if ch == '"' {
			inQuote = !inQuote
			cur.WriteByte(ch)
			continue
		}
		if ch == ',' && !inQuote {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	parts = append(parts, cur.String())
	if len(parts) == 1 && parts[0] == "" {
		return nil
	}
	return parts
}

func (c *cursor) parseBracketIndex() (int, error) {
	if c.peek() != '[' {
		return -1, nil
	}
	c.i++
	digits := c.readWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	if c.peek() != ']' {
		return 0, c.errf("expected ']' closing array index")
	}
	c.i++
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, c.errf("invalid array index: %v", err)
	}
	return idx, nil
}

// parsedRef is one endpoint reference: a node name (possibly carrying an
// inline declaration) plus an optional trailing ".PORT[idx]".
type parsedRef struct {
	decl *NodeDecl
	name string
	port string
	idx  int
}

func (c *cursor) parseNodeRef() (parsedRef, error) {
	c.skipSpace()
	var ref parsedRef
	ref.idx = -1

	if c.peek() == '_' && (c.i+1 >= len(c.s) || c.s[c.i+1] == '(') {
		c.i++
		if c.peek() != '(' {
			return ref, c.errf("anonymous node requires (component)")
		}
		component, opts, err := c.parseInlineDecl()
		if err != nil {
			return ref, err
		}
		name := c.ns.synth()
		ref.name = name
		ref.decl = &NodeDecl{Name: name, Component: component, InlineOptions: opts, Anonymous: true, Line: c.line}
	} else {
		name := c.readWhile(isNameByte)
		if name == "" {
			return ref, c.errf("expected node name")
		}
		ref.name = name
		if c.peek() == '(' {
			component, opts, err := c.parseInlineDecl()
			if err != nil {
				return ref, err
			}
			c.ns.seen[name] = true
			ref.decl = &NodeDecl{Name: name, Component: component, InlineOptions: opts, Line: c.line}
		}
	}

	if c.peek() == '.' {
		c.i++
		port := c.readWhile(isNameByte)
		if port == "" {
			return ref, c.errf("expected port name after '.'")
		}
		ref.port = port
		idx, err := c.parseBracketIndex()
		if err != nil {
			return ref, err
		}
		ref.idx = idx
	}
	return ref, nil
}

func (c *cursor) parseInlineDecl() (string, []string, error) {
	if c.peek() != '(' {
		return "", nil, c.errf("expected '('")
	}
	c.i++
	component := strings.TrimSpace(c.readUntilUnquotedAny(":)"))
	var opts []string
	if c.peek() == ':' {
		c.i++
		optsStr := c.readUntilUnquoted(')')
		opts = splitTopLevelComma(optsStr)
	}
	if c.peek() != ')' {
		return "", nil, c.errf("expected ')' closing component declaration")
	}
	c.i++
	return component, opts, nil
}

// parseGraphLine parses one node-declaration/connection line, returning
// every inline NodeDecl encountered (in order) and every ConnDecl formed
// by chained "->" segments. A line may lead with a comma-separated list
// of bare nodespecs ("a(Type), b(Type)") declaring nodes in parallel
// with no connection between them; an arrow chain, if present, always
// follows that list and starts from its last nodespec.
func parseGraphLine(filename string, lineNo int, line string, ns *nameState) ([]NodeDecl, []ConnDecl, error) {
	c := &cursor{filename: filename, line: lineNo, s: line, ns: ns}
	first, err := c.parseNodeRef()
	if err != nil {
		return nil, nil, err
	}
	decls := collectDecl(first)
	prev := first

	for {
		c.skipSpace()
		if c.eof() {
			return decls, nil, nil
		}
		if c.peek() != ',' {
			break
		}
		c.i++
		c.skipSpace()
		next, err := c.parseNodeRef()
		if err != nil {
			return nil, nil, err
		}
		decls = append(decls, collectDecl(next)...)
		prev = next
	}

	// The source port may also follow its nodespec after whitespace
	// ("a(Type) OUT -> IN b") instead of after a '.'.
	if prev.port == "" && isNameByte(c.peek()) {
		prev.port = c.readWhile(isNameByte)
		if prev.idx, err = c.parseBracketIndex(); err != nil {
			return nil, nil, err
		}
		c.skipSpace()
	}

	if !strings.HasPrefix(c.s[c.i:], "->") {
		return nil, nil, c.errf("expected ',' or '->'")
	}

	var conns []ConnDecl
	for {
		c.skipSpace()
		if c.eof() {
			break
		}
		if !strings.HasPrefix(c.s[c.i:], "->") {
			return nil, nil, c.errf("expected '->'")
		}
		c.i += 2
		c.skipSpace()
		dstPort := c.readWhile(isNameByte)
		if dstPort == "" {
			return nil, nil, c.errf("expected destination port name")
		}
		dstIdx, err := c.parseBracketIndex()
		if err != nil {
			return nil, nil, err
		}
		c.skipSpace()
		next, err := c.parseNodeRef()
		if err != nil {
			return nil, nil, err
		}
		if prev.port == "" {
			return nil, nil, c.errf("node %q has no source port before '->'", prev.name)
		}
		conns = append(conns, ConnDecl{
			Src:  Endpoint{Node: prev.name, Port: prev.port, Index: prev.idx},
			Dst:  Endpoint{Node: next.name, Port: dstPort, Index: dstIdx},
			Line: lineNo,
		})
		decls = append(decls, collectDecl(next)...)
		prev = next
	}
	return decls, conns, nil
}

func collectDecl(ref parsedRef) []NodeDecl {
	if ref.decl == nil {
		return nil
	}
	return []NodeDecl{*ref.decl}
}
