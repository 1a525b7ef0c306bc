package parser

import (
	"fmt"

	"github.com/cuemby/flowrt/pkg/builder"
	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/flowmetrics"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/resolver"
)

// MetatypeContext is passed to a MetatypeCreator. ReadFile is nil unless the parser was constructed
// with a read-file callback.
type MetatypeContext struct {
	Name      string
	Contents  string
	ReadFile  func(name string) ([]byte, error)
	StoreType func(t nodetype.Type)
}

// MetatypeCreator builds a node type from a DECLARE line's contents.
type MetatypeCreator func(ctx *MetatypeContext) (nodetype.Type, error)

// Parser drives ParseGraph's AST through pkg/builder, producing every
// composite type a document declares.
//
// A Parser is reusable across documents; DECLARE names from one Parse
// call never leak into the next (each call builds its own shadowing
// resolver over the external one).
type Parser struct {
	external   resolver.Resolver
	readFile   func(name string) ([]byte, error)
	metatypes  map[string]MetatypeCreator
	storedType []nodetype.Type
}

// New builds a Parser. external is consulted after any DECLAREd types.
// readFile backs the built-in "fbp" metatype's file inclusion; it may
// be nil if the document never DECLAREs an fbp metatype.
func New(external resolver.Resolver, readFile func(name string) ([]byte, error)) *Parser {
	p := &Parser{
		external:  external,
		readFile:  readFile,
		metatypes: make(map[string]MetatypeCreator),
	}
	p.RegisterMetatype("fbp", p.fbpMetatype)
	return p
}

// RegisterMetatype adds or replaces the creator used for a DECLARE whose
// metatype field equals name.
func (p *Parser) RegisterMetatype(name string, creator MetatypeCreator) {
	p.metatypes[name] = creator
}

// declareResolver shadows an external resolver with DECLAREd names.
type declareResolver struct {
	declared map[string]nodetype.Type
	next     resolver.Resolver
}

func (r *declareResolver) Resolve(id string) (resolver.Resolved, error) {
	if t, ok := r.declared[id]; ok {
		return resolver.Resolved{Type: t, Options: option.Named{}}, nil
	}
	if r.next == nil {
		return resolver.Resolved{}, fmt.Errorf("parser: resolve %q: %w", id, flowerrors.ErrNotFound)
	}
	return r.next.Resolve(id)
}

// Parse lexes source, processes every DECLARE, then every node,
// connection and export (each group in document order), and returns the
// resulting composite node type.
// filename is used only for ParseError positions.
func (p *Parser) Parse(filename, source string) (t nodetype.Type, err error) {
	defer func() {
		if err != nil {
			flowmetrics.ParseErrorsTotal.Inc()
		}
	}()

	g, err := ParseGraph(filename, source)
	if err != nil {
		return nil, err
	}

	dr := &declareResolver{declared: make(map[string]nodetype.Type), next: p.external}

	for _, d := range g.Declares {
		creator, ok := p.metatypes[d.Metatype]
		if !ok {
			return nil, fmt.Errorf("parser: declare %q: %w: unknown metatype %q", d.Name, flowerrors.ErrNotFound, d.Metatype)
		}
		ctx := &MetatypeContext{
			Name:     d.Name,
			Contents: d.Contents,
			ReadFile: p.readFile,
			StoreType: func(t nodetype.Type) {
				p.storedType = append(p.storedType, t)
			},
		}
		t, err := creator(ctx)
		if err != nil {
			return nil, fmt.Errorf("parser: declare %q: %w", d.Name, err)
		}
		dr.declared[d.Name] = t
	}

	b := builder.New(dr)
	for _, n := range g.Nodes {
		var kv []string
		kv = append(kv, n.InlineOptions...)
		if err := b.AddNodeByType(n.Name, n.Component, kv); err != nil {
			return nil, fmt.Errorf("parser: node %q: %w", n.Name, err)
		}
	}
	for _, c := range g.Connections {
		if err := b.Connect(c.Src.Node, c.Src.Port, c.Src.Index, c.Dst.Node, c.Dst.Port, c.Dst.Index); err != nil {
			return nil, fmt.Errorf("parser: connect %s.%s -> %s.%s: %w", c.Src.Node, c.Src.Port, c.Dst.Node, c.Dst.Port, err)
		}
	}
	for _, e := range g.Exports {
		var err error
		switch e.Kind {
		case ExportIn:
			err = b.ExportInPort(e.Node, e.Port, e.Index, e.ExportedName)
		case ExportOut:
			err = b.ExportOutPort(e.Node, e.Port, e.Index, e.ExportedName)
		case ExportOption:
			err = b.ExportOption(e.Node, e.Port, e.ExportedName)
		}
		if err != nil {
			return nil, fmt.Errorf("parser: export %q: %w", e.ExportedName, err)
		}
	}

	t, err = b.GetNodeType()
	if err != nil {
		return nil, fmt.Errorf("parser: %s: %w", filename, err)
	}
	p.storedType = append(p.storedType, t)
	return t, nil
}

// fbpMetatype is the built-in "fbp" creator.
func (p *Parser) fbpMetatype(ctx *MetatypeContext) (nodetype.Type, error) {
	if ctx.ReadFile == nil {
		return nil, fmt.Errorf("parser: declare %q: %w: fbp metatype requires a read-file callback", ctx.Name, flowerrors.ErrNotSupported)
	}
	buf, err := ctx.ReadFile(ctx.Contents)
	if err != nil {
		return nil, fmt.Errorf("parser: read %q: %w", ctx.Contents, err)
	}
	t, err := p.Parse(ctx.Contents, string(buf))
	if err != nil {
		return nil, err
	}
	ctx.StoreType(t)
	return t, nil
}
