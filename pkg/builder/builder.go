package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cuemby/flowrt/pkg/flow"
	"github.com/cuemby/flowrt/pkg/flowerrors"
	"github.com/cuemby/flowrt/pkg/flowmetrics"
	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/option"
	"github.com/cuemby/flowrt/pkg/resolver"
)

// Builder accumulates nodes, connections, and exports, then finalises
// them into a composite node type via GetNodeType. A
// Builder is single-use: once GetNodeType has run, every mutating method
// fails with ErrAlreadyFinalised.
type Builder struct {
	resolver resolver.Resolver

	description nodetype.Description

	nodes     []flow.NodeSpec
	nodeIndex map[string]int

	connections []flow.Connection
	connSet     map[flow.Connection]struct{}

	exportedIn      []flow.ExportedPort
	exportedOut     []flow.ExportedPort
	exportedOptions []flow.ExportedOption
	exportedInNames map[string]bool
	exportedOutName map[string]bool

	finalised bool
}

// New creates a Builder. r resolves type names for AddNodeByType; it may
// be nil if every node is added via AddNode with an already-resolved
// nodetype.Type.
func New(r resolver.Resolver) *Builder {
	return &Builder{
		resolver:        r,
		nodeIndex:       make(map[string]int),
		connSet:         make(map[flow.Connection]struct{}),
		exportedInNames: make(map[string]bool),
		exportedOutName: make(map[string]bool),
	}
}

// AddNode records a new child with an already-resolved type and
// materialised options.
func (b *Builder) AddNode(name string, t nodetype.Type, opts *option.Options) error {
	return b.addNode(name, t, opts, false)
}

// AddNodeByType resolves typename through the builder's resolver, parses
// kv ("name=value" strings) against the resolved type's option
// description with the resolver's default named options merged
// underneath (inline wins on conflicts), and adds the resulting node.
func (b *Builder) AddNodeByType(name, typename string, kv []string) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	if b.resolver == nil {
		return fmt.Errorf("builder: add_node_by_type %q: %w: no resolver configured", name, flowerrors.ErrInvalidArgument)
	}
	resolved, err := b.resolver.Resolve(typename)
	if err != nil {
		return fmt.Errorf("builder: resolve %q: %w", typename, err)
	}
	inline, err := option.ParseNamedFromStrings(resolved.Type.Options(), kv)
	if err != nil {
		return fmt.Errorf("builder: node %q: %w", name, err)
	}
	merged := resolved.Options.Merge(inline)
	opts, err := option.New(resolved.Type.Options(), merged)
	if err != nil {
		return fmt.Errorf("builder: node %q: %w", name, err)
	}
	return b.addNode(name, resolved.Type, opts, true)
}

func (b *Builder) addNode(name string, t nodetype.Type, opts *option.Options, ownsOptions bool) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	if _, exists := b.nodeIndex[name]; exists {
		return fmt.Errorf("builder: node %q: %w", name, flowerrors.ErrDuplicateName)
	}
	if err := validatePortNames(t); err != nil {
		return fmt.Errorf("builder: node %q: %w", name, err)
	}
	b.nodeIndex[name] = len(b.nodes)
	b.nodes = append(b.nodes, flow.NodeSpec{Name: name, Type: t, Options: opts, OwnsOptions: ownsOptions})
	return nil
}

func validatePortNames(t nodetype.Type) error {
	seen := make(map[string]bool)
	for _, p := range t.PortsIn() {
		if seen[p.Name] {
			return fmt.Errorf("input port %q: %w", p.Name, flowerrors.ErrDuplicatePort)
		}
		seen[p.Name] = true
	}
	seen = make(map[string]bool)
	for _, p := range t.PortsOut() {
		if p.Name == "ERROR" {
			return fmt.Errorf("output port %q: %w: reserved name", p.Name, flowerrors.ErrInvalidArgument)
		}
		if seen[p.Name] {
			return fmt.Errorf("output port %q: %w", p.Name, flowerrors.ErrDuplicatePort)
		}
		seen[p.Name] = true
	}
	return nil
}

// Connect resolves both endpoints by name (and array sub-index, -1 for
// "not an array") and appends the edge to the connection list.
func (b *Builder) Connect(srcName, srcPortName string, srcPortIdx int, dstName, dstPortName string, dstPortIdx int) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	srcIdx, srcNode, err := b.lookupNode(srcName)
	if err != nil {
		return err
	}
	dstIdx, dstNode, err := b.lookupNode(dstName)
	if err != nil {
		return err
	}
	srcPort, err := srcNode.Type.PortsOut().ByName(srcPortName, srcPortIdx)
	if err != nil {
		return fmt.Errorf("builder: %q.%s: %w", srcName, srcPortName, err)
	}
	dstPort, err := dstNode.Type.PortsIn().ByName(dstPortName, dstPortIdx)
	if err != nil {
		return fmt.Errorf("builder: %q.%s: %w", dstName, dstPortName, err)
	}
	return b.ConnectByIndex(srcIdx, srcPort, dstIdx, dstPort)
}

// ConnectByIndex appends a connection using already-resolved node indices
// and numeric ports, bounds-checked against each type's port table
// without consulting names.
func (b *Builder) ConnectByIndex(srcIdx int, srcPort uint16, dstIdx int, dstPort uint16) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	if srcIdx < 0 || srcIdx >= len(b.nodes) {
		return fmt.Errorf("builder: src node index %d: %w", srcIdx, flowerrors.ErrPortIndexOutOfRange)
	}
	if dstIdx < 0 || dstIdx >= len(b.nodes) {
		return fmt.Errorf("builder: dst node index %d: %w", dstIdx, flowerrors.ErrPortIndexOutOfRange)
	}
	if _, err := b.nodes[srcIdx].Type.PortsOut().Lookup(srcPort); err != nil {
		return fmt.Errorf("builder: src port %d: %w", srcPort, err)
	}
	if _, err := b.nodes[dstIdx].Type.PortsIn().Lookup(dstPort); err != nil {
		return fmt.Errorf("builder: dst port %d: %w", dstPort, err)
	}

	conn := flow.Connection{SrcIdx: srcIdx, SrcPort: srcPort, DstIdx: dstIdx, DstPort: dstPort}
	if _, dup := b.connSet[conn]; dup {
		return fmt.Errorf("builder: %s.%d -> %s.%d: %w",
			b.nodes[srcIdx].Name, srcPort, b.nodes[dstIdx].Name, dstPort, flowerrors.ErrDuplicateConnection)
	}
	b.connSet[conn] = struct{}{}
	b.connections = append(b.connections, conn)
	return nil
}

// ExportInPort appends a composite-level input port forwarding to
// childName's port. If portIdx == -1 and
// the child's port is an array, every sub-port is exported contiguously
// under exportedName.
func (b *Builder) ExportInPort(childName, portName string, portIdx int, exportedName string) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	childIdx, child, err := b.lookupNode(childName)
	if err != nil {
		return err
	}
	if b.exportedInNames[exportedName] {
		return fmt.Errorf("builder: exported in-port %q: %w", exportedName, flowerrors.ErrDuplicatePort)
	}
	spec, found := findInPortSpec(child.Type.PortsIn(), portName)
	if !found {
		return fmt.Errorf("builder: %q.%s: %w", childName, portName, flowerrors.ErrNotFound)
	}

	var targets []flow.PortTarget
	if portIdx == -1 && spec.Size > 1 {
		for i := uint16(0); i < spec.Size; i++ {
			targets = append(targets, flow.PortTarget{ChildIdx: childIdx, ChildPort: spec.Base + i})
		}
	} else {
		idx, err := child.Type.PortsIn().ByName(portName, portIdx)
		if err != nil {
			return fmt.Errorf("builder: %q.%s: %w", childName, portName, err)
		}
		targets = []flow.PortTarget{{ChildIdx: childIdx, ChildPort: idx}}
	}

	base := exportedPortWidth(b.exportedIn)
	b.exportedIn = append(b.exportedIn, flow.ExportedPort{
		Name: exportedName, Base: base, Size: uint16(len(targets)), Targets: targets,
	})
	b.exportedInNames[exportedName] = true
	return nil
}

// ExportOutPort is the output-port analogue of ExportInPort.
func (b *Builder) ExportOutPort(childName, portName string, portIdx int, exportedName string) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	childIdx, child, err := b.lookupNode(childName)
	if err != nil {
		return err
	}
	if b.exportedOutName[exportedName] {
		return fmt.Errorf("builder: exported out-port %q: %w", exportedName, flowerrors.ErrDuplicatePort)
	}
	spec, found := findOutPortSpec(child.Type.PortsOut(), portName)
	if !found {
		return fmt.Errorf("builder: %q.%s: %w", childName, portName, flowerrors.ErrNotFound)
	}

	var targets []flow.PortTarget
	if portIdx == -1 && spec.Size > 1 {
		for i := uint16(0); i < spec.Size; i++ {
			targets = append(targets, flow.PortTarget{ChildIdx: childIdx, ChildPort: spec.Base + i})
		}
	} else {
		idx, err := child.Type.PortsOut().ByName(portName, portIdx)
		if err != nil {
			return fmt.Errorf("builder: %q.%s: %w", childName, portName, err)
		}
		targets = []flow.PortTarget{{ChildIdx: childIdx, ChildPort: idx}}
	}

	base := exportedPortWidth(b.exportedOut)
	b.exportedOut = append(b.exportedOut, flow.ExportedPort{
		Name: exportedName, Base: base, Size: uint16(len(targets)), Targets: targets,
	})
	b.exportedOutName[exportedName] = true
	return nil
}

// ExportOption records a composite-level option member that forwards into
// childName's optionName at open time. The
// exported member's default comes from the child's already-materialised
// options if present, else the child option descriptor's own default.
func (b *Builder) ExportOption(childName, optionName, exportedName string) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	childIdx, child, err := b.lookupNode(childName)
	if err != nil {
		return err
	}
	member, ok := child.Type.Options().ByName(optionName)
	if !ok {
		return fmt.Errorf("builder: %q.%s: %w", childName, optionName, flowerrors.ErrNotFound)
	}

	exported := option.Member{Name: exportedName, Kind: member.Kind}
	if child.Options != nil {
		if v, ok := child.Options.Get(optionName); ok {
			exported.HasDefault = true
			exported.Default = v
		}
	}
	if !exported.HasDefault && member.HasDefault {
		exported.HasDefault = true
		exported.Default = member.Default
	}
	if !exported.HasDefault {
		exported.Required = member.Required
	}

	b.exportedOptions = append(b.exportedOptions, flow.ExportedOption{
		ChildIdx: childIdx, OptionName: optionName, ExportedName: exportedName, Member: exported,
	})
	return nil
}

// SetTypeDescription sets the composite description's metadata and
// derives Symbol/OptionsSymbol, plain strings intended for tooling.
// name must not contain whitespace.
func (b *Builder) SetTypeDescription(name, category, summary, author, url, license, version string) error {
	if b.finalised {
		return fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("builder: type name %q: %w: contains whitespace", name, flowerrors.ErrInvalidArgument)
	}
	b.description = nodetype.Description{
		Name: name, Category: category, Summary: summary, Author: author,
		URL: url, License: license, Version: version,
		Symbol:        fmt.Sprintf("SOL_FLOW_NODE_TYPE_BUILDER_%s", strings.ToUpper(name)),
		OptionsSymbol: fmt.Sprintf("sol_flow_node_type_builder_%s_options", strings.ToLower(name)),
	}
	return nil
}

// GetNodeType finalises the builder: it sorts the connection list by
// (src, src_port, dst, dst_port), assembles the exported-option
// description, and builds the resulting composite type. The builder must not be mutated afterward.
func (b *Builder) GetNodeType() (nodetype.Type, error) {
	if b.finalised {
		return nil, fmt.Errorf("builder: %w", flowerrors.ErrAlreadyFinalised)
	}

	sorted := append([]flow.Connection(nil), b.connections...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	optionsDesc := &option.Description{}
	for _, eo := range b.exportedOptions {
		optionsDesc.Members = append(optionsDesc.Members, eo.Member)
	}

	spec := &flow.CompositeSpec{
		Description:     b.description,
		Nodes:           b.nodes,
		Connections:     sorted,
		ExportedIn:      b.exportedIn,
		ExportedOut:     b.exportedOut,
		ExportedOptions: b.exportedOptions,
		OptionsDesc:     optionsDesc,
	}

	ct, err := flow.NewCompositeType(spec)
	if err != nil {
		return nil, fmt.Errorf("builder: get_node_type: %w", err)
	}
	b.finalised = true
	flowmetrics.CompositeTypesBuilt.Inc()
	return ct, nil
}

func (b *Builder) lookupNode(name string) (int, flow.NodeSpec, error) {
	idx, ok := b.nodeIndex[name]
	if !ok {
		return 0, flow.NodeSpec{}, fmt.Errorf("builder: node %q: %w", name, flowerrors.ErrNotFound)
	}
	return idx, b.nodes[idx], nil
}

func findInPortSpec(table nodetype.InPortTable, name string) (nodetype.InPortSpec, bool) {
	for _, s := range table {
		if s.Name == name {
			return s, true
		}
	}
	return nodetype.InPortSpec{}, false
}

func findOutPortSpec(table nodetype.OutPortTable, name string) (nodetype.OutPortSpec, bool) {
	for _, s := range table {
		if s.Name == name {
			return s, true
		}
	}
	return nodetype.OutPortSpec{}, false
}

func exportedPortWidth(ports []flow.ExportedPort) uint16 {
	var total uint16
	for _, p := range ports {
		total += p.Size
	}
	return total
}
