package typecache

import (
	"github.com/cuemby/flowrt/pkg/nodetype"
)

// PortRecord describes one port's static layout: name, its flat base
// index, its array width (0 for scalar), and its packet type's name.
type PortRecord struct {
	Name       string `json:"name"`
	Base       uint16 `json:"base"`
	Size       uint16 `json:"size"`
	PacketType string `json:"packet_type"`
}

// OptionRecord describes one option member's static layout.
type OptionRecord struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Required   bool   `json:"required"`
	HasDefault bool   `json:"has_default"`
}

// Record is the persisted shape of a node type's description: enough to
// answer "what does this type look like" without instantiating it.
// Deliberately excludes anything that only exists for a live node (no
// Data, no refcounts, no packets).
type Record struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Author   string `json:"author"`
	URL      string `json:"url"`
	License  string `json:"license"`
	Version  string `json:"version"`

	InPorts  []PortRecord   `json:"in_ports"`
	OutPorts []PortRecord   `json:"out_ports"`
	Options  []OptionRecord `json:"options"`
}

// Describe flattens a nodetype.Type's static layout into a Record. It
// never touches t's Open/Close/Send behaviour, only the descriptive
// surface.
func Describe(t nodetype.Type) Record {
	desc := t.Description()
	rec := Record{
		Name: desc.Name, Category: desc.Category, Summary: desc.Summary,
		Author: desc.Author, URL: desc.URL, License: desc.License, Version: desc.Version,
	}
	for _, p := range t.PortsIn() {
		rec.InPorts = append(rec.InPorts, PortRecord{
			Name: p.Name, Base: p.Base, Size: p.Size, PacketType: p.Desc.PacketType.String(),
		})
	}
	for _, p := range t.PortsOut() {
		rec.OutPorts = append(rec.OutPorts, PortRecord{
			Name: p.Name, Base: p.Base, Size: p.Size, PacketType: p.Desc.PacketType.String(),
		})
	}
	if optDesc := t.Options(); optDesc != nil {
		for _, m := range optDesc.Members {
			rec.Options = append(rec.Options, OptionRecord{
				Name: m.Name, Kind: m.Kind.String(), Required: m.Required, HasDefault: m.HasDefault,
			})
		}
	}
	return rec
}
