// Package nodetype defines the polymorphic contract every node
// satisfies: a Type describes port layouts, an options description,
// and lifecycle hooks (Open/Close/InitType/DisposeType); a Node is a live
// instance of a Type.
//
// There is no inheritance here: Type is a plain interface,
// and the composite type (pkg/builder, pkg/flow) and the single-node
// wrapper (pkg/wrapper) are its two concrete implementers, alongside
// whatever leaf node types a library (pkg/builtin here) provides.
package nodetype
