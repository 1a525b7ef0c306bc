/*
Package flow implements the static-flow container: the runtime engine that
instantiates a composite node type (built by pkg/builder) into a live tree
of child nodes and routes packets between them.

A composite type produced by pkg/builder.Builder.GetNodeType is, under the
hood, a *flow.CompositeType. Opening it allocates a *Container that owns
the children, the connection table, and the exported-port forwarding
tables. Packet delivery walks the same sorted connection table the builder
finalised, via binary search on (src child index, src port).
*/
package flow
