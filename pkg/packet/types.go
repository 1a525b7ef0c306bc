package packet

// Type is a packet-type identity. Built-in types are process-wide
// singletons; two built-in types are equal iff they are the same pointer.
// Composed types carry a Children sequence and are equal iff their
// children are, element-wise, equal.
type Type struct {
	// Name is the human-readable type name, e.g. "boolean" or "int32-range".
	Name string
	// Children is non-nil only for composed packet types, holding the
	// ordered list of child packet types the composed packet packs.
	Children []*Type
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Equal reports whether two packet types share identity. Built-in types
// are compared by pointer; composed types compare their child sequences.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if t.Children == nil || o.Children == nil {
		return false
	}
	if len(t.Children) != len(o.Children) {
		return false
	}
	for i, c := range t.Children {
		if !c.Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// NewComposedType builds a new packet type for a composed packet over the
// given children, in order. Each call allocates a fresh *Type; two composed
// types with the same children compare equal through Type.Equal.
func NewComposedType(name string, children...*Type) *Type {
	return &Type{Name: name, Children: append([]*Type(nil), children...)}
}

// Built-in packet type singletons.
var (
	Empty       = &Type{Name: "empty"}
	Boolean     = &Type{Name: "boolean"}
	Byte        = &Type{Name: "byte"}
	Int32Range  = &Type{Name: "int32-range"}
	DoubleRange = &Type{Name: "double-range"}
	String      = &Type{Name: "string"}
	Blob        = &Type{Name: "blob"}
	RGB         = &Type{Name: "rgb"}
	Vector3     = &Type{Name: "direction-vector"}
	Location    = &Type{Name: "location"}
	Timestamp   = &Type{Name: "timestamp"}
	HTTPResp    = &Type{Name: "http-response"}
	// Error is the type carried by every node's implicit error output
	// port; routed identically to any other packet type.
	Error = &Type{Name: "error"}
)

// BuiltinTypes lists every built-in (non-composed) packet type, in a
// stable order, for introspection tooling.
var BuiltinTypes = []*Type{
	Empty, Boolean, Byte, Int32Range, DoubleRange, String, Blob,
	RGB, Vector3, Location, Timestamp, HTTPResp, Error,
}
