// Package types describes the machine-level types that survive into the
// planner: the lowered shape of every field, argument, and return value
// after the (external, out-of-scope) type lowerer has run.
package types

import "fmt"

// Kind classifies a LoweredType.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindBool
	KindPointer
	KindStruct // inline struct-of-fields (extern-struct classes, FFI aggregates)
	KindOpaque // opaque reference to another class's instance type
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindPointer:
		return "pointer"
	case KindStruct:
		return "struct"
	case KindOpaque:
		return "opaque"
	case KindVoid:
		return "void"
	default:
		return "unknown"
	}
}

// LoweredType is a machine-level type: an integer, a float, a bool, a raw
// pointer, an inline struct of fields, or an opaque reference to another
// class's instance type. It generalizes a Kind/width/element-type triple
// to cover both native and FFI-facing values.
type LoweredType struct {
	Kind Kind

	// BitWidth is meaningful for KindInt/KindFloat/KindPointer (8, 16, 32,
	// 64...). Pointers are always word-sized (64 bits).
	BitWidth int

	// OpaqueName names the class this type opaquely refers to (KindOpaque).
	OpaqueName string

	// Fields holds the member types for KindStruct, in order.
	Fields []LoweredType
}

func Int(bits int) LoweredType     { return LoweredType{Kind: KindInt, BitWidth: bits} }
func Float(bits int) LoweredType   { return LoweredType{Kind: KindFloat, BitWidth: bits} }
func Bool() LoweredType            { return LoweredType{Kind: KindBool, BitWidth: 8} }
func Pointer() LoweredType         { return LoweredType{Kind: KindPointer, BitWidth: 64} }
func Void() LoweredType            { return LoweredType{Kind: KindVoid} }
func Opaque(class string) LoweredType {
	return LoweredType{Kind: KindOpaque, OpaqueName: class, BitWidth: 64}
}
func Struct(fields ...LoweredType) LoweredType {
	bits := 0
	for _, f := range fields {
		bits += f.BitSize()
	}
	return LoweredType{Kind: KindStruct, Fields: fields, BitWidth: bits}
}

// String renders a human-readable type name.
func (t LoweredType) String() string {
	switch t.Kind {
	case KindOpaque:
		return fmt.Sprintf("opaque:%s", t.OpaqueName)
	case KindStruct:
		return fmt.Sprintf("struct(%d fields)", len(t.Fields))
	case KindInt:
		return fmt.Sprintf("i%d", t.BitWidth)
	case KindFloat:
		return fmt.Sprintf("f%d", t.BitWidth)
	default:
		return t.Kind.String()
	}
}

// IsAggregate reports whether this type is passed/returned as a struct
// under the C ABI, i.e. whether sret rewriting may apply to it.
func (t LoweredType) IsAggregate() bool {
	return t.Kind == KindStruct
}

// BitSize returns the type's size in bits. For aggregates this is the sum
// of the member sizes (no padding/alignment is modeled here: callers only
// need this figure to compare against a target's struct-passing
// threshold).
func (t LoweredType) BitSize() int {
	if t.Kind == KindStruct {
		total := 0
		for _, f := range t.Fields {
			total += f.BitSize()
		}
		return total
	}
	return t.BitWidth
}
