package layout

import "github.com/xyproto/classplan/internal/types"

// HeaderSize is the fixed, padded size (in bytes) of an object header.
const HeaderSize = 16

// Reserved method-table slots: the dropper and a closure's call entry
// always occupy the same index in every class's method table.
const (
	DropperIndex    = 0
	ClosureCallIndex = 1
)

// Reserved field offsets.
const (
	FieldOffset        = 1 // regular fields start after the header
	ProcessFieldOffset = 2 // process fields start after header + padding
)

// Class-descriptor prefix field indices.
const (
	HeaderClassIndex    = 0
	HeaderRefsIndex     = 1
	ClassMethodsCountIndex = 2
	ClassMethodsIndex   = 3
)

// Method-slot field indices.
const (
	MethodHashIndex     = 0
	MethodFunctionIndex = 1
)

// Context field indices.
const (
	ContextStateIndex   = 0
	ContextProcessIndex = 1
	ContextArgsIndex    = 2
)

// Message field indices.
const MessageArgumentsIndex = 2

// Templates holds the fixed runtime-layout-contract structs built once,
// before any class is processed.
type Templates struct {
	Header       *StructLayout
	Method       *StructLayout // a single method-table slot: {hash, fn ptr}
	Context      *StructLayout
	State        *StructLayout
	MethodCounts *StructLayout
	Message      *StructLayout
}

// NewTemplates builds every fixed layout-contract struct.
func NewTemplates() *Templates {
	header := NewOpaqueStruct("Header")
	header.SetBody([]types.LoweredType{
		types.Pointer(),  // class pointer
		types.Int(32),    // reference count
	})

	method := NewOpaqueStruct("Method")
	method.SetBody([]types.LoweredType{
		types.Int(64),   // hash
		types.Pointer(), // function pointer
	})

	state := NewOpaqueStruct("State")
	state.SetBody([]types.LoweredType{
		types.Pointer(), // *String class
		types.Pointer(), // *ByteArray class
		types.Pointer(), // hash key 0
		types.Pointer(), // hash key 1
	})

	context := NewOpaqueStruct("Context")
	context.SetBody([]types.LoweredType{
		types.Pointer(), // *State
		types.Pointer(), // *Process
		types.Pointer(), // *Arguments
	})

	methodCounts := NewOpaqueStruct("MethodCounts")
	methodCounts.SetBody([]types.LoweredType{
		types.Int(16), // String methods
		types.Int(16), // ByteArray methods
	})

	message := NewOpaqueStruct("Message")
	message.SetBody([]types.LoweredType{
		types.Pointer(),                 // function pointer
		types.Int(8),                    // length
		types.Struct(), // flexible array member: zero-length arguments array
	})

	return &Templates{
		Header:       header,
		Method:       method,
		Context:      context,
		State:        state,
		MethodCounts: methodCounts,
		Message:      message,
	}
}
