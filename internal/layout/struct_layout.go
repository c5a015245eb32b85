package layout

import (
	"fmt"

	"github.com/xyproto/classplan/internal/types"
)

// StructLayout is an opaque-then-filled struct handle: Phase A of the
// type layout builder allocates one per class with no body yet, so
// that field types may reference any other class regardless of
// declaration order; Phase B fills each one's body in.
type StructLayout struct {
	Name   string
	fields []types.LoweredType
	hasBody bool
}

// NewOpaqueStruct allocates a named struct handle with no body yet.
func NewOpaqueStruct(name string) *StructLayout {
	return &StructLayout{Name: name}
}

// SetBody fills in the struct's field list. May only be called once per
// handle (a second call would mean Phase B ran twice for the same class,
// an internal invariant violation).
func (s *StructLayout) SetBody(fields []types.LoweredType) {
	if s.hasBody {
		panic(fmt.Sprintf("struct %q: body already set", s.Name))
	}
	s.fields = fields
	s.hasBody = true
}

// NumFields returns the number of top-level fields in the body.
func (s *StructLayout) NumFields() int {
	return len(s.fields)
}

// FieldAt returns the type of the field at the given index.
func (s *StructLayout) FieldAt(index int) types.LoweredType {
	return s.fields[index]
}

// Fields returns the full field list, in order.
func (s *StructLayout) Fields() []types.LoweredType {
	return s.fields
}
