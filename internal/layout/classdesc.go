package layout

import (
	"github.com/xyproto/classplan/internal/hash"
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/types"
)

// ClassDescriptors holds every class's descriptor StructLayout (name,
// prefix fields, fixed-capacity method table) and the capacity each one
// was sized to.
type ClassDescriptors struct {
	byClass    map[mir.ClassID]*Sealed[*StructLayout]
	capacities map[mir.ClassID]int
}

// Get returns the sealed class-descriptor layout for a class.
func (c *ClassDescriptors) Get(id mir.ClassID) *Sealed[*StructLayout] {
	return c.byClass[id]
}

// Capacity returns the method-table capacity a class was sized to (len of
// the method-table array, field index ClassMethodsIndex).
func (c *ClassDescriptors) Capacity(id mir.ClassID) int {
	return c.capacities[id]
}

// BuildClassDescriptors is the class-descriptor half of Phase A:
// it sizes every class's method table from its instance method count and
// materializes the uniform prefix + fixed-capacity method-table body.
// This can run alongside BuildOpaqueHandles since descriptor shape never
// depends on instance field bodies.
func BuildClassDescriptors(m *mir.Mir) *ClassDescriptors {
	descs := &ClassDescriptors{
		byClass:    make(map[mir.ClassID]*Sealed[*StructLayout]),
		capacities: make(map[mir.ClassID]int),
	}

	for id, class := range m.Classes {
		capacity := hash.Capacity(len(class.InstanceMethods))
		descs.capacities[id] = capacity

		name := class.QualifiedName() + ".class"
		desc := NewOpaqueStruct(name)
		desc.SetBody(classDescriptorBody(capacity))

		sealed := NewSealed(name, desc)
		sealed.Seal()
		descs.byClass[id] = sealed
	}

	return descs
}

// EmptyClassDescriptor builds the zero-capacity class-descriptor layout
// used by dynamic-dispatch code generation when the concrete receiver
// class isn't statically known.
func EmptyClassDescriptor() *StructLayout {
	desc := NewOpaqueStruct("")
	desc.SetBody(classDescriptorBody(0))
	return desc
}

func classDescriptorBody(capacity int) []types.LoweredType {
	slot := types.Struct(types.Int(64), types.Pointer()) // {hash, fn ptr}
	table := make([]types.LoweredType, capacity)
	for i := range table {
		table[i] = slot
	}

	return []types.LoweredType{
		types.Pointer(),      // class pointer metadata
		types.Int(32),        // refs-equivalent metadata slot
		types.Int(16),        // method count
		types.Struct(table...), // method-table array
	}
}
