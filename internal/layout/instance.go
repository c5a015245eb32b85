package layout

import (
	"fmt"

	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/target"
	"github.com/xyproto/classplan/internal/types"
)

// stringClassName names the one builtin class whose instance layout is
// built from its declared fields like a regular class, even though it is
// tagged is-builtin: its field set is considered load-bearing rather
// than an implementation detail the runtime can ignore. Kept as a named
// constant rather than an inline `!= StringID` check so the exception
// reads as intentional at every call site.
const stringClassName = "String"

// InstanceLayouts holds every class's instance StructLayout, sealed once
// the driver finishes Phase B.
type InstanceLayouts struct {
	byClass map[mir.ClassID]*Sealed[*StructLayout]
}

// Get returns the sealed instance layout for a class.
func (l *InstanceLayouts) Get(id mir.ClassID) *Sealed[*StructLayout] {
	return l.byClass[id]
}

// BuildOpaqueHandles is Phase A of the type layout builder: every
// class gets a named, empty struct handle so that field types may
// reference any other class regardless of declaration order. Built-in
// primitive classes (other than String, see stringClassName) get their
// concrete bodies immediately, since their shape never depends on MIR
// field declarations.
func BuildOpaqueHandles(m *mir.Mir) *InstanceLayouts {
	instances := &InstanceLayouts{byClass: make(map[mir.ClassID]*Sealed[*StructLayout])}

	for id, class := range m.Classes {
		name := class.QualifiedName()
		handle := NewOpaqueStruct(name)

		switch {
		case !class.IsBuiltin:
			// Not a primitive, whatever its id: Phase B fills the body.
		case id == mir.IntID:
			handle.SetBody([]types.LoweredType{headerType(), types.Int(64)})
		case id == mir.FloatID:
			handle.SetBody([]types.LoweredType{headerType(), types.Float(64)})
		case id == mir.BoolID, id == mir.NilID:
			handle.SetBody([]types.LoweredType{headerType()})
		case id == mir.ByteArrayID:
			// Inline vector triple: {length, capacity, buffer pointer}.
			handle.SetBody([]types.LoweredType{
				headerType(),
				types.Struct(types.Int(64), types.Int(64), types.Pointer()),
			})
		default:
			// Forward-declared only; Phase B fills the body, including for
			// String, which is builtin but still has declared fields.
		}

		instances.byClass[id] = NewSealed(name, handle)
	}

	return instances
}

func headerType() types.LoweredType {
	// The header occupies field 0 as an inline struct; its own shape is
	// defined by Templates.Header and is opaque to field-level callers.
	return types.Struct(types.Pointer(), types.Int(32))
}

// FillBodies is Phase B of the type layout builder: for each
// non-primitive class (and for String, which keeps its declared field
// layout despite being builtin), build the body: header (+ process
// padding for async classes) followed
// by declared fields in source order; extern-struct classes omit the
// header entirely.
func FillBodies(m *mir.Mir, t target.Target, instances *InstanceLayouts, deps *DependencyGraph) {
	for id, class := range m.Classes {
		if class.IsBuiltin && class.Name != stringClassName {
			instances.byClass[id].Seal() // body already set in Phase A
			continue
		}

		sealed := instances.byClass[id]
		if sealed == nil {
			panic(fmt.Sprintf("class %q has no opaque handle from Phase A", class.QualifiedName()))
		}

		for _, field := range class.Fields {
			if field.Type.Kind == types.KindOpaque {
				deps.AddReference(class.QualifiedName(), field.Type.OpaqueName)
			}
		}

		var fields []types.LoweredType

		if class.Kind.IsExtern() {
			for _, f := range class.Fields {
				fields = append(fields, f.Type)
			}
		} else {
			fields = append(fields, headerType())

			if class.Kind.IsAsync() {
				filler := t.ProcessSize() - HeaderSize
				fields = append(fields, byteFiller(filler))
			}

			for _, f := range class.Fields {
				fields = append(fields, f.Type)
			}
		}

		sealed.Mutate(func(s **StructLayout) {
			(*s).SetBody(fields)
		})
		sealed.Seal()
	}
}

// byteFiller models an opaque i8[n] array used to reserve space the
// compiler doesn't need to name field-by-field: a single array member
// covering the gap between the header and the first user field of a
// process instance.
func byteFiller(n int) types.LoweredType {
	fields := make([]types.LoweredType, n)
	for i := range fields {
		fields[i] = types.Int(8)
	}
	return types.Struct(fields...)
}

// FirstUserFieldOffset returns the field index (within the instance's
// StructLayout) of the first user-declared field: offset 1 for regular
// instances, ProcessFieldOffset for async instances.
func FirstUserFieldOffset(class *mir.Class) int {
	if class.Kind.IsAsync() {
		return ProcessFieldOffset
	}
	return FieldOffset
}
