package main

import (
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/types"
)

// mirDocument is the on-disk JSON shape of the MIR the planner consumes.
// It's a flat, serialization-friendly mirror of the internal/mir types,
// using the same numeric ids; toMir converts it into a *mir.Mir.
type mirDocument struct {
	Classes       []classDoc          `json:"classes"`
	DynamicCalls  []dynamicCallDoc    `json:"dynamic_calls"`
	StaticMethods []methodDoc         `json:"static_methods"`
	ExternMethods []methodDoc         `json:"extern_methods"`
}

type classDoc struct {
	ID              int         `json:"id"`
	Module          string      `json:"module"`
	Name            string      `json:"name"`
	Kind            string      `json:"kind"`
	IsBuiltin       bool        `json:"is_builtin"`
	Fields          []fieldDoc  `json:"fields"`
	InstanceMethods []methodDoc `json:"instance_methods"`
}

type fieldDoc struct {
	Name string   `json:"name"`
	Type typeDoc  `json:"type"`
}

type typeDoc struct {
	Kind       string    `json:"kind"`
	BitWidth   int       `json:"bit_width"`
	OpaqueName string    `json:"opaque_name"`
	Fields     []typeDoc `json:"fields"`
}

type methodDoc struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Parameters []typeDoc `json:"parameters"`
	Return     *typeDoc  `json:"return"`

	IsStatic   bool `json:"is_static"`
	IsInstance bool `json:"is_instance"`
	IsAsync    bool `json:"is_async"`
	IsVariadic bool `json:"is_variadic"`
	IsExtern   bool `json:"is_extern"`

	TraitMethod int         `json:"trait_method"`
	Shapes      []shapeDoc  `json:"shapes"`
}

type shapeDoc struct {
	Identifier string `json:"identifier"`
}

type dynamicCallDoc struct {
	TraitMethod   int        `json:"trait_method"`
	TraitMethodName string   `json:"trait_method_name"`
	Shapes        []shapeDoc `json:"shapes"`
}

func (d *mirDocument) toMir() *mir.Mir {
	m := mir.New()

	for _, c := range d.Classes {
		class := &mir.Class{
			ID:        mir.ClassID(c.ID),
			Module:    c.Module,
			Name:      c.Name,
			Kind:      parseKind(c.Kind),
			IsBuiltin: c.IsBuiltin,
		}
		for _, f := range c.Fields {
			class.Fields = append(class.Fields, mir.Field{Name: f.Name, Type: f.Type.toLoweredType()})
		}
		for _, md := range c.InstanceMethods {
			class.InstanceMethods = append(class.InstanceMethods, md.toMethod())
		}
		m.AddClass(class)
	}

	for _, dc := range d.DynamicCalls {
		traitMethod := &mir.Method{ID: mir.MethodID(dc.TraitMethod), Name: dc.TraitMethodName, IsInstance: true}
		shapes := make([]mir.Shape, len(dc.Shapes))
		for i, s := range dc.Shapes {
			shapes[i] = mir.Shape{Identifier: s.Identifier}
		}
		m.AddDynamicCall(traitMethod, mir.DynamicCallSite{Method: traitMethod.ID, Shapes: shapes})
	}

	for _, md := range d.StaticMethods {
		m.AddStaticMethod(md.toMethod())
	}
	for _, md := range d.ExternMethods {
		m.AddExternMethod(md.toMethod())
	}

	return m
}

func (t typeDoc) toLoweredType() types.LoweredType {
	switch t.Kind {
	case "int":
		return types.Int(t.BitWidth)
	case "float":
		return types.Float(t.BitWidth)
	case "bool":
		return types.Bool()
	case "pointer":
		return types.Pointer()
	case "void":
		return types.Void()
	case "opaque":
		return types.Opaque(t.OpaqueName)
	case "struct":
		fields := make([]types.LoweredType, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = f.toLoweredType()
		}
		return types.Struct(fields...)
	default:
		return types.Void()
	}
}

func (md methodDoc) toMethod() *mir.Method {
	m := &mir.Method{
		ID:         mir.MethodID(md.ID),
		Name:       md.Name,
		IsStatic:   md.IsStatic,
		IsInstance: md.IsInstance,
		IsAsync:    md.IsAsync,
		IsVariadic: md.IsVariadic,
		IsExtern:   md.IsExtern,
	}

	for _, p := range md.Parameters {
		m.Parameters = append(m.Parameters, p.toLoweredType())
	}
	if md.Return != nil {
		ret := md.Return.toLoweredType()
		m.Return = &ret
	}
	if md.TraitMethod != 0 {
		m.Source = mir.MethodSource{Kind: mir.SourceTraitImplementation, TraitMethod: mir.MethodID(md.TraitMethod)}
	}
	for _, s := range md.Shapes {
		m.Shapes = append(m.Shapes, mir.Shape{Identifier: s.Identifier})
	}

	return m
}

func parseKind(s string) mir.ClassKind {
	switch s {
	case "extern-struct":
		return mir.KindExternStruct
	case "async":
		return mir.KindAsync
	case "closure":
		return mir.KindClosure
	default:
		return mir.KindNormal
	}
}
