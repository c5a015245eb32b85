// Package mir describes the read-only mid-level IR the planner consumes:
// classes with their fields and methods, dynamic-call sites, and extern
// method signatures. Earlier compiler phases (lexing, parsing, typing)
// are assumed to have already run elsewhere — this package is simply the
// planner's input contract.
package mir

import "github.com/xyproto/classplan/internal/types"

// ClassKind classifies how a class's instances are laid out.
type ClassKind int

const (
	KindNormal ClassKind = iota
	KindExternStruct
	KindAsync // actor-like process class
	KindClosure
)

func (k ClassKind) String() string {
	switch k {
	case KindExternStruct:
		return "extern-struct"
	case KindAsync:
		return "async"
	case KindClosure:
		return "closure"
	default:
		return "normal"
	}
}

func (k ClassKind) IsExtern() bool { return k == KindExternStruct }
func (k ClassKind) IsAsync() bool  { return k == KindAsync }
func (k ClassKind) IsClosure() bool { return k == KindClosure }

// ClassID uniquely identifies a class.
type ClassID int

// Builtin class IDs the planner must special-case.
const (
	IntID ClassID = iota + 1
	FloatID
	BoolID
	NilID
	ByteArrayID
	StringID
)

// Field is a single declared field of a class, in source order.
type Field struct {
	Name string
	Type types.LoweredType
}

// Class is a class descriptor: its identity, kind, declared fields (in
// source order), and the ordered list of instance methods the slot
// assigner must place. Static/extern methods live in Mir.StaticMethods /
// Mir.ExternMethods instead, since they aren't part of any method table.
type Class struct {
	ID             ClassID
	Module         string
	Name           string
	Kind           ClassKind
	IsBuiltin      bool
	Fields         []Field
	InstanceMethods []*Method
}

// QualifiedName returns "module.Name", the class descriptor's full name.
func (c *Class) QualifiedName() string {
	if c.Module == "" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// MethodSourceKind distinguishes an originally-declared method from one
// that implements a trait method.
type MethodSourceKind int

const (
	SourceOriginal MethodSourceKind = iota
	SourceTraitImplementation
)

// MethodSource records where a method came from. When Kind is
// SourceTraitImplementation, TraitMethod names the trait method this
// method implements, used by the collision propagator to find the
// matching dynamic-call record.
type MethodSource struct {
	Kind        MethodSourceKind
	TraitMethod MethodID
}

// MethodID uniquely identifies a method.
type MethodID int

// Shape is a compile-time specialization key for a generic type
// parameter, contributing a stable identifier string to method hashing.
type Shape struct {
	Identifier string
}

// Method is a method record: its identity, owning class (zero for
// static/extern methods), parameter/return types, and the flags the
// signature synthesizer and slot assigner need.
type Method struct {
	ID         MethodID
	Owner      ClassID
	Name       string
	Parameters []types.LoweredType
	Return     *types.LoweredType // nil means void
	Receiver   *types.LoweredType // for instance methods; nil otherwise

	IsStatic   bool
	IsInstance bool
	IsAsync    bool
	IsVariadic bool
	IsExtern   bool

	Source MethodSource
	Shapes []Shape
}

// HashKey is the method's hashing key: its name followed by the
// concatenation of its shapes' identifiers.
func (m *Method) HashKey() string {
	key := m.Name
	for _, s := range m.Shapes {
		key += s.Identifier
	}
	return key
}

// DynamicCallSite records a call whose receiver's concrete class is
// unknown at compile time, dispatching via hash into the class
// descriptor's method table. Method here names the trait method being
// called, not a concrete implementation.
type DynamicCallSite struct {
	Method MethodID
	Shapes []Shape
}

// Mir is the whole mid-level IR the planner consumes: all classes, all
// dynamic-call sites keyed by the trait method they target, static
// methods, and extern methods.
type Mir struct {
	Classes       map[ClassID]*Class
	DynamicCalls  map[MethodID][]DynamicCallSite
	StaticMethods []*Method
	ExternMethods []*Method

	// MethodsByID indexes every method (instance, static, extern, and
	// every trait method referenced by DynamicCalls) for lookups the
	// collision propagator and signature synthesizer need.
	MethodsByID map[MethodID]*Method
}

// New creates an empty Mir ready to be populated by a MIR producer (or by
// test fixtures).
func New() *Mir {
	return &Mir{
		Classes:      make(map[ClassID]*Class),
		DynamicCalls: make(map[MethodID][]DynamicCallSite),
		MethodsByID:  make(map[MethodID]*Method),
	}
}

// AddClass registers a class and indexes its instance methods.
func (m *Mir) AddClass(c *Class) {
	m.Classes[c.ID] = c
	for _, meth := range c.InstanceMethods {
		m.MethodsByID[meth.ID] = meth
	}
}

// AddDynamicCall registers a dynamic-call site for the given trait
// method and indexes the trait method record itself.
func (m *Mir) AddDynamicCall(traitMethod *Method, call DynamicCallSite) {
	m.DynamicCalls[traitMethod.ID] = append(m.DynamicCalls[traitMethod.ID], call)
	m.MethodsByID[traitMethod.ID] = traitMethod
}

// AddStaticMethod registers a static method.
func (m *Mir) AddStaticMethod(meth *Method) {
	m.StaticMethods = append(m.StaticMethods, meth)
	m.MethodsByID[meth.ID] = meth
}

// AddExternMethod registers an extern (C ABI) method.
func (m *Mir) AddExternMethod(meth *Method) {
	m.ExternMethods = append(m.ExternMethods, meth)
	m.MethodsByID[meth.ID] = meth
}
