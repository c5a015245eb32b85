// Package planner is the driver that orchestrates every other component
// (hashing, table sizing, type layout, signature synthesis, slot
// assignment, collision propagation) in the one required order and hands
// back the finished instance layouts, class descriptors, and per-method
// records.
package planner

import (
	"fmt"
	"os"

	"github.com/xyproto/classplan/internal/hash"
	"github.com/xyproto/classplan/internal/layout"
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/signature"
	"github.com/xyproto/classplan/internal/slots"
	"github.com/xyproto/classplan/internal/target"
)

// VerboseMode gates the driver's stderr progress log, set by the CLI's
// -v/--verbose flag.
var VerboseMode bool

func logStep(format string, args ...any) {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "planner: "+format+"\n", args...)
	}
}

// Stage names one of the driver's ordered steps, tracked purely so a
// misbehaving caller (or future maintainer re-wiring the driver) gets a
// clear panic instead of a silently wrong plan.
type Stage int

const (
	StageNotStarted Stage = iota
	StageTemplates
	StageOpaqueHandles
	StageDynamicCallEntries
	StageFieldBodies
	StageSlotAssignment
	StageStaticMethods
	StageExternMethods
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageNotStarted:
		return "not started"
	case StageTemplates:
		return "building templates"
	case StageOpaqueHandles:
		return "opaque handles"
	case StageDynamicCallEntries:
		return "dynamic-call entries"
	case StageFieldBodies:
		return "field bodies"
	case StageSlotAssignment:
		return "slot assignment"
	case StageStaticMethods:
		return "static methods"
	case StageExternMethods:
		return "extern methods"
	case StageDone:
		return "done"
	default:
		return "unknown stage"
	}
}

// Plan is the complete output of one planner run.
type Plan struct {
	Templates            *layout.Templates
	Instances            *layout.InstanceLayouts
	ClassDescriptors     *layout.ClassDescriptors
	Dependencies         *layout.DependencyGraph
	MethodInfos          *Registry
	emptyClassDescriptor *layout.StructLayout
}

// Planner runs the driver's seven ordered steps exactly once over a Mir.
type Planner struct {
	mir    *mir.Mir
	target target.Target
	stage  Stage
}

// New creates a Planner for the given MIR and target.
func New(m *mir.Mir, t target.Target) *Planner {
	return &Planner{mir: m, target: t, stage: StageNotStarted}
}

func (p *Planner) advance(to Stage) {
	if to != p.stage+1 {
		panic(fmt.Sprintf("planner: invalid stage transition %s -> %s", p.stage, to))
	}
	p.stage = to
	logStep("%s", to)
}

// Run executes every driver step in order and returns the finished Plan.
// Run may only be called once per Planner.
func (p *Planner) Run() *Plan {
	if p.stage != StageNotStarted {
		panic("planner: Run called more than once")
	}

	// Step 1: templates, plus the zero-capacity class descriptor dynamic
	// dispatch falls back to when the receiver's concrete class isn't
	// statically known — built once, alongside the other fixed
	// layout-contract structs, not per dynamic-call site.
	p.advance(StageTemplates)
	templates := layout.NewTemplates()
	emptyClassDescriptor := layout.EmptyClassDescriptor()

	// Step 2: Phase A (opaque handles + class descriptors); capacities
	// never depend on field bodies, so both halves of Phase A can build
	// here together.
	p.advance(StageOpaqueHandles)
	instances := layout.BuildOpaqueHandles(p.mir)
	descriptors := layout.BuildClassDescriptors(p.mir)

	hasher := hash.New()
	methods := newRegistry()

	// Step 3: dynamic-call trait entries, recorded before any concrete
	// implementation so step 5 can find and overwrite/augment them.
	p.advance(StageDynamicCallEntries)
	for traitMethodID := range p.mir.DynamicCalls {
		traitMethod := p.mir.MethodsByID[traitMethodID]
		sig := signature.ForTraitMethod(traitMethod)
		methods.set(traitMethodID, &MethodInfo{
			MethodID:  traitMethodID,
			Hash:      hasher.Hash(traitMethod.HashKey()),
			Signature: sig,
		})
	}

	// Step 4: Phase B, field bodies.
	p.advance(StageFieldBodies)
	deps := layout.NewDependencyGraph()
	layout.FillBodies(p.mir, p.target, instances, deps)

	// Step 5: per-class slot assignment, updating MethodInfos via
	// collision propagation.
	p.advance(StageSlotAssignment)
	traitCollisions := make(map[mir.MethodID]bool)
	for _, class := range p.mir.Classes {
		capacity := descriptors.Capacity(class.ID)
		assignments := slots.AssignClass(class, capacity, hasher)

		for _, a := range assignments {
			m := p.mir.MethodsByID[a.MethodID]
			sig := signature.ForInstanceMethod(m)
			methods.set(a.MethodID, &MethodInfo{
				MethodID:  a.MethodID,
				Slot:      a.Slot,
				Hash:      a.Hash,
				Collision: a.Collision,
				Signature: sig,
			})
		}

		slots.PropagateCollisions(class, assignments, traitCollisions)
	}
	for traitMethodID, collided := range traitCollisions {
		if info := methods.Get(traitMethodID); info != nil && collided {
			info.Collision = true
		}
	}

	// Step 6: static methods (slot = 0, hash = 0).
	p.advance(StageStaticMethods)
	for _, m := range p.mir.StaticMethods {
		methods.set(m.ID, &MethodInfo{
			MethodID:  m.ID,
			Signature: signature.ForStaticMethod(m),
		})
	}

	// Step 7: extern methods, with C-ABI return rewriting.
	p.advance(StageExternMethods)
	for _, m := range p.mir.ExternMethods {
		sig := signature.ForExternMethod(m, p.target)
		methods.set(m.ID, &MethodInfo{
			MethodID:     m.ID,
			Signature:    sig,
			StructReturn: sig.StructReturn,
		})
	}

	p.stage = StageDone
	logStep("%s", StageDone)

	return &Plan{
		Templates:            templates,
		Instances:            instances,
		ClassDescriptors:     descriptors,
		Dependencies:         deps,
		MethodInfos:          methods,
		emptyClassDescriptor: emptyClassDescriptor,
	}
}

// Methods exposes the public method-table-capacity accessor the rest of
// the backend needs: length of a class's method-table array.
func (p *Plan) Methods(id mir.ClassID) int {
	return p.ClassDescriptors.Capacity(id)
}

// MethodInfo looks up the finished MethodInfo record for a method id.
func (p *Plan) MethodInfo(id mir.MethodID) *MethodInfo {
	return p.MethodInfos.Get(id)
}

// EmptyClassDescriptor returns the zero-capacity class-descriptor layout
// dynamic-dispatch code generation falls back to when the receiver's
// concrete class isn't statically known. Built once in Run's first step,
// alongside the other fixed layout-contract templates.
func (p *Plan) EmptyClassDescriptor() *layout.StructLayout {
	return p.emptyClassDescriptor
}
