package planner

import (
	"testing"

	"github.com/xyproto/classplan/internal/layout"
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/target"
	"github.com/xyproto/classplan/internal/types"
)

func linuxTarget() target.Target {
	return target.New(target.ArchX86_64, target.OSLinux)
}

// S1: a 3-method class including a dropper sizes to capacity 64.
func TestScenarioThreeMethodClassCapacity64(t *testing.T) {
	m := mir.New()
	m.AddClass(&mir.Class{
		ID:   100,
		Name: "Widget",
		InstanceMethods: []*mir.Method{
			{ID: 1, Name: "drop", IsInstance: true},
			{ID: 2, Name: "render", IsInstance: true},
			{ID: 3, Name: "resize", IsInstance: true},
		},
	})

	plan := New(m, linuxTarget()).Run()

	if got := plan.Methods(100); got != 64 {
		t.Fatalf("capacity = %d, want 64", got)
	}

	dropper := plan.MethodInfo(1)
	if dropper.Slot != 0 {
		t.Fatalf("dropper slot = %d, want 0", dropper.Slot)
	}

	seen := map[int]bool{}
	for _, id := range []mir.MethodID{1, 2, 3} {
		info := plan.MethodInfo(id)
		if seen[info.Slot] {
			t.Fatalf("slot %d assigned twice", info.Slot)
		}
		seen[info.Slot] = true
	}
}

// S2: a closure class gets dropper=0, call=1, no collisions.
func TestScenarioClosureFixedLayout(t *testing.T) {
	m := mir.New()
	m.AddClass(&mir.Class{
		ID:   200,
		Name: "Closure0",
		Kind: mir.KindClosure,
		InstanceMethods: []*mir.Method{
			{ID: 10, Name: "drop", IsInstance: true},
			{ID: 11, Name: "call", IsInstance: true},
		},
	})

	plan := New(m, linuxTarget()).Run()

	if got := plan.Methods(200); got != 64 {
		t.Fatalf("capacity = %d, want 64", got)
	}
	drop := plan.MethodInfo(10)
	call := plan.MethodInfo(11)
	if drop.Slot != 0 || drop.Collision {
		t.Fatalf("drop = %+v, want slot 0, no collision", drop)
	}
	if call.Slot != 1 || call.Collision {
		t.Fatalf("call = %+v, want slot 1, no collision", call)
	}
}

// S3: an async class's instance layout is header(16B) + filler[96B] + user
// fields, on Linux.
func TestScenarioAsyncInstanceLayout(t *testing.T) {
	m := mir.New()
	m.AddClass(&mir.Class{
		ID:   300,
		Name: "Actor",
		Kind: mir.KindAsync,
		Fields: []mir.Field{
			{Name: "a", Type: types.Int(64)},
			{Name: "b", Type: types.Pointer()},
		},
	})

	plan := New(m, linuxTarget()).Run()

	body := plan.Instances.Get(300).Value()
	if body.NumFields() != 4 {
		t.Fatalf("NumFields = %d, want 4 (header, filler, a, b)", body.NumFields())
	}

	filler := body.FieldAt(layout.ProcessFieldOffset - 1)
	if filler.BitSize() != 96*8 {
		t.Fatalf("filler size = %d bits, want %d", filler.BitSize(), 96*8)
	}

	if body.FieldAt(layout.ProcessFieldOffset).Kind != types.KindInt {
		t.Fatalf("first user field kind = %v, want int", body.FieldAt(layout.ProcessFieldOffset).Kind)
	}
}

// S4: an extern method returning a 192-bit aggregate on pass_struct_size
// = 128 gets rewritten to sret.
func TestScenarioExternSretRewrite(t *testing.T) {
	ret := types.Struct(types.Int(64), types.Int(64), types.Int(64)) // 192 bits
	m := mir.New()
	externMethod := &mir.Method{ID: 1, Name: "make_thing", IsExtern: true, Return: &ret}
	m.AddExternMethod(externMethod)

	plan := New(m, linuxTarget()).Run()

	info := plan.MethodInfo(1)
	if info.Signature.Return != nil {
		t.Fatalf("return = %+v, want nil (void)", info.Signature.Return)
	}
	if len(info.Signature.Params) != 1 || info.Signature.Params[0].Kind != types.KindPointer {
		t.Fatalf("params = %+v, want a single leading pointer", info.Signature.Params)
	}
	if info.StructReturn == nil || info.StructReturn.BitSize() != 192 {
		t.Fatalf("struct_return = %+v, want the 192-bit aggregate", info.StructReturn)
	}
}

// S5: an extern method returning a 64-bit aggregate on pass_struct_size =
// 128 returns it in registers, no sret.
func TestScenarioExternSmallAggregateByValue(t *testing.T) {
	ret := types.Struct(types.Int(32), types.Int(32)) // 64 bits
	m := mir.New()
	externMethod := &mir.Method{ID: 1, Name: "make_pair", IsExtern: true, Return: &ret}
	m.AddExternMethod(externMethod)

	plan := New(m, linuxTarget()).Run()

	info := plan.MethodInfo(1)
	if info.StructReturn != nil {
		t.Fatalf("struct_return = %+v, want nil", info.StructReturn)
	}
	if info.Signature.Return == nil || !info.Signature.Return.IsAggregate() {
		t.Fatalf("return = %+v, want the aggregate by value", info.Signature.Return)
	}
	if len(info.Signature.Params) != 0 {
		t.Fatalf("params = %+v, want none", info.Signature.Params)
	}
}

// S6: force a collision by giving a trait implementation the name "e",
// whose FNV-1a 64 hash is known to land on slot 0 (mod the 64-slot
// minimum capacity) — exactly the dropper's reserved slot — so the
// implementation is guaranteed to probe forward to slot 1. This drives
// the scenario through the full driver (hasher, slot assignment,
// collision propagation) rather than asserting a tautology.
func TestScenarioTraitCollisionPropagates(t *testing.T) {
	traitMethodID := mir.MethodID(1)
	traitMethod := &mir.Method{ID: traitMethodID, Name: "e", IsInstance: true}

	implMethod := &mir.Method{
		ID:         mir.MethodID(2),
		Name:       "e",
		IsInstance: true,
		Source:     mir.MethodSource{Kind: mir.SourceTraitImplementation, TraitMethod: traitMethodID},
	}
	dropper := &mir.Method{ID: mir.MethodID(3), Name: "drop", IsInstance: true}

	m := mir.New()
	m.AddDynamicCall(traitMethod, mir.DynamicCallSite{Method: traitMethodID})
	m.AddClass(&mir.Class{
		ID:              400,
		Name:            "Impl",
		InstanceMethods: []*mir.Method{dropper, implMethod},
	})

	plan := New(m, linuxTarget()).Run()

	implInfo := plan.MethodInfo(implMethod.ID)
	traitInfo := plan.MethodInfo(traitMethodID)

	if !implInfo.Collision {
		t.Fatalf("impl = %+v, want a forced collision against the dropper's reserved slot 0", implInfo)
	}
	if implInfo.Slot != 1 {
		t.Fatalf("impl slot = %d, want 1 (the first probe past slot 0)", implInfo.Slot)
	}
	if !traitInfo.Collision {
		t.Fatal("impl collided but the trait dynamic-call record's collision flag was not propagated")
	}
}

// Property 1: every class's capacity is a power of two and >= 64.
func TestPropertyCapacityPowerOfTwo(t *testing.T) {
	m := mir.New()
	for i, count := range []int{0, 1, 3, 16, 17, 200} {
		id := mir.ClassID(1000 + i)
		methods := make([]*mir.Method, count)
		for j := range methods {
			methods[j] = &mir.Method{ID: mir.MethodID(1000*i + j + 1), Name: "m", IsInstance: true}
		}
		m.AddClass(&mir.Class{ID: id, Name: "C", InstanceMethods: methods})
	}

	plan := New(m, linuxTarget()).Run()

	for i := range []int{0, 1, 3, 16, 17, 200} {
		id := mir.ClassID(1000 + i)
		capacity := plan.Methods(id)
		if capacity < 64 {
			t.Fatalf("class %d: capacity %d < 64", id, capacity)
		}
		if capacity&(capacity-1) != 0 {
			t.Fatalf("class %d: capacity %d not a power of two", id, capacity)
		}
	}
}

// Property 5: equal name + equal shape identifiers hash equal.
func TestPropertyHashDeterminism(t *testing.T) {
	m := mir.New()
	m.AddClass(&mir.Class{
		ID:   1,
		Name: "A",
		InstanceMethods: []*mir.Method{
			{ID: 1, Name: "foo", IsInstance: true, Shapes: []mir.Shape{{Identifier: "ptr"}}},
		},
	})
	m.AddClass(&mir.Class{
		ID:   2,
		Name: "B",
		InstanceMethods: []*mir.Method{
			{ID: 2, Name: "foo", IsInstance: true, Shapes: []mir.Shape{{Identifier: "ptr"}}},
		},
	})

	plan := New(m, linuxTarget()).Run()

	if plan.MethodInfo(1).Hash != plan.MethodInfo(2).Hash {
		t.Fatal("identical name+shapes produced different hashes across classes")
	}
}

func TestRunPanicsOnSecondCall(t *testing.T) {
	m := mir.New()
	p := New(m, linuxTarget())
	p.Run()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Run twice")
		}
	}()
	p.Run()
}
