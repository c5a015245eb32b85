// Package signature synthesizes the machine-level function signature for
// every method kind the planner handles, including the extern C-ABI sret
// rewriting for oversized aggregate returns.
package signature

import (
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/target"
	"github.com/xyproto/classplan/internal/types"
)

// Signature is a synthesized machine-level function type.
type Signature struct {
	Params   []types.LoweredType
	Return   *types.LoweredType // nil means void
	Variadic bool

	// StructReturn is set only for an extern method whose aggregate
	// return was rewritten to an sret pointer argument; Return is nil in
	// that case.
	StructReturn *types.LoweredType
}

func statePtr() types.LoweredType   { return types.Pointer() }
func processPtr() types.LoweredType { return types.Pointer() }
func contextPtr() types.LoweredType { return types.Pointer() }
func receiverPtr() types.LoweredType { return types.Pointer() }

// ForInstanceMethod synthesizes the signature for an instance method
// (async or not). Async methods receive a single *Context argument
// carrying state/process/receiver instead of three separate arguments.
func ForInstanceMethod(m *mir.Method) Signature {
	if m.IsAsync {
		return Signature{
			Params: []types.LoweredType{contextPtr()},
			Return: nil, // async methods return void; results flow through messages
		}
	}

	params := make([]types.LoweredType, 0, len(m.Parameters)+3)
	params = append(params, statePtr(), processPtr())

	if m.IsInstance {
		if m.Receiver != nil {
			params = append(params, *m.Receiver)
		} else {
			params = append(params, receiverPtr())
		}
	}

	params = append(params, m.Parameters...)

	return Signature{
		Params: params,
		Return: nonExternReturn(m.Return),
	}
}

// ForTraitMethod synthesizes the signature for a trait method as seen
// from a dynamic-call site: the receiver's concrete class is unknown, so
// it's always passed as an opaque pointer, never by its exact type.
func ForTraitMethod(m *mir.Method) Signature {
	params := make([]types.LoweredType, 0, len(m.Parameters)+3)
	params = append(params, statePtr(), processPtr(), receiverPtr())
	params = append(params, m.Parameters...)

	return Signature{
		Params: params,
		Return: nonExternReturn(m.Return),
	}
}

// ForStaticMethod synthesizes the signature for a static method: no
// receiver, just the implicit state/process pair.
func ForStaticMethod(m *mir.Method) Signature {
	params := make([]types.LoweredType, 0, len(m.Parameters)+2)
	params = append(params, statePtr(), processPtr())
	params = append(params, m.Parameters...)

	return Signature{
		Params: params,
		Return: nonExternReturn(m.Return),
	}
}

// nonExternReturn applies the non-extern return rule: void if there's no
// source return type; otherwise the lowered type by value, except
// aggregates, which are always returned by pointer-to-heap (no sret for
// language methods — class instances are reference types already).
func nonExternReturn(ret *types.LoweredType) *types.LoweredType {
	if ret == nil {
		return nil
	}
	if ret.IsAggregate() {
		p := types.Pointer()
		return &p
	}
	return ret
}

// ForExternMethod synthesizes the signature for an extern (C ABI) method,
// applying sret rewriting when the return type is an aggregate larger
// than the target's pass-struct-size threshold: the return is dropped
// from the signature and replaced with a leading pointer argument the
// callee writes its result through.
func ForExternMethod(m *mir.Method, t target.Target) Signature {
	params := make([]types.LoweredType, 0, len(m.Parameters)+1)

	var ret *types.LoweredType
	var structReturn *types.LoweredType

	if m.Return != nil {
		if m.Return.IsAggregate() && m.Return.BitSize() > t.PassStructSize() {
			agg := *m.Return
			structReturn = &agg
			params = append(params, types.Pointer())
			ret = nil
		} else {
			retCopy := *m.Return
			ret = &retCopy
		}
	}

	params = append(params, m.Parameters...)

	return Signature{
		Params:       params,
		Return:       ret,
		Variadic:     m.IsVariadic,
		StructReturn: structReturn,
	}
}
