package planner

import (
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/signature"
	"github.com/xyproto/classplan/internal/types"
)

// MethodInfo is the planner's final output record for a single method:
// its machine signature, its hash, the slot it occupies in its owning
// class's method table (0 if it isn't placed in one), whether placing it
// there collided with an existing occupant, and, for extern methods
// rewritten to sret, the original aggregate return type.
type MethodInfo struct {
	MethodID     mir.MethodID
	Slot         int
	Hash         uint64
	Collision    bool
	Signature    signature.Signature
	StructReturn *types.LoweredType
}

// Registry is the method-info table the driver builds and mutates across
// its ordered steps: dynamic-call trait entries are recorded first,
// concrete implementations overwrite/extend them, then collision
// propagation augments the trait entries in place.
type Registry struct {
	byID map[mir.MethodID]*MethodInfo
}

func newRegistry() *Registry {
	return &Registry{byID: make(map[mir.MethodID]*MethodInfo)}
}

// Get returns the MethodInfo for a method id, or nil if none was
// recorded.
func (r *Registry) Get(id mir.MethodID) *MethodInfo {
	return r.byID[id]
}

// All returns every recorded MethodInfo, in no particular order.
func (r *Registry) All() []*MethodInfo {
	out := make([]*MethodInfo, 0, len(r.byID))
	for _, info := range r.byID {
		out = append(out, info)
	}
	return out
}

func (r *Registry) set(id mir.MethodID, info *MethodInfo) {
	r.byID[id] = info
}
