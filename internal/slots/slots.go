// Package slots assigns concrete methods to their owning class's method
// table using linear-probing open addressing, and propagates collision
// flags from concrete implementations up to the trait-method dynamic-call
// records they implement.
package slots

import (
	"fmt"

	"github.com/xyproto/classplan/internal/hash"
	"github.com/xyproto/classplan/internal/mir"
)

// DropperName and CallName are the two method names with reserved slots.
const (
	DropperName = "drop"
	CallName    = "call"
)

// Assignment is one method's outcome from slot assignment: the slot it
// landed in, its hash, and whether placing it there required probing past
// an already-occupied slot.
type Assignment struct {
	MethodID  mir.MethodID
	Slot      int
	Hash      uint64
	Collision bool
}

// AssignClass places every instance method of class into its method
// table of the given capacity. Closure classes get the fixed dropper=0,
// call=1 layout and nothing else; every other class probes from
// hash & (capacity-1).
func AssignClass(class *mir.Class, capacity int, hasher *hash.MethodHasher) []Assignment {
	if class.Kind.IsClosure() {
		return assignClosure(class, hasher)
	}

	occupied := make([]bool, capacity)
	if capacity > 0 {
		occupied[0] = true // dropper slot reserved before any probing
	}

	assignments := make([]Assignment, 0, len(class.InstanceMethods))

	for _, m := range class.InstanceMethods {
		h := hasher.Hash(m.HashKey())

		if m.Name == DropperName {
			assignments = append(assignments, Assignment{MethodID: m.ID, Slot: 0, Hash: h})
			continue
		}

		mask := uint64(capacity - 1)
		idx := h & mask
		collision := false
		for occupied[idx] {
			collision = true
			idx = (idx + 1) & mask
		}
		occupied[idx] = true

		assignments = append(assignments, Assignment{
			MethodID:  m.ID,
			Slot:      int(idx),
			Hash:      h,
			Collision: collision,
		})
	}

	return assignments
}

func assignClosure(class *mir.Class, hasher *hash.MethodHasher) []Assignment {
	assignments := make([]Assignment, 0, len(class.InstanceMethods))

	for _, m := range class.InstanceMethods {
		h := hasher.Hash(m.HashKey())

		switch m.Name {
		case DropperName:
			assignments = append(assignments, Assignment{MethodID: m.ID, Slot: 0, Hash: h})
		case CallName:
			assignments = append(assignments, Assignment{MethodID: m.ID, Slot: 1, Hash: h})
		default:
			panic(fmt.Sprintf("closure class %q has a method named %q, neither dropper nor call", class.QualifiedName(), m.Name))
		}
	}

	return assignments
}

// PropagateCollisions walks a class's assignments and, for every method
// that collided and implements a trait method, marks every caller's
// dynamic-call collision flag true in collisions (keyed by the trait
// method id the implementation's Source.TraitMethod names).
func PropagateCollisions(class *mir.Class, assignments []Assignment, collisions map[mir.MethodID]bool) {
	byID := make(map[mir.MethodID]*mir.Method, len(class.InstanceMethods))
	for _, m := range class.InstanceMethods {
		byID[m.ID] = m
	}

	for _, a := range assignments {
		if !a.Collision {
			continue
		}
		m := byID[a.MethodID]
		if m.Source.Kind == mir.SourceTraitImplementation {
			collisions[m.Source.TraitMethod] = true
		}
	}
}
