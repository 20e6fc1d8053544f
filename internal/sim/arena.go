// Package sim implements the simulation core's data model and tic
// contract (spec.md §3, §9): a generational arena of thinkers, per-player
// state, and the Simulation value that owns all of it. Renderer/AI/physics
// depth is out of scope per spec.md §2 row H ("Consumer, not specified here
// except at its tic boundary"); this package specifies that boundary and
// enough of a concrete thinker/mobj model to exercise it.
package sim

// Id is a generational reference into the thinker arena, replacing the
// original engine's raw pointer back-references (mobj.target, mobj.tracer,
// player.mobj) per spec.md §9: "use a generational arena ... target/tracer
// are Option<Id> weak references that must be resolved through the arena
// and may fail silently if the referent has been removed."
type Id struct {
	Index uint32
	Gen   uint32
}

// Nil is the zero Id; no live thinker ever has Index 0 with Gen 0 because
// slot 0 is reserved unused, so Id{} always fails lookup cleanly.
var Nil = Id{}

type arenaSlot struct {
	gen     uint32
	live    bool
	pending bool // marked for removal, swept at tic end
	thinker Thinker
}

// Arena owns every thinker in the world: mobjs, movers, lights, scrollers,
// pushers. New thinkers are appended during a tic and become live next tic;
// removed thinkers are marked and swept at tic boundaries (spec.md §3
// "Thinker" lifecycle, §9 "doubly-linked list ... replace by an arena plus
// two free-list queues").
type Arena struct {
	slots []arenaSlot
	free  []uint32
	// active is the index snapshot captured at the start of the current
	// tic; iteration during Think never observes thinkers spawned mid-tic
	// (spec.md §9).
	active []Id
}

// NewArena constructs an empty arena with slot 0 reserved.
func NewArena() *Arena {
	a := &Arena{slots: make([]arenaSlot, 1)}
	return a
}

// Spawn inserts a thinker and returns its stable Id. The thinker becomes
// live for iteration starting next tic's Snapshot call.
func (a *Arena) Spawn(t Thinker) Id {
	if len(a.free) > 0 {
		idx := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		slot := &a.slots[idx]
		slot.live = true
		slot.pending = false
		slot.thinker = t
		return Id{Index: idx, Gen: slot.gen}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, arenaSlot{gen: 1, live: true, thinker: t})
	return Id{Index: idx, Gen: 1}
}

// Remove marks id for deletion; the slot is actually freed (and its
// generation bumped, invalidating stale Ids) at the next Sweep.
func (a *Arena) Remove(id Id) {
	if !a.valid(id) {
		return
	}
	a.slots[id.Index].pending = true
}

// Get resolves id to its thinker, revalidating the generation so a stale
// weak reference (target/tracer to an already-removed mobj) fails silently
// instead of aliasing a reused slot (spec.md §3 invariant 4).
func (a *Arena) Get(id Id) (Thinker, bool) {
	if !a.valid(id) {
		return nil, false
	}
	slot := &a.slots[id.Index]
	if slot.pending {
		return nil, false
	}
	return slot.thinker, true
}

func (a *Arena) valid(id Id) bool {
	if id.Index == 0 || int(id.Index) >= len(a.slots) {
		return false
	}
	slot := &a.slots[id.Index]
	return slot.live && slot.gen == id.Gen
}

// Snapshot captures the set of live, non-pending thinker ids for the tic
// about to run. Call once at the start of each tic before Think.
func (a *Arena) Snapshot() []Id {
	a.active = a.active[:0]
	for i := 1; i < len(a.slots); i++ {
		slot := &a.slots[i]
		if slot.live && !slot.pending {
			a.active = append(a.active, Id{Index: uint32(i), Gen: slot.gen})
		}
	}
	return a.active
}

// Sweep frees every slot marked pending, bumping its generation so any
// lingering weak Id reference resolves to nothing (spec.md §3 invariant 4:
// "No thinker is freed while any other thinker still references it ...
// without clearing the back-ref" — the generation bump is what makes a
// dangling reference observably cleared rather than dangerously reused).
func (a *Arena) Sweep() {
	for i := 1; i < len(a.slots); i++ {
		slot := &a.slots[i]
		if slot.live && slot.pending {
			slot.live = false
			slot.pending = false
			slot.thinker = nil
			slot.gen++
			a.free = append(a.free, uint32(i))
		}
	}
}

// Len reports the number of live (including pending-removal) thinkers.
func (a *Arena) Len() int {
	n := 0
	for i := 1; i < len(a.slots); i++ {
		if a.slots[i].live {
			n++
		}
	}
	return n
}
