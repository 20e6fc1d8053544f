package sim

import (
	"doomcore/internal/fixed"
	"doomcore/internal/rng"
)

// Fixed and Angle alias the fixed-point/BAM types so callers outside this
// package never need a second import just to read a Mobj's position.
type Fixed = fixed.Fixed
type Angle = fixed.Angle

// MobjFlags mirrors the subset of the original's mobj flags that the tic
// contract (rather than full physics/AI) needs to reason about.
type MobjFlags uint32

const (
	MobjSolid MobjFlags = 1 << iota
	MobjShootable
	MobjNoGravity
	MobjMissile
	MobjCountKill
	MobjCountItem
	MobjFriend
)

// MobjType tags a mobj's kind (player, monster, projectile, item, …). The
// original engine's state-machine table is out of scope (spec.md §2 row
// H); this is enough for the tic loop and save/demo code to distinguish
// player-owned mobjs from everything else.
type MobjType uint16

const (
	MobjTypePlayer MobjType = iota
	MobjTypeMonster
	MobjTypeProjectile
	MobjTypeItem
)

// Mobj is a map object: an arena entry with position, velocity, angle,
// type, flags, and weak back-references (spec.md §3 "Mobj").
type Mobj struct {
	X, Y, Z       Fixed
	MomX, MomY, MomZ Fixed
	Angle         Angle
	Type          MobjType
	Flags         MobjFlags
	Health        int
	TicsToNextState int

	// PlayerIndex is >= 0 when this mobj is a player's body; the inverse
	// of Player.MobjID, both weak (spec.md §3 "Ownership summary").
	PlayerIndex int

	Target Id
	Tracer Id
}

// MobjThinker is the concrete Thinker wrapping a Mobj: physics integration
// lives here, one step per tic.
type MobjThinker struct {
	Mobj Mobj
}

func (m *MobjThinker) Kind() ThinkerKind { return ThinkerMobj }

// Think applies one tic of momentum-based movement, matching the original
// P_MobjThinker's XY/Z movement phase. Player mobjs are advanced instead by
// Simulation.applyTiccmd (called before thinkers run each tic, spec.md §2
// data-flow diagram), so this only integrates existing momentum — exactly
// the friction-and-momentum step the original applies to every mobj
// regardless of who set that momentum.
func (m *MobjThinker) Think(s *Simulation, self Id) {
	mo := &m.Mobj
	if mo.MomX == 0 && mo.MomY == 0 && mo.MomZ == 0 {
		return
	}
	mo.X += mo.MomX
	mo.Y += mo.MomY
	mo.Z += mo.MomZ

	friction := Fixed(0xE800) // 0.90625, matches the original's FRICTION
	if s != nil && s.Compat.VariableFriction {
		friction = s.currentFriction(mo)
	}
	mo.MomX = fixed.FixedMul(mo.MomX, friction)
	mo.MomY = fixed.FixedMul(mo.MomY, friction)
	if mo.Z > 0 && !mo.Flags.has(MobjNoGravity) {
		mo.MomZ -= fixed.FromInt(1) / 4
	}
	if mo.Z < 0 {
		mo.Z = 0
		mo.MomZ = 0
	}
}

func (f MobjFlags) has(bit MobjFlags) bool { return f&bit != 0 }

// currentFriction looks up the sector under the mobj when
// Compat.VariableFriction is set; defaults to standard friction outside any
// tracked sector.
func (s *Simulation) currentFriction(mo *Mobj) Fixed {
	sec := s.sectorAt(mo.X, mo.Y)
	if sec == nil || sec.Friction == 0 {
		return Fixed(0xE800)
	}
	return sec.Friction
}

// rollDamage is a small helper most monster/weapon code paths need: base
// plus dice rolls of RandomRange(class, 1, sides) via the simulation's own
// RNG, matching
// the original's P_Random-based damage rolls (spec.md §4.A).
func (s *Simulation) rollDamage(class rng.Class, dice, sides, base int) int {
	total := base
	for i := 0; i < dice; i++ {
		total += s.RNG.RandomRange(class, 1, sides)
	}
	return total
}
