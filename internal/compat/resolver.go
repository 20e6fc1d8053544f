package compat

import "fmt"

// ErrUnknownDemoFormat aborts playback when the demo header names a level
// the resolver cannot recognize (spec.md §4.B).
type ErrUnknownDemoFormat struct {
	RawVersion uint8
}

func (e *ErrUnknownDemoFormat) Error() string {
	return fmt.Sprintf("unknown demo format (version byte %d)", e.RawVersion)
}

// ErrUnsupportedCombination aborts resolution when an unsupported
// combination of flags is requested, e.g. a beta-emulation demo played back
// without the beta flag enabled.
type ErrUnsupportedCombination struct {
	Detail string
}

func (e *ErrUnsupportedCombination) Error() string {
	return "unsupported compatibility combination: " + e.Detail
}

// Overrides captures the optional per-flag overrides a single input source
// may supply. A nil pointer field means "this source did not specify a
// value"; zero-value Vector fields would be ambiguous with "explicitly
// false", so every override is a pointer.
type Overrides struct {
	Level *Level

	Comp map[Flag]bool

	MonstersInfight  *bool
	VariableFriction *bool
	PushersAllowed   *bool
	WeaponRecoil     *bool
	PlayerBobbingPct *int
	MonsterBacking   *bool
	MonsterFriction  *bool
	DogSupport       *bool
	DogJumping       *bool
	DistFriend       *uint16
	ClassicBFG       *bool
	BetaEmulation    *bool
	Monkeys          *bool
	HelpFriends      *bool
	DemoInsurance    *bool
}

// Inputs bundles every source the resolver may consult, ordered from
// lowest to highest precedence per spec.md §4.B ("demo header -> savegame
// -> command line -> WAD COMPLVL -> user default" is the *output*
// precedence; Inputs below are named by source so Resolve can apply them
// lowest-precedence first and let later fields win).
type Inputs struct {
	UserDefault Level
	WadComplvl  *Overrides
	CommandLine *Overrides
	Savegame    *Overrides
	DemoHeader  *Overrides

	// RequireBetaFlag is set when the WAD content actually requires beta
	// emulation; if the resolved vector ends up with BetaEmulation=false
	// while this is true, resolution fails per spec.md §4.B.
	RequireBetaFlag bool
}

// Resolve computes the full behavior vector for the given inputs. It is a
// pure function: identical Inputs values always produce a byte-identical
// Vector (spec.md §8.5), and precedence is applied strictly low-to-high:
// user default, then WAD COMPLVL, then command line, then savegame, then
// demo header.
func Resolve(in Inputs) (Vector, error) {
	v := defaultsFor(in.UserDefault)

	order := []*Overrides{in.WadComplvl, in.CommandLine, in.Savegame, in.DemoHeader}
	for _, o := range order {
		if o == nil {
			continue
		}
		applyOverrides(&v, *o)
	}

	if in.RequireBetaFlag && !v.BetaEmulation {
		return Vector{}, &ErrUnsupportedCombination{Detail: "beta-emulation content requires the beta flag"}
	}

	return v, nil
}

// applyOverrides mutates v in place, each non-nil field of o taking
// precedence over whatever v currently holds.
func applyOverrides(v *Vector, o Overrides) {
	if o.Level != nil {
		*v = defaultsFor(*o.Level)
	}
	for flag, val := range o.Comp {
		v.set(flag, val)
	}
	if o.MonstersInfight != nil {
		v.MonstersInfight = *o.MonstersInfight
	}
	if o.VariableFriction != nil {
		v.VariableFriction = *o.VariableFriction
	}
	if o.PushersAllowed != nil {
		v.PushersAllowed = *o.PushersAllowed
	}
	if o.WeaponRecoil != nil {
		v.WeaponRecoil = *o.WeaponRecoil
	}
	if o.PlayerBobbingPct != nil {
		v.PlayerBobbingPct = *o.PlayerBobbingPct
	}
	if o.MonsterBacking != nil {
		v.MonsterBacking = *o.MonsterBacking
	}
	if o.MonsterFriction != nil {
		v.MonsterFriction = *o.MonsterFriction
	}
	if o.DogSupport != nil {
		v.DogSupport = *o.DogSupport
	}
	if o.DogJumping != nil {
		v.DogJumping = *o.DogJumping
	}
	if o.DistFriend != nil {
		v.DistFriend = *o.DistFriend
	}
	if o.ClassicBFG != nil {
		v.ClassicBFG = *o.ClassicBFG
	}
	if o.BetaEmulation != nil {
		v.BetaEmulation = *o.BetaEmulation
	}
	if o.Monkeys != nil {
		v.Monkeys = *o.Monkeys
	}
	if o.HelpFriends != nil {
		v.HelpFriends = *o.HelpFriends
	}
	if o.DemoInsurance != nil {
		v.DemoInsurance = *o.DemoInsurance
	}
}

// defaultsFor returns the canonical behavior vector for a bare compat level
// with no overrides applied, encoding each tier's historical defaults.
func defaultsFor(level Level) Vector {
	v := Vector{Level: level}
	switch level {
	case LevelVanilla:
		v.set(CompTelefrag, true)
		v.set(CompDropoff, true)
		v.set(CompRespawn, true)
		v.set(CompFalloff, true)
		v.set(CompStaylift, true)
		v.set(CompPursuit, true)
		v.set(CompZombie, true)
		v.set(CompInfcheat, true)
		v.set(CompLedgeblock, false)
		v.set(CompFriendlySpawn, true)
		v.set(CompVoodooScroller, true)
		v.set(CompReservedLineFlag, true)
		v.MonstersInfight = false
		v.VariableFriction = false
		v.PushersAllowed = false
		v.WeaponRecoil = false
		v.PlayerBobbingPct = 100
		v.MonsterBacking = false
		v.MonsterFriction = false
		v.DistFriend = 128
		v.ClassicBFG = true
		v.DemoInsurance = true
	case LevelBoom:
		v.set(CompLedgeblock, true)
		v.VariableFriction = true
		v.PushersAllowed = true
		v.PlayerBobbingPct = 100
		v.DistFriend = 128
		v.DemoInsurance = true
	case LevelMBF:
		v.set(CompLedgeblock, true)
		v.VariableFriction = true
		v.PushersAllowed = true
		v.MonstersInfight = true
		v.MonsterBacking = true
		v.MonsterFriction = true
		v.DogSupport = true
		v.DistFriend = 128
		v.PlayerBobbingPct = 100
		v.HelpFriends = false
		v.DemoInsurance = false
	case LevelMBF21:
		v.set(CompLedgeblock, true)
		v.VariableFriction = true
		v.PushersAllowed = true
		v.MonstersInfight = true
		v.MonsterBacking = true
		v.MonsterFriction = true
		v.DogSupport = true
		v.DogJumping = true
		v.WeaponRecoil = true
		v.DistFriend = 128
		v.PlayerBobbingPct = 100
		v.DemoInsurance = false
	}
	return v
}
