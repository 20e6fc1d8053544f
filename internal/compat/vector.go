package compat

// Flag indexes one boolean entry of the comp[] vector named in spec.md §3.
type Flag uint8

const (
	CompTelefrag Flag = iota
	CompDropoff
	CompRespawn
	CompFalloff
	CompStaylift
	CompPursuit
	CompZombie
	CompInfcheat
	CompLedgeblock
	CompFriendlySpawn
	CompVoodooScroller
	CompReservedLineFlag

	flagCount
)

// Vector is the full behavior vector the resolver produces: the boolean
// comp[] array plus the discrete toggles spec.md §4.B enumerates outside
// comp[] proper (monster infighting, variable friction, and so on).
type Vector struct {
	Level Level

	Comp [flagCount]bool

	MonstersInfight  bool
	VariableFriction bool
	PushersAllowed   bool
	WeaponRecoil     bool
	PlayerBobbingPct int
	MonsterBacking   bool
	MonsterFriction  bool
	DogSupport       bool
	DogJumping       bool
	DistFriend       uint16
	ClassicBFG       bool
	BetaEmulation    bool
	Monkeys          bool
	HelpFriends      bool
	DemoInsurance    bool
}

// Get reports a comp[] flag's value.
func (v Vector) Get(f Flag) bool {
	if int(f) >= len(v.Comp) {
		return false
	}
	return v.Comp[f]
}

// set is unexported: only the resolver may populate a Vector, per spec.md
// §4.B ("the resolver is the sole writer").
func (v *Vector) set(f Flag, val bool) {
	if int(f) >= len(v.Comp) {
		return
	}
	v.Comp[f] = val
}
