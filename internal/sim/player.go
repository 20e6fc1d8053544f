package sim

import "doomcore/internal/ticcmd"

// PowerType indexes the player's timed powerup vector.
type PowerType uint8

const (
	PowerInvulnerability PowerType = iota
	PowerStrength // berserk
	PowerInvisibility
	PowerIronFeet // radiation suit
	PowerAllMap
	PowerInfrared

	powerCount
)

// CardType indexes the player's keycard/skull ownership bitfield.
type CardType uint8

const (
	CardBlue CardType = iota
	CardYellow
	CardRed
	SkullBlue
	SkullYellow
	SkullRed

	cardCount
)

// CheatFlags mirrors the original's cheat bitfield (spec.md §3 "Player
// state"): noclip, god mode, etc. Only the God, NoClip, NoTarget and Fly
// bits are modeled.
type CheatFlags uint32

const (
	CheatGod CheatFlags = 1 << iota
	CheatNoClip
	CheatNoTarget
	CheatFly
)

// AmmoType indexes the player's ammo vector.
type AmmoType uint8

const (
	AmmoClip AmmoType = iota
	AmmoShell
	AmmoCell
	AmmoMissile

	ammoCount
)

// Player is the per-player state named in spec.md §3: health/armor/ammo,
// weapons, powers, cards, frags, readyweapon/pendingweapon, counters,
// cheats, message queue, view-centering, and a weak reference to its mobj.
// It survives reborns within a level (cheats/frags/tallies preserved,
// everything else zeroed) and is destroyed at level unload.
type Player struct {
	InGame bool

	Health int
	Armor  int

	Ammo    [ammoCount]int
	MaxAmmo [ammoCount]int

	Weapons ticcmd.WeaponState

	Powers [powerCount]int // tics remaining, 0 = inactive

	Cards [cardCount]bool

	Frags [netMaxPlayers]int

	KillCount, ItemCount, SecretCount int

	Cheats CheatFlags

	Messages []string

	ViewCentering bool // true for the tic the view should snap to level

	// MobjID is a weak reference to this player's body (spec.md §3
	// "Ownership summary"); resolved through the arena and revalidated on
	// every access since reborn/respawn replaces the underlying mobj.
	MobjID Id

	// PendingReborn marks a dead player awaiting the next tic's respawn
	// handling (spec.md §4.G step 1).
	PendingReborn bool
}

// netMaxPlayers matches demo.MaxPlayers/netsync.MaxPlayers (4); duplicated
// here as a plain constant so this package has no dependency on the net or
// demo packages (tools/depscheck enforces sim never imports net).
const netMaxPlayers = 4

// Reborn resets a player's transient state while preserving cheats, frags,
// and kill/item/secret tallies across a reborn within the same level
// (spec.md §3 "Player" lifecycle).
func (p *Player) Reborn() {
	if p == nil {
		return
	}
	p.Health = 100
	p.Armor = 0
	p.Ammo = [ammoCount]int{}
	p.Weapons = ticcmd.WeaponState{Mode: p.Weapons.Mode, Prefs: p.Weapons.Prefs}
	p.Weapons.Owned[ticcmd.WeaponFist] = true
	p.Weapons.Owned[ticcmd.WeaponPistol] = true
	p.Ammo[AmmoClip] = 50
	p.Powers = [powerCount]int{}
	p.Cards = [cardCount]bool{}
	p.Messages = nil
	p.ViewCentering = true
	p.PendingReborn = false
}

// PushMessage appends a HUD message (spec.md §7 "Cosmetic" errors surface
// this way), trimming to a bounded backlog so a stuck client can't grow it
// unbounded.
func (p *Player) PushMessage(msg string) {
	if p == nil {
		return
	}
	p.Messages = append(p.Messages, msg)
	const maxBacklog = 16
	if len(p.Messages) > maxBacklog {
		p.Messages = p.Messages[len(p.Messages)-maxBacklog:]
	}
}
