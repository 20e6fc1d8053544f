package ticcmd

// WeaponSlot enumerates the 9-slot owned/selectable weapon table named in
// spec.md §4.C item 3.
type WeaponSlot uint8

const (
	WeaponFist WeaponSlot = iota
	WeaponPistol
	WeaponShotgun
	WeaponChaingun
	WeaponRocketLauncher
	WeaponPlasmaRifle
	WeaponBFG9000
	WeaponChainsaw
	WeaponSuperShotgun

	weaponSlotCount
)

// GameMode gates weapon availability the same way the original engine did:
// shareware never had plasma/BFG, and the super shotgun is Doom II only.
type GameMode uint8

const (
	GameModeShareware GameMode = iota
	GameModeRegistered
	GameModeCommercial // Doom II / Final Doom: has the super shotgun
)

// WeaponPreferences holds the two tie-break toggles spec.md §4.C names
// explicitly: whether chainsaw is preferred over fist (unless berserk is
// active, which always prefers fist), and whether the super shotgun is
// preferred over the regular shotgun when both are owned.
type WeaponPreferences struct {
	PreferChainsawOverFist bool
	PreferSuperShotgun     bool
}

// WeaponState is the per-player owned/selectable slot state, promoted from
// the original's per-function statics to an explicitly owned field per
// spec.md §9.
type WeaponState struct {
	Mode        GameMode
	Prefs       WeaponPreferences
	Owned       [weaponSlotCount]bool
	Ammo        [weaponSlotCount]int // 0 for weapons that need no ammo
	BerserkTics int                  // >0 while berserk is active
	Current     WeaponSlot
}

// cycleOrder is the cycle order the original engine used for next/prev
// weapon, skipping fist/chainsaw (reached through a direct key or the melee
// fallback, never by cycling) matching the original's wp_* cycle table.
var cycleOrder = []WeaponSlot{
	WeaponPistol, WeaponShotgun, WeaponSuperShotgun, WeaponChaingun,
	WeaponRocketLauncher, WeaponPlasmaRifle, WeaponBFG9000,
}

// available reports whether a slot is selectable at all given the game
// mode and ownership/ammo state.
func (w *WeaponState) available(slot WeaponSlot) bool {
	if !w.Owned[slot] {
		return false
	}
	switch slot {
	case WeaponSuperShotgun:
		if w.Mode != GameModeCommercial {
			return false
		}
	case WeaponPlasmaRifle, WeaponBFG9000:
		if w.Mode == GameModeShareware {
			return false
		}
	}
	if slot != WeaponFist && slot != WeaponChainsaw {
		if w.Ammo[slot] <= 0 {
			return false
		}
	}
	return true
}

// Resolve implements spec.md §4.C item 3's tie-break rules and returns the
// weapon index to request a change to, or ok=false if no change is needed
// this tic (no direct key press, no pending cycle request, and no forced
// auto-switch). direct carries an edge-triggered numbered weapon-key press
// (input_weapon1..input_weapon9); it takes priority over cycling and is
// itself subject to the fist/chainsaw and shotgun/super-shotgun preference
// tie-breaks (g_game.c's newweapon==wp_fist and newweapon==wp_shotgun
// blocks), same as the original.
func (w *WeaponState) Resolve(next, prev bool, direct *WeaponSlot) (uint8, bool) {
	if w == nil {
		return 0, false
	}

	if direct != nil {
		slot := *direct

		// Allow switching to fist even while owning the chainsaw, but
		// prefer the chainsaw itself unless it's already ready or the
		// player is berserk without a chainsaw preference.
		if slot == WeaponFist && w.Owned[WeaponChainsaw] && w.Current != WeaponChainsaw &&
			(w.Current == WeaponFist || w.BerserkTics <= 0 || w.Prefs.PreferChainsawOverFist) {
			slot = WeaponChainsaw
		}

		// Select the super shotgun from the shotgun key only if it's
		// owned and preferred, or the regular shotgun isn't, or the
		// shotgun is already ready.
		if slot == WeaponShotgun && w.Mode == GameModeCommercial && w.Owned[WeaponSuperShotgun] &&
			(!w.Owned[WeaponShotgun] || w.Current == WeaponShotgun ||
				(w.Current != WeaponSuperShotgun && w.Prefs.PreferSuperShotgun)) {
			slot = WeaponSuperShotgun
		}

		w.Current = slot
		return uint8(slot), true
	}

	// Auto-switch when the current weapon has run dry.
	if w.Current != WeaponFist && w.Current != WeaponChainsaw && w.Ammo[w.Current] <= 0 {
		if slot, ok := w.meleeFallback(); ok {
			w.Current = slot
			return uint8(slot), true
		}
	}

	if !next && !prev {
		return 0, false
	}

	visible := w.cycleCandidates()
	if len(visible) == 0 {
		return 0, false
	}

	idx := indexOf(visible, w.Current)
	if idx < 0 {
		idx = 0
	} else if next {
		idx = (idx + 1) % len(visible)
	} else {
		idx = (idx - 1 + len(visible)) % len(visible)
	}

	w.Current = visible[idx]
	return uint8(w.Current), true
}

// meleeFallback picks between fist and chainsaw per the berserk/preference
// tie-break: berserk always prefers fist; otherwise chainsaw is preferred
// over fist only when PreferChainsawOverFist is set and the chainsaw is
// owned.
func (w *WeaponState) meleeFallback() (WeaponSlot, bool) {
	if w.BerserkTics > 0 {
		return WeaponFist, true
	}
	if w.Prefs.PreferChainsawOverFist && w.Owned[WeaponChainsaw] {
		return WeaponChainsaw, true
	}
	return WeaponFist, true
}

// cycleCandidates returns the ordered, available, non-melee weapon slots,
// applying the shotgun/super-shotgun preference tie-break.
func (w *WeaponState) cycleCandidates() []WeaponSlot {
	out := make([]WeaponSlot, 0, len(cycleOrder))
	skipShotgun := w.Prefs.PreferSuperShotgun && w.available(WeaponSuperShotgun)
	for _, slot := range cycleOrder {
		if slot == WeaponShotgun && skipShotgun {
			continue
		}
		if w.available(slot) {
			out = append(out, slot)
		}
	}
	return out
}

func indexOf(s []WeaponSlot, v WeaponSlot) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
