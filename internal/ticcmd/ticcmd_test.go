package ticcmd

import "testing"

func TestClampBoundary(t *testing.T) {
	cmd := TicCmd{Forward: int8(MaxPlMove) + 1, Side: -int8(MaxPlMove) - 1}
	cmd.Clamp()
	if cmd.Forward != MaxPlMove {
		t.Fatalf("expected forward clamped to %d, got %d", MaxPlMove, cmd.Forward)
	}
	if cmd.Side != -MaxPlMove {
		t.Fatalf("expected side clamped to %d, got %d", -MaxPlMove, cmd.Side)
	}

	exact := TicCmd{Forward: MaxPlMove}
	exact.Clamp()
	if exact.Forward != MaxPlMove {
		t.Fatalf("MAXPLMOVE exactly should be accepted unchanged")
	}
}

func TestReplicateSquashesAllButFirst(t *testing.T) {
	cmd := TicCmd{ChatChar: 'A', Buttons: ButtonSpecial, Special: SpecialSave, SaveSlot: 2}
	reps := Replicate(cmd, 3)
	if len(reps) != 3 {
		t.Fatalf("expected 3 replicas, got %d", len(reps))
	}
	if reps[0].ChatChar != 'A' || reps[0].Special != SpecialSave {
		t.Fatalf("first replica must retain chat/special state")
	}
	for i, r := range reps[1:] {
		if r.ChatChar != 0 || r.Special != SpecialNone || r.Buttons&ButtonSpecial != 0 {
			t.Fatalf("replica %d should be squashed: %+v", i+1, r)
		}
	}
}

func TestReplicateClampsDup(t *testing.T) {
	if len(Replicate(TicCmd{}, 0)) != 1 {
		t.Fatalf("dup below 1 should clamp to 1")
	}
	if len(Replicate(TicCmd{}, 99)) != 12 {
		t.Fatalf("dup above 12 should clamp to 12")
	}
}

func TestWeaponResolveBerserkPrefersFist(t *testing.T) {
	w := &WeaponState{Mode: GameModeCommercial}
	w.Owned[WeaponFist] = true
	w.Owned[WeaponChainsaw] = true
	w.BerserkTics = 10
	w.Current = WeaponChaingun // exhausted weapon to trigger fallback
	w.Owned[WeaponChaingun] = true
	w.Ammo[WeaponChaingun] = 0

	idx, ok := w.Resolve(false, false, nil)
	if !ok || WeaponSlot(idx) != WeaponFist {
		t.Fatalf("expected fist under berserk, got %d ok=%v", idx, ok)
	}
}

func TestWeaponResolvePrefersChainsawWithoutBerserk(t *testing.T) {
	w := &WeaponState{Mode: GameModeCommercial, Prefs: WeaponPreferences{PreferChainsawOverFist: true}}
	w.Owned[WeaponFist] = true
	w.Owned[WeaponChainsaw] = true
	w.Owned[WeaponChaingun] = true
	w.Ammo[WeaponChaingun] = 0
	w.Current = WeaponChaingun

	idx, ok := w.Resolve(false, false, nil)
	if !ok || WeaponSlot(idx) != WeaponChainsaw {
		t.Fatalf("expected chainsaw preference, got %d ok=%v", idx, ok)
	}
}

func TestWeaponResolveSharewareExcludesPlasmaAndBFG(t *testing.T) {
	w := &WeaponState{Mode: GameModeShareware}
	w.Owned[WeaponPistol] = true
	w.Ammo[WeaponPistol] = 10
	w.Owned[WeaponPlasmaRifle] = true
	w.Ammo[WeaponPlasmaRifle] = 10
	w.Current = WeaponPistol

	idx, ok := w.Resolve(true, false, nil)
	if !ok {
		t.Fatalf("expected a weapon change to be available")
	}
	if WeaponSlot(idx) == WeaponPlasmaRifle {
		t.Fatalf("plasma rifle must not be selectable in shareware")
	}
}

func TestWeaponResolveNoSSGOutsideDoom2(t *testing.T) {
	w := &WeaponState{Mode: GameModeRegistered}
	w.Owned[WeaponShotgun] = true
	w.Ammo[WeaponShotgun] = 5
	w.Owned[WeaponSuperShotgun] = true
	w.Ammo[WeaponSuperShotgun] = 5
	w.Current = WeaponPistol
	w.Owned[WeaponPistol] = true
	w.Ammo[WeaponPistol] = 5

	for i := 0; i < len(cycleOrder); i++ {
		idx, ok := w.Resolve(true, false, nil)
		if !ok {
			break
		}
		if WeaponSlot(idx) == WeaponSuperShotgun {
			t.Fatalf("super shotgun must not be selectable outside commercial mode")
		}
	}
}

// Direct weapon-key tie-break (spec.md §8 property 7): owning fist and
// chainsaw with berserk expired, a weapon1 request (input_weapon1) yields
// the chainsaw; with berserk active and no chainsaw preference, it yields
// the fist.
func TestWeaponResolveDirectFistRequestPrefersChainsawWithoutBerserk(t *testing.T) {
	w := &WeaponState{Mode: GameModeCommercial}
	w.Owned[WeaponFist] = true
	w.Owned[WeaponChainsaw] = true
	w.Current = WeaponPistol
	w.Owned[WeaponPistol] = true
	w.Ammo[WeaponPistol] = 5

	fist := WeaponFist
	idx, ok := w.Resolve(false, false, &fist)
	if !ok || WeaponSlot(idx) != WeaponChainsaw {
		t.Fatalf("expected weapon1 request to yield chainsaw, got %d ok=%v", idx, ok)
	}
}

func TestWeaponResolveDirectFistRequestYieldsFistUnderBerserk(t *testing.T) {
	w := &WeaponState{Mode: GameModeCommercial}
	w.Owned[WeaponFist] = true
	w.Owned[WeaponChainsaw] = true
	w.BerserkTics = 10
	w.Current = WeaponPistol
	w.Owned[WeaponPistol] = true
	w.Ammo[WeaponPistol] = 5

	fist := WeaponFist
	idx, ok := w.Resolve(false, false, &fist)
	if !ok || WeaponSlot(idx) != WeaponFist {
		t.Fatalf("expected weapon1 request to yield fist under berserk, got %d ok=%v", idx, ok)
	}
}

// Direct shotgun-key tie-break: owning both shotgun and super shotgun in
// commercial mode with the super shotgun preferred yields the super
// shotgun from a weapon3 request.
func TestWeaponResolveDirectShotgunRequestPrefersSuperShotgun(t *testing.T) {
	w := &WeaponState{Mode: GameModeCommercial, Prefs: WeaponPreferences{PreferSuperShotgun: true}}
	w.Owned[WeaponShotgun] = true
	w.Ammo[WeaponShotgun] = 5
	w.Owned[WeaponSuperShotgun] = true
	w.Ammo[WeaponSuperShotgun] = 5
	w.Current = WeaponPistol
	w.Owned[WeaponPistol] = true
	w.Ammo[WeaponPistol] = 5

	shotgun := WeaponShotgun
	idx, ok := w.Resolve(false, false, &shotgun)
	if !ok || WeaponSlot(idx) != WeaponSuperShotgun {
		t.Fatalf("expected weapon3 request to yield super shotgun, got %d ok=%v", idx, ok)
	}
}
