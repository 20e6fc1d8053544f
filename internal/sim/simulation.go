// Simulation ties together the data model (Player, Mobj, Thinker, World)
// with the RNG and compat vector into the single owned value spec.md §9
// recommends in place of the original's hundreds of module-level globals:
// "Recast as an owned Simulation value that holds players, world,
// thinkers, RNG, compat vector; the tic loop borrows it mutably."
package sim

import (
	"fmt"

	"doomcore/internal/audio"
	"doomcore/internal/compat"
	"doomcore/internal/fixed"
	"doomcore/internal/rng"
	"doomcore/internal/ticcmd"
)

// LevelInfo names the currently loaded level, mirroring the handful of
// global variables (gameskill, gameepisode, gamemap, deathmatch) spec.md
// §9 says become struct fields.
type LevelInfo struct {
	Skill      int
	Episode    int
	Map        int
	Deathmatch int
	Commercial bool // game mode = commercial (Doom II/Final Doom), selects §8 S5 exit rules
	SecretExit bool
}

// Simulation is the single owned value the tic loop mutably borrows each
// tic (spec.md §9). It holds no reference to the net/demo/save layers;
// those drive it purely through Tick and the Archive/Restore methods.
type Simulation struct {
	Compat compat.Vector
	RNG    *rng.RNG
	World  *World
	Level  LevelInfo

	Players [netMaxPlayers]*Player

	arena *Arena

	GameTic  uint64
	BaseTic  uint64 // advances even while paused, per spec.md §4.G step 3
	Paused   bool

	// consistency[player][tic%BackupTics] is the low word of that player's
	// predicted mobj X at the end of the tic (spec.md §3 invariant 5).
	consistency [netMaxPlayers][backupTics]uint16

	turboWarnTics [netMaxPlayers]int // tics since last turbo warning, per player

	// AutomapMarks holds player-placed automap markers, archived as their
	// own save section (spec.md §4.E item 11). The automap widget itself is
	// out of scope (spec.md §1); only the marks it leaves behind persist.
	AutomapMarks []AutomapMark

	// AudioQueue buffers (sfxid, origin, volume, separation, priority,
	// pitch) cues enqueued by thinkers during the current tic; Tick
	// flushes it into TickResult.AudioCues at tic end (spec.md §6 "Per-tic
	// audio contract").
	AudioQueue *audio.Queue
}

const backupTics = 128

// New constructs an empty Simulation ready for NewGame.
func New(seed uint32, cmp compat.Vector) *Simulation {
	return &Simulation{
		Compat:     cmp,
		RNG:        rng.New(seed),
		World:      NewWorld(),
		arena:      NewArena(),
		AudioQueue: audio.NewQueue(audio.DefaultCapacity),
	}
}

// SpawnMobj adds a mobj thinker to the arena and returns its Id.
func (s *Simulation) SpawnMobj(mo Mobj) Id {
	return s.arena.Spawn(&MobjThinker{Mobj: mo})
}

// SpawnThinker adds any non-mobj thinker (mover, light, scroller, pusher).
func (s *Simulation) SpawnThinker(t Thinker) Id {
	return s.arena.Spawn(t)
}

// Mobj resolves a weak Id to its *Mobj, or nil if the thinker has been
// removed or is not a mobj (spec.md §3: back-references "must be
// revalidated on dereference").
func (s *Simulation) Mobj(id Id) *Mobj {
	t, ok := s.arena.Get(id)
	if !ok {
		return nil
	}
	mo, ok := t.(*MobjThinker)
	if !ok {
		return nil
	}
	return &mo.Mobj
}

// ThinkerCount reports the number of live thinkers, used by save-size
// estimation and tests.
func (s *Simulation) ThinkerCount() int { return s.arena.Len() }

// TickResult is everything the tic loop (spec.md §4.G) and net-sync layer
// (spec.md §4.I) need out of one completed tic.
type TickResult struct {
	Tick          uint64
	Consistency   [netMaxPlayers]uint16
	TurboWarnings []int // player indices that crossed TurboThreshold this tic
	PauseToggled  bool
	SaveRequested []int // player indices whose cmd requested a save this tic
	AudioCues     []audio.Cue
}

// Tick runs exactly one simulation tic (spec.md §3 "Tic (unit of
// simulation)": atomic, either fully completes or is not started). cmds
// holds one TicCmd per player slot; slots for players not InGame are
// ignored. This folds the per-tic portion of spec.md §4.G's loop (steps
// 4's sub-bullets) with the mobj/thinker step itself, since the full
// external simulation (§2 row H) is out of this core's specified scope
// beyond this boundary.
func (s *Simulation) Tick(cmds [netMaxPlayers]ticcmd.TicCmd) TickResult {
	result := TickResult{Tick: s.GameTic}

	if s.Paused {
		s.BaseTic++
		return result
	}

	for i := range s.Players {
		p := s.Players[i]
		if p == nil || !p.InGame {
			continue
		}
		cmd := cmds[i]

		if cmd.Special == ticcmd.SpecialPause {
			s.Paused = !s.Paused
			result.PauseToggled = true
		} else if cmd.Special == ticcmd.SpecialSave {
			result.SaveRequested = append(result.SaveRequested, i)
		}

		if cmd.Forward > ticcmd.TurboThreshold {
			s.turboWarnTics[i]++
			if s.turboWarnTics[i] >= 32 {
				s.turboWarnTics[i] = 0
				result.TurboWarnings = append(result.TurboWarnings, i)
			}
		} else {
			s.turboWarnTics[i] = 0
		}

		s.applyTiccmd(p, cmd)
	}

	snapshot := s.arena.Snapshot()
	for _, id := range snapshot {
		t, ok := s.arena.Get(id)
		if !ok {
			continue
		}
		t.Think(s, id)
	}
	s.arena.Sweep()

	for i := range s.Players {
		p := s.Players[i]
		if p == nil || !p.InGame {
			continue
		}
		mo := s.Mobj(p.MobjID)
		var c uint16
		if mo != nil {
			c = uint16(uint32(mo.X))
		}
		s.consistency[i][s.GameTic%backupTics] = c
		result.Consistency[i] = c
	}

	if s.AudioQueue != nil {
		result.AudioCues = s.AudioQueue.FlushTic()
	}

	s.GameTic++
	s.BaseTic++
	return result
}

// ConsistencyAt returns the recorded consistency value for player at the
// given tic, used by the net-sync layer's SubmitCmd check (spec.md §4.G
// step 4) and by save/replay property tests.
func (s *Simulation) ConsistencyAt(player int, tic uint64) uint16 {
	if player < 0 || player >= netMaxPlayers {
		return 0
	}
	return s.consistency[player][tic%backupTics]
}

// applyTiccmd is the player-movement half of P_PlayerThink (spec.md §2 row
// H, §4.C): forward/side move is rotated by the mobj's current angle using
// fixed-point BAM trigonometry, never floating point, so movement is
// bit-exact across hosts.
func (s *Simulation) applyTiccmd(p *Player, cmd ticcmd.TicCmd) {
	if p.PendingReborn {
		p.Reborn()
		return
	}

	mo := s.Mobj(p.MobjID)
	if mo == nil {
		return
	}

	mo.Angle += Angle(uint32(cmd.AngleTurn) << 16)

	forward := fixed.FromInt(int(cmd.Forward))
	side := fixed.FromInt(int(cmd.Side))

	c := fixed.Cos(mo.Angle)
	sn := fixed.Sin(mo.Angle)

	mo.MomX += fixed.FixedMul(forward, c) - fixed.FixedMul(side, sn)
	mo.MomY += fixed.FixedMul(forward, sn) + fixed.FixedMul(side, c)

	if cmd.Buttons&ticcmd.ButtonAttack != 0 {
		s.fireWeapon(p, mo)
	}
}

// fireWeapon is a minimal, deterministic stand-in for the original's
// per-weapon A_FireWeapon action table (spec.md §2 row H: out of this
// core's specified scope beyond the tic boundary). It only consumes ammo
// through the RNG-free path and exists so weapon/ammo state participates
// in the tic loop and save/demo round-trip tests.
func (s *Simulation) fireWeapon(p *Player, mo *Mobj) {
	slot := p.Weapons.Current
	ammo, ok := weaponAmmo(slot)
	if !ok {
		return
	}
	if p.Ammo[ammo] <= 0 {
		return
	}
	p.Ammo[ammo]--
	_ = s.rollDamage(rng.ClassPlayerAttack, 1, 8, 0)

	if s.AudioQueue != nil {
		s.AudioQueue.Enqueue(audio.Cue{
			SfxID:    weaponFireSfx(slot),
			OriginID: fmt.Sprintf("mobj:%d:%d", p.MobjID.Index, p.MobjID.Gen),
			Volume:   127,
			Priority: 64,
			Pitch:    128,
		})
	}
}

// weaponFireSfx maps a weapon slot to its firing sound id. The concrete
// sound effect table is WAD-loaded data owned outside this core (spec.md
// §1); these ids are placeholders stable enough for the audio queue's
// origin/priority plumbing to be exercised end to end.
func weaponFireSfx(slot ticcmd.WeaponSlot) int {
	return int(slot) + 1
}

func weaponAmmo(slot ticcmd.WeaponSlot) (AmmoType, bool) {
	switch slot {
	case ticcmd.WeaponPistol, ticcmd.WeaponChaingun:
		return AmmoClip, true
	case ticcmd.WeaponShotgun, ticcmd.WeaponSuperShotgun:
		return AmmoShell, true
	case ticcmd.WeaponPlasmaRifle, ticcmd.WeaponBFG9000:
		return AmmoCell, true
	case ticcmd.WeaponRocketLauncher:
		return AmmoMissile, true
	default:
		return 0, false
	}
}
