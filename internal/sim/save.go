// Archive/Restore split the Simulation value into the named, prefix-free
// save.Section blobs spec.md §4.E item 11 calls for: "Archived players,
// world, thinkers, specials, RNG vector, automap marks — each component
// defines its own layout but is prefix-free." This package never imports
// internal/save (tools/depscheck would still allow it, since the rule only
// forbids sim -> net, but save.Section is a plain struct any caller can
// build), so the encoding lives here and the caller wraps it in save.Game.
package sim

import (
	"doomcore/internal/rng"
	"doomcore/internal/ticcmd"
)

// AutomapMark is one player-placed automap marker (spec.md §4.E item 11);
// the automap widget itself is out of scope (spec.md §1) but the marks it
// leaves behind are part of the archived simulation state.
type AutomapMark struct {
	X, Y Fixed
}

// SectionPlayers, SectionWorld, SectionThinkers, SectionRNG, and
// SectionAutomap name the five archive components spec.md §4.E item 11
// enumerates. Each is independently prefix-free: a reader that does not
// recognize a name can skip its bytes using the section's own length.
const (
	SectionPlayers  = "PLYR"
	SectionWorld    = "WRLD"
	SectionThinkers = "THNK"
	SectionRNG      = "RNG1"
	SectionAutomap  = "AMAP"
)

// ArchiveSection is the minimal shape internal/save.Section round-trips;
// duplicated here rather than imported so this package stays free of the
// save package's own dependency on internal/demo.
type ArchiveSection struct {
	Name string
	Data []byte
}

// Archive splits the simulation into its five named components. Byte order
// is little-endian throughout, matching every other wire format in this
// module (spec.md §9 "never type-pun structs across the wire").
func (s *Simulation) Archive() []ArchiveSection {
	return []ArchiveSection{
		{Name: SectionPlayers, Data: s.archivePlayers()},
		{Name: SectionWorld, Data: s.archiveWorld()},
		{Name: SectionThinkers, Data: s.archiveThinkers()},
		{Name: SectionRNG, Data: s.archiveRNG()},
		{Name: SectionAutomap, Data: s.archiveAutomap()},
	}
}

// Restore replays a section list produced by Archive back into the
// simulation. Unrecognized section names are skipped, matching the
// forward-only, prefix-free contract of spec.md §4.E item 11: a newer
// writer's extra section never breaks an older reader.
func (s *Simulation) Restore(sections []ArchiveSection) error {
	for _, sec := range sections {
		var err error
		switch sec.Name {
		case SectionPlayers:
			err = s.restorePlayers(sec.Data)
		case SectionWorld:
			err = s.restoreWorld(sec.Data)
		case SectionThinkers:
			err = s.restoreThinkers(sec.Data)
		case SectionRNG:
			err = s.restoreRNG(sec.Data)
		case SectionAutomap:
			err = s.restoreAutomap(sec.Data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --- players -----------------------------------------------------------

func (s *Simulation) archivePlayers() []byte {
	var w writer
	for i := range s.Players {
		p := s.Players[i]
		if p == nil || !p.InGame {
			w.u8(0)
			continue
		}
		w.u8(1)
		w.i32(int32(p.Health))
		w.i32(int32(p.Armor))
		for _, a := range p.Ammo {
			w.i32(int32(a))
		}
		for _, a := range p.MaxAmmo {
			w.i32(int32(a))
		}
		for _, owned := range p.Weapons.Owned {
			w.bool(owned)
		}
		for _, a := range p.Weapons.Ammo {
			w.i32(int32(a))
		}
		w.i32(int32(p.Weapons.BerserkTics))
		w.u8(uint8(p.Weapons.Mode))
		w.bool(p.Weapons.Prefs.PreferChainsawOverFist)
		w.bool(p.Weapons.Prefs.PreferSuperShotgun)
		w.u8(uint8(p.Weapons.Current))
		for _, t := range p.Powers {
			w.i32(int32(t))
		}
		for _, c := range p.Cards {
			w.bool(c)
		}
		for _, f := range p.Frags {
			w.i32(int32(f))
		}
		w.i32(int32(p.KillCount))
		w.i32(int32(p.ItemCount))
		w.i32(int32(p.SecretCount))
		w.u32(uint32(p.Cheats))
	}
	return w.buf
}

func (s *Simulation) restorePlayers(data []byte) error {
	r := reader{buf: data}
	for i := range s.Players {
		inGame, err := r.u8()
		if err != nil {
			return err
		}
		if inGame == 0 {
			s.Players[i] = nil
			continue
		}
		p := &Player{InGame: true}
		var err2 error
		if p.Health, err2 = r.i32int(); err2 != nil {
			return err2
		}
		if p.Armor, err2 = r.i32int(); err2 != nil {
			return err2
		}
		for j := range p.Ammo {
			if p.Ammo[j], err2 = r.i32int(); err2 != nil {
				return err2
			}
		}
		for j := range p.MaxAmmo {
			if p.MaxAmmo[j], err2 = r.i32int(); err2 != nil {
				return err2
			}
		}
		for j := range p.Weapons.Owned {
			owned, err3 := r.boolv()
			if err3 != nil {
				return err3
			}
			p.Weapons.Owned[j] = owned
		}
		for j := range p.Weapons.Ammo {
			if p.Weapons.Ammo[j], err2 = r.i32int(); err2 != nil {
				return err2
			}
		}
		if p.Weapons.BerserkTics, err2 = r.i32int(); err2 != nil {
			return err2
		}
		mode, err4 := r.u8()
		if err4 != nil {
			return err4
		}
		p.Weapons.Mode = ticcmd.GameMode(mode)
		preferChainsaw, err5 := r.boolv()
		if err5 != nil {
			return err5
		}
		p.Weapons.Prefs.PreferChainsawOverFist = preferChainsaw
		preferSSG, err6 := r.boolv()
		if err6 != nil {
			return err6
		}
		p.Weapons.Prefs.PreferSuperShotgun = preferSSG
		cur, err7 := r.u8()
		if err7 != nil {
			return err7
		}
		p.Weapons.Current = weaponSlotOf(cur)
		for j := range p.Powers {
			if p.Powers[j], err2 = r.i32int(); err2 != nil {
				return err2
			}
		}
		for j := range p.Cards {
			c, err5 := r.boolv()
			if err5 != nil {
				return err5
			}
			p.Cards[j] = c
		}
		for j := range p.Frags {
			if p.Frags[j], err2 = r.i32int(); err2 != nil {
				return err2
			}
		}
		if p.KillCount, err2 = r.i32int(); err2 != nil {
			return err2
		}
		if p.ItemCount, err2 = r.i32int(); err2 != nil {
			return err2
		}
		if p.SecretCount, err2 = r.i32int(); err2 != nil {
			return err2
		}
		cheats, err6 := r.u32()
		if err6 != nil {
			return err6
		}
		p.Cheats = CheatFlags(cheats)
		// p.MobjID is left zero here; restoreThinkers fixes it up from each
		// mobj's own PlayerIndex once the arena is rebuilt, since archived
		// thinker Ids are not guaranteed to match their pre-save slots.
		s.Players[i] = p
	}
	return nil
}

// --- world ---------------------------------------------------------------

// archiveWorld persists per-level Sector mutable state (heights, light,
// friction) that specials change over a level's lifetime. Lines/Sides are
// loaded once from the WAD and otherwise level-static in this core's scope
// (spec.md §1 WAD loading is out of scope), except for Scroller-driven
// texture offsets, which reset to the level's defaults on restore along
// with the rest of the un-archived SectorMover/Scroller thinker state
// (see archiveThinkers).
func (s *Simulation) archiveWorld() []byte {
	var w writer
	w.u32(uint32(len(s.World.Sectors)))
	for _, sec := range s.World.Sectors {
		w.i32(int32(sec.ID))
		w.i32(int32(sec.FloorHeight))
		w.i32(int32(sec.CeilingHeight))
		w.u8(sec.LightLevel)
		w.i32(int32(sec.Special))
		w.i32(int32(sec.Friction))
		w.i32(int32(sec.Tag))
	}
	return w.buf
}

func (s *Simulation) restoreWorld(data []byte) error {
	r := reader{buf: data}
	n, err := r.u32()
	if err != nil {
		return err
	}
	s.World.Sectors = s.World.Sectors[:0]
	for i := uint32(0); i < n; i++ {
		sec := &Sector{}
		id, e := r.i32int()
		if e != nil {
			return e
		}
		sec.ID = id
		fh, e := r.i32int()
		if e != nil {
			return e
		}
		sec.FloorHeight = Fixed(fh)
		ch, e := r.i32int()
		if e != nil {
			return e
		}
		sec.CeilingHeight = Fixed(ch)
		ll, e := r.u8()
		if e != nil {
			return e
		}
		sec.LightLevel = ll
		sp, e := r.i32int()
		if e != nil {
			return e
		}
		sec.Special = sp
		fr, e := r.i32int()
		if e != nil {
			return e
		}
		sec.Friction = Fixed(fr)
		tag, e := r.i32int()
		if e != nil {
			return e
		}
		sec.Tag = tag
		s.World.Sectors = append(s.World.Sectors, sec)
	}
	return nil
}

// --- thinkers --------------------------------------------------------------

// archiveThinkers only round-trips MobjThinker entries: spec.md §2 row H
// places full monster AI/specials outside this core's specified boundary,
// so SectorMover/LightFlicker/Scroller/Pusher thinkers (which hold pointers
// into World rather than plain data) are reconstructed by the level loader
// on restore, not by this section.
func (s *Simulation) archiveThinkers() []byte {
	var w writer
	ids := s.arena.Snapshot()
	mobjs := make([]Id, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.arena.Get(id); ok && t.Kind() == ThinkerMobj {
			mobjs = append(mobjs, id)
		}
	}
	w.u32(uint32(len(mobjs)))
	for _, id := range mobjs {
		mo := s.Mobj(id)
		w.i32(int32(mo.X))
		w.i32(int32(mo.Y))
		w.i32(int32(mo.Z))
		w.i32(int32(mo.MomX))
		w.i32(int32(mo.MomY))
		w.i32(int32(mo.MomZ))
		w.u32(uint32(mo.Angle))
		w.u16(uint16(mo.Type))
		w.u32(uint32(mo.Flags))
		w.i32(int32(mo.Health))
		w.i32(int32(mo.TicsToNextState))
		w.i32(int32(mo.PlayerIndex))
		w.u32(mo.Target.Index)
		w.u32(mo.Target.Gen)
		w.u32(mo.Tracer.Index)
		w.u32(mo.Tracer.Gen)
	}
	return w.buf
}

func (s *Simulation) restoreThinkers(data []byte) error {
	r := reader{buf: data}
	n, err := r.u32()
	if err != nil {
		return err
	}
	s.arena = NewArena()
	for i := uint32(0); i < n; i++ {
		var mo Mobj
		x, e := r.i32int()
		if e != nil {
			return e
		}
		mo.X = Fixed(x)
		y, e := r.i32int()
		if e != nil {
			return e
		}
		mo.Y = Fixed(y)
		z, e := r.i32int()
		if e != nil {
			return e
		}
		mo.Z = Fixed(z)
		mx, e := r.i32int()
		if e != nil {
			return e
		}
		mo.MomX = Fixed(mx)
		my, e := r.i32int()
		if e != nil {
			return e
		}
		mo.MomY = Fixed(my)
		mz, e := r.i32int()
		if e != nil {
			return e
		}
		mo.MomZ = Fixed(mz)
		ang, e := r.u32()
		if e != nil {
			return e
		}
		mo.Angle = Angle(ang)
		typ, e := r.u16()
		if e != nil {
			return e
		}
		mo.Type = MobjType(typ)
		flags, e := r.u32()
		if e != nil {
			return e
		}
		mo.Flags = MobjFlags(flags)
		hp, e := r.i32int()
		if e != nil {
			return e
		}
		mo.Health = hp
		ttns, e := r.i32int()
		if e != nil {
			return e
		}
		mo.TicsToNextState = ttns
		pidx, e := r.i32int()
		if e != nil {
			return e
		}
		mo.PlayerIndex = pidx
		tgtIdx, e := r.u32()
		if e != nil {
			return e
		}
		tgtGen, e := r.u32()
		if e != nil {
			return e
		}
		mo.Target = Id{Index: tgtIdx, Gen: tgtGen}
		trIdx, e := r.u32()
		if e != nil {
			return e
		}
		trGen, e := r.u32()
		if e != nil {
			return e
		}
		mo.Tracer = Id{Index: trIdx, Gen: trGen}

		id := s.SpawnMobj(mo)
		if p := s.playerOwning(id, mo.PlayerIndex); p != nil {
			p.MobjID = id
		}
	}
	return nil
}

func (s *Simulation) playerOwning(id Id, playerIndex int) *Player {
	if playerIndex < 0 || playerIndex >= netMaxPlayers {
		return nil
	}
	return s.Players[playerIndex]
}

// --- RNG ---------------------------------------------------------------

func (s *Simulation) archiveRNG() []byte {
	var w writer
	vec := s.RNG.IndexVector()
	for _, b := range vec {
		w.u8(b)
	}
	return w.buf
}

func (s *Simulation) restoreRNG(data []byte) error {
	r := reader{buf: data}
	var vec [rng.ClassCount]uint8
	for i := range vec {
		b, err := r.u8()
		if err != nil {
			return err
		}
		vec[i] = b
	}
	s.RNG.SetIndexVector(vec)
	return nil
}

// --- automap -------------------------------------------------------------

func (s *Simulation) archiveAutomap() []byte {
	var w writer
	w.u32(uint32(len(s.AutomapMarks)))
	for _, m := range s.AutomapMarks {
		w.i32(int32(m.X))
		w.i32(int32(m.Y))
	}
	return w.buf
}

func (s *Simulation) restoreAutomap(data []byte) error {
	r := reader{buf: data}
	n, err := r.u32()
	if err != nil {
		return err
	}
	marks := make([]AutomapMark, 0, n)
	for i := uint32(0); i < n; i++ {
		x, e := r.i32int()
		if e != nil {
			return e
		}
		y, e := r.i32int()
		if e != nil {
			return e
		}
		marks = append(marks, AutomapMark{X: Fixed(x), Y: Fixed(y)})
	}
	s.AutomapMarks = marks
	return nil
}

func weaponSlotOf(v uint8) ticcmd.WeaponSlot { return ticcmd.WeaponSlot(v) }
