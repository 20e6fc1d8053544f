package sim

// Thinker is one node in the live-animation list (spec.md §3): every
// variant advances by one step per tic. Action function pointers from the
// original engine are replaced by ordinary Go methods per spec.md §9
// ("model as a tagged enum with a single dispatch function"); ThinkerKind
// below is that tag, kept for save/demo introspection and tests.
type Thinker interface {
	Kind() ThinkerKind
	Think(s *Simulation, self Id)
}

// ThinkerKind tags a Thinker's concrete variant, matching the list named in
// spec.md §3 "Thinker": mobj, ceiling, floor, platform, door, light,
// scroller, pusher.
type ThinkerKind uint8

const (
	ThinkerMobj ThinkerKind = iota
	ThinkerCeiling
	ThinkerFloor
	ThinkerPlatform
	ThinkerDoor
	ThinkerLight
	ThinkerScroller
	ThinkerPusher
)

// SectorMover drives a linear floor/ceiling/platform/door height change
// between two fixed-point targets at a fixed speed, one step per tic. It is
// the concrete thinker behind ThinkerFloor/ThinkerCeiling/ThinkerPlatform/
// ThinkerDoor: the original engine gave each its own struct with identical
// shape, so one type here covers all four per spec.md §9's dispatch-by-tag
// guidance.
type SectorMover struct {
	VariantKind ThinkerKind
	Sector      *Sector
	Ceiling     bool // moves Sector.CeilingHeight instead of FloorHeight
	Target      Fixed
	Speed       Fixed // magnitude per tic; sign derived from current vs target
	Done        bool
}

func (m *SectorMover) Kind() ThinkerKind { return m.VariantKind }

// Think advances the mover by one step, removing itself once Target is
// reached (spec.md §3: "removed when its animation completes").
func (m *SectorMover) Think(s *Simulation, self Id) {
	if m.Done || m.Sector == nil {
		if s != nil {
			s.arena.Remove(self)
		}
		return
	}
	height := &m.Sector.FloorHeight
	if m.Ceiling {
		height = &m.Sector.CeilingHeight
	}
	if *height < m.Target {
		*height += m.Speed
		if *height > m.Target {
			*height = m.Target
		}
	} else if *height > m.Target {
		*height -= m.Speed
		if *height < m.Target {
			*height = m.Target
		}
	}
	if *height == m.Target {
		m.Done = true
		s.arena.Remove(self)
	}
}

// LightFlicker cycles a sector's light level between Min and Max every
// Period tics, matching the original's flicker/strobe light specials.
type LightFlicker struct {
	Sector   *Sector
	Min, Max uint8
	Period   int
	clock    int
	bright   bool
}

func (l *LightFlicker) Kind() ThinkerKind { return ThinkerLight }

func (l *LightFlicker) Think(s *Simulation, self Id) {
	if l.Sector == nil {
		return
	}
	l.clock++
	if l.clock < l.Period {
		return
	}
	l.clock = 0
	l.bright = !l.bright
	if l.bright {
		l.Sector.LightLevel = l.Max
	} else {
		l.Sector.LightLevel = l.Min
	}
}

// Scroller applies a constant per-tic texture-offset delta to a Side,
// matching the original's scrolling-wall/floor specials.
type Scroller struct {
	Side   *Side
	DX, DY Fixed
}

func (sc *Scroller) Kind() ThinkerKind { return ThinkerScroller }

func (sc *Scroller) Think(s *Simulation, self Id) {
	if sc.Side == nil {
		return
	}
	sc.Side.OffsetX += sc.DX
	sc.Side.OffsetY += sc.DY
}

// Pusher applies a constant per-tic momentum delta to every mobj whose
// position falls within Sector, matching the original's wind/current
// specials. Only active when compat.PushersAllowed is set (spec.md §4.B).
type Pusher struct {
	Sector   *Sector
	ForceX   Fixed
	ForceY   Fixed
	Mobjs    []Id
}

func (p *Pusher) Kind() ThinkerKind { return ThinkerPusher }

func (p *Pusher) Think(s *Simulation, self Id) {
	if s == nil || !s.Compat.PushersAllowed {
		return
	}
	for _, id := range p.Mobjs {
		t, ok := s.arena.Get(id)
		if !ok {
			continue
		}
		mo, ok := t.(*MobjThinker)
		if !ok {
			continue
		}
		mo.Mobj.MomX += p.ForceX
		mo.Mobj.MomY += p.ForceY
	}
}
