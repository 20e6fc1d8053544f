package sim

// Sector, Line, and Side are the minimal map geometry the tic loop and
// specials need to mutate (spec.md §3 "World"): heights, lights, and
// special ids are the fields every linedef-special thinker touches. Full
// BSP/subsector/node geometry is a renderer/collision concern (spec.md §1,
// explicitly out of scope) and is not modeled here.
type Sector struct {
	ID            int
	FloorHeight   Fixed
	CeilingHeight Fixed
	LightLevel    uint8
	Special       int
	Friction      Fixed // 0 means "use the default"; read only when Compat.VariableFriction is set
	Tag           int
}

type Side struct {
	ID           int
	Sector       *Sector
	OffsetX      Fixed
	OffsetY      Fixed
	TopTexture   string
	MidTexture   string
	BottomTexture string
}

// LineFlags mirrors the handful of linedef flags specials care about.
type LineFlags uint16

const (
	LineBlocking LineFlags = 1 << iota
	LineTwoSided
	LineSecret
	LineReserved // comp_reservedlineflag (spec.md §3 compat vector)
)

type Line struct {
	ID       int
	Flags    LineFlags
	Special  int
	Tag      int
	FrontSide *Side
	BackSide  *Side // nil for one-sided lines
}

// World holds the level geometry loaded once per level and mutated only by
// specials (spec.md §3 "World").
type World struct {
	Sectors []*Sector
	Lines   []*Line
	Sides   []*Side
}

// NewWorld builds an empty world; levels are populated by the (external,
// out-of-scope) WAD loader via AddSector/AddLine.
func NewWorld() *World {
	return &World{}
}

func (w *World) AddSector(s *Sector) { w.Sectors = append(w.Sectors, s) }
func (w *World) AddLine(l *Line)     { w.Lines = append(w.Lines, l) }

// sectorAt is a placeholder point-in-sector query: full BSP point location
// is a renderer/collision concern out of this core's scope (spec.md §1), so
// this only supports the single-sector-level tests and specials that need
// "the" current sector rather than true spatial lookup.
func (s *Simulation) sectorAt(x, y Fixed) *Sector {
	if len(s.World.Sectors) == 0 {
		return nil
	}
	return s.World.Sectors[0]
}
