package save

import "doomcore/internal/demo"

const (
	descriptionSize  = 24
	versionStringLen = 16
	consistencyByte  = 0xE6
	maxPlayers       = demo.MaxPlayers
	playeringamePad  = 32
)

// Section is one prefix-free archive component (players, world, thinkers,
// specials, RNG, automap marks). Each component owns its own internal
// layout; the save stream only needs to know its length to skip or read it
// (spec.md §4.E item 11, "each component defines its own layout but is
// prefix-free").
type Section struct {
	Name string
	Data []byte
}

// Header captures save fields 1-10 of spec.md §4.E, everything before the
// per-component archive sections.
type Header struct {
	Description string // 24 bytes, NUL-padded

	EngineVersion string // "<engine> <ver>", 16 bytes

	DemoVersion uint8
	Compat      uint8 // compat.Level byte; MBF21 (see isMBF21) selects the compact options-block layout

	Skill, Episode, Map uint8

	WadSignature uint64
	PWADPaths    []string

	PlayerInGame [maxPlayers]bool

	IDMus int8 // signed music override

	Options demo.Options

	LevelTime    uint32
	BaseTicDelta uint8 // (gametic - basetic) mod 256
}

// Footer captures the trailing fields written after the consistency
// marker: spec.md §4.E item 13.
type Footer struct {
	TotalLevelTimes uint32
	MusicLump       [8]byte
	ExtraKills      uint32
}

// Game is the full decoded save stream.
type Game struct {
	Header   Header
	Sections []Section
	Footer   Footer
}
