package demo

import "doomcore/internal/compat"

const (
	// MaxPlayers bounds the playeringame[] array and padding width used by
	// both the demo header and the save serializer.
	MaxPlayers = 4
	// DemoMarker is the sentinel byte marking end of a ticcmd stream.
	DemoMarker byte = 0x80

	playeringamePad = 32
)

var bfgSignature = [6]byte{0x1D, 'B', 'F', 'G', '!', 0xE6}

// UMAPInfoBlock is the optional, length-prefixed extension header entry
// carrying the already-parsed UMAPINFO fields relevant to demo playback
// (spec.md §4.D, §6 GLOSSARY). Absent when Present is false so older
// readers can skip it entirely.
type UMAPInfoBlock struct {
	Present    bool
	NextMap    string
	NextSecret string
	EndPic     string
	InterText  string
}

// Options is the per-compat-level options block described in spec.md §4.D:
// Boom/MBF use a fixed 64-byte layout, MBF21 a compact count-prefixed one.
// This struct is the in-memory representation shared by both encodings.
type Options struct {
	MonstersRemember bool   `jsonschema:"description=Monsters remember who last hurt them across teleports"`
	Recoil           bool   `jsonschema:"description=Weapon recoil is applied to the firing player"`
	Bobbing          bool   `jsonschema:"description=View bobbing while walking is enabled"`
	RespawnParm      bool   `jsonschema:"description=Monsters respawn after death (-respawn)"`
	FastParm         bool   `jsonschema:"description=Fast monster movement/attacks (-fast)"`
	NoMonsters       bool   `jsonschema:"description=Monster spawns are disabled (-nomonsters)"`
	RngSeed          uint32 `jsonschema:"description=Seed for the per-class deterministic RNG"`
	Infighting       bool   `jsonschema:"description=Monsters can damage each other"`
	Dogs             uint8  `jsonschema:"description=Number of dog companions, 0..4"`
	DistFriend       uint16 `jsonschema:"description=Distance a friendly monster keeps from its leader"`
	Backing          bool   `jsonschema:"description=Monsters back away from their targets (monster backing)"`
	Hazards          bool   `jsonschema:"description=Sludge/nukage floor damage is enabled"`
	Friction         bool   `jsonschema:"description=Sector-variable friction specials are honored"`
	HelpFriends      bool   `jsonschema:"description=Player can command friendly monsters"`
	DogJumping       bool   `jsonschema:"description=Dog companions can jump down ledges (MBF21 only)"`
	Monkeys          bool   `jsonschema:"description=Spider/Cyberdemon size quirk emulation (MBF21 only)"`
	Comp             []bool `jsonschema:"description=Count-prefixed comp[] compatibility vector, MBF21 only"`
}

// Footer carries the optional post-DEMOMARKER metadata block (spec.md
// §4.D). Present is false when the demo predates the footer convention.
type Footer struct {
	Present    bool
	EngineVer  string
	IWAD       string
	PWADFiles  []string
	Deh        []string
	ComplevelS string
	GameVerS   string
}

// Header is the full decoded demo header.
type Header struct {
	UMapInfo UMAPInfoBlock

	Version  uint8 // 109, 111 (longtics), 200, 202, 203, 221
	HasSig   bool
	Sig      [6]byte
	HasCompatByte bool
	CompatByte    bool

	Skill         uint8
	Episode       uint8
	Map           uint8
	Deathmatch    uint8
	ConsolePlayer uint8

	Options Options

	PlayerInGame [MaxPlayers]bool

	Footer Footer
}

// Longtics reports whether this header uses 16-bit angle turns: demo
// version 111, or any MBF21 demo (version 221), per spec.md §4.D.
func (h Header) Longtics() bool {
	return h.Version == 111 || h.Version == 221
}

// Level maps the header's version byte back to a compat.Level.
func (h Header) Level() (compat.Level, error) {
	level, ok := compat.LevelFromDemoVersion(h.Version)
	if !ok {
		return 0, &compat.ErrUnknownDemoFormat{RawVersion: h.Version}
	}
	return level, nil
}
