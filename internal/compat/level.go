// Package compat resolves a single compatibility-level enum (plus any
// per-flag overrides) into the full behavior vector every other subsystem
// reads, per spec.md §4.B. Resolution is a pure function of its inputs:
// same (level, overrides) always yields a byte-identical Vector, which is
// load-bearing for spec.md §8.5.
package compat

// Level enumerates the supported engine-revision compatibility tiers.
type Level uint8

const (
	LevelVanilla Level = iota
	LevelBoom
	LevelMBF
	LevelMBF21

	levelCount
)

// String implements fmt.Stringer for log lines and error messages.
func (l Level) String() string {
	switch l {
	case LevelVanilla:
		return "vanilla"
	case LevelBoom:
		return "boom"
	case LevelMBF:
		return "mbf"
	case LevelMBF21:
		return "mbf21"
	default:
		return "unknown"
	}
}

// ParseLevel accepts both the canonical tier names and the execuable-version
// aliases named in spec.md §6 (-complevel doom2, 1.9, ultimate, final, tnt,
// plutonia all resolve to vanilla-tier behavior; the distinct executable
// tag is tracked separately by ExeVersion for cosmetic/feature gating that
// does not affect comp[]).
func ParseLevel(name string) (Level, bool) {
	switch name {
	case "vanilla", "doom2", "1.9", "ultimate", "final", "tnt", "plutonia":
		return LevelVanilla, true
	case "boom":
		return LevelBoom, true
	case "mbf":
		return LevelMBF, true
	case "mbf21":
		return LevelMBF21, true
	default:
		return 0, false
	}
}

// DemoVersion maps a compat level to the demo-header version byte it writes
// by default (spec.md §4.D). Longtics variants are selected separately.
func (l Level) DemoVersion() uint8 {
	switch l {
	case LevelVanilla:
		return 109
	case LevelBoom:
		return 202
	case LevelMBF:
		return 203
	case LevelMBF21:
		return 221
	default:
		return 109
	}
}

// LevelFromDemoVersion is the inverse of DemoVersion, used when resolving
// from a demo header (the highest-precedence source per spec.md §4.B).
func LevelFromDemoVersion(version uint8) (Level, bool) {
	switch version {
	case 109, 111:
		return LevelVanilla, true
	case 200, 202:
		return LevelBoom, true
	case 203:
		return LevelMBF, true
	case 221:
		return LevelMBF21, true
	default:
		return 0, false
	}
}
