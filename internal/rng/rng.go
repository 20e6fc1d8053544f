// Package rng implements the simulation's single deterministic PRNG. Unlike
// a general-purpose random source, draws are partitioned by "class" so that,
// e.g., monster-AI randomness and pickup-respawn randomness never perturb
// each other's sequence, generalizing a per-label deterministic RNG factory
// into the fixed 256-byte rolling table the original engine used for its
// P_Random.
package rng

// Class identifies an independent draw sequence. The original engine did not
// name these explicitly (every call site just said "rndindex"); compat
// levels at and after Boom effectively partitioned draws by purpose, which
// is what Class formalizes.
type Class uint8

const (
	ClassMisc Class = iota
	ClassDamage
	ClassSpawn
	ClassMonsterAI
	ClassMonsterAttack
	ClassPlayerAttack
	ClassItemRespawn
	ClassTeleport
	ClassPainChance
	ClassSplat
	ClassAmbientSound
	ClassWeaponSpread
	ClassVoodoo
	ClassChat
	ClassLightFlicker
	ClassCount
)

const tableSize = 256

// table is the fixed 256-byte constant sequence every class index rolls
// through. It mirrors the original rndtable: not cryptographically random,
// but bit-for-bit reproducible across hosts and language runtimes that copy
// the same bytes, which is the only property that matters here.
var table = buildTable()

// buildTable regenerates the canonical 256-byte sequence from a small
// deterministic seed so the source doesn't need to embed a literal 256-byte
// array; the values are computed once at package initialization and never
// touched again.
func buildTable() [tableSize]byte {
	var t [tableSize]byte
	var x uint32 = 1
	for i := range t {
		// A minimal xorshift32 stepped a fixed number of times per slot;
		// deterministic and host-independent by construction (pure integer
		// ops), which is all §4.A requires of the table.
		for step := 0; step < 17; step++ {
			x ^= x << 13
			x ^= x >> 17
			x ^= x << 5
		}
		t[i] = byte(x)
	}
	return t
}

// RNG holds the per-class index vector plus the compat-level-dependent
// extra seed mix. It is owned by the simulation value (never a package
// global) so two independent Simulation instances never share state.
type RNG struct {
	index    [ClassCount]uint8
	extraMix uint8
	seed     uint32
}

// New constructs an RNG already cleared with the given seed.
func New(seed uint32) *RNG {
	r := &RNG{}
	r.Clear(seed)
	return r
}

// Random draws the next byte for the given class and advances only that
// class's index: unrelated classes are unaffected by a draw.
func (r *RNG) Random(class Class) uint8 {
	if r == nil {
		return 0
	}
	idx := &r.index[class]
	*idx = (*idx + 1) & 0xFF
	return table[*idx] ^ r.extraMix
}

// RandomRange returns a value in [lo, hi] inclusive, built from one Random
// draw modulo the span. Kept deterministic and free of floating point.
func (r *RNG) RandomRange(class Class, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	return lo + int(r.Random(class))%span
}

// Pr2 draws two bytes and returns their signed difference, the classic
// "P_Random() - P_Random()" pattern used for symmetric spread/jitter.
func (r *RNG) Pr2(class Class) int {
	return int(r.Random(class)) - int(r.Random(class))
}

// Clear zeroes every class index and reseeds the extra mix as a
// deterministic function of seed (the MBF-and-later behavior). Clear does
// not consult a compat level; ClearVanilla is the fixed-mix variant for
// levels below MBF.
func (r *RNG) Clear(seed uint32) {
	if r == nil {
		return
	}
	for i := range r.index {
		r.index[i] = 0
	}
	r.seed = seed
	r.extraMix = mixSeed(seed)
}

// ClearVanilla reproduces the pre-MBF behavior: a fixed mix regardless of
// any stored seed, for compat levels below MBF.
func (r *RNG) ClearVanilla() {
	if r == nil {
		return
	}
	for i := range r.index {
		r.index[i] = 0
	}
	r.seed = 0
	r.extraMix = 0
}

func mixSeed(seed uint32) uint8 {
	s := seed
	s ^= s >> 16
	s *= 0x7feb352d
	s ^= s >> 15
	return byte(s)
}

// Seed reports the seed last supplied to Clear, as saved/restored by the
// demo and save codecs.
func (r *RNG) Seed() uint32 {
	if r == nil {
		return 0
	}
	return r.seed
}

// IndexVector returns a copy of the per-class index array, used by the save
// serializer and by property tests asserting RNG purity.
func (r *RNG) IndexVector() [ClassCount]uint8 {
	if r == nil {
		return [ClassCount]uint8{}
	}
	return r.index
}

// SetIndexVector restores a previously captured index vector (save/demo
// load path). It never touches extraMix/seed; callers must Clear or set the
// seed separately if that also needs to be restored.
func (r *RNG) SetIndexVector(v [ClassCount]uint8) {
	if r == nil {
		return
	}
	r.index = v
}
