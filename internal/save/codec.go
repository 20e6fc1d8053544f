package save

import (
	"doomcore/internal/compat"
	"doomcore/internal/demo"
)

// isMBF21 reports whether a save's Compat field names the MBF21 tier, which
// selects the demo package's compact count-prefixed options layout instead
// of the fixed Boom/MBF one (spec.md §4.D/§4.E).
func isMBF21(compatLevel uint8) bool { return compat.Level(compatLevel) == compat.LevelMBF21 }

// cursor is the save package's own little-endian reader, independent from
// the demo package's (Design Notes §9: no type-punning, no cross-package
// struct aliasing for wire layouts even when the shapes are similar).
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) readBytes(n int) ([]byte, bool) {
	if c.remaining() < n {
		return nil, false
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out, true
}

func (c *cursor) readU8() (uint8, bool) {
	b, ok := c.readBytes(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (c *cursor) readU32() (uint32, bool) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, false
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

func (c *cursor) readU64() (uint64, bool) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, false
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, true
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func putU64(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

func nulPad(s string, size int) []byte {
	out := make([]byte, size)
	copy(out, s)
	return out
}

func trimNul(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Encode serializes a full Game per the field order in spec.md §4.E.
func Encode(g Game) []byte {
	b := NewBuffer()

	b.Write(nulPad(g.Header.Description, descriptionSize))
	b.Write(nulPad(g.Header.EngineVersion, versionStringLen))

	b.WriteByte(g.Header.DemoVersion)
	b.WriteByte(g.Header.Compat)

	b.WriteByte(g.Header.Skill)
	b.WriteByte(g.Header.Episode)
	b.WriteByte(g.Header.Map)

	sigBytes := make([]byte, 8)
	putU64(sigBytes, g.Header.WadSignature)
	b.Write(sigBytes)

	for _, p := range g.Header.PWADPaths {
		b.Write([]byte(p))
		b.WriteByte('\n')
	}
	b.WriteByte(0)

	var playerBlock [playeringamePad]byte
	for i := 0; i < maxPlayers && i < len(g.Header.PlayerInGame); i++ {
		if g.Header.PlayerInGame[i] {
			playerBlock[i] = 1
		}
	}
	b.Write(playerBlock[:])

	b.WriteByte(byte(g.Header.IDMus))

	b.Write(demo.EncodeOptions(g.Header.Options, isMBF21(g.Header.Compat)))

	lt := make([]byte, 4)
	putU32(lt, g.Header.LevelTime)
	b.Write(lt)
	b.WriteByte(g.Header.BaseTicDelta)

	for _, sec := range g.Sections {
		nameBytes := []byte(sec.Name)
		b.WriteByte(byte(len(nameBytes)))
		b.Write(nameBytes)
		lenBytes := make([]byte, 4)
		putU32(lenBytes, uint32(len(sec.Data)))
		b.Write(lenBytes)
		b.Write(sec.Data)
	}
	// A zero-length section name terminates the section list.
	b.WriteByte(0)

	b.WriteByte(consistencyByte)

	tail := make([]byte, 4)
	putU32(tail, g.Footer.TotalLevelTimes)
	b.Write(tail)
	b.Write(g.Footer.MusicLump[:])
	extra := make([]byte, 4)
	putU32(extra, g.Footer.ExtraKills)
	b.Write(extra)

	return b.Bytes()
}

// Decode parses a full Game from a byte stream written by Encode. It does
// not apply the two load-rejection checks from spec.md §4.E (WAD signature
// mismatch, version string mismatch); callers do that with CheckCompatible
// before trusting a decoded Game, since the checks need caller-supplied
// context (the current engine version string, whether force-load was
// requested).
func Decode(data []byte) (Game, error) {
	c := &cursor{buf: data}
	var g Game

	descBytes, ok := c.readBytes(descriptionSize)
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.Description = trimNul(descBytes)

	verBytes, ok := c.readBytes(versionStringLen)
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.EngineVersion = trimNul(verBytes)

	demoVersion, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	compatByte, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.DemoVersion = demoVersion
	g.Header.Compat = compatByte
	mbf21 := isMBF21(g.Header.Compat)

	skill, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	episode, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	mapNum, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.Skill, g.Header.Episode, g.Header.Map = skill, episode, mapNum

	sig, ok := c.readU64()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.WadSignature = sig

	for {
		line, ok := readLine(c)
		if !ok {
			return Game{}, ErrTruncated
		}
		if len(line) == 0 {
			break
		}
		g.Header.PWADPaths = append(g.Header.PWADPaths, string(line))
	}

	playerBlock, ok := c.readBytes(playeringamePad)
	if !ok {
		return Game{}, ErrTruncated
	}
	for i := 0; i < maxPlayers; i++ {
		g.Header.PlayerInGame[i] = playerBlock[i] != 0
	}

	idmus, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.IDMus = int8(idmus)

	opts, n, err := decodeSaveOptions(c.buf[c.pos:], mbf21)
	if err != nil {
		return Game{}, err
	}
	g.Header.Options = opts
	c.pos += n

	levelTime, ok := c.readU32()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.LevelTime = levelTime
	baseTicDelta, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Header.BaseTicDelta = baseTicDelta

	for {
		nameLen, ok := c.readU8()
		if !ok {
			return Game{}, ErrTruncated
		}
		if nameLen == 0 {
			break
		}
		nameBytes, ok := c.readBytes(int(nameLen))
		if !ok {
			return Game{}, ErrTruncated
		}
		dataLen, ok := c.readU32()
		if !ok {
			return Game{}, ErrTruncated
		}
		secData, ok := c.readBytes(int(dataLen))
		if !ok {
			return Game{}, ErrTruncated
		}
		g.Sections = append(g.Sections, Section{Name: string(nameBytes), Data: append([]byte(nil), secData...)})
	}

	marker, ok := c.readU8()
	if !ok {
		return Game{}, ErrTruncated
	}
	if marker != consistencyByte {
		return Game{}, ErrConsistencyLost
	}

	totalLevelTimes, ok := c.readU32()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Footer.TotalLevelTimes = totalLevelTimes

	musicLump, ok := c.readBytes(8)
	if !ok {
		return Game{}, ErrTruncated
	}
	copy(g.Footer.MusicLump[:], musicLump)

	extraKills, ok := c.readU32()
	if !ok {
		return Game{}, ErrTruncated
	}
	g.Footer.ExtraKills = extraKills

	return g, nil
}

// readLine reads up to and consuming a trailing '\n', returning the bytes
// before it. A NUL byte in place of a line ends the PWAD path list
// (spec.md §4.E item 6); readLine consumes it and returns a zero-length line.
func readLine(c *cursor) ([]byte, bool) {
	if c.remaining() == 0 {
		return nil, false
	}
	if c.buf[c.pos] == 0 {
		c.pos++
		return nil, true
	}
	start := c.pos
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == '\n' {
			line := c.buf[start:c.pos]
			c.pos++
			return line, true
		}
		c.pos++
	}
	return nil, false
}

// decodeSaveOptions reuses the demo package's options block layout: the
// save format's options block is byte-identical to the demo header's,
// per spec.md §4.E item 9 ("Options block (same as demo's, §4.D)").
func decodeSaveOptions(buf []byte, mbf21 bool) (demo.Options, int, error) {
	return demo.DecodeOptions(buf, mbf21)
}
