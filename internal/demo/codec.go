package demo

import (
	"doomcore/internal/ticcmd"
)

// EncodeHeader serializes a Header following the exact field order in
// spec.md §4.D. MBF21 never writes a compat byte (the format "forces
// compat off"), and Doom 1.9 (version 109) writes no 6-byte signature.
func EncodeHeader(h Header) []byte {
	var out []byte

	if h.UMapInfo.Present {
		out = append(out, encodeUMapInfo(h.UMapInfo)...)
	}

	out = append(out, h.Version)

	if h.Version != 109 && h.Version != 111 {
		out = append(out, bfgSignature[:]...)
	}

	if h.Version != 221 {
		out = append(out, boolByte(h.CompatByte))
	}

	out = append(out, h.Skill, h.Episode, h.Map, h.Deathmatch, h.ConsolePlayer)

	out = append(out, encodeOptions(h.Options, h.Version == 221)...)

	var playerBlock [playeringamePad]byte
	for i := 0; i < MaxPlayers && i < len(h.PlayerInGame); i++ {
		playerBlock[i] = boolByte(h.PlayerInGame[i])
	}
	out = append(out, playerBlock[:]...)

	return out
}

// DecodeHeader parses a Header from buf, returning the number of bytes
// consumed. An unrecognized version byte, truncated buffer, or bad
// signature returns an error that the caller maps to an abort per
// spec.md §7.
func DecodeHeader(buf []byte) (Header, int, error) {
	c := &cursor{buf: buf}
	var h Header

	if block, n, ok := decodeUMapInfo(c.buf[c.pos:]); ok {
		h.UMapInfo = block
		c.pos += n
	}

	version, err := c.readU8()
	if err != nil {
		return Header{}, 0, err
	}
	h.Version = version
	if _, ok := decodeLevelForVersion(version); !ok {
		return Header{}, 0, &unknownVersionError{version}
	}

	if version != 109 && version != 111 {
		sig, err := c.readBytes(6)
		if err != nil {
			return Header{}, 0, err
		}
		copy(h.Sig[:], sig)
		if h.Sig != bfgSignature {
			return Header{}, 0, errBadSignature
		}
		h.HasSig = true
	}

	if version != 221 {
		b, err := c.readU8()
		if err != nil {
			return Header{}, 0, err
		}
		h.CompatByte = b != 0
		h.HasCompatByte = true
	}

	skill, err := c.readU8()
	if err != nil {
		return Header{}, 0, err
	}
	episode, err := c.readU8()
	if err != nil {
		return Header{}, 0, err
	}
	mapNum, err := c.readU8()
	if err != nil {
		return Header{}, 0, err
	}
	dm, err := c.readU8()
	if err != nil {
		return Header{}, 0, err
	}
	consolePlayer, err := c.readU8()
	if err != nil {
		return Header{}, 0, err
	}
	h.Skill, h.Episode, h.Map, h.Deathmatch, h.ConsolePlayer = skill, episode, mapNum, dm, consolePlayer

	opts, n, err := decodeOptions(c.buf[c.pos:], version == 221)
	if err != nil {
		return Header{}, 0, err
	}
	h.Options = opts
	c.pos += n

	playerBlock, err := c.readBytes(playeringamePad)
	if err != nil {
		return Header{}, 0, err
	}
	for i := 0; i < MaxPlayers; i++ {
		h.PlayerInGame[i] = playerBlock[i] != 0
	}

	return h, c.pos, nil
}

func decodeLevelForVersion(version uint8) (bool, bool) {
	switch version {
	case 109, 111, 200, 202, 203, 221:
		return true, true
	default:
		return false, false
	}
}

type unknownVersionError struct{ version uint8 }

func (e *unknownVersionError) Error() string {
	return "demo: unknown version byte"
}

var errBadSignature = &badSignatureError{}

type badSignatureError struct{}

func (e *badSignatureError) Error() string { return "demo: bad signature" }

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// EncodeTic serializes one per-tic record: forward, side, angle (8 or 16
// bits depending on longtics), buttons.
func EncodeTic(cmd ticcmd.TicCmd, longtics bool) []byte {
	out := make([]byte, 0, 5)
	out = append(out, byte(cmd.Forward), byte(cmd.Side))
	if longtics {
		turn := uint16(cmd.AngleTurn)
		out = append(out, byte(turn), byte(turn>>8))
	} else {
		out = append(out, byte(int8(cmd.AngleTurn>>8)))
	}
	out = append(out, encodeTicButtons(cmd))
	return out
}

// encodeTicButtons packs the button byte: bit0 attack, bit1 use, bit2
// weapon-change, bits 3-6 the weapon index (only when weapon-change is
// set), bit7 special.
func encodeTicButtons(cmd ticcmd.TicCmd) byte {
	var b byte
	if cmd.Buttons&ticcmd.ButtonAttack != 0 {
		b |= 1 << 0
	}
	if cmd.Buttons&ticcmd.ButtonUse != 0 {
		b |= 1 << 1
	}
	if cmd.Buttons&ticcmd.ButtonChange != 0 {
		b |= 1 << 2
		b |= (cmd.WeaponIndex & 0x0F) << 3
	}
	if cmd.Buttons&ticcmd.ButtonSpecial != 0 {
		b |= 1 << 7
	}
	return b
}

func decodeTicButtons(b byte) (ticcmd.Buttons, uint8) {
	var buttons ticcmd.Buttons
	if b&(1<<0) != 0 {
		buttons |= ticcmd.ButtonAttack
	}
	if b&(1<<1) != 0 {
		buttons |= ticcmd.ButtonUse
	}
	var weapon uint8
	if b&(1<<2) != 0 {
		buttons |= ticcmd.ButtonChange
		weapon = (b >> 3) & 0x0F
	}
	if b&(1<<7) != 0 {
		buttons |= ticcmd.ButtonSpecial
	}
	return buttons, weapon
}

// DecodeTicBytes reads one per-tic record from a standalone byte slice,
// exported so callers outside this package (the websocket peer transport,
// spec.md §4.I) can decode a ticcmd without reaching into the unexported
// cursor type. It returns the number of bytes consumed.
func DecodeTicBytes(buf []byte, longtics bool) (ticcmd.TicCmd, int, error) {
	c := &cursor{buf: buf}
	cmd, _, err := DecodeTic(c, longtics)
	if err != nil {
		return ticcmd.TicCmd{}, 0, err
	}
	return cmd, c.pos, nil
}

// DecodeTic reads one per-tic record, or reports isMarker=true if the next
// byte is the DEMOMARKER sentinel instead of a full record.
func DecodeTic(c *cursor, longtics bool) (cmd ticcmd.TicCmd, isMarker bool, err error) {
	peek, err := c.peekU8()
	if err != nil {
		return ticcmd.TicCmd{}, false, err
	}
	if peek == DemoMarker {
		c.pos++
		return ticcmd.TicCmd{}, true, nil
	}

	forward, err := c.readI8()
	if err != nil {
		return ticcmd.TicCmd{}, false, err
	}
	side, err := c.readI8()
	if err != nil {
		return ticcmd.TicCmd{}, false, err
	}

	var turn int16
	if longtics {
		turn, err = c.readI16()
		if err != nil {
			return ticcmd.TicCmd{}, false, err
		}
	} else {
		raw, err2 := c.readI8()
		if err2 != nil {
			return ticcmd.TicCmd{}, false, err2
		}
		turn = int16(raw) << 8
	}

	buttonByte, err := c.readU8()
	if err != nil {
		return ticcmd.TicCmd{}, false, err
	}
	buttons, weapon := decodeTicButtons(buttonByte)

	cmd.Forward = forward
	cmd.Side = side
	cmd.AngleTurn = turn
	cmd.Longtics = longtics
	cmd.Buttons = buttons
	cmd.WeaponIndex = weapon
	return cmd, false, nil
}
