package demo

const boomOptionsSize = 64

// EncodeOptions serializes an options block in the same layout the demo
// header uses, exported so the save package can reuse it verbatim (spec.md
// §4.E item 9, "Options block (same as demo's, §4.D)").
func EncodeOptions(o Options, mbf21 bool) []byte { return encodeOptions(o, mbf21) }

// DecodeOptions parses an options block written by EncodeOptions, returning
// the number of bytes consumed.
func DecodeOptions(buf []byte, mbf21 bool) (Options, int, error) { return decodeOptions(buf, mbf21) }

// encodeOptions serializes the options block: a fixed 64-byte layout for
// Boom/MBF, or the compact MBF21 layout (spec.md §4.D).
func encodeOptions(o Options, mbf21 bool) []byte {
	if mbf21 {
		return encodeOptionsMBF21(o)
	}
	return encodeOptionsBoom(o)
}

func decodeOptions(buf []byte, mbf21 bool) (Options, int, error) {
	if mbf21 {
		return decodeOptionsMBF21(buf)
	}
	return decodeOptionsBoom(buf)
}

func encodeOptionsBoom(o Options) []byte {
	out := make([]byte, boomOptionsSize)
	out[0] = boolByte(o.MonstersRemember)
	out[1] = boolByte(o.Recoil)
	out[2] = boolByte(o.Bobbing)
	out[3] = boolByte(o.RespawnParm)
	out[4] = boolByte(o.FastParm)
	out[5] = boolByte(o.NoMonsters)
	putU32(out[6:10], o.RngSeed)
	out[10] = boolByte(o.Infighting)
	out[11] = o.Dogs
	putU16(out[12:14], o.DistFriend)
	out[14] = boolByte(o.Backing)
	out[15] = boolByte(o.Hazards)
	out[16] = boolByte(o.Friction)
	out[17] = boolByte(o.HelpFriends)
	// remaining bytes stay zero padding, matching the fixed 64-byte layout.
	return out
}

func decodeOptionsBoom(buf []byte) (Options, int, error) {
	if len(buf) < boomOptionsSize {
		return Options{}, 0, ErrTruncated
	}
	var o Options
	o.MonstersRemember = buf[0] != 0
	o.Recoil = buf[1] != 0
	o.Bobbing = buf[2] != 0
	o.RespawnParm = buf[3] != 0
	o.FastParm = buf[4] != 0
	o.NoMonsters = buf[5] != 0
	o.RngSeed = getU32(buf[6:10])
	o.Infighting = buf[10] != 0
	o.Dogs = buf[11]
	o.DistFriend = getU16(buf[12:14])
	o.Backing = buf[14] != 0
	o.Hazards = buf[15] != 0
	o.Friction = buf[16] != 0
	o.HelpFriends = buf[17] != 0
	return o, boomOptionsSize, nil
}

// encodeOptionsMBF21 packs the compact variable-length listing named in
// spec.md §4.D: the scalar toggles in field order, then a count-prefixed
// comp[] vector.
func encodeOptionsMBF21(o Options) []byte {
	out := make([]byte, 0, 32+len(o.Comp))
	out = append(out, boolByte(o.MonstersRemember), boolByte(o.Recoil), boolByte(o.Bobbing))
	out = append(out, boolByte(o.RespawnParm), boolByte(o.FastParm), boolByte(o.NoMonsters))
	seed := make([]byte, 4)
	putU32(seed, o.RngSeed)
	out = append(out, seed...)
	out = append(out, boolByte(o.Infighting), o.Dogs)
	friend := make([]byte, 2)
	putU16(friend, o.DistFriend)
	out = append(out, friend...)
	out = append(out, boolByte(o.Backing), boolByte(o.Hazards), boolByte(o.Friction))
	out = append(out, boolByte(o.HelpFriends), boolByte(o.DogJumping), boolByte(o.Monkeys))
	out = append(out, byte(len(o.Comp)))
	for _, v := range o.Comp {
		out = append(out, boolByte(v))
	}
	return out
}

func decodeOptionsMBF21(buf []byte) (Options, int, error) {
	c := &cursor{buf: buf}
	var o Options
	var err error
	readBool := func() bool { v, e := c.readU8(); if e != nil { err = e }; return v != 0 }

	o.MonstersRemember = readBool()
	o.Recoil = readBool()
	o.Bobbing = readBool()
	o.RespawnParm = readBool()
	o.FastParm = readBool()
	o.NoMonsters = readBool()
	if err != nil {
		return Options{}, 0, err
	}
	o.RngSeed, err = c.readU32()
	if err != nil {
		return Options{}, 0, err
	}
	o.Infighting = readBool()
	o.Dogs, err = c.readU8()
	if err != nil {
		return Options{}, 0, err
	}
	o.DistFriend, err = c.readU16()
	if err != nil {
		return Options{}, 0, err
	}
	o.Backing = readBool()
	o.Hazards = readBool()
	o.Friction = readBool()
	o.HelpFriends = readBool()
	o.DogJumping = readBool()
	o.Monkeys = readBool()
	if err != nil {
		return Options{}, 0, err
	}
	count, err := c.readU8()
	if err != nil {
		return Options{}, 0, err
	}
	o.Comp = make([]bool, count)
	for i := 0; i < int(count); i++ {
		v, e := c.readU8()
		if e != nil {
			return Options{}, 0, e
		}
		o.Comp[i] = v != 0
	}
	return o, c.pos, nil
}

func putU16(dst []byte, v uint16) { dst[0] = byte(v); dst[1] = byte(v >> 8) }
func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}
func getU16(src []byte) uint16 { return uint16(src[0]) | uint16(src[1])<<8 }
func getU32(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}
