package demo

// encodeUMapInfo serializes the optional UMAPINFO extension block. Absent
// blocks write nothing at all (not even a zero-length marker) so demos
// without the extension are byte-identical to the pre-extension format;
// presence is instead detected by decodeUMapInfo from the leading
// umapInfoTag when it IS written.
func encodeUMapInfo(b UMAPInfoBlock) []byte {
	if !b.Present {
		return nil
	}
	var out []byte
	out = append(out, umapInfoTag[:]...)
	out = appendLString(out, b.NextMap)
	out = appendLString(out, b.NextSecret)
	out = appendLString(out, b.EndPic)
	out = appendLString(out, b.InterText)
	return out
}

// umapInfoTag prefixes the block so a reader can tell the extension is
// present: decodeUMapInfo checks both tag bytes, and no supported demo
// version byte equals tag[0], so an ordinary header is never mistaken for
// the block.
var umapInfoTag = [2]byte{0xFF, 0xFE}

func decodeUMapInfo(buf []byte) (UMAPInfoBlock, int, bool) {
	if len(buf) < 2 || buf[0] != umapInfoTag[0] || buf[1] != umapInfoTag[1] {
		return UMAPInfoBlock{}, 0, false
	}
	c := &cursor{buf: buf, pos: 2}
	nextMap, err := readLString(c)
	if err != nil {
		return UMAPInfoBlock{}, 0, false
	}
	nextSecret, err := readLString(c)
	if err != nil {
		return UMAPInfoBlock{}, 0, false
	}
	endPic, err := readLString(c)
	if err != nil {
		return UMAPInfoBlock{}, 0, false
	}
	interText, err := readLString(c)
	if err != nil {
		return UMAPInfoBlock{}, 0, false
	}
	return UMAPInfoBlock{
		Present:    true,
		NextMap:    nextMap,
		NextSecret: nextSecret,
		EndPic:     endPic,
		InterText:  interText,
	}, c.pos, true
}

func appendLString(out []byte, s string) []byte {
	out = append(out, byte(len(s)), byte(len(s)>>8))
	return append(out, s...)
}

func readLString(c *cursor) (string, error) {
	n, err := c.readU16()
	if err != nil {
		return "", err
	}
	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
