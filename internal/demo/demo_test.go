package demo

import (
	"testing"

	"doomcore/internal/ticcmd"
)

func sampleHeader(version uint8) Header {
	h := Header{
		Version:       version,
		CompatByte:    true,
		Skill:         3,
		Episode:       1,
		Map:           1,
		ConsolePlayer: 0,
		Options:       Options{MonstersRemember: true, RngSeed: 42},
	}
	h.PlayerInGame[0] = true
	return h
}

func TestHeaderRoundTripBoom(t *testing.T) {
	h := sampleHeader(202)
	encoded := EncodeHeader(h)
	decoded, n, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("expected to consume %d bytes, consumed %d", len(encoded), n)
	}
	if decoded.Skill != h.Skill || decoded.Map != h.Map || decoded.Options.RngSeed != 42 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestHeaderRoundTripMBF21NoCompatByte(t *testing.T) {
	h := sampleHeader(221)
	h.Options.Comp = []bool{true, false, true}
	encoded := EncodeHeader(h)
	decoded, _, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.HasCompatByte {
		t.Fatalf("MBF21 header must not carry a compat byte")
	}
	if len(decoded.Options.Comp) != 3 || !decoded.Options.Comp[0] || decoded.Options.Comp[1] {
		t.Fatalf("comp vector mismatch: %+v", decoded.Options.Comp)
	}
}

func TestDoom19HasNoSignature(t *testing.T) {
	h := sampleHeader(109)
	encoded := EncodeHeader(h)
	decoded, _, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.HasSig {
		t.Fatalf("doom 1.9 demos must not carry the boom signature")
	}
}

func TestUnknownVersionAborts(t *testing.T) {
	buf := []byte{250}
	if _, _, err := DecodeHeader(buf); err == nil {
		t.Fatalf("expected unknown version to abort decoding")
	}
}

func TestTicRoundTripShortAndLongtics(t *testing.T) {
	cmd := ticcmd.TicCmd{Forward: 40, Side: -20, AngleTurn: 0x1234, Buttons: ticcmd.ButtonAttack}
	for _, longtics := range []bool{false, true} {
		encoded := EncodeTic(cmd, longtics)
		c := &cursor{buf: encoded}
		decoded, isMarker, err := DecodeTic(c, longtics)
		if err != nil || isMarker {
			t.Fatalf("longtics=%v decode error=%v marker=%v", longtics, err, isMarker)
		}
		if decoded.Forward != cmd.Forward || decoded.Side != cmd.Side {
			t.Fatalf("longtics=%v mismatch: %+v", longtics, decoded)
		}
		if decoded.Buttons&ticcmd.ButtonAttack == 0 {
			t.Fatalf("longtics=%v attack button lost", longtics)
		}
	}
}

func TestQuickReverseIsExact180RegardlessOfLongtics(t *testing.T) {
	// In shorttics mode the turn is transmitted as the high byte only, so
	// only 0x8000 (top bit set, rest zero) survives round trip exactly;
	// that is the documented QUICKREVERSE behavior (spec.md §8).
	cmd := ticcmd.TicCmd{AngleTurn: ticcmd.QuickReverse}
	encoded := EncodeTic(cmd, false)
	c := &cursor{buf: encoded}
	decoded, _, err := DecodeTic(c, false)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.AngleTurn != ticcmd.QuickReverse {
		t.Fatalf("expected exact 180 turn to survive shorttics round trip, got %v", decoded.AngleTurn)
	}
}

func TestEmptyDemoIsValid(t *testing.T) {
	var w Writer
	w.buf = NewBuffer(0)
	data := w.Finish(Footer{})
	r, err := NewReader(append(EncodeHeader(sampleHeader(109)), data...))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	_, done, err := r.ReadTic()
	if err != nil || !done {
		t.Fatalf("expected marker-only stream to be valid-empty, done=%v err=%v", done, err)
	}
}

func TestBufferGrowthBoundary(t *testing.T) {
	b := &Buffer{data: make([]byte, 20), len: 4} // 16 bytes remaining exactly
	capBefore := b.Cap()
	b.Reserve()
	if b.Cap() == capBefore {
		t.Fatalf("expected regrowth when exactly 16 bytes remain")
	}
}

func TestBufferGrowthNotTriggeredAbove16(t *testing.T) {
	b := &Buffer{data: make([]byte, 40), len: 4} // 36 remaining
	capBefore := b.Cap()
	b.Reserve()
	if b.Cap() != capBefore {
		t.Fatalf("should not grow with more than 16 bytes remaining")
	}
}

func TestWriterRecordRoundTrip(t *testing.T) {
	h := sampleHeader(203)
	w := NewWriter(h, 0)
	cmds := []ticcmd.TicCmd{
		{Forward: 10, Side: 5, AngleTurn: 100},
		{Forward: -10, Side: 0, AngleTurn: -50, Buttons: ticcmd.ButtonUse},
	}
	for _, c := range cmds {
		if err := w.WriteTic(c); err != nil {
			t.Fatalf("write tic: %v", err)
		}
	}
	data := w.Finish(Footer{Present: true, EngineVer: "doomcore 1.0", IWAD: "doom2.wad"})

	r, err := NewReader(data)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	for i, want := range cmds {
		got, done, err := r.ReadTic()
		if err != nil || done {
			t.Fatalf("tic %d: err=%v done=%v", i, err, done)
		}
		if got.Forward != want.Forward || got.Side != want.Side {
			t.Fatalf("tic %d mismatch: got %+v want %+v", i, got, want)
		}
	}
	if _, done, err := r.ReadTic(); err != nil || !done {
		t.Fatalf("expected marker after last tic, done=%v err=%v", done, err)
	}
	footer, err := r.ReadFooter()
	if err != nil || !footer.Present || footer.IWAD != "doom2.wad" {
		t.Fatalf("footer round trip failed: %+v err=%v", footer, err)
	}
}

func TestUMapInfoBlockRoundTrip(t *testing.T) {
	h := sampleHeader(203)
	h.UMapInfo = UMAPInfoBlock{Present: true, NextMap: "MAP02", EndPic: "CREDIT"}
	encoded := EncodeHeader(h)
	decoded, _, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.UMapInfo.Present || decoded.UMapInfo.NextMap != "MAP02" {
		t.Fatalf("umapinfo mismatch: %+v", decoded.UMapInfo)
	}
}

func TestCursorTruncated(t *testing.T) {
	c := &cursor{buf: []byte{1}}
	if _, err := c.readU32(); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
