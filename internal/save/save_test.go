package save

import (
	"testing"

	"doomcore/internal/compat"
	"doomcore/internal/demo"
)

func sampleGame(mbf21 bool) Game {
	level := compat.LevelMBF
	if mbf21 {
		level = compat.LevelMBF21
	}
	g := Game{
		Header: Header{
			Description:   "E1M1 testmap",
			EngineVersion: "doomcore 1.0",
			DemoVersion:   203,
			Compat:        uint8(level),
			Skill:         3,
			Episode:       1,
			Map:           1,
			WadSignature:  0xdeadbeefcafef00d,
			PWADPaths:     []string{"doom2.wad", "mymod.wad"},
			IDMus:         -1,
			Options:       demo.Options{MonstersRemember: true, RngSeed: 99},
			LevelTime:     1234,
			BaseTicDelta:  7,
		},
		Sections: []Section{
			{Name: "players", Data: []byte{1, 2, 3}},
			{Name: "world", Data: []byte{4, 5, 6, 7}},
			{Name: "rng", Data: []byte{}},
		},
		Footer: Footer{TotalLevelTimes: 5000, MusicLump: [8]byte{'D', '_', 'E', '1', 'M', '1'}, ExtraKills: 3},
	}
	g.Header.PlayerInGame[0] = true
	g.Header.PlayerInGame[1] = true
	if mbf21 {
		g.Header.DemoVersion = 221
		g.Header.Options.Comp = []bool{true, false, true, true}
	}
	return g
}

func TestRoundTripBoomStyleOptions(t *testing.T) {
	g := sampleGame(false)
	data := Encode(g)
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Header.Description != g.Header.Description {
		t.Fatalf("description mismatch: %q", decoded.Header.Description)
	}
	if decoded.Header.WadSignature != g.Header.WadSignature {
		t.Fatalf("wad signature mismatch: %x", decoded.Header.WadSignature)
	}
	if len(decoded.Header.PWADPaths) != 2 || decoded.Header.PWADPaths[1] != "mymod.wad" {
		t.Fatalf("pwad path list mismatch: %+v", decoded.Header.PWADPaths)
	}
	if !decoded.Header.PlayerInGame[0] || !decoded.Header.PlayerInGame[1] || decoded.Header.PlayerInGame[2] {
		t.Fatalf("playeringame mismatch: %+v", decoded.Header.PlayerInGame)
	}
	if decoded.Header.IDMus != -1 {
		t.Fatalf("idmus mismatch: %d", decoded.Header.IDMus)
	}
	if len(decoded.Sections) != 3 || decoded.Sections[1].Name != "world" {
		t.Fatalf("sections mismatch: %+v", decoded.Sections)
	}
	if decoded.Footer.TotalLevelTimes != 5000 || decoded.Footer.ExtraKills != 3 {
		t.Fatalf("footer mismatch: %+v", decoded.Footer)
	}
}

func TestRoundTripMBF21Options(t *testing.T) {
	g := sampleGame(true)
	data := Encode(g)
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if compat.Level(decoded.Header.Compat) != compat.LevelMBF21 {
		t.Fatalf("expected compat level to round trip as mbf21, got %v", decoded.Header.Compat)
	}
	if len(decoded.Header.Options.Comp) != 4 || !decoded.Header.Options.Comp[0] || decoded.Header.Options.Comp[1] {
		t.Fatalf("comp vector mismatch: %+v", decoded.Header.Options.Comp)
	}
}

func TestEmptySectionRoundTrips(t *testing.T) {
	g := sampleGame(false)
	data := Encode(g)
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Sections[2].Data) != 0 {
		t.Fatalf("expected empty rng section, got %+v", decoded.Sections[2].Data)
	}
}

func TestConsistencyMarkerCorruption(t *testing.T) {
	g := sampleGame(false)
	data := Encode(g)
	// Flip the byte immediately preceding the footer's first field; the
	// consistency marker sits right after the last (zero-length) section.
	markerIdx := len(data) - 4 - 8 - 4 - 1
	data[markerIdx] ^= 0xFF
	if _, err := Decode(data); err != ErrConsistencyLost {
		t.Fatalf("expected ErrConsistencyLost, got %v", err)
	}
}

func TestTruncatedStreamRejected(t *testing.T) {
	g := sampleGame(false)
	data := Encode(g)
	if _, err := Decode(data[:10]); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestCheckCompatibleRejectsWadMismatch(t *testing.T) {
	g := sampleGame(false)
	err := CheckCompatible(g, g.Header.WadSignature+1, g.Header.EngineVersion, g.Header.Compat, false)
	if err != ErrIncompatible {
		t.Fatalf("expected ErrIncompatible, got %v", err)
	}
}

func TestCheckCompatibleForceLoadBypassesWadMismatch(t *testing.T) {
	g := sampleGame(false)
	err := CheckCompatible(g, g.Header.WadSignature+1, g.Header.EngineVersion, g.Header.Compat, true)
	if err != nil {
		t.Fatalf("force load should bypass wad mismatch: %v", err)
	}
}

func TestCheckCompatibleRejectsVersionMismatchWithDifferentCompatLevel(t *testing.T) {
	g := sampleGame(false)
	err := CheckCompatible(g, g.Header.WadSignature, "doomcore 2.0", uint8(compat.LevelMBF21), false)
	if err != ErrVersionMismatch {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestCheckCompatibleAllowsVersionMismatchWithMatchingCompatLevel(t *testing.T) {
	g := sampleGame(false)
	err := CheckCompatible(g, g.Header.WadSignature, "doomcore 2.0", g.Header.Compat, false)
	if err != nil {
		t.Fatalf("matching compat level should vouch for version mismatch: %v", err)
	}
}

func TestWADSignatureFold(t *testing.T) {
	lumps := SliceLumps{0, 0, 0, 0, 0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	sig := WADSignature(lumps, 4, len(lumps))
	if sig == 0 {
		t.Fatalf("expected non-zero signature for a map with 10 trailing lumps")
	}
	sigAgain := WADSignature(lumps, 4, len(lumps))
	if sig != sigAgain {
		t.Fatalf("signature must be a pure function of its inputs")
	}
}

func TestWADSignatureZeroWhenTooFewLumpsFollow(t *testing.T) {
	lumps := SliceLumps{0, 0, 0, 0, 0, 10, 20}
	if sig := WADSignature(lumps, 4, len(lumps)); sig != 0 {
		t.Fatalf("expected zero signature when fewer than 10 lumps follow, got %x", sig)
	}
}
