package sim

import (
	"testing"

	"doomcore/internal/gameaction"
)

// S4 (spec.md §8): retail, episode 1, map 8, no secret exit -> Victory,
// no intermission.
func TestNextMapRetailEpisodeFinale(t *testing.T) {
	action, _ := NextMap(LevelInfo{Episode: 1, Map: 8, SecretExit: false}, UMapInfo{})
	if action != gameaction.Victory {
		t.Fatalf("expected Victory at episode finale, got %v", action)
	}
}

// S5 (spec.md §8): commercial, map 15, secret exit -> next map index 30.
func TestNextMapCommercialSecretExit(t *testing.T) {
	action, next := NextMap(LevelInfo{Commercial: true, Map: 15, SecretExit: true}, UMapInfo{})
	if action != gameaction.WorldDone {
		t.Fatalf("expected WorldDone, got %v", action)
	}
	if next != 30 {
		t.Fatalf("expected next map index 30, got %d", next)
	}
}

func TestNextMapUMapInfoOverrideWins(t *testing.T) {
	action, next := NextMap(
		LevelInfo{Commercial: true, Map: 15, SecretExit: false},
		UMapInfo{Present: true, NextMap: 7},
	)
	if action != gameaction.WorldDone || next != 7 {
		t.Fatalf("expected UMAPINFO nextmap override to win, got action=%v next=%d", action, next)
	}
}

func TestDispatcherLoadLevelInvokesLoadLevelFunc(t *testing.T) {
	sim := New(1, compatVectorForTest())
	sim.Level = LevelInfo{Map: 3}
	d := NewDispatcher(sim)

	var loadedMap int
	var called bool
	d.LoadLevelFunc = func(mapNum int) error {
		called = true
		loadedMap = mapNum
		return nil
	}

	d.Request(gameaction.NewGame)
	if err := d.Drain(); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if !called {
		t.Fatalf("expected LoadLevelFunc to be invoked")
	}
	if loadedMap != 3 {
		t.Fatalf("expected map 3, got %d", loadedMap)
	}
}

// gameaction.Rewind restores the dispatcher's own rewind queue into its
// simulation, and a fresh load_level resets that queue (spec.md §4.F
// "rewind", grounded on g_rewind.c).
func TestDispatcherRewindRestoresKeyframe(t *testing.T) {
	sim := newTestSim()
	d := NewDispatcher(sim)
	d.Rewind = NewRewindQueue(RewindConfig{IntervalTics: 5, Depth: 10})

	sim.GameTic = 0
	d.Rewind.push(0, sim.Archive())
	sim.Tick(forwardCmd(10))
	sim.GameTic = 5
	d.Rewind.push(5, sim.Archive())
	movedX := sim.Mobj(sim.Players[0].MobjID).X
	sim.Tick(forwardCmd(10))
	sim.GameTic = 10

	d.Request(gameaction.Rewind)
	if err := d.Drain(); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if got := sim.Mobj(sim.Players[0].MobjID).X; got != movedX {
		t.Fatalf("expected gameaction.Rewind to restore the tic-5 keyframe, got %d want %d", got, movedX)
	}

	d.Request(gameaction.NewGame)
	if err := d.Drain(); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if d.Rewind.Len() != 0 {
		t.Fatalf("expected load_level to reset the rewind queue, got %d keyframes", d.Rewind.Len())
	}
}

func TestDispatcherSaveSuppressedDuringDemoPlayback(t *testing.T) {
	sim := New(1, compatVectorForTest())
	d := NewDispatcher(sim)

	var saveCalled bool
	d.SaveFunc = func() error { saveCalled = true; return nil }
	d.DemoPlaybackActive = func() bool { return true }

	d.Request(gameaction.SaveGame)
	if err := d.Drain(); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if saveCalled {
		t.Fatalf("save must be suppressed during demo playback")
	}
}
