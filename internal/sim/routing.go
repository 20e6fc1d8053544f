package sim

import "doomcore/internal/gameaction"

// UMapInfo carries the already-parsed next-map/next-secret/endpic/intertext
// fields the (out-of-scope) UMAPINFO loader hands the core (spec.md §4.F
// "world_done", GLOSSARY "UMAPINFO"). A zero value means "no UMAPINFO
// override for this map."
type UMapInfo struct {
	Present    bool
	NextMap    int
	NextSecret int
	EndPic     string
	InterText  string
}

// NextMap computes the level-complete routing named in spec.md §4.F
// "completed" and exercised by §8 scenarios S4/S5: vanilla episode-8 exit
// ends in victory; commercial map 15/31 secret-exit rules; an UMAPINFO
// override always wins when present.
//
// The returned action is either gameaction.Victory (roll credits, no
// intermission) or gameaction.WorldDone (intermission then the returned
// map number).
func NextMap(level LevelInfo, umap UMapInfo) (action gameaction.Action, nextMap int) {
	if umap.Present {
		if umap.NextSecret != 0 && level.SecretExit {
			return gameaction.WorldDone, umap.NextSecret
		}
		if umap.NextMap != 0 {
			return gameaction.WorldDone, umap.NextMap
		}
	}

	if level.Commercial {
		// Doom II / Final Doom: Map is the 1-based map the player just
		// finished; the returned index is 0-based ("world map" numbering)
		// per spec.md §8 S5, which is why map 15's secret exit yields 30
		// (world-map-1-based 31) rather than 31 itself.
		if level.Map == 15 && level.SecretExit {
			return gameaction.WorldDone, 30
		}
		if level.Map == 31 && level.SecretExit {
			return gameaction.WorldDone, 31
		}
		return gameaction.WorldDone, level.Map
	}

	// Retail/registered episodic: episode 1-3 map 8 (or episode 4 map 8 in
	// Ultimate/Final Doom) is the episode finale; spec.md §8 S4 exercises
	// retail episode 1 map 8 with no secret exit -> Victory, no intermission.
	if level.Map == 8 && !level.SecretExit {
		return gameaction.Victory, 0
	}
	return gameaction.WorldDone, level.Map + 1
}

// Dispatcher wires a Simulation's level-transition behavior into a
// gameaction.Dispatcher, implementing the partial transition table of
// spec.md §4.F. LoadLevelFunc/SaveFunc/LoadFunc are injected so this
// package never imports the demo/save/net layers (tools/depscheck would
// reject that for internal/sim).
type Dispatcher struct {
	Sim *Simulation
	Umap UMapInfo

	// Rewind holds the auto-keyframe history backing gameaction.Rewind
	// (spec.md §4.F "rewind", grounded on g_rewind.c). Tick must be called
	// once per simulation tic to keep it capturing.
	Rewind *RewindQueue

	disp *gameaction.Dispatcher

	// LoadLevelFunc is invoked with the target map number whenever the
	// dispatcher resolves to load_level (new_game, world_done, reload).
	LoadLevelFunc func(mapNum int) error
	// SaveFunc/LoadFunc perform the actual I/O. SaveFunc is skipped while
	// DemoPlaybackActive reports true (spec.md §4.F "save_game"); LoadFunc
	// is always called.
	SaveFunc          func() error
	LoadFunc          func() error
	DemoPlaybackActive func() bool
}

// NewDispatcher builds and registers the handler table.
func NewDispatcher(sim *Simulation) *Dispatcher {
	d := &Dispatcher{Sim: sim, disp: gameaction.NewDispatcher(), Rewind: NewRewindQueue(DefaultRewindConfig())}

	d.disp.Handle(gameaction.NewGame, func(gameaction.Action) (gameaction.Action, error) {
		return gameaction.LoadLevel, nil
	})
	d.disp.Handle(gameaction.LoadLevel, func(gameaction.Action) (gameaction.Action, error) {
		if d.LoadLevelFunc != nil {
			if err := d.LoadLevelFunc(d.Sim.Level.Map); err != nil {
				return gameaction.Nothing, err
			}
		}
		if d.Rewind != nil {
			d.Rewind.Reset()
		}
		return gameaction.Nothing, nil
	})
	d.disp.Handle(gameaction.Completed, func(gameaction.Action) (gameaction.Action, error) {
		action, next := NextMap(d.Sim.Level, d.Umap)
		if action == gameaction.Victory {
			return gameaction.Victory, nil
		}
		d.Sim.Level.Map = next
		return gameaction.WorldDone, nil
	})
	d.disp.Handle(gameaction.Victory, func(gameaction.Action) (gameaction.Action, error) {
		return gameaction.Nothing, nil
	})
	d.disp.Handle(gameaction.WorldDone, func(gameaction.Action) (gameaction.Action, error) {
		if d.Umap.Present && d.Umap.InterText != "" {
			// A finale screen would be driven here; the core only needs to
			// route to the next level afterward (spec.md §4.F).
		}
		return gameaction.LoadLevel, nil
	})
	d.disp.Handle(gameaction.SaveGame, func(gameaction.Action) (gameaction.Action, error) {
		if d.DemoPlaybackActive != nil && d.DemoPlaybackActive() {
			// Suppressed during demo playback unless user-initiated; callers
			// that need the user-initiated exception route around the
			// dispatcher entirely per spec.md §4.F.
			return gameaction.Nothing, nil
		}
		if d.SaveFunc != nil {
			if err := d.SaveFunc(); err != nil {
				return gameaction.Nothing, err
			}
		}
		return gameaction.Nothing, nil
	})
	d.disp.Handle(gameaction.LoadGame, func(gameaction.Action) (gameaction.Action, error) {
		if d.LoadFunc != nil {
			if err := d.LoadFunc(); err != nil {
				return gameaction.Nothing, err
			}
		}
		return gameaction.Nothing, nil
	})
	d.disp.Handle(gameaction.ReloadLevel, func(gameaction.Action) (gameaction.Action, error) {
		return gameaction.LoadLevel, nil
	})
	d.disp.Handle(gameaction.Screenshot, func(gameaction.Action) (gameaction.Action, error) {
		return gameaction.Nothing, nil
	})
	d.disp.Handle(gameaction.LoadAutosave, func(gameaction.Action) (gameaction.Action, error) {
		return gameaction.LoadGame, nil
	})
	d.disp.Handle(gameaction.SaveAutosave, func(gameaction.Action) (gameaction.Action, error) {
		return gameaction.SaveGame, nil
	})
	d.disp.Handle(gameaction.Rewind, func(gameaction.Action) (gameaction.Action, error) {
		if d.Rewind != nil {
			if err := d.Rewind.Rewind(d.Sim); err != nil {
				return gameaction.Nothing, err
			}
		}
		return gameaction.Nothing, nil
	})

	return d
}

// Request coalesces a new pending action (spec.md §4.F).
func (d *Dispatcher) Request(a gameaction.Action) { d.disp.Request(a) }

// Drain runs the dispatcher until it settles (spec.md §4.F, §4.G step 2).
func (d *Dispatcher) Drain() error { return d.disp.Drain() }

// Tick advances the rewind auto-keyframe clock; call once per simulation
// tic, after Sim.Tick has run (g_rewind.c G_SaveAutoKeyframe is called once
// per game tic from G_Ticker).
func (d *Dispatcher) Tick() {
	if d.Rewind != nil {
		d.Rewind.MaybeCapture(d.Sim)
	}
}
