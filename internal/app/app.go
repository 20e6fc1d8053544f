// Package app wires the standalone engine process together: flag parsing,
// the structured logging router, the simulation core, the net-sync
// coordinator, and the HTTP/websocket surface that fronts them (spec.md §6
// "-server"/"-connect", §4.I).
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"doomcore/internal/compat"
	"doomcore/internal/demo"
	"doomcore/internal/gameaction"
	"doomcore/internal/net"
	"doomcore/internal/netsync"
	"doomcore/internal/options"
	"doomcore/internal/save"
	"doomcore/internal/sim"
	"doomcore/internal/telemetry"
	"doomcore/internal/ticcmd"
	"doomcore/logging"
	loggingSinks "doomcore/logging/sinks"
)

// engineVersion identifies this build in save headers (spec.md §4.E item 2:
// "<engine> <ver>").
const engineVersion = "doomcore 1.0"

// Config carries the dependencies and argv this process runs with. A zero
// Config parses os.Args[1:] and logs to stderr via telemetry.WrapLogger.
type Config struct {
	Logger telemetry.Logger
	Args   []string
	Addr   string
}

// Run parses the command line, starts the logging router, constructs the
// simulation core and its net-sync front door, and serves HTTP until ctx is
// canceled. It is the single entry point cmd/server/main.go calls.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	opts := options.Default()
	fs := flag.NewFlagSet("doomcore", flag.ContinueOnError)
	opts.BindFlags(fs)
	args := cfg.Args
	if args == nil {
		args = os.Args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("app: parsing flags: %w", err)
	}
	if err := opts.Resolve(); err != nil {
		return fmt.Errorf("app: resolving options: %w", err)
	}

	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console),
	}
	router, err := logging.NewRouter(logConfig, logging.SystemClock{}, log.Default(), sinks)
	if err != nil {
		return fmt.Errorf("app: constructing logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			logger.Printf("app: failed to close logging router: %v", cerr)
		}
	}()

	cmp, err := compat.Resolve(compat.Inputs{UserDefault: opts.CompLevel})
	if err != nil {
		return fmt.Errorf("app: resolving compatibility level: %w", err)
	}

	simulation := sim.New(uint32(time.Now().UnixNano()), cmp)
	simulation.AudioQueue.AttachTelemetry(audioTelemetry{metrics: telemetry.WrapMetrics(router.Metrics())})

	dispatcher := sim.NewDispatcher(simulation)
	dispatcher.SaveFunc = func() error { return saveGame(simulation, opts, cmp) }
	dispatcher.LoadFunc = func() error { return loadGame(simulation, opts, cmp) }

	if opts.HasLoadGame {
		dispatcher.Request(gameaction.LoadGame)
		if err := dispatcher.Drain(); err != nil {
			return fmt.Errorf("app: loading save slot %d: %w", opts.LoadGame, err)
		}
	}

	mode := netsync.ModeNew
	if opts.OldSync {
		mode = netsync.ModeClassic
	}
	strategy := netsync.New(mode, opts.Dup)
	coord := &netCoordinator{strategy: strategy}

	stop := make(chan struct{})
	go runTicLoop(simulation, dispatcher, strategy, router, stop, logger)
	defer close(stop)

	handler := net.NewHTTPHandler(coord, net.HTTPHandlerConfig{Logger: logger})

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	logger.Printf("app: listening on %s", addr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app: server failed: %w", err)
		}
		return nil
	}
}

// runTicLoop advances the simulation at the fixed 35Hz tic rate (spec.md
// §4.G), feeding AdvanceTic results into the net-sync consistency table so
// /diagnostics reports a live gametic and stall state even with no peers
// connected yet. The authoritative per-player ticcmd merge from connected
// peers is the "Consumer" network layer spec.md §2 row H places outside
// this core's specified boundary; this loop exercises the tic contract with
// the zero-value (no input) ticcmd until that layer is attached.
func runTicLoop(s *sim.Simulation, dispatcher *sim.Dispatcher, strategy *netsync.Strategy, router *logging.Router, stop <-chan struct{}, logger telemetry.Logger) {
	const ticRate = time.Second / 35
	ticker := time.NewTicker(ticRate)
	defer ticker.Stop()

	ctx := context.Background()
	var cmds [4]ticcmd.TicCmd
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			res := s.Tick(cmds)
			dispatcher.Tick()
			for i, c := range res.Consistency {
				if s.Players[i] == nil || !s.Players[i].InGame {
					continue
				}
				strategy.AdvanceTic(i, c)
			}
			for _, idx := range res.TurboWarnings {
				router.Publish(ctx, logging.Event{
					Type:     "turbo_warning",
					Tick:     uint64(s.GameTic),
					Severity: logging.SeverityWarn,
					Category: logging.CategoryTic,
					Actor:    logging.EntityRef{ID: fmt.Sprintf("%d", idx), Kind: "player"},
				})
			}
			for _, cue := range res.AudioCues {
				router.Publish(ctx, logging.Event{
					Type:     "audio_cue",
					Tick:     uint64(s.GameTic),
					Severity: logging.SeverityDebug,
					Category: logging.CategoryTic,
					Actor:    logging.EntityRef{ID: cue.OriginID, Kind: "mobj"},
					Payload:  cue,
				})
			}
			// Save requests are dispatched between tics, never mid-tic
			// (spec.md §4.F "save_game", §5 "blocking I/O ... must not
			// happen mid-tic").
			for range res.SaveRequested {
				dispatcher.Request(gameaction.SaveGame)
			}
			if len(res.SaveRequested) > 0 {
				if err := dispatcher.Drain(); err != nil {
					router.Publish(ctx, logging.Event{
						Type:     "save_failed",
						Tick:     uint64(s.GameTic),
						Severity: logging.SeverityError,
						Category: logging.CategorySave,
						Extra:    map[string]any{"error": err.Error()},
					})
					logger.Printf("app: save failed: %v", err)
				}
			}
		}
	}
}

// optionsFromVector carries the subset of the resolved compat.Vector that
// spec.md §4.D's options block mirrors into the save's own options block
// (spec.md §4.E item 9: "same as demo's").
func optionsFromVector(cmp compat.Vector) demo.Options {
	return demo.Options{
		MonstersRemember: cmp.MonstersInfight,
		Recoil:           cmp.WeaponRecoil,
		Bobbing:          cmp.PlayerBobbingPct > 0,
		Infighting:       cmp.MonstersInfight,
		DistFriend:       cmp.DistFriend,
		Backing:          cmp.MonsterBacking,
		Friction:         cmp.VariableFriction,
		HelpFriends:      cmp.HelpFriends,
		DogJumping:       cmp.DogJumping,
		Monkeys:          cmp.Monkeys,
	}
}

// saveGame encodes the simulation into a save.Game and writes it to the
// slot path spec.md §6 derives from the platform base directory, per the
// byte layout of spec.md §4.E.
func saveGame(s *sim.Simulation, opts options.Options, cmp compat.Vector) error {
	sections := s.Archive()
	saveSections := make([]save.Section, len(sections))
	for i, sec := range sections {
		saveSections[i] = save.Section{Name: sec.Name, Data: sec.Data}
	}

	var playerInGame [4]bool
	for i, p := range s.Players {
		if p != nil && p.InGame {
			playerInGame[i] = true
		}
	}

	g := save.Game{
		Header: save.Header{
			Description:   "doomcore autosave",
			EngineVersion: engineVersion,
			Compat:        uint8(opts.CompLevel),
			Skill:         uint8(s.Level.Skill),
			Episode:       uint8(s.Level.Episode),
			Map:           uint8(s.Level.Map),
			PlayerInGame:  playerInGame,
			Options:       optionsFromVector(cmp),
			LevelTime:     uint32(s.GameTic),
			BaseTicDelta:  uint8((s.GameTic - s.BaseTic) & 0xFF),
		},
		Sections: saveSections,
	}

	data := save.Encode(g)
	path := opts.SavePath(opts.LoadGame)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("app: writing save %s: %w", path, err)
	}
	return nil
}

// loadGame reads the slot path and restores the simulation's archive
// sections in place (spec.md §4.F "load_game": "suppresses all net/demo
// until the load completes").
func loadGame(s *sim.Simulation, opts options.Options, cmp compat.Vector) error {
	path := opts.SavePath(opts.LoadGame)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: reading save %s: %w", path, err)
	}
	g, err := save.Decode(data)
	if err != nil {
		return fmt.Errorf("app: decoding save %s: %w", path, err)
	}
	if err := save.CheckCompatible(g, 0, engineVersion, uint8(opts.CompLevel), true); err != nil {
		return err
	}

	sections := make([]sim.ArchiveSection, len(g.Sections))
	for i, sec := range g.Sections {
		sections[i] = sim.ArchiveSection{Name: sec.Name, Data: sec.Data}
	}
	if err := s.Restore(sections); err != nil {
		return fmt.Errorf("app: restoring save %s: %w", path, err)
	}
	s.Level.Skill = int(g.Header.Skill)
	s.Level.Episode = int(g.Header.Episode)
	s.Level.Map = int(g.Header.Map)
	return nil
}

// netCoordinator adapts *netsync.Strategy to internal/net.Coordinator.
// Strategy's own Diagnostics method returns netsync.Diagnostics, which
// mirrors net.Diagnostics field-for-field but is a distinct named type;
// Go interface satisfaction requires the exact declared return type, so
// this thin wrapper does the field copy instead of a direct type assertion.
type netCoordinator struct {
	strategy *netsync.Strategy
}

func (c *netCoordinator) SubmitCmd(playerID string, tic uint64, cmd ticcmd.TicCmd) (ok bool, consistency uint16, reason string) {
	return c.strategy.SubmitCmd(playerID, tic, cmd)
}

func (c *netCoordinator) Disconnect(playerID string) { c.strategy.Disconnect(playerID) }

func (c *netCoordinator) TicDup() int { return c.strategy.TicDup() }

// audioTelemetry adapts telemetry.Metrics to sim's AudioQueue drop reporter
// (spec.md §6 per-tic audio contract), so a full-queue drop is counted as
// "audio_queue_drops" on the logging router's Metrics.
type audioTelemetry struct {
	metrics telemetry.Metrics
}

func (a audioTelemetry) RecordAudioQueueDrop() { a.metrics.Add("audio_queue_drops", 1) }

func (c *netCoordinator) Diagnostics() net.Diagnostics {
	d := c.strategy.Diagnostics()
	return net.Diagnostics{
		Peers:    d.Peers,
		TicDup:   d.TicDup,
		GameTic:  d.GameTic,
		Stalled:  d.Stalled,
		Resynced: d.Resynced,
	}
}
