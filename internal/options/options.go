// Package options binds the command-line surface of spec.md §6 into a
// single typed Options value, parsed once at startup. Downstream packages
// read fields off *Options; none of them re-parse argv (Design Notes §9).
package options

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"doomcore/internal/compat"
)

// Options is the fully resolved command-line configuration for one engine
// run. Default() (not the zero value) matches running with no flags at all.
type Options struct {
	PlayDemo    string `jsonschema:"description=Load a demo lump/file and enter playback"`
	TimeDemo    string `jsonschema:"description=Like PlayDemo but uncaps FPS and prints timing at end"`
	FastDemo    string `jsonschema:"description=Playback at maximum speed"`
	Record      string `jsonschema:"description=Start recording a new demo"`
	LoadGame    int    `jsonschema:"description=Save slot to load at startup"`
	HasLoadGame bool   `jsonschema:"description=True when LoadGame was set to a nonzero slot"`
	SaveDir     string `jsonschema:"description=Platform base directory savegames are written under (spec.md §6)"`

	CompLevel compat.Level `jsonschema:"description=Forced compatibility level"`

	Skill       int    `jsonschema:"description=Skill level 1..5"`
	WarpEpisode int    `jsonschema:"description=-warp episode component"`
	WarpMap     int    `jsonschema:"description=-warp map component"`
	Fast        bool   `jsonschema:"description=Fast monsters"`
	Respawn     bool   `jsonschema:"description=Monsters respawn"`
	NoMonsters  bool   `jsonschema:"description=Disable monster spawns"`
	Deathmatch  int    `jsonschema:"description=Deathmatch variant: 0 off, 1 classic, 2 altdeath"`
	SoloNet     bool   `jsonschema:"description=Single player with multiplayer object behavior"`
	Dog         bool   `jsonschema:"description=Add one dog companion"`
	Dogs        int    `jsonschema:"description=Number of dog companions, 0..4"`
	LongTics    bool   `jsonschema:"description=Force 16-bit angleturn encoding"`
	ShortTics   bool   `jsonschema:"description=Force 8-bit angleturn encoding"`
	Beta        bool   `jsonschema:"description=Enable beta-version emulation"`
	GameVersion string `jsonschema:"description=Executable version tag for cosmetic/feature gating"`
	MaxDemoKiB  int    `jsonschema:"description=Initial demo buffer size in KiB"`
	LevelStat   bool   `jsonschema:"description=Write levelstat.txt on level completion"`

	Server        bool   `jsonschema:"description=Run as a dedicated net-sync server"`
	PrivateServer bool   `jsonschema:"description=Run as a server that rejects auto-join"`
	Connect       string `jsonschema:"description=Connect to a net-sync server at addr"`
	AutoJoin      bool   `jsonschema:"description=Auto-discover and join a server"`
	ExtraTics     int    `jsonschema:"description=Extra tics of lookahead to send peers"`
	Dup           int    `jsonschema:"description=Ticdup: input sample-rate divisor, 1..12"`
	Drone         bool   `jsonschema:"description=Join as a non-participating spectator"`
	OldSync       bool   `jsonschema:"description=Use the Classic net-sync strategy instead of New"`

	// compLevelName holds the raw -complevel flag value between BindFlags
	// and Resolve, which translates it through compat.ParseLevel.
	compLevelName *string
}

// Default returns the engine's zero-configuration defaults: vanilla compat,
// skill 3 ("Hurt me plenty"), ticdup 1, new (non-"-oldsync") net sync.
func Default() Options {
	return Options{
		CompLevel:  compat.LevelVanilla,
		Skill:      3,
		MaxDemoKiB: 128,
		Dup:        1,
	}
}

// BindFlags registers every flag from spec.md §6 onto fs, writing into o.
// Call Parse afterward and then Resolve to validate and derive ticdup/level.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.PlayDemo, "playdemo", o.PlayDemo, "load a demo lump/file and enter playback")
	fs.StringVar(&o.TimeDemo, "timedemo", o.TimeDemo, "like -playdemo but uncaps FPS and prints timing at end")
	fs.StringVar(&o.FastDemo, "fastdemo", o.FastDemo, "playback at maximum speed")
	fs.StringVar(&o.Record, "record", o.Record, "start recording a new demo")
	fs.IntVar(&o.LoadGame, "loadgame", o.LoadGame, "load save slot at startup")
	fs.StringVar(&o.SaveDir, "savedir", o.SaveDir, "base directory savegames are written under")

	var compLevelName string
	fs.StringVar(&compLevelName, "complevel", "", "force a compatibility level (vanilla, doom2, 1.9, ultimate, final, tnt, plutonia, boom, mbf, mbf21)")

	fs.IntVar(&o.Skill, "skill", o.Skill, "skill level 1..5")
	fs.IntVar(&o.WarpEpisode, "warpepisode", o.WarpEpisode, "-warp episode component")
	fs.IntVar(&o.WarpMap, "warp", o.WarpMap, "-warp map component (or sole argument for commercial maps)")
	fs.BoolVar(&o.Fast, "fast", o.Fast, "fast monsters")
	fs.BoolVar(&o.Respawn, "respawn", o.Respawn, "monsters respawn")
	fs.BoolVar(&o.NoMonsters, "nomonsters", o.NoMonsters, "disable monster spawns")
	fs.IntVar(&o.Deathmatch, "deathmatch", o.Deathmatch, "deathmatch variant: 0 off, 1 classic, 2 altdeath")
	fs.BoolVar(&o.SoloNet, "solo-net", o.SoloNet, "single player, but with multiplayer object behavior")
	fs.BoolVar(&o.Dog, "dog", o.Dog, "add one dog companion (equivalent to -dogs 1)")
	fs.IntVar(&o.Dogs, "dogs", o.Dogs, "number of dog companions, 0..4")
	fs.BoolVar(&o.LongTics, "longtics", o.LongTics, "force 16-bit angleturn encoding")
	fs.BoolVar(&o.ShortTics, "shorttics", o.ShortTics, "force 8-bit angleturn encoding")
	fs.BoolVar(&o.Beta, "beta", o.Beta, "enable beta-version emulation")
	fs.StringVar(&o.GameVersion, "gameversion", o.GameVersion, "executable version tag for cosmetic/feature gating")
	fs.IntVar(&o.MaxDemoKiB, "maxdemo", o.MaxDemoKiB, "initial demo buffer size in KiB")
	fs.BoolVar(&o.LevelStat, "levelstat", o.LevelStat, "write levelstat.txt on level completion")

	fs.BoolVar(&o.Server, "server", o.Server, "run as a dedicated net-sync server")
	fs.BoolVar(&o.PrivateServer, "privateserver", o.PrivateServer, "run as a server that rejects auto-join")
	fs.StringVar(&o.Connect, "connect", o.Connect, "connect to a net-sync server at addr")
	fs.BoolVar(&o.AutoJoin, "autojoin", o.AutoJoin, "auto-discover and join a server")
	fs.IntVar(&o.ExtraTics, "extratics", o.ExtraTics, "extra tics of lookahead to send peers")
	fs.IntVar(&o.Dup, "dup", o.Dup, "ticdup: input sample-rate divisor, 1..12")
	fs.BoolVar(&o.Drone, "drone", o.Drone, "join as a non-participating spectator")
	fs.BoolVar(&o.OldSync, "oldsync", o.OldSync, "use the Classic net-sync strategy instead of New")

	o.compLevelName = &compLevelName
}

// Resolve validates the parsed flags and derives CompLevel/Dup from their
// textual or raw forms. Call after fs.Parse(args).
func (o *Options) Resolve() error {
	if o.compLevelName != nil && *o.compLevelName != "" {
		level, ok := compat.ParseLevel(*o.compLevelName)
		if !ok {
			return fmt.Errorf("options: unknown -complevel %q", *o.compLevelName)
		}
		o.CompLevel = level
	}

	if o.Dog {
		if o.Dogs == 0 {
			o.Dogs = 1
		}
	}
	if o.Dogs < 0 || o.Dogs > 4 {
		return fmt.Errorf("options: -dogs must be 0..4, got %d", o.Dogs)
	}

	if o.Dup < 1 || o.Dup > 12 {
		return fmt.Errorf("options: -dup (ticdup) must be 1..12, got %d", o.Dup)
	}

	if o.Skill < 1 || o.Skill > 5 {
		return fmt.Errorf("options: -skill must be 1..5, got %d", o.Skill)
	}

	if o.LongTics && o.ShortTics {
		return fmt.Errorf("options: -longtics and -shorttics are mutually exclusive")
	}

	if o.LoadGame != 0 {
		o.HasLoadGame = true
	}

	return nil
}

// SavePath returns the on-disk path for save slot n under SaveDir, matching
// the original engine's "doomsav<n>.dsg" naming; SaveDir defaults to the
// current directory when unset (spec.md §6: "save and config paths are
// derived from platform-defined base directories").
func (o *Options) SavePath(slot int) string {
	dir := o.SaveDir
	if dir == "" {
		dir = "."
	}
	return fmt.Sprintf("%s/doomsav%d.dsg", dir, slot)
}
