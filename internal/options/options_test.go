package options

import (
	"testing"

	flag "github.com/spf13/pflag"

	"doomcore/internal/compat"
)

func parse(t *testing.T, args ...string) Options {
	t.Helper()
	o := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := o.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return o
}

func TestDefaultResolvesCleanly(t *testing.T) {
	o := parse(t)
	if o.CompLevel != compat.LevelVanilla || o.Dup != 1 || o.Skill != 3 {
		t.Fatalf("unexpected defaults: %+v", o)
	}
}

func TestComplevelNameResolvesToLevel(t *testing.T) {
	o := parse(t, "-complevel=mbf21")
	if o.CompLevel != compat.LevelMBF21 {
		t.Fatalf("expected mbf21, got %v", o.CompLevel)
	}
}

func TestUnknownComplevelRejected(t *testing.T) {
	o := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.BindFlags(fs)
	if err := fs.Parse([]string{"-complevel=nonsense"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := o.Resolve(); err == nil {
		t.Fatalf("expected an error for an unknown -complevel")
	}
}

func TestDogImpliesOneDogWhenDogsUnset(t *testing.T) {
	o := parse(t, "-dog")
	if o.Dogs != 1 {
		t.Fatalf("expected -dog to imply -dogs 1, got %d", o.Dogs)
	}
}

func TestDupOutOfRangeRejected(t *testing.T) {
	o := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.BindFlags(fs)
	if err := fs.Parse([]string{"-dup=13"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := o.Resolve(); err == nil {
		t.Fatalf("expected an error for -dup out of [1,12]")
	}
}

func TestLongAndShortTicsMutuallyExclusive(t *testing.T) {
	o := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.BindFlags(fs)
	if err := fs.Parse([]string{"-longtics", "-shorttics"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := o.Resolve(); err == nil {
		t.Fatalf("expected an error for -longtics combined with -shorttics")
	}
}

func TestLoadgameSetsHasLoadGame(t *testing.T) {
	o := parse(t, "-loadgame=2")
	if !o.HasLoadGame || o.LoadGame != 2 {
		t.Fatalf("expected HasLoadGame with slot 2, got %+v", o)
	}
}

func TestSavePathDefaultsToCurrentDirectory(t *testing.T) {
	o := Default()
	if got, want := o.SavePath(3), "./doomsav3.dsg"; got != want {
		t.Fatalf("SavePath(3) = %q, want %q", got, want)
	}
}

func TestSavePathHonorsSaveDir(t *testing.T) {
	o := parse(t, "-savedir=/var/lib/doomcore")
	if got, want := o.SavePath(0), "/var/lib/doomcore/doomsav0.dsg"; got != want {
		t.Fatalf("SavePath(0) = %q, want %q", got, want)
	}
}
