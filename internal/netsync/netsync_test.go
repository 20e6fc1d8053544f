package netsync

import (
	"testing"

	"doomcore/internal/ticcmd"
)

// Classic mode accelerates once behind in 3 of the last 4 frames (spec.md
// §4.I); New mode never accelerates.
func TestShouldAccelerateFiresAtThreeOfFour(t *testing.T) {
	s := New(ModeClassic, 1)
	pattern := []bool{true, true, false, true}
	var fired bool
	for _, behind := range pattern {
		fired = s.ShouldAccelerate(behind)
	}
	if !fired {
		t.Fatalf("expected frameskip to fire after 3 of 4 behind frames")
	}
}

func TestShouldAccelerateDoesNotFireBelowThreshold(t *testing.T) {
	s := New(ModeClassic, 1)
	pattern := []bool{true, false, false, true}
	var fired bool
	for _, behind := range pattern {
		fired = s.ShouldAccelerate(behind)
	}
	if fired {
		t.Fatalf("expected frameskip to stay quiet with only 2 of 4 behind frames")
	}
}

func TestShouldAccelerateNoopOutsideClassicMode(t *testing.T) {
	s := New(ModeNew, 1)
	for i := 0; i < 10; i++ {
		if s.ShouldAccelerate(true) {
			t.Fatalf("New mode must never fire the Classic frameskip heuristic")
		}
	}
}

// New mode throttles once more than newSyncBufferBound tics are buffered
// ahead of the net layer (spec.md §4.I); Classic mode never throttles.
func TestShouldThrottleFiresAboveBound(t *testing.T) {
	s := New(ModeNew, 1)
	if s.ShouldThrottle(newSyncBufferBound) {
		t.Fatalf("expected no throttle exactly at the bound")
	}
	if !s.ShouldThrottle(newSyncBufferBound + 1) {
		t.Fatalf("expected throttle once the bound is exceeded")
	}
}

func TestShouldThrottleNoopOutsideNewMode(t *testing.T) {
	s := New(ModeClassic, 1)
	if s.ShouldThrottle(newSyncBufferBound * 2) {
		t.Fatalf("Classic mode must never throttle")
	}
}

// Consistency failure (spec.md §8 S2): player 2's stored consistency at
// tic 50 is 0x5678, but its submitted cmd carries 0x1234. SubmitCmd must
// reject it with the exact "consistency failure (0x... should be 0x...)"
// wording the tic loop surfaces to players.
func TestSubmitCmdReportsConsistencyFailure(t *testing.T) {
	s := New(ModeNew, 1)
	s.Subscribe("2")

	s.gametic = 51
	s.consistency[2][50%BackupTics] = 0x5678

	ok, _, reason := s.SubmitCmd("2", 50, ticcmd.TicCmd{Consistency: 0x1234})
	if ok {
		t.Fatalf("expected SubmitCmd to reject a mismatched consistency value")
	}
	const want = "consistency failure (0x1234 should be 0x5678)"
	if reason != want {
		t.Fatalf("reason = %q, want %q", reason, want)
	}
}

// A consistency value matching the stored one for an already-advanced tic
// is accepted.
func TestSubmitCmdAcceptsMatchingConsistency(t *testing.T) {
	s := New(ModeNew, 1)
	s.Subscribe("2")

	s.gametic = 51
	s.consistency[2][50%BackupTics] = 0x5678

	ok, consistency, reason := s.SubmitCmd("2", 50, ticcmd.TicCmd{Consistency: 0x5678})
	if !ok {
		t.Fatalf("expected SubmitCmd to accept a matching consistency value, got reason %q", reason)
	}
	if consistency != 0x5678 {
		t.Fatalf("consistency = %#x, want %#x", consistency, 0x5678)
	}
}
