package sim

import "testing"

// Bounded depth (g_rewind.c Push): pushing past Depth evicts the oldest
// keyframe rather than growing unbounded.
func TestRewindQueueEvictsOldestPastDepth(t *testing.T) {
	q := NewRewindQueue(RewindConfig{IntervalTics: 1, Depth: 2})
	q.push(0, nil)
	q.push(1, nil)
	q.push(2, nil)
	if q.Len() != 2 {
		t.Fatalf("expected depth to cap queue at 2, got %d", q.Len())
	}
	kf, ok := q.pop()
	if !ok || kf.tic != 2 {
		t.Fatalf("expected most recent keyframe (tic 2) on top, got %+v ok=%v", kf, ok)
	}
}

// MaybeCapture only snapshots on tic boundaries that are multiples of the
// configured interval (g_rewind.c G_SaveAutoKeyframe).
func TestMaybeCaptureOnlyOnIntervalBoundary(t *testing.T) {
	q := NewRewindQueue(RewindConfig{IntervalTics: 5, Depth: 10})
	s := newTestSim()
	for i := 0; i < 11; i++ {
		s.GameTic = uint64(i)
		q.MaybeCapture(s)
	}
	if q.Len() != 3 {
		t.Fatalf("expected captures at tics 0, 5, 10 -> 3 keyframes, got %d", q.Len())
	}
}

// Rewind discards keyframes younger than IntervalTics and restores the
// first one old enough, leaving the player's position as it was at that
// keyframe (g_rewind.c G_LoadAutoKeyframe).
func TestRewindRestoresOldEnoughKeyframe(t *testing.T) {
	q := NewRewindQueue(RewindConfig{IntervalTics: 5, Depth: 10})
	s := newTestSim()

	s.GameTic = 0
	q.push(0, s.Archive())

	s.Tick(forwardCmd(10))
	s.GameTic = 5
	q.push(5, s.Archive())
	movedX := s.Mobj(s.Players[0].MobjID).X

	s.Tick(forwardCmd(10))
	s.GameTic = 10

	if err := q.Rewind(s); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if got := s.Mobj(s.Players[0].MobjID).X; got != movedX {
		t.Fatalf("expected rewind to restore the tic-5 keyframe position %d, got %d", movedX, got)
	}
}

// The tic-0 keyframe is never discarded, so repeated rewinds always have a
// floor to land on (g_rewind.c "don't delete first keyframe").
func TestRewindKeepsTicZeroKeyframe(t *testing.T) {
	q := NewRewindQueue(RewindConfig{IntervalTics: 5, Depth: 10})
	s := newTestSim()
	s.GameTic = 0
	q.push(0, s.Archive())

	if err := q.Rewind(s); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("expected the tic-0 keyframe to remain after rewinding to it, got %d", q.Len())
	}
}

// Reset drops all stored keyframes on a fresh level load (g_rewind.c
// G_ResetRewind), so a rewind can never cross a map change.
func TestResetClearsQueue(t *testing.T) {
	q := NewRewindQueue(DefaultRewindConfig())
	q.push(0, nil)
	q.push(35, nil)
	q.Reset()
	if q.Len() != 0 {
		t.Fatalf("expected Reset to clear the queue, got %d", q.Len())
	}
}
