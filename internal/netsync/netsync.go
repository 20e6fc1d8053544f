// Package netsync implements the consistency-check and sync-recovery
// protocol of spec.md §4.I: a per-player, per-tic consistency table, a
// stall guard bounding how long the tic loop waits on a slow peer, and
// ticdup sub-stepping. One Strategy type covers both the "Classic" and
// "New" sync modes, selected by its Mode; it satisfies ws.PeerCoordinator
// directly, and internal/app adapts its Diagnostics to
// internal/net.Coordinator.
package netsync

import (
	"fmt"
	"sync"

	"doomcore/internal/ticcmd"
)

// BackupTics is the modulus of the consistency ring buffer, matching the
// original engine's BACKUPTICS.
const BackupTics = 128

// MaxPlayers bounds the player slots tracked by the consistency table.
const MaxPlayers = 4

// MaxNetgameStallTics is the real-tic bound on how long the tic loop waits
// for a slow peer before the stall guard fires (spec.md §4.I).
const MaxNetgameStallTics = 5

// Diagnostics summarizes net-sync state; it mirrors internal/net.Diagnostics
// field-for-field, but as a distinct named type it needs a field copy (done
// by internal/app's netCoordinator) before net.NewHTTPHandler can use it.
type Diagnostics struct {
	Peers    int
	TicDup   int
	GameTic  int
	Stalled  bool
	Resynced int64
}

// Mode selects between the Classic and New net-sync strategies (spec.md
// §4.I), chosen by the "-oldsync" flag.
type Mode int

const (
	ModeNew Mode = iota
	ModeClassic
)

type peerSlot struct {
	playerID    string
	lastTic     uint64
	haveLastTic bool
}

const (
	// classicFrameWindow and classicBehindThreshold implement the Classic
	// mode's "behind by 1+ tics three times in four frames" frameskip
	// heuristic (spec.md §4.I).
	classicFrameWindow     = 4
	classicBehindThreshold = 3

	// newSyncBufferBound is the New mode's local buffer bound: built tics
	// are throttled once more than this many are buffered ahead of the net
	// layer's acknowledged offset (spec.md §4.I).
	newSyncBufferBound = 8
)

// frameHistory is the ring buffer backing the Classic frameskip heuristic:
// the last classicFrameWindow frames' behind/caught-up verdicts.
type frameHistory struct {
	window [classicFrameWindow]bool
	idx    int
	filled int
}

func (h *frameHistory) note(behind bool) bool {
	h.window[h.idx%classicFrameWindow] = behind
	h.idx++
	if h.filled < classicFrameWindow {
		h.filled++
	}
	if h.filled < classicFrameWindow {
		return false
	}
	behindCount := 0
	for _, b := range h.window {
		if b {
			behindCount++
		}
	}
	return behindCount >= classicBehindThreshold
}

// Strategy tracks connected peers' ticcmds, the per-player consistency
// table, and the stall guard. It is safe for concurrent use: websocket
// session goroutines call SubmitCmd/Disconnect while the tic loop calls
// AdvanceTic and reads Diagnostics. Accepted commands are validated and
// acknowledged but not buffered.
type Strategy struct {
	mode   Mode
	ticdup int

	mu          sync.Mutex
	slots       map[string]*peerSlot
	consistency [MaxPlayers][BackupTics]uint16
	gametic     int
	stallTics   int
	resynced    int64
	policy      *Policy
	frames      frameHistory
}

// New builds a Strategy. ticdup must be in [1,12] (spec.md §4.I); callers
// resolve it from internal/options.Options.Dup before construction.
func New(mode Mode, ticdup int) *Strategy {
	if ticdup < 1 {
		ticdup = 1
	}
	if ticdup > 12 {
		ticdup = 12
	}
	return &Strategy{
		mode:   mode,
		ticdup: ticdup,
		slots:  make(map[string]*peerSlot),
		policy: NewPolicy(),
	}
}

// Subscribe registers a new peer under playerID, rejecting duplicates.
func (s *Strategy) Subscribe(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slots[playerID]; exists {
		return false
	}
	s.slots[playerID] = &peerSlot{playerID: playerID}
	return true
}

// SubmitCmd records a peer's ticcmd for one tic, validating it against the
// stored consistency value once that tic has already been advanced
// locally (spec.md §4.G step 4: "assert cmd.consistency ==
// consistancy[player][buf]"). It implements ws.PeerCoordinator.
func (s *Strategy) SubmitCmd(playerID string, tic uint64, cmd ticcmd.TicCmd) (ok bool, consistency uint16, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, exists := s.slots[playerID]
	if !exists {
		s.policy.NoteLostSpawn()
		return false, 0, "unknown peer"
	}

	idx, ok := playerIndex(playerID)
	if ok && tic < uint64(s.gametic) {
		stored := s.consistency[idx][tic%BackupTics]
		if cmd.Consistency != stored {
			s.policy.NoteLostSpawn()
			return false, 0, fmt.Sprintf("consistency failure (%#x should be %#x)", cmd.Consistency, stored)
		}
	}

	slot.lastTic = tic
	slot.haveLastTic = true
	s.policy.NoteEvent()
	return true, cmd.Consistency, ""
}

// Disconnect releases a peer's slot.
func (s *Strategy) Disconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, playerID)
}

// TicDup reports the configured sample-rate divisor.
func (s *Strategy) TicDup() int {
	return s.ticdup
}

// Diagnostics reports a snapshot for the HTTP diagnostics endpoint.
func (s *Strategy) Diagnostics() Diagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Diagnostics{
		Peers:    len(s.slots),
		TicDup:   s.ticdup,
		GameTic:  s.gametic,
		Stalled:  s.stallTics >= MaxNetgameStallTics,
		Resynced: s.resynced,
	}
}

// AdvanceTic records the completed tic's consistency value for playerIdx
// and bumps gametic, mirroring spec.md §4.G step 4's "increment gametic;
// store new consistency value." Call once per tic, after H.P_Ticker has
// run, for every in-game player.
func (s *Strategy) AdvanceTic(playerIdx int, value uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if playerIdx < 0 || playerIdx >= MaxPlayers {
		return
	}
	s.consistency[playerIdx][s.gametic%BackupTics] = value
	s.gametic++
}

// ReplicateForTicdup expands one built cmd into ticdup sub-step copies,
// squashing chat-char and special buttons on all but the first replica so
// Save/Pause aren't applied repeatedly (spec.md's ticdup replication
// rule).
func (s *Strategy) ReplicateForTicdup(cmd ticcmd.TicCmd) []ticcmd.TicCmd {
	out := make([]ticcmd.TicCmd, s.ticdup)
	out[0] = cmd
	squashed := cmd
	squashed.ChatChar = 0
	squashed.Buttons &^= ticcmd.ButtonSpecial
	for i := 1; i < s.ticdup; i++ {
		out[i] = squashed
	}
	return out
}

// PollStall advances the stall guard by one real tic of waiting on the
// network and reports whether MaxNetgameStallTics has been exceeded,
// meaning the tic loop should stop waiting and keep the menu responsive.
func (s *Strategy) PollStall(allPeersCaughtUp bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if allPeersCaughtUp {
		s.stallTics = 0
		return false
	}
	s.stallTics++
	if s.stallTics >= MaxNetgameStallTics {
		s.resynced++
		signal, _ := s.policy.Consume()
		_ = signal // resync telemetry point; surfaced via Diagnostics.Resynced
		s.stallTics = 0
		return true
	}
	return false
}

// ShouldAccelerate implements the Classic mode's frameskip heuristic: it
// records whether the local peer was behind this frame and reports whether
// at least classicBehindThreshold of the last classicFrameWindow frames were
// behind, meaning the tic loop should build an extra catch-up tic (spec.md
// §4.I). It is a no-op reporting false outside Classic mode.
func (s *Strategy) ShouldAccelerate(behindThisFrame bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeClassic {
		return false
	}
	return s.frames.note(behindThisFrame)
}

// ShouldThrottle implements the New mode's local buffer bound: once more
// than newSyncBufferBound tics are built ahead of the net layer's
// acknowledged offset, the tic loop should pause building further tics
// until peers catch up (spec.md §4.I). It is a no-op reporting false
// outside New mode.
func (s *Strategy) ShouldThrottle(bufferedTics int) bool {
	if s.mode != ModeNew {
		return false
	}
	return bufferedTics > newSyncBufferBound
}

// playerIndex maps a websocket-layer playerID string to a consistency-table
// slot. IDs are expected to be small decimal player numbers ("0".."3");
// anything else cannot be indexed into the fixed-size table and callers
// fall back to skipping the consistency check.
func playerIndex(playerID string) (int, bool) {
	if len(playerID) != 1 {
		return 0, false
	}
	c := playerID[0]
	if c < '0' || c > '3' {
		return 0, false
	}
	return int(c - '0'), true
}
