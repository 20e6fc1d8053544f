package netsync

import "fmt"

// ResyncReason records one rejected or stalled peer event contributing to
// a pending resync signal.
type ResyncReason struct {
	Kind     string
	PlayerID string
}

// ResyncSignal summarizes enough rejected-event history to justify forcing
// a keyframe/resync with a connected peer.
type ResyncSignal struct {
	LostEvents  uint64
	TotalEvents uint64
	Reasons     []ResyncReason
}

// Policy decides, from a running ratio of rejected-to-total peer events,
// when the stall guard should escalate into a forced resync.
type Policy struct {
	totalEvents uint64
	lostEvents  uint64
	pending     bool
	reasons     []ResyncReason
}

const lostEventThresholdPerTenThousand = 1
const resyncReasonLimit = 8

// NewPolicy builds an empty Policy.
func NewPolicy() *Policy {
	return &Policy{reasons: make([]ResyncReason, 0, resyncReasonLimit)}
}

// NoteEvent records one accepted peer event.
func (p *Policy) NoteEvent() {
	if p == nil {
		return
	}
	if p.totalEvents == ^uint64(0) {
		p.totalEvents /= 2
		p.lostEvents /= 2
	}
	p.totalEvents++
}

// NoteLostSpawn records one rejected/stalled peer event (kept under the
// original "lost spawn" name for continuity with the ledger this heuristic
// is grounded on).
func (p *Policy) NoteLostSpawn() {
	if p == nil {
		return
	}
	p.lostEvents++
	if len(p.reasons) < resyncReasonLimit {
		p.reasons = append(p.reasons, ResyncReason{Kind: "consistency_reject"})
	}
	p.evaluate()
}

func (p *Policy) evaluate() {
	if p == nil || p.pending || p.lostEvents == 0 {
		return
	}
	total := p.totalEvents
	if total == 0 {
		total = 1
	}
	if p.lostEvents*10000 >= total*lostEventThresholdPerTenThousand {
		p.pending = true
	}
}

// Consume drains and resets any pending ResyncSignal.
func (p *Policy) Consume() (ResyncSignal, bool) {
	if p == nil || !p.pending {
		return ResyncSignal{}, false
	}
	signal := ResyncSignal{
		LostEvents:  p.lostEvents,
		TotalEvents: p.totalEvents,
		Reasons:     append([]ResyncReason(nil), p.reasons...),
	}
	p.pending = false
	p.totalEvents = 0
	p.lostEvents = 0
	if len(p.reasons) > 0 {
		p.reasons = p.reasons[:0]
	}
	return signal, true
}

// Summary renders a one-line diagnostic string, empty when there is
// nothing to report.
func (s ResyncSignal) Summary() string {
	if s.LostEvents == 0 && s.TotalEvents == 0 {
		return ""
	}
	return fmt.Sprintf("lost_events=%d total_events=%d reasons=%v", s.LostEvents, s.TotalEvents, s.Reasons)
}
