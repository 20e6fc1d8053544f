// Package gameaction implements the single-threaded game-action dispatcher: a
// coalesced enum of pending state transitions drained between tics. One call
// to Drain runs Handlers in sequence until the pending action settles on
// Nothing, so a chain such as new_game -> load_level completes in one Drain.
package gameaction

import "doomcore/internal/simerr"

// Action is the gameaction_t enum: the only legal way the game state
// transitions between tics.
type Action int

const (
	Nothing Action = iota
	NewGame
	LoadLevel
	LoadGame
	SaveGame
	PlayDemo
	Completed
	Victory
	WorldDone
	Screenshot
	ReloadLevel
	LoadAutosave
	SaveAutosave
	Rewind
)

func (a Action) String() string {
	switch a {
	case Nothing:
		return "nothing"
	case NewGame:
		return "new_game"
	case LoadLevel:
		return "load_level"
	case LoadGame:
		return "load_game"
	case SaveGame:
		return "save_game"
	case PlayDemo:
		return "play_demo"
	case Completed:
		return "completed"
	case Victory:
		return "victory"
	case WorldDone:
		return "world_done"
	case Screenshot:
		return "screenshot"
	case ReloadLevel:
		return "reload_level"
	case LoadAutosave:
		return "load_autosave"
	case SaveAutosave:
		return "save_autosave"
	case Rewind:
		return "rewind"
	default:
		return "unknown"
	}
}

// Handler applies one Action and returns the next Action to run, or
// Nothing to stop the drain loop. A Handler must reset its own pending
// state before returning; Dispatcher treats a Handler that keeps
// requesting its own Action as a hard-reset condition: each handler resets
// the value before returning, else the loop is broken by a hard reset.
type Handler func(Action) (Action, error)

// Dispatcher coalesces and drains pending game actions. It holds no
// simulation state itself; Handlers close over whatever state they need to
// mutate.
type Dispatcher struct {
	pending  Action
	handlers map[Action]Handler
	maxSteps int
}

// DefaultMaxSteps bounds the drain loop against a misbehaving Handler that
// never settles on Nothing.
const DefaultMaxSteps = 32

// NewDispatcher builds an empty dispatcher; register Handlers with Handle.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Action]Handler), maxSteps: DefaultMaxSteps}
}

// Handle registers the Handler that Drain invokes while action is the
// pending value.
func (d *Dispatcher) Handle(action Action, h Handler) {
	d.handlers[action] = h
}

// Request coalesces a new pending action. Per the original semantics,
// later requests overwrite earlier ones that have not yet been drained;
// the dispatcher does not queue multiple distinct actions.
func (d *Dispatcher) Request(action Action) {
	d.pending = action
}

// Pending reports the currently queued action without draining it.
func (d *Dispatcher) Pending() Action {
	return d.pending
}

// Drain runs registered Handlers until the pending action settles on
// Nothing, returning a Fatal SimError if no Handler is registered for a
// requested Action or if the loop exceeds maxSteps (the "hard reset"
// case: a Handler kept requesting without making progress).
func (d *Dispatcher) Drain() error {
	for step := 0; d.pending != Nothing; step++ {
		if step >= d.maxSteps {
			d.pending = Nothing
			return simerr.Fatalf("gameaction: dispatch did not settle within %d steps", d.maxSteps)
		}

		action := d.pending
		handler, ok := d.handlers[action]
		if !ok {
			d.pending = Nothing
			return simerr.Fatalf("gameaction: no handler registered for %s", action)
		}

		next, err := handler(action)
		if err != nil {
			d.pending = Nothing
			return err
		}
		d.pending = next
	}
	return nil
}
