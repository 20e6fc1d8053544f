package gameaction

import "testing"

func TestDrainRunsUntilNothing(t *testing.T) {
	var trace []Action
	d := NewDispatcher()
	d.Handle(NewGame, func(Action) (Action, error) {
		trace = append(trace, NewGame)
		return LoadLevel, nil
	})
	d.Handle(LoadLevel, func(Action) (Action, error) {
		trace = append(trace, LoadLevel)
		return Nothing, nil
	})

	d.Request(NewGame)
	if err := d.Drain(); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(trace) != 2 || trace[0] != NewGame || trace[1] != LoadLevel {
		t.Fatalf("unexpected trace: %+v", trace)
	}
	if d.Pending() != Nothing {
		t.Fatalf("expected pending to settle on Nothing, got %v", d.Pending())
	}
}

func TestDrainFailsOnUnregisteredAction(t *testing.T) {
	d := NewDispatcher()
	d.Request(SaveGame)
	if err := d.Drain(); err == nil {
		t.Fatalf("expected an error for an unregistered action")
	}
}

func TestDrainFailsOnHandlerThatNeverSettles(t *testing.T) {
	d := NewDispatcher()
	d.handlers[Rewind] = func(Action) (Action, error) { return Rewind, nil }
	d.Request(Rewind)
	if err := d.Drain(); err == nil {
		t.Fatalf("expected an error for a handler that never settles")
	}
}

func TestLaterRequestOverwritesCoalescedPending(t *testing.T) {
	d := NewDispatcher()
	d.Request(SaveGame)
	d.Request(Completed)
	if d.Pending() != Completed {
		t.Fatalf("expected latest request to win, got %v", d.Pending())
	}
}
