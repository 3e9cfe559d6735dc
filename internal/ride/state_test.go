package ride

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStateTransitions(t *testing.T) {
	if next, err := Idle.Start(); err != nil || next != Tracking {
		t.Fatalf("idle -> tracking: %v %v", next, err)
	}
	if next, err := Paused.Start(); err != nil || next != Tracking {
		t.Fatalf("paused -> tracking: %v %v", next, err)
	}
	if _, err := Tracking.Start(); !errors.Is(err, ErrAlreadyTracking) {
		t.Fatalf("expected already tracking, got %v", err)
	}
	if next, ok := Tracking.Pause(); !ok || next != Paused {
		t.Fatalf("tracking -> paused: %v %v", next, ok)
	}
	if next, ok := Idle.Pause(); ok || next != Idle {
		t.Fatalf("pause from idle should not apply")
	}
	if next, ok := Paused.Pause(); ok || next != Paused {
		t.Fatalf("pause from paused should not apply")
	}
	for _, from := range []State{Tracking, Paused} {
		if next, err := from.Stop(); err != nil || next != Idle {
			t.Fatalf("%s -> idle: %v %v", from, next, err)
		}
	}
	if _, err := Idle.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected not started, got %v", err)
	}
}

func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(Paused)
	if err != nil || string(data) != `"paused"` {
		t.Fatalf("marshal: %s %v", data, err)
	}
	var st State
	if err := json.Unmarshal([]byte(`"tracking"`), &st); err != nil || st != Tracking {
		t.Fatalf("unmarshal: %v %v", st, err)
	}
	if err := json.Unmarshal([]byte(`"flying"`), &st); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}
