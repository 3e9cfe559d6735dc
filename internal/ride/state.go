package ride

import (
	"encoding/json"
	"fmt"
)

// State is the acquisition lifecycle of a session.
type State int

const (
	Idle State = iota
	Tracking
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, st := range []State{Idle, Tracking, Paused} {
		if st.String() == name {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown ride state %q", name)
}

// Start moves Idle or Paused to Tracking.
func (s State) Start() (State, error) {
	switch s {
	case Idle, Paused:
		return Tracking, nil
	case Tracking:
		return s, ErrAlreadyTracking
	}
	return s, fmt.Errorf("start from %s", s)
}

// Pause moves Tracking to Paused. The second result is false when the
// transition does not apply.
func (s State) Pause() (State, bool) {
	if s != Tracking {
		return s, false
	}
	return Paused, true
}

// Stop moves Tracking or Paused back to Idle.
func (s State) Stop() (State, error) {
	switch s {
	case Tracking, Paused:
		return Idle, nil
	case Idle:
		return s, ErrNotStarted
	}
	return s, fmt.Errorf("stop from %s", s)
}
