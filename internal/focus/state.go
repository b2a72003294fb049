// Package focus implements timed focus sessions with optional music and
// state shared between processes through a JSON file.
package focus

import (
	"fmt"
	"time"
)

// State represents the lifecycle state of a focus session.
type State string

const (
	// StateIdle is a session that has been created but not started.
	StateIdle State = "idle"
	// StateRunning is a session whose timer is counting down.
	StateRunning State = "running"
	// StatePaused is a session whose timer is stopped.
	StatePaused State = "paused"
	// StateCompleted is a session that reached its full duration.
	StateCompleted State = "completed"
	// StateCancelled is a session ended before its deadline.
	StateCancelled State = "cancelled"
)

// IsValid returns true if the state is a known valid state.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateRunning, StatePaused, StateCompleted, StateCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the session has ended.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// IsActive returns true if the session is running or paused.
func (s State) IsActive() bool {
	return s == StateRunning || s == StatePaused
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// ValidTransitions maps each state to its valid next states.
var ValidTransitions = map[State][]State{
	StateIdle:      {StateRunning},
	StateRunning:   {StatePaused, StateCompleted, StateCancelled},
	StatePaused:    {StateRunning, StateCancelled},
	StateCompleted: {},
	StateCancelled: {},
}

// CanTransitionTo returns true if the transition from s to next is valid.
func (s State) CanTransitionTo(next State) bool {
	for _, v := range ValidTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// TransitionError represents an invalid state transition.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid focus state transition from %s to %s", e.From, e.To)
}

// Session is a single focus session.
type Session struct {
	ID           string
	StartTime    time.Time
	Duration     time.Duration
	MusicEnabled bool
	MusicPath    string
	State        State
	// PausedAt is when the current pause began (zero unless paused).
	PausedAt time.Time
	// PausedTotal is the sum of all completed pauses.
	PausedTotal time.Duration
	EndedAt     time.Time
}

// Summary is the record of a finished session.
type Summary struct {
	ID        string
	StartTime time.Time
	// Duration is the time actually spent focused, excluding pauses.
	Duration  time.Duration
	MusicUsed bool
	Completed bool
}

// Clone returns a copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Transition moves the session to state to at now, keeping pause
// accounting consistent.
func (s *Session) Transition(to State, now time.Time) error {
	if !s.State.CanTransitionTo(to) {
		return &TransitionError{From: s.State, To: to}
	}

	if s.State == StatePaused && !s.PausedAt.IsZero() {
		if now.After(s.PausedAt) {
			s.PausedTotal += now.Sub(s.PausedAt)
		}
		s.PausedAt = time.Time{}
	}

	switch to {
	case StateRunning:
		if s.State == StateIdle {
			s.StartTime = now
		}
	case StatePaused:
		s.PausedAt = now
	case StateCompleted, StateCancelled:
		s.EndedAt = now
	}

	s.State = to
	return nil
}

// Deadline is when a running session completes, given its pauses so far.
func (s *Session) Deadline() time.Time {
	return s.StartTime.Add(s.PausedTotal + s.Duration)
}

// Elapsed returns focused time up to now, excluding pauses.
func (s *Session) Elapsed(now time.Time) time.Duration {
	end := now
	switch {
	case s.State == StateIdle:
		return 0
	case s.State.IsTerminal() && !s.EndedAt.IsZero():
		end = s.EndedAt
	case s.State == StatePaused && !s.PausedAt.IsZero():
		end = s.PausedAt
	}

	elapsed := end.Sub(s.StartTime) - s.PausedTotal
	if elapsed < 0 {
		return 0
	}
	if elapsed > s.Duration {
		return s.Duration
	}
	return elapsed
}

// Remaining returns the time left before the session completes.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.Duration - s.Elapsed(now)
}

// Summary returns the session's summary record.
func (s *Session) Summary(now time.Time) Summary {
	return Summary{
		ID:        s.ID,
		StartTime: s.StartTime,
		Duration:  s.Elapsed(now),
		MusicUsed: s.MusicEnabled && s.MusicPath != "",
		Completed: s.State == StateCompleted,
	}
}
