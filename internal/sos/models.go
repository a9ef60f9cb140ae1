package sos

import "time"

type State string

const (
	StateCountingDown State = "counting_down"
	StateActive       State = "active"
)

// CountdownSeconds is the fixed arming delay during which an episode
// can still be cancelled.
const CountdownSeconds = 3

// Episode is one SOS activation. The CountingDown -> Active transition
// happens exactly once and is irreversible; ending an Active episode
// discards it rather than reverting it.
type Episode struct {
	UserID             string    `json:"user_id"`
	State              State     `json:"state"`
	CountdownRemaining int       `json:"countdown_remaining"`
	Lat                *float64  `json:"lat,omitempty"`
	Lng                *float64  `json:"lng,omitempty"`
	DispatchedTo       int       `json:"dispatched_to"`
	StartedAt          time.Time `json:"started_at"`
	ActivatedAt        time.Time `json:"activated_at,omitempty"`
}

// Arm starts a new countdown episode.
func Arm(userID string, now time.Time) Episode {
	return Episode{
		UserID:             userID,
		State:              StateCountingDown,
		CountdownRemaining: CountdownSeconds,
		StartedAt:          now,
	}
}

// Tick advances the countdown one second. The second return value is
// true only on the single tick that activates the episode; ticks on an
// already Active episode are inert.
func Tick(e Episode, now time.Time) (Episode, bool) {
	if e.State != StateCountingDown {
		return e, false
	}

	e.CountdownRemaining--
	if e.CountdownRemaining > 0 {
		return e, false
	}

	e.CountdownRemaining = 0
	e.State = StateActive
	e.ActivatedAt = now
	return e, true
}
