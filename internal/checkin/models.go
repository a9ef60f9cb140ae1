package checkin

import "time"

type State string

const (
	StateIdle      State = "idle"
	StateAwaiting  State = "awaiting"
	StateBuffering State = "buffering"
)

const DefaultSnoozeMinutes = 5

// Session is one scheduled check-in. Exactly one state holds at a time;
// NextDueAt is meaningful only while Awaiting, BufferUntil only while
// Buffering, and a zero SessionEndAt means the session never expires on
// its own.
type Session struct {
	UserID          string    `json:"user_id"`
	IntervalMinutes int       `json:"interval_minutes"`
	GraceMinutes    int       `json:"grace_minutes"`
	DurationMinutes int       `json:"duration_minutes"`
	Message         string    `json:"message"`
	State           State     `json:"state"`
	NextDueAt       time.Time `json:"next_due_at,omitempty"`
	BufferUntil     time.Time `json:"buffer_until,omitempty"`
	SessionEndAt    time.Time `json:"session_end_at,omitempty"`
}

// Effect is the side effect a transition asks its caller to perform.
// Transitions themselves stay pure.
type Effect int

const (
	EffectNone Effect = iota
	// EffectExpired: the session outlived its configured duration.
	EffectExpired
	// EffectMissed: the check-in was not confirmed in time; alerts must
	// be dispatched.
	EffectMissed
)
