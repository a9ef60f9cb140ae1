package checkin

import "time"

// Start builds an Awaiting session. Out-of-range inputs are coerced,
// never rejected: interval floors at 1 minute, grace and duration at 0.
func Start(userID string, intervalMin, graceMin, durationMin int, message string, now time.Time) Session {
	if intervalMin < 1 {
		intervalMin = 1
	}
	if graceMin < 0 {
		graceMin = 0
	}
	if durationMin < 0 {
		durationMin = 0
	}

	s := Session{
		UserID:          userID,
		IntervalMinutes: intervalMin,
		GraceMinutes:    graceMin,
		DurationMinutes: durationMin,
		Message:         message,
		State:           StateAwaiting,
		NextDueAt:       now.Add(time.Duration(intervalMin) * time.Minute),
	}
	if durationMin > 0 {
		s.SessionEndAt = now.Add(time.Duration(durationMin) * time.Minute)
	}
	return s
}

// Tick evaluates transitions in fixed priority order: duration expiry,
// then due check, then buffer check. At most one transition fires per
// tick.
func Tick(s Session, now time.Time) (Session, Effect) {
	if s.State == StateIdle {
		return s, EffectNone
	}

	if !s.SessionEndAt.IsZero() && now.After(s.SessionEndAt) {
		return reset(s), EffectExpired
	}

	if s.State == StateAwaiting && !now.Before(s.NextDueAt) {
		if s.GraceMinutes > 0 {
			s.State = StateBuffering
			s.BufferUntil = s.NextDueAt.Add(time.Duration(s.GraceMinutes) * time.Minute)
			return s, EffectNone
		}
		return reset(s), EffectMissed
	}

	if s.State == StateBuffering && now.After(s.BufferUntil) {
		return reset(s), EffectMissed
	}

	return s, EffectNone
}

// Confirm records a successful check-in. Always resets, no dispatch.
func Confirm(s Session) Session {
	return reset(s)
}

// Cancel abandons the session. Always resets, no dispatch.
func Cancel(s Session) Session {
	return reset(s)
}

// Snooze pushes out whichever deadline is currently running: the buffer
// countdown while Buffering, the interval deadline otherwise. State is
// untouched.
func Snooze(s Session, extensionMin int) Session {
	if extensionMin <= 0 {
		extensionMin = DefaultSnoozeMinutes
	}
	ext := time.Duration(extensionMin) * time.Minute

	switch s.State {
	case StateBuffering:
		s.BufferUntil = s.BufferUntil.Add(ext)
	case StateAwaiting:
		s.NextDueAt = s.NextDueAt.Add(ext)
	}
	return s
}

// Remaining reports the time left on the active deadline, for countdown
// display.
func Remaining(s Session, now time.Time) time.Duration {
	var target time.Time
	switch s.State {
	case StateAwaiting:
		target = s.NextDueAt
	case StateBuffering:
		target = s.BufferUntil
	default:
		return 0
	}
	if d := target.Sub(now); d > 0 {
		return d
	}
	return 0
}

func reset(s Session) Session {
	s.State = StateIdle
	s.NextDueAt = time.Time{}
	s.BufferUntil = time.Time{}
	s.SessionEndAt = time.Time{}
	return s
}
