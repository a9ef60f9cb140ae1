package history

import "time"

const (
	KindMissedCheckIn = "missed_checkin"
	KindSOS           = "sos"
)

// Event is an immutable record of a missed check-in or SOS activation.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
