package fakecall

// Settings configures the distraction call a user can trigger on their
// own device.
type Settings struct {
	UserID       string `json:"user_id"`
	CallerName   string `json:"caller_name"`
	CallerNumber string `json:"caller_number"`
	RingSeconds  int    `json:"ring_seconds"`
}

func Defaults(userID string) Settings {
	return Settings{
		UserID:      userID,
		CallerName:  "Mom",
		RingSeconds: 30,
	}
}
