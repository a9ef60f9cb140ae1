package settings

// Settings holds per-user preferences: the location-sharing permission
// consulted by alert dispatch, and check-in defaults mirroring the
// start form.
type Settings struct {
	UserID             string `json:"user_id"`
	LocationSharing    bool   `json:"location_sharing"`
	CheckInIntervalMin int    `json:"checkin_interval_min"`
	CheckInGraceMin    int    `json:"checkin_grace_min"`
	CheckInDurationMin int    `json:"checkin_duration_min"`
	CheckInMessage     string `json:"checkin_message"`
}

// Defaults returns the settings used when a user has never saved any.
func Defaults(userID string) Settings {
	return Settings{
		UserID:             userID,
		LocationSharing:    false,
		CheckInIntervalMin: 5,
		CheckInGraceMin:    1,
		CheckInDurationMin: 0,
		CheckInMessage:     "Please confirm you are safe",
	}
}
