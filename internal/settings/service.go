package settings

import (
	"context"
	"errors"

	"backend-safeher/internal/db"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Get loads the user's settings, falling back to defaults when nothing
// has been saved yet.
func (s *Service) Get(ctx context.Context, userID string) (Settings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT location_sharing, checkin_interval_min, checkin_grace_min, checkin_duration_min, checkin_message
		FROM user_settings WHERE user_id=$1
	`, userID)

	out := Settings{UserID: userID}
	err := row.Scan(&out.LocationSharing, &out.CheckInIntervalMin, &out.CheckInGraceMin, &out.CheckInDurationMin, &out.CheckInMessage)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(userID), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (s *Service) Save(ctx context.Context, input Settings) (Settings, error) {
	if input.CheckInIntervalMin < 1 {
		input.CheckInIntervalMin = 1
	}
	if input.CheckInGraceMin < 0 {
		input.CheckInGraceMin = 0
	}
	if input.CheckInDurationMin < 0 {
		input.CheckInDurationMin = 0
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, location_sharing, checkin_interval_min, checkin_grace_min, checkin_duration_min, checkin_message)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id) DO UPDATE
		SET location_sharing=$2, checkin_interval_min=$3, checkin_grace_min=$4, checkin_duration_min=$5, checkin_message=$6
	`, input.UserID, input.LocationSharing, input.CheckInIntervalMin, input.CheckInGraceMin, input.CheckInDurationMin, input.CheckInMessage)
	if err != nil {
		return Settings{}, err
	}
	return input, nil
}

// LocationSharingEnabled is the permission gate for location reads.
// Any lookup failure counts as "not granted".
func (s *Service) LocationSharingEnabled(ctx context.Context, userID string) bool {
	cfg, err := s.Get(ctx, userID)
	if err != nil {
		return false
	}
	return cfg.LocationSharing
}
