package history

import (
	"context"
	"time"

	"backend-safeher/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Append records an event. Events are never updated or deleted.
func (s *Service) Append(ctx context.Context, input Event) (Event, error) {
	input.ID = uuid.NewString()
	if input.Timestamp.IsZero() {
		input.Timestamp = time.Now()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO history_events (id, user_id, kind, lat, lng, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, input.ID, input.UserID, input.Kind, input.Lat, input.Lng, input.Timestamp)
	if err != nil {
		return Event{}, err
	}
	return input, nil
}

// List returns the user's events, most recent first. No rows means an
// empty history, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, kind, lat, lng, created_at
		FROM history_events WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Lat, &e.Lng, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
