package fakecall

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend-safeher/internal/db"

	"github.com/jackc/pgx/v5"
)

// Broadcaster pushes the incoming-call event to the user's devices.
type Broadcaster interface {
	Broadcast(userID string, payload []byte)
}

type Service struct {
	db      db.Querier
	devices Broadcaster

	// seam for tests; production uses time.AfterFunc
	schedule func(d time.Duration, f func()) *time.Timer
}

func NewService(db db.Querier, devices Broadcaster) *Service {
	return &Service{
		db:       db,
		devices:  devices,
		schedule: time.AfterFunc,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (Settings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT caller_name, caller_number, ring_seconds
		FROM fake_call_settings WHERE user_id=$1
	`, userID)

	out := Settings{UserID: userID}
	err := row.Scan(&out.CallerName, &out.CallerNumber, &out.RingSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(userID), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (s *Service) Save(ctx context.Context, input Settings) (Settings, error) {
	if input.CallerName == "" {
		input.CallerName = Defaults(input.UserID).CallerName
	}
	if input.RingSeconds <= 0 {
		input.RingSeconds = Defaults(input.UserID).RingSeconds
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO fake_call_settings (user_id, caller_name, caller_number, ring_seconds)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE
		SET caller_name=$2, caller_number=$3, ring_seconds=$4
	`, input.UserID, input.CallerName, input.CallerNumber, input.RingSeconds)
	if err != nil {
		return Settings{}, err
	}
	return input, nil
}

type callEvent struct {
	Type         string `json:"type"`
	CallerName   string `json:"caller_name"`
	CallerNumber string `json:"caller_number"`
	RingSeconds  int    `json:"ring_seconds"`
}

// Trigger schedules an incoming-call event on the user's devices after
// the given delay (zero means immediately).
func (s *Service) Trigger(ctx context.Context, userID string, delay time.Duration) error {
	if s.devices == nil {
		return errors.New("device channel not available")
	}

	cfg, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(callEvent{
		Type:         "incoming-call",
		CallerName:   cfg.CallerName,
		CallerNumber: cfg.CallerNumber,
		RingSeconds:  cfg.RingSeconds,
	})
	if err != nil {
		return err
	}

	if delay <= 0 {
		s.devices.Broadcast(userID, payload)
		return nil
	}
	s.schedule(delay, func() { s.devices.Broadcast(userID, payload) })
	return nil
}
