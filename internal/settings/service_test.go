package settings

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func TestGetDefaultsWhenMissing(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT location_sharing`).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	cfg, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.CheckInIntervalMin != 5 || cfg.CheckInGraceMin != 1 || cfg.CheckInDurationMin != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LocationSharing {
		t.Fatalf("location sharing must default to off")
	}
}

func TestSaveCoercesBounds(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO user_settings`).
		WithArgs("user-1", true, 1, 0, 0, "ping me").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	saved, err := svc.Save(context.Background(), Settings{
		UserID:             "user-1",
		LocationSharing:    true,
		CheckInIntervalMin: 0,
		CheckInGraceMin:    -2,
		CheckInDurationMin: -1,
		CheckInMessage:     "ping me",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.CheckInIntervalMin != 1 || saved.CheckInGraceMin != 0 || saved.CheckInDurationMin != 0 {
		t.Fatalf("expected coerced values, got %+v", saved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLocationSharingEnabled(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT location_sharing`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"location_sharing", "checkin_interval_min", "checkin_grace_min", "checkin_duration_min", "checkin_message"}).
			AddRow(true, 5, 1, 0, "msg"))

	svc := NewService(mock)
	if !svc.LocationSharingEnabled(context.Background(), "user-1") {
		t.Fatalf("expected sharing enabled")
	}
}
