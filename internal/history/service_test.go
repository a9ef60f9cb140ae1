package history

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestAppendAndList(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	lat, lng := -6.2, 106.816
	mock.ExpectExec(`INSERT INTO history_events`).
		WithArgs(pgxmock.AnyArg(), "user-1", KindSOS, &lat, &lng, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	evt, err := svc.Append(context.Background(), Event{UserID: "user-1", Kind: KindSOS, Lat: &lat, Lng: &lng})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if evt.ID == "" || evt.Timestamp.IsZero() {
		t.Fatalf("expected id and timestamp assigned")
	}

	newer := time.Now()
	older := newer.Add(-time.Hour)
	mock.ExpectQuery(`SELECT id, user_id, kind, lat, lng, created_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "kind", "lat", "lng", "created_at"}).
			AddRow("evt-2", "user-1", KindMissedCheckIn, nil, nil, newer).
			AddRow("evt-1", "user-1", KindSOS, &lat, &lng, older))

	events, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 || !events[0].Timestamp.After(events[1].Timestamp) {
		t.Fatalf("expected most recent first")
	}
	if events[0].Lat != nil {
		t.Fatalf("expected nil location on missed check-in event")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, kind, lat, lng, created_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "kind", "lat", "lng", "created_at"}))

	svc := NewService(mock)
	events, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty slice")
	}
}
