package checkin

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"backend-safeher/internal/alert"
	"backend-safeher/internal/history"
	"backend-safeher/internal/location"
	"backend-safeher/internal/shared/geo"
)

type ContactSource interface {
	Recipients(ctx context.Context, userID string) ([]alert.Recipient, error)
}

type LocationSource interface {
	Current(ctx context.Context, userID string) (location.Point, bool)
}

type HistorySink interface {
	Append(ctx context.Context, evt history.Event) (history.Event, error)
}

type Notifier interface {
	DispatchCheckIn(ctx context.Context, userID string, recipients []alert.Recipient, message, locationURL string) error
}

var ErrNoActiveSession = errors.New("no active check-in session")

// Engine owns all active check-in sessions and drives them from one
// repeating tick. User actions and ticks serialize on the mutex; the
// missed-trigger side effects run outside it and are never cancelled by
// a later user action.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]Session

	contacts  ContactSource
	locations LocationSource
	events    HistorySink
	notifier  Notifier

	now  func() time.Time
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewEngine(contacts ContactSource, locations LocationSource, events HistorySink, notifier Notifier) *Engine {
	return &Engine{
		sessions:  map[string]Session{},
		contacts:  contacts,
		locations: locations,
		events:    events,
		notifier:  notifier,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

// Run ticks every second until Stop. Call in a goroutine.
func (e *Engine) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.TickAll(e.now())
		case <-e.stop:
			return
		}
	}
}

// Stop halts the tick loop and waits for in-flight dispatches.
func (e *Engine) Stop() {
	e.once.Do(func() { close(e.stop) })
	e.wg.Wait()
}

// Start replaces any session the user already has.
func (e *Engine) Start(userID string, intervalMin, graceMin, durationMin int, message string) Session {
	s := Start(userID, intervalMin, graceMin, durationMin, message, e.now())

	e.mu.Lock()
	e.sessions[userID] = s
	e.mu.Unlock()
	return s
}

func (e *Engine) Status(userID string) (Session, time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[userID]
	if !ok {
		return Session{}, 0, false
	}
	return s, Remaining(s, e.now()), true
}

func (e *Engine) Confirm(userID string) error {
	return e.remove(userID)
}

func (e *Engine) Cancel(userID string) error {
	return e.remove(userID)
}

func (e *Engine) Snooze(userID string, extensionMin int) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[userID]
	if !ok {
		return Session{}, ErrNoActiveSession
	}
	s = Snooze(s, extensionMin)
	e.sessions[userID] = s
	return s, nil
}

// TickAll advances every active session once. Sessions that fired a
// missed-trigger are already Idle (gone from the map) before their
// alerts go out, so a tick can never double-fire. Dispatch runs in its
// own goroutine so a slow channel never stalls other users' ticks.
func (e *Engine) TickAll(now time.Time) {
	type missed struct {
		userID  string
		message string
	}

	e.mu.Lock()
	var fired []missed
	for userID, s := range e.sessions {
		next, effect := Tick(s, now)
		switch effect {
		case EffectExpired:
			delete(e.sessions, userID)
		case EffectMissed:
			delete(e.sessions, userID)
			fired = append(fired, missed{userID: userID, message: s.Message})
		default:
			e.sessions[userID] = next
		}
	}
	e.mu.Unlock()

	for _, m := range fired {
		m := m
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.dispatchMissed(m.userID, m.message)
		}()
	}
}

func (e *Engine) remove(userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions[userID]; !ok {
		return ErrNoActiveSession
	}
	delete(e.sessions, userID)
	return nil
}

// dispatchMissed is best-effort end to end: a missing location is
// silent, a failed dispatch is logged once, and nothing retries.
func (e *Engine) dispatchMissed(userID, message string) {
	ctx := context.Background()

	var locationURL string
	var lat, lng *float64
	if p, ok := e.locations.Current(ctx, userID); ok {
		locationURL = geo.MapsURL(p.Lat, p.Lng)
		lat, lng = &p.Lat, &p.Lng
	}

	recipients, err := e.contacts.Recipients(ctx, userID)
	if err != nil {
		log.Printf("loading contacts for %s failed: %v", userID, err)
	}

	if err := e.notifier.DispatchCheckIn(ctx, userID, recipients, "CHECK-IN MISSED: "+message, locationURL); err != nil {
		log.Printf("check-in alert dispatch for %s failed: %v", userID, err)
	}

	if _, err := e.events.Append(ctx, history.Event{
		UserID: userID,
		Kind:   history.KindMissedCheckIn,
		Lat:    lat,
		Lng:    lng,
	}); err != nil {
		log.Printf("history append for %s failed: %v", userID, err)
	}
}
