package sos

import (
	"context"
	"encoding/json"
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
	DispatchSOS(ctx context.Context, userID string, recipients []alert.Recipient, message, locationURL string) (int, error)
}

// Broadcaster pushes live episode updates to the user's devices.
type Broadcaster interface {
	Broadcast(userID string, payload []byte)
}

var (
	ErrNoEpisode           = errors.New("no sos episode")
	ErrAlreadyArmed        = errors.New("sos episode already running")
	ErrNotCountingDown     = errors.New("episode can only be cancelled during countdown")
	ErrNotActive           = errors.New("episode is not active")
	ErrConfirmationMissing = errors.New("ending sos requires confirmation")
)

const emergencyMessage = "EMERGENCY SOS ALERT: Help me, I'm in danger!"

// Engine owns all live episodes and drives their countdowns from one
// repeating tick. Activation side effects run after the state change is
// committed, so a second tick can never re-dispatch.
type Engine struct {
	mu       sync.Mutex
	episodes map[string]Episode

	contacts  ContactSource
	locations LocationSource
	events    HistorySink
	notifier  Notifier
	devices   Broadcaster

	now  func() time.Time
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewEngine(contacts ContactSource, locations LocationSource, events HistorySink, notifier Notifier, devices Broadcaster) *Engine {
	return &Engine{
		episodes:  map[string]Episode{},
		contacts:  contacts,
		locations: locations,
		events:    events,
		notifier:  notifier,
		devices:   devices,
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

// Stop halts the tick loop and waits for in-flight activations.
func (e *Engine) Stop() {
	e.once.Do(func() { close(e.stop) })
	e.wg.Wait()
}

func (e *Engine) Arm(userID string) (Episode, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.episodes[userID]; ok {
		return Episode{}, ErrAlreadyArmed
	}
	ep := Arm(userID, e.now())
	e.episodes[userID] = ep
	return ep, nil
}

// Cancel discards a counting-down episode. No dispatch, no history.
func (e *Engine) Cancel(userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ep, ok := e.episodes[userID]
	if !ok {
		return ErrNoEpisode
	}
	if ep.State != StateCountingDown {
		return ErrNotCountingDown
	}
	delete(e.episodes, userID)
	return nil
}

// End discards an active episode after explicit user confirmation.
func (e *Engine) End(userID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationMissing
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ep, ok := e.episodes[userID]
	if !ok {
		return ErrNoEpisode
	}
	if ep.State != StateActive {
		return ErrNotActive
	}
	delete(e.episodes, userID)
	return nil
}

func (e *Engine) Status(userID string) (Episode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ep, ok := e.episodes[userID]
	return ep, ok
}

// TickAll advances every episode one second and performs activation for
// those whose countdown just hit zero. Each activation runs in its own
// goroutine so a slow channel never stalls other users' ticks.
func (e *Engine) TickAll(now time.Time) {
	e.mu.Lock()
	var activated []string
	for userID, ep := range e.episodes {
		next, fired := Tick(ep, now)
		e.episodes[userID] = next
		if fired {
			activated = append(activated, userID)
		}
	}
	e.mu.Unlock()

	for _, userID := range activated {
		userID := userID
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.activate(userID)
		}()
	}
}

// activate runs the one-shot activation sequence: best-effort location,
// dispatch to everyone with a phone, history append, device broadcast.
// A cancel arriving mid-sequence does not suppress it.
func (e *Engine) activate(userID string) {
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

	dispatched, err := e.notifier.DispatchSOS(ctx, userID, recipients, emergencyMessage, locationURL)
	if err != nil {
		log.Printf("sos dispatch for %s failed: %v", userID, err)
	}

	e.mu.Lock()
	if ep, ok := e.episodes[userID]; ok && ep.State == StateActive {
		ep.Lat, ep.Lng = lat, lng
		ep.DispatchedTo = dispatched
		e.episodes[userID] = ep
	}
	e.mu.Unlock()

	if _, err := e.events.Append(ctx, history.Event{
		UserID: userID,
		Kind:   history.KindSOS,
		Lat:    lat,
		Lng:    lng,
	}); err != nil {
		log.Printf("history append for %s failed: %v", userID, err)
	}

	if e.devices != nil {
		payload, _ := json.Marshal(map[string]any{
			"type":          "sos",
			"state":         string(StateActive),
			"dispatched_to": dispatched,
			"location_url":  locationURL,
		})
		e.devices.Broadcast(userID, payload)
	}
}
