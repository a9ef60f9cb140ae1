package alert

import (
	"context"
	"errors"
	"log"
)

// Recipient is the dispatch view of a trusted contact. Phone and Email
// may each be empty; channel selection filters on what is present.
type Recipient struct {
	UserID string
	Name   string
	Phone  string
	Email  string
}

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type SMSSender interface {
	SendBulk(ctx context.Context, to []string, body string) error
}

type LinkPusher interface {
	Push(ctx context.Context, userID string, recipient Recipient, body string) error
}

// ErrAllChannelsFailed is the single error surfaced when every delivery
// channel has been exhausted. There are no retries behind it.
var ErrAllChannelsFailed = errors.New("could not send alerts")

// Dispatcher fans an alert out over an ordered set of best-effort
// channels. No channel reports delivery confirmation; a channel
// "succeeding" only means the handoff did not error.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
	links LinkPusher
}

func NewDispatcher(email EmailSender, sms SMSSender, links LinkPusher) *Dispatcher {
	return &Dispatcher{email: email, sms: sms, links: links}
}

// DispatchCheckIn sends a missed check-in alert: email first, then bulk
// SMS, then per-recipient device links.
func (d *Dispatcher) DispatchCheckIn(ctx context.Context, userID string, recipients []Recipient, message, locationURL string) error {
	body := withLocation(message, locationURL)

	if emails := emailsOf(recipients); d.email != nil && len(emails) > 0 {
		if err := d.email.Send(ctx, emails, "SafeHer Check-In Missed", body); err == nil {
			return nil
		} else {
			log.Printf("email channel failed: %v", err)
		}
	}

	return d.dispatchToPhones(ctx, userID, recipients, body)
}

// DispatchSOS sends an emergency alert to every recipient with a phone
// number and reports how many were targeted. Zero phone recipients is a
// no-op, not an error.
func (d *Dispatcher) DispatchSOS(ctx context.Context, userID string, recipients []Recipient, message, locationURL string) (int, error) {
	phones := phonesOf(recipients)
	if len(phones) == 0 {
		return 0, nil
	}

	body := withLocation(message, locationURL)
	if err := d.dispatchToPhones(ctx, userID, recipients, body); err != nil {
		return len(phones), err
	}
	return len(phones), nil
}

func (d *Dispatcher) dispatchToPhones(ctx context.Context, userID string, recipients []Recipient, body string) error {
	phones := phonesOf(recipients)
	if len(phones) == 0 {
		return ErrAllChannelsFailed
	}

	if d.sms != nil {
		if err := d.sms.SendBulk(ctx, phones, body); err == nil {
			return nil
		} else {
			log.Printf("sms channel failed: %v", err)
		}
	}

	if d.links == nil {
		return ErrAllChannelsFailed
	}

	delivered := false
	for _, r := range recipients {
		if r.Phone == "" {
			continue
		}
		if err := d.links.Push(ctx, userID, r, body); err != nil {
			log.Printf("device-link push to %s failed: %v", r.Phone, err)
			continue
		}
		delivered = true
	}
	if !delivered {
		return ErrAllChannelsFailed
	}
	return nil
}

func withLocation(message, locationURL string) string {
	if locationURL == "" {
		return message
	}
	return message + "\nLocation: " + locationURL
}

func emailsOf(recipients []Recipient) []string {
	var out []string
	for _, r := range recipients {
		if r.Email != "" {
			out = append(out, r.Email)
		}
	}
	return out
}

func phonesOf(recipients []Recipient) []string {
	var out []string
	for _, r := range recipients {
		if r.Phone != "" {
			out = append(out, r.Phone)
		}
	}
	return out
}
