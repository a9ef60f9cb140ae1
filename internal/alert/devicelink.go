package alert

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"backend-safeher/internal/stream"
)

// StreamLinkPusher is the last-resort channel: it pushes a ready-made
// sms: link to the user's connected devices so the device itself can
// fire the share intent.
type StreamLinkPusher struct {
	hub *stream.Hub
}

func NewStreamLinkPusher(hub *stream.Hub) *StreamLinkPusher {
	if hub == nil {
		return nil
	}
	return &StreamLinkPusher{hub: hub}
}

type linkEvent struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	LinkURL string `json:"link_url"`
	Body    string `json:"body"`
}

func (p *StreamLinkPusher) Push(_ context.Context, userID string, recipient Recipient, body string) error {
	if p.hub.ConnectedDevices(userID) == 0 {
		return errors.New("no connected devices")
	}

	payload, err := json.Marshal(linkEvent{
		Type:    "device-link",
		Name:    recipient.Name,
		Phone:   recipient.Phone,
		LinkURL: "sms:" + recipient.Phone + "?body=" + url.QueryEscape(body),
		Body:    body,
	})
	if err != nil {
		return err
	}

	p.hub.Broadcast(userID, payload)
	return nil
}
