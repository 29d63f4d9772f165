package domain

import (
	"fmt"
	"strings"
)

// Webhook actions handled by the service.
const (
	ActionEventAdded        = "pretix.event.added"
	ActionApprovalRequested = "pretix.event.order.placed.require_approval"
)

// WebhookPayload is the JSON body the ticketing platform posts.
type WebhookPayload struct {
	NotificationID int64  `json:"notification_id"`
	Organizer      string `json:"organizer"`
	Event          string `json:"event"`
	Code           string `json:"code,omitempty"`
	Action         string `json:"action"`
}

// WebhookEvent is one of EventAdded, ApprovalRequested or Unrecognized.
type WebhookEvent interface {
	webhookEvent()
}

// EventAdded is sent when an event is created.
type EventAdded struct {
	Organizer string
	EventSlug string
}

// ApprovalRequested is sent when an order that needs approval is placed.
type ApprovalRequested struct {
	Organizer string
	EventSlug string
	OrderCode string
}

// Unrecognized carries any other action.
type Unrecognized struct {
	Action string
}

func (EventAdded) webhookEvent()        {}
func (ApprovalRequested) webhookEvent() {}
func (Unrecognized) webhookEvent()      {}

// Validate implements the HTTP layer's request validation. Known actions need an event slug.
func (p WebhookPayload) Validate() []string {
	switch p.Action {
	case ActionEventAdded, ActionApprovalRequested:
		if strings.TrimSpace(p.Event) == "" {
			return []string{p.Action + " requires event"}
		}
	}
	return nil
}

// ParseWebhook turns a payload into its WebhookEvent.
func ParseWebhook(p WebhookPayload) (WebhookEvent, error) {
	if errs := p.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	slug := strings.TrimSpace(p.Event)
	switch p.Action {
	case ActionEventAdded:
		return EventAdded{Organizer: p.Organizer, EventSlug: slug}, nil
	case ActionApprovalRequested:
		return ApprovalRequested{Organizer: p.Organizer, EventSlug: slug, OrderCode: p.Code}, nil
	default:
		return Unrecognized{Action: p.Action}, nil
	}
}
