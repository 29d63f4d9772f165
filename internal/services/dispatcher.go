package services

import (
	"context"
	"log/slog"

	"noshowblocklist/internal/domain"
)

type webhookDispatcher struct {
	registrar domain.EventRegistrar
	gate      domain.ApprovalGate
	logger    *slog.Logger
}

// NewWebhookDispatcher returns a WebhookDispatcher routing to the registrar and the approval gate.
func NewWebhookDispatcher(registrar domain.EventRegistrar, gate domain.ApprovalGate, logger *slog.Logger) domain.WebhookDispatcher {
	return &webhookDispatcher{registrar: registrar, gate: gate, logger: logger}
}

func (d *webhookDispatcher) Dispatch(ctx context.Context, event domain.WebhookEvent) error {
	switch e := event.(type) {
	case domain.EventAdded:
		_, err := d.registrar.HandleEventCreated(ctx, e.EventSlug)
		return err
	case domain.ApprovalRequested:
		report, err := d.gate.HandleApprovalRequested(ctx, e.EventSlug)
		if report != nil {
			d.logger.InfoContext(ctx, "approval gate finished", "event", e.EventSlug,
				"approved", report.Approved, "denied", report.Denied, "failed", report.Failed)
		}
		return err
	case domain.Unrecognized:
		d.logger.InfoContext(ctx, "ignoring webhook", "action", e.Action)
		return nil
	default:
		d.logger.WarnContext(ctx, "unknown webhook event type")
		return nil
	}
}
