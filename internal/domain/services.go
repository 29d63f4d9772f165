package domain

import "context"

// GateReport summarizes one approval gate run.
type GateReport struct {
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
	Failed   int `json:"failed"`
}

// EventRegistrar records free events in the registry.
type EventRegistrar interface {
	// HandleEventCreated reports whether a new registry row was written.
	HandleEventCreated(ctx context.Context, eventSlug string) (bool, error)
}

// NoShowScanner reconciles ended events into the blocklist.
type NoShowScanner interface {
	Scan(ctx context.Context) (*ScanReport, error)
}

// ApprovalGate approves or denies pending orders by blocklist membership.
type ApprovalGate interface {
	HandleApprovalRequested(ctx context.Context, eventSlug string) (*GateReport, error)
}

// WebhookDispatcher routes a parsed webhook to its handler.
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, event WebhookEvent) error
}
