package services

import (
	"context"

	"noshowblocklist/internal/domain"
)

type discardJournal struct{}

// NewDiscardJournal returns a DecisionJournal that keeps nothing. Used when no database is configured.
func NewDiscardJournal() domain.DecisionJournal {
	return discardJournal{}
}

func (discardJournal) Record(context.Context, *domain.Decision) error { return nil }

func (discardJournal) ListByEvent(context.Context, string) ([]*domain.Decision, error) {
	return []*domain.Decision{}, nil
}
