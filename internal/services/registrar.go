package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"noshowblocklist/internal/domain"
)

type eventRegistrar struct {
	registry  domain.RegistryRepository
	ticketing domain.TicketingGateway
	locker    domain.RunLocker
	logger    *slog.Logger
}

// NewEventRegistrar returns an EventRegistrar.
func NewEventRegistrar(registry domain.RegistryRepository, ticketing domain.TicketingGateway, locker domain.RunLocker, logger *slog.Logger) domain.EventRegistrar {
	return &eventRegistrar{registry: registry, ticketing: ticketing, locker: locker, logger: logger}
}

func (r *eventRegistrar) HandleEventCreated(ctx context.Context, eventSlug string) (bool, error) {
	if !r.isFree(ctx, eventSlug) {
		r.logger.InfoContext(ctx, "event is not free, skipping", "event", eventSlug)
		return false, nil
	}

	event, err := r.ticketing.GetEvent(ctx, eventSlug)
	if err != nil {
		return false, fmt.Errorf("failed to fetch event %s: %w", eventSlug, err)
	}

	end, err := event.EndTime()
	if err != nil {
		r.logger.WarnContext(ctx, "invalid event dates, skipping", "event", event.Slug, "date_from", event.DateFrom, "err", err)
		return false, nil
	}

	release, err := r.locker.Acquire(ctx, domain.LockSheets)
	if err != nil {
		return false, fmt.Errorf("failed to acquire sheets lock: %w", err)
	}
	defer release()

	slugs, err := r.registry.Slugs(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range slugs {
		if strings.TrimSpace(s) == event.Slug {
			r.logger.InfoContext(ctx, "slug already registered", "event", event.Slug)
			return false, nil
		}
	}

	row := domain.RegistryRow{
		Slug:    event.Slug,
		Name:    event.DisplayName("en", "de"),
		Start:   event.DateFrom,
		End:     end,
		Checked: domain.CheckedNo,
	}
	if err := r.registry.Append(ctx, row); err != nil {
		return false, err
	}
	r.logger.InfoContext(ctx, "registered free event", "event", event.Slug, "end", end)
	return true, nil
}

// isFree treats a failed item lookup as a paid event.
func (r *eventRegistrar) isFree(ctx context.Context, eventSlug string) bool {
	items, err := r.ticketing.ListItems(ctx, eventSlug)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to fetch items", "event", eventSlug, "err", err)
		return false
	}
	return domain.IsFreeEvent(items)
}
