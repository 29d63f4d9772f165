package services

import (
	"context"
	"fmt"
	"log/slog"

	"noshowblocklist/internal/clock"
	"noshowblocklist/internal/domain"
)

// QuestionIDs names the order questions holding attendee first and last name.
type QuestionIDs struct {
	FirstName string
	LastName  string
}

type noShowScanner struct {
	registry  domain.RegistryRepository
	blocklist domain.BlocklistRepository
	ticketing domain.TicketingGateway
	locker    domain.RunLocker
	clock     clock.Clock
	questions QuestionIDs
	logger    *slog.Logger
}

// NewNoShowScanner returns a NoShowScanner.
func NewNoShowScanner(
	registry domain.RegistryRepository,
	blocklist domain.BlocklistRepository,
	ticketing domain.TicketingGateway,
	locker domain.RunLocker,
	clk clock.Clock,
	questions QuestionIDs,
	logger *slog.Logger,
) domain.NoShowScanner {
	return &noShowScanner{
		registry:  registry,
		blocklist: blocklist,
		ticketing: ticketing,
		locker:    locker,
		clock:     clk,
		questions: questions,
		logger:    logger,
	}
}

// Scan processes every unchecked registry row whose event has ended. A row is
// marked checked only after its no-shows were written to the blocklist.
func (s *noShowScanner) Scan(ctx context.Context) (*domain.ScanReport, error) {
	release, err := s.locker.Acquire(ctx, domain.LockSheets)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sheets lock: %w", err)
	}
	defer release()

	report := &domain.ScanReport{Checked: []string{}, Failed: []string{}}

	rows, err := s.registry.List(ctx)
	if err != nil {
		return report, err
	}
	if len(rows) == 0 {
		s.logger.InfoContext(ctx, "no registry rows found")
		return report, nil
	}

	now := s.clock.Now()
	for _, row := range rows {
		if row.Slug == "" || !row.Unchecked() {
			continue
		}
		end, err := domain.ParseEventTime(row.End)
		if err != nil {
			s.logger.WarnContext(ctx, "invalid end date", "event", row.Slug, "end", row.End)
			report.Failed = append(report.Failed, row.Slug)
			continue
		}
		if end.After(now) {
			s.logger.DebugContext(ctx, "event has not ended yet", "event", row.Slug, "end", row.End)
			continue
		}

		s.logger.InfoContext(ctx, "processing ended event", "event", row.Slug)
		event, err := s.ticketing.GetEvent(ctx, row.Slug)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to fetch event", "event", row.Slug, "err", err)
			report.Failed = append(report.Failed, row.Slug)
			continue
		}

		noShows, err := s.collectNoShows(ctx, row.Slug)
		if err != nil {
			return report, fmt.Errorf("collect no-shows for %s: %w", row.Slug, err)
		}
		report.NoShows += noShows.Len()

		if noShows.Len() == 0 {
			s.logger.InfoContext(ctx, "no no-shows", "event", row.Slug)
		} else if err := s.reconcile(ctx, row.Slug, event, noShows, report); err != nil {
			return report, fmt.Errorf("reconcile blocklist for %s: %w", row.Slug, err)
		}

		if err := s.registry.MarkChecked(ctx, row.RowNumber); err != nil {
			return report, err
		}
		report.Checked = append(report.Checked, row.Slug)
		s.logger.InfoContext(ctx, "marked event as checked", "event", row.Slug)
	}
	return report, nil
}

func (s *noShowScanner) collectNoShows(ctx context.Context, eventSlug string) (*domain.NoShows, error) {
	noShows := domain.NewNoShows()
	err := s.ticketing.WalkOrders(ctx, eventSlug, "", func(o domain.Order) error {
		if !o.IsNoShow() {
			return nil
		}
		first, last := o.AttendeeName(s.questions.FirstName, s.questions.LastName)
		noShows.Add(domain.Attendee{Email: o.Email, FirstName: first, LastName: last})
		s.logger.DebugContext(ctx, "missed event", "email", o.Email, "event", eventSlug)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return noShows, nil
}

// reconcile appends a row for unseen emails and fills the next free slot of
// known ones. An email already carrying this event is left alone so a rerun
// after a partial failure does not count the same miss twice.
func (s *noShowScanner) reconcile(ctx context.Context, eventSlug string, event *domain.TicketEvent, noShows *domain.NoShows, report *domain.ScanReport) error {
	sheet, err := s.blocklist.Load(ctx)
	if err != nil {
		return err
	}

	missed := domain.MissedEvent{
		Slug:      eventSlug,
		Name:      event.DisplayName("en"),
		Date:      event.Date(),
		FlaggedOn: s.clock.Now().UTC().Format("2006-01-02"),
	}

	for _, a := range noShows.All() {
		idx, found := sheet.Find(a.Email)
		if !found {
			row := domain.NewBlocklistRow(a.Email, a.FirstName, a.LastName, missed)
			if err := s.blocklist.Append(ctx, row); err != nil {
				return err
			}
			sheet.Rows = append(sheet.Rows, row)
			report.Listed++
			s.logger.InfoContext(ctx, "added new no-show", "email", a.Email, "event", eventSlug)
			continue
		}

		row := &sheet.Rows[idx]
		if hasMissed(*row, eventSlug) {
			s.logger.InfoContext(ctx, "no-show already recorded", "email", a.Email, "event", eventSlug)
			continue
		}
		slot, ok := domain.FindFreeSlot(*row, sheet.Capacity)
		if !ok {
			s.logger.WarnContext(ctx, "no free slot", "email", a.Email, "event", eventSlug, "capacity", sheet.Capacity)
			report.Dropped++
			continue
		}
		if err := s.blocklist.WriteSlot(ctx, row.RowNumber, slot, missed); err != nil {
			return err
		}
		for len(row.Slots) <= slot {
			row.Slots = append(row.Slots, domain.MissedEvent{})
		}
		row.Slots[slot] = missed
		report.Extended++
		s.logger.InfoContext(ctx, "updated no-show record", "email", a.Email, "event", eventSlug, "slot", slot, "missed", row.MissedCount())
	}
	return nil
}

func hasMissed(row domain.BlocklistRow, eventSlug string) bool {
	for _, m := range row.Slots {
		if m.Slug == eventSlug {
			return true
		}
	}
	return false
}
