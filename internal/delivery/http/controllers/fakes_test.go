package controllers

import (
	"context"
	"io"
	"log/slog"

	"noshowblocklist/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeDispatcher struct {
	err  error
	last domain.WebhookEvent
	hits int
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event domain.WebhookEvent) error {
	f.hits++
	f.last = event
	return f.err
}

type fakeScanner struct {
	report *domain.ScanReport
	err    error
}

func (f *fakeScanner) Scan(_ context.Context) (*domain.ScanReport, error) {
	return f.report, f.err
}

type fakeJournal struct {
	decisions map[string][]*domain.Decision
	err       error
}

func (f *fakeJournal) Record(_ context.Context, d *domain.Decision) error {
	if f.decisions == nil {
		f.decisions = map[string][]*domain.Decision{}
	}
	f.decisions[d.EventSlug] = append(f.decisions[d.EventSlug], d)
	return f.err
}

func (f *fakeJournal) ListByEvent(_ context.Context, slug string) ([]*domain.Decision, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.decisions[slug]
	if out == nil {
		out = []*domain.Decision{}
	}
	return out, nil
}

type fakePinger struct{ err error }

func (f *fakePinger) PingContext(_ context.Context) error { return f.err }
