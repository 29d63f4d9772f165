// Package scheduler fires a job once a day at a fixed UTC time of day.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"noshowblocklist/internal/clock"
)

// TimeOfDay is an hour and minute in UTC.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("scheduler: expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("scheduler: invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("scheduler: invalid minute in %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Next returns the earliest time strictly after t at this time of day, in UTC.
func (t TimeOfDay) Next(after time.Time) time.Time {
	after = after.UTC()
	next := time.Date(after.Year(), after.Month(), after.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Job is the work run on every tick. Errors are logged; the schedule continues.
type Job func(ctx context.Context) error

// Daily runs a Job once a day until its context is cancelled.
type Daily struct {
	name   string
	at     TimeOfDay
	job    Job
	clock  clock.Clock
	logger *slog.Logger
	after  func(time.Duration) <-chan time.Time
}

// NewDaily returns a Daily that runs job at the given UTC time of day.
func NewDaily(name string, at TimeOfDay, job Job, clk clock.Clock, logger *slog.Logger) *Daily {
	return &Daily{
		name:   name,
		at:     at,
		job:    job,
		clock:  clk,
		logger: logger,
		after:  time.After,
	}
}

// Run blocks until ctx is done, firing the job at each scheduled time.
// Runs never overlap: the next wait starts after the previous job returns.
func (d *Daily) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := d.clock.Now()
		next := d.at.Next(now)
		d.logger.InfoContext(ctx, "next scheduled run", "job", d.name, "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.after(next.Sub(now)):
		}

		start := time.Now()
		if err := d.job(ctx); err != nil {
			d.logger.ErrorContext(ctx, "scheduled run failed", "job", d.name, "err", err)
			continue
		}
		d.logger.InfoContext(ctx, "scheduled run finished", "job", d.name, "duration_ms", time.Since(start).Milliseconds())
	}
}
