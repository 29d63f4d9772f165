package services

import (
	"context"
	"fmt"
	"log/slog"

	"noshowblocklist/internal/clock"
	"noshowblocklist/internal/domain"
)

type approvalGate struct {
	blocklist     domain.BlocklistRepository
	ticketing     domain.TicketingGateway
	journal       domain.DecisionJournal
	notifications domain.NotificationService
	locker        domain.RunLocker
	clock         clock.Clock
	questions     QuestionIDs
	logger        *slog.Logger
}

// ApprovalGateDeps groups the collaborators of the approval gate.
type ApprovalGateDeps struct {
	Blocklist     domain.BlocklistRepository
	Ticketing     domain.TicketingGateway
	Journal       domain.DecisionJournal
	Notifications domain.NotificationService
	Locker        domain.RunLocker
	Clock         clock.Clock
	Questions     QuestionIDs
	Logger        *slog.Logger
}

// NewApprovalGate returns an ApprovalGate.
func NewApprovalGate(deps ApprovalGateDeps) domain.ApprovalGate {
	return &approvalGate{
		blocklist:     deps.Blocklist,
		ticketing:     deps.Ticketing,
		journal:       deps.Journal,
		notifications: deps.Notifications,
		locker:        deps.Locker,
		clock:         deps.Clock,
		questions:     deps.Questions,
		logger:        deps.Logger,
	}
}

// HandleApprovalRequested decides every pending order of the event. Approve and
// deny calls are not retried; a pagination failure aborts the run.
func (g *approvalGate) HandleApprovalRequested(ctx context.Context, eventSlug string) (*domain.GateReport, error) {
	release, err := g.locker.Acquire(ctx, domain.LockSheets)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sheets lock: %w", err)
	}
	defer release()

	blocked, err := g.loadBlocklist(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.GateReport{}
	err = g.ticketing.WalkOrders(ctx, eventSlug, domain.OrderStatusPending, func(o domain.Order) error {
		if o.IsCancelled() {
			return nil
		}
		g.decide(ctx, eventSlug, o, blocked, report)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to walk pending orders for %s: %w", eventSlug, err)
	}
	return report, nil
}

func (g *approvalGate) loadBlocklist(ctx context.Context) (map[string]struct{}, error) {
	sheet, err := g.blocklist.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocklist: %w", err)
	}
	blocked := sheet.BlockedEmails()
	g.logger.InfoContext(ctx, "blocklist loaded", "blocked", len(blocked), "threshold", domain.BlockThreshold)
	return blocked, nil
}

func (g *approvalGate) decide(ctx context.Context, eventSlug string, o domain.Order, blocked map[string]struct{}, report *domain.GateReport) {
	email := domain.NormalizeEmail(o.Email)
	d := &domain.Decision{EventSlug: eventSlug, OrderCode: o.Code, Email: email}

	var err error
	if _, ok := blocked[email]; ok && email != "" {
		d.Outcome = domain.DecisionDeny
		g.logger.InfoContext(ctx, "denying blocklisted order", "email", email, "order", o.Code)
		d.StatusCode, err = g.ticketing.DenyOrder(ctx, eventSlug, o.Code)
	} else {
		d.Outcome = domain.DecisionApprove
		g.logger.InfoContext(ctx, "approving order", "email", email, "order", o.Code)
		d.StatusCode, err = g.ticketing.ApproveOrder(ctx, eventSlug, o.Code)
	}
	d.DecidedAt = g.clock.Now()

	switch {
	case err != nil:
		report.Failed++
		g.logger.ErrorContext(ctx, "order action failed", "outcome", d.Outcome, "order", o.Code, "err", err)
	case d.Outcome == domain.DecisionDeny:
		report.Denied++
	default:
		report.Approved++
	}

	if err := g.journal.Record(ctx, d); err != nil {
		g.logger.WarnContext(ctx, "failed to record decision", "order", o.Code, "err", err)
	}

	if d.Outcome == domain.DecisionDeny && err == nil && email != "" {
		first, _ := o.AttendeeName(g.questions.FirstName, g.questions.LastName)
		notice := &domain.DenialNoticeEmailData{Email: email, FirstName: first, EventSlug: eventSlug, OrderCode: o.Code}
		if err := g.notifications.SendDenialNotice(ctx, notice); err != nil {
			g.logger.WarnContext(ctx, "failed to send denial notice", "order", o.Code, "err", err)
		}
	}
}
