package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"noshowblocklist/internal/domain"
)

const statusPaid = "p"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

var errUpstream = fmt.Errorf("%w: boom", domain.ErrUpstream)

// fakeRegistry is an in-memory RegistryRepository whose data rows start at row 7.
type fakeRegistry struct {
	rows       []domain.RegistryRow
	listErr    error
	appendErr  error
	markErr    error
	marked     []int
	appended   []domain.RegistryRow
	slugsCalls int
}

func (f *fakeRegistry) List(context.Context) ([]domain.RegistryRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.RegistryRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRegistry) Slugs(context.Context) ([]string, error) {
	f.slugsCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	slugs := []string{"Slug"}
	for _, r := range f.rows {
		slugs = append(slugs, r.Slug)
	}
	return slugs, nil
}

func (f *fakeRegistry) Append(_ context.Context, row domain.RegistryRow) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	row.RowNumber = 7 + len(f.rows)
	f.rows = append(f.rows, row)
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeRegistry) MarkChecked(_ context.Context, rowNumber int) error {
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.rows {
		if f.rows[i].RowNumber == rowNumber {
			f.rows[i].Checked = domain.CheckedYes
			f.marked = append(f.marked, rowNumber)
			return nil
		}
	}
	return errors.New("row not found")
}

func (f *fakeRegistry) checked(slug string) string {
	for _, r := range f.rows {
		if r.Slug == slug {
			return r.Checked
		}
	}
	return ""
}

// fakeBlocklist is an in-memory BlocklistRepository whose data rows start at row 5.
type fakeBlocklist struct {
	rows     []domain.BlocklistRow
	capacity int
	loadErr  error
	writeErr error
	writes   int
}

func (f *fakeBlocklist) Load(context.Context) (*domain.BlocklistSheet, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	sheet := &domain.BlocklistSheet{Capacity: f.capacity}
	for _, r := range f.rows {
		c := r
		c.Slots = append([]domain.MissedEvent(nil), r.Slots...)
		sheet.Rows = append(sheet.Rows, c)
	}
	return sheet, nil
}

func (f *fakeBlocklist) Append(_ context.Context, row domain.BlocklistRow) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	row.RowNumber = 5 + len(f.rows)
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeBlocklist) WriteSlot(_ context.Context, rowNumber, slot int, missed domain.MissedEvent) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	for i := range f.rows {
		if f.rows[i].RowNumber != rowNumber {
			continue
		}
		for len(f.rows[i].Slots) <= slot {
			f.rows[i].Slots = append(f.rows[i].Slots, domain.MissedEvent{})
		}
		f.rows[i].Slots[slot] = missed
		return nil
	}
	return errors.New("row not found")
}

func (f *fakeBlocklist) row(email string) (domain.BlocklistRow, bool) {
	for _, r := range f.rows {
		if r.NormalizedEmail() == domain.NormalizeEmail(email) {
			return r, true
		}
	}
	return domain.BlocklistRow{}, false
}

func (f *fakeBlocklist) add(email string, slugs ...string) {
	row := domain.BlocklistRow{RowNumber: 5 + len(f.rows), Email: email}
	for _, s := range slugs {
		row.Slots = append(row.Slots, domain.MissedEvent{Slug: s, Name: s, Date: "2026-01-01", FlaggedOn: "2026-01-02"})
	}
	f.rows = append(f.rows, row)
}

type orderAction struct {
	action string
	event  string
	code   string
}

// fakeTicketing serves events, items and pages of orders from memory.
type fakeTicketing struct {
	events      map[string]*domain.TicketEvent
	items       map[string][]domain.Item
	orders      map[string][][]domain.Order
	itemsErr    error
	eventErr    map[string]error
	pageErr     map[string]int
	actionErr   error
	actionCode  int
	actions     []orderAction
	walkStatus  []string
	walkedPages int
}

func newFakeTicketing() *fakeTicketing {
	return &fakeTicketing{
		events:     make(map[string]*domain.TicketEvent),
		items:      make(map[string][]domain.Item),
		orders:     make(map[string][][]domain.Order),
		eventErr:   make(map[string]error),
		pageErr:    make(map[string]int),
		actionCode: 200,
	}
}

func (f *fakeTicketing) ListItems(_ context.Context, slug string) ([]domain.Item, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items[slug], nil
}

func (f *fakeTicketing) GetEvent(_ context.Context, slug string) (*domain.TicketEvent, error) {
	if err := f.eventErr[slug]; err != nil {
		return nil, err
	}
	ev, ok := f.events[slug]
	if !ok {
		return nil, errUpstream
	}
	return ev, nil
}

func (f *fakeTicketing) WalkOrders(_ context.Context, slug, status string, fn func(domain.Order) error) error {
	f.walkStatus = append(f.walkStatus, status)
	for i, p := range f.orders[slug] {
		if failAt, ok := f.pageErr[slug]; ok && failAt == i {
			return errUpstream
		}
		f.walkedPages++
		for _, o := range p {
			if status != "" && o.Status != status {
				continue
			}
			if err := fn(o); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeTicketing) ApproveOrder(_ context.Context, slug, code string) (int, error) {
	f.actions = append(f.actions, orderAction{"approve", slug, code})
	return f.actionCode, f.actionErr
}

func (f *fakeTicketing) DenyOrder(_ context.Context, slug, code string) (int, error) {
	f.actions = append(f.actions, orderAction{"deny", slug, code})
	return f.actionCode, f.actionErr
}

type fakeJournal struct {
	decisions []*domain.Decision
	err       error
}

func (f *fakeJournal) Record(_ context.Context, d *domain.Decision) error {
	f.decisions = append(f.decisions, d)
	return f.err
}

func (f *fakeJournal) ListByEvent(_ context.Context, slug string) ([]*domain.Decision, error) {
	var out []*domain.Decision
	for _, d := range f.decisions {
		if d.EventSlug == slug {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeNotifications struct {
	sent []*domain.DenialNoticeEmailData
	err  error
}

func (f *fakeNotifications) SendDenialNotice(_ context.Context, data *domain.DenialNoticeEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

func noShowOrder(code, email, first, last string) domain.Order {
	return domain.Order{
		Code:   code,
		Status: statusPaid,
		Email:  email,
		Positions: []domain.OrderPosition{{
			Checkins: []domain.Checkin{},
			Answers: []domain.Answer{
				{QuestionIdentifier: "RFRGMYPK", Answer: first},
				{QuestionIdentifier: "ZRV87CSB", Answer: last},
			},
		}},
	}
}

func attendedOrder(code, email string) domain.Order {
	return domain.Order{
		Code:      code,
		Status:    statusPaid,
		Email:     email,
		Positions: []domain.OrderPosition{{Checkins: []domain.Checkin{{ID: 1}}}},
	}
}

func pendingOrder(code, email string) domain.Order {
	return domain.Order{Code: code, Status: domain.OrderStatusPending, Email: email}
}

var testQuestions = QuestionIDs{FirstName: "RFRGMYPK", LastName: "ZRV87CSB"}
