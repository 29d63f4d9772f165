package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noshowblocklist/internal/clock"
	"noshowblocklist/internal/domain"
)

type gateFixture struct {
	blocklist     *fakeBlocklist
	ticketing     *fakeTicketing
	journal       *fakeJournal
	notifications *fakeNotifications
	gate          domain.ApprovalGate
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		blocklist:     &fakeBlocklist{capacity: 5},
		ticketing:     newFakeTicketing(),
		journal:       &fakeJournal{},
		notifications: &fakeNotifications{},
	}
	f.gate = NewApprovalGate(ApprovalGateDeps{
		Blocklist:     f.blocklist,
		Ticketing:     f.ticketing,
		Journal:       f.journal,
		Notifications: f.notifications,
		Locker:        NewLocalLocker(),
		Clock:         clock.NewFixed(scanNow),
		Questions:     testQuestions,
		Logger:        testLogger(),
	})
	return f
}

func TestApprovalGate_ApprovesNonBlocklisted(t *testing.T) {
	f := newGateFixture()
	f.ticketing.orders["E1"] = [][]domain.Order{{pendingOrder("ABC12", "carol@x.com")}}

	report, err := f.gate.HandleApprovalRequested(context.Background(), "E1")
	require.NoError(t, err)

	assert.Equal(t, []orderAction{{"approve", "E1", "ABC12"}}, f.ticketing.actions)
	assert.Equal(t, &domain.GateReport{Approved: 1}, report)
	assert.Equal(t, []string{domain.OrderStatusPending}, f.ticketing.walkStatus)
	require.Len(t, f.journal.decisions, 1)
	assert.Equal(t, domain.DecisionApprove, f.journal.decisions[0].Outcome)
	assert.Equal(t, 200, f.journal.decisions[0].StatusCode)
	assert.Equal(t, scanNow, f.journal.decisions[0].DecidedAt)
	assert.Empty(t, f.notifications.sent)
}

func TestApprovalGate_ThresholdDecidesOutcome(t *testing.T) {
	f := newGateFixture()
	f.blocklist.add("zero@x.com")
	f.blocklist.add("once@x.com", "E0")
	f.blocklist.add("Twice@X.com", "E0", "E1")
	f.blocklist.add("thrice@x.com", "E0", "E1", "E2")
	f.ticketing.orders["E3"] = [][]domain.Order{
		{pendingOrder("Z", "zero@x.com"), pendingOrder("O", "once@x.com")},
		{pendingOrder("T", " twice@x.com "), pendingOrder("H", "THRICE@x.com")},
	}

	report, err := f.gate.HandleApprovalRequested(context.Background(), "E3")
	require.NoError(t, err)

	assert.Equal(t, []orderAction{
		{"approve", "E3", "Z"},
		{"approve", "E3", "O"},
		{"deny", "E3", "T"},
		{"deny", "E3", "H"},
	}, f.ticketing.actions)
	assert.Equal(t, 2, report.Approved)
	assert.Equal(t, 2, report.Denied)
	require.Len(t, f.notifications.sent, 2)
	assert.Equal(t, "twice@x.com", f.notifications.sent[0].Email)
	assert.Equal(t, "T", f.notifications.sent[0].OrderCode)
}

func TestApprovalGate_SkipsCancelledAndApprovesEmptyEmail(t *testing.T) {
	f := newGateFixture()
	f.blocklist.add("twice@x.com", "E0", "E1")
	f.ticketing.orders["E1"] = [][]domain.Order{{
		{Code: "C", Status: domain.OrderStatusPending, Email: ""},
	}}

	_, err := f.gate.HandleApprovalRequested(context.Background(), "E1")
	require.NoError(t, err)
	assert.Equal(t, []orderAction{{"approve", "E1", "C"}}, f.ticketing.actions)
}

func TestApprovalGate_ActionFailureIsNotRetried(t *testing.T) {
	f := newGateFixture()
	f.ticketing.actionErr = errUpstream
	f.ticketing.actionCode = 0
	f.ticketing.orders["E1"] = [][]domain.Order{{pendingOrder("A", "a@x.com"), pendingOrder("B", "b@x.com")}}

	report, err := f.gate.HandleApprovalRequested(context.Background(), "E1")
	require.NoError(t, err)
	assert.Len(t, f.ticketing.actions, 2)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 0, report.Approved)
}

func TestApprovalGate_PaginationFailureAborts(t *testing.T) {
	f := newGateFixture()
	f.ticketing.orders["E1"] = [][]domain.Order{{pendingOrder("A", "a@x.com")}, {pendingOrder("B", "b@x.com")}}
	f.ticketing.pageErr["E1"] = 1

	report, err := f.gate.HandleApprovalRequested(context.Background(), "E1")
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, 1, report.Approved)
	assert.Equal(t, []orderAction{{"approve", "E1", "A"}}, f.ticketing.actions)
}

func TestApprovalGate_BlocklistLoadFailure(t *testing.T) {
	f := newGateFixture()
	f.blocklist.loadErr = errUpstream
	f.ticketing.orders["E1"] = [][]domain.Order{{pendingOrder("A", "a@x.com")}}

	_, err := f.gate.HandleApprovalRequested(context.Background(), "E1")
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Empty(t, f.ticketing.actions)
}

func TestApprovalGate_JournalAndMailFailuresDoNotAbort(t *testing.T) {
	f := newGateFixture()
	f.journal.err = errors.New("db down")
	f.notifications.err = errors.New("smtp down")
	f.blocklist.add("twice@x.com", "E0", "E1")
	f.ticketing.orders["E1"] = [][]domain.Order{{pendingOrder("A", "twice@x.com"), pendingOrder("B", "b@x.com")}}

	report, err := f.gate.HandleApprovalRequested(context.Background(), "E1")
	require.NoError(t, err)
	assert.Equal(t, &domain.GateReport{Approved: 1, Denied: 1}, report)
}
