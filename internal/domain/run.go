package domain

import (
	"context"
	"time"
)

// LockSheets is the lock key shared by every run that touches the sheets.
const LockSheets = "sheets"

// RunLocker serializes runs that read and write the shared sheets.
type RunLocker interface {
	// Acquire blocks until the lock for key is held or ctx is done.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Approval gate outcomes.
const (
	DecisionApprove = "approve"
	DecisionDeny    = "deny"
)

// Decision is one approve or deny call made by the approval gate.
type Decision struct {
	EventSlug  string    `json:"event_slug"`
	OrderCode  string    `json:"order_code"`
	Email      string    `json:"email"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code"`
	DecidedAt  time.Time `json:"decided_at"`
}

// DecisionJournal records approval gate decisions.
type DecisionJournal interface {
	Record(ctx context.Context, d *Decision) error
	ListByEvent(ctx context.Context, eventSlug string) ([]*Decision, error)
}

// ScanReport summarizes one no-show scan.
type ScanReport struct {
	Checked  []string `json:"checked"`
	Failed   []string `json:"failed"`
	NoShows  int      `json:"no_shows"`
	Listed   int      `json:"listed"`
	Extended int      `json:"extended"`
	Dropped  int      `json:"dropped"`
}

// TokenIssuer issues operator tokens.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier validates an operator token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// CredentialChecker validates webhook basic-auth credentials.
type CredentialChecker interface {
	Check(username, password string) error
}
