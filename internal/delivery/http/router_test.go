package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"noshowblocklist/internal/delivery/http/controllers"
	"noshowblocklist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubDispatcher struct{ calls int }

func (s *stubDispatcher) Dispatch(context.Context, domain.WebhookEvent) error {
	s.calls++
	return nil
}

type stubScanner struct{}

func (stubScanner) Scan(context.Context) (*domain.ScanReport, error) {
	return &domain.ScanReport{Checked: []string{}, Failed: []string{}}, nil
}

type stubJournal struct{}

func (stubJournal) Record(context.Context, *domain.Decision) error { return nil }
func (stubJournal) ListByEvent(context.Context, string) ([]*domain.Decision, error) {
	return []*domain.Decision{}, nil
}

type stubCredentials struct{}

func (stubCredentials) Check(user, pass string) error {
	if user == "pretix" && pass == "secret" {
		return nil
	}
	return domain.ErrUnauthorized
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token == "good" {
		return "ops", nil
	}
	return "", domain.ErrUnauthorized
}

func newTestRouter(dispatcher *stubDispatcher, operators domain.TokenVerifier) http.Handler {
	return NewRouter(RouterDeps{
		Logger:      testLogger,
		Webhooks:    controllers.NewWebhookController(testLogger, dispatcher),
		Jobs:        controllers.NewJobController(testLogger, stubScanner{}, stubJournal{}),
		Health:      controllers.NewHealthController(testLogger, nil),
		Credentials: stubCredentials{},
		Operators:   operators,
	})
}

func TestRouter(t *testing.T) {
	const payload = `{"event":"party","action":"pretix.event.added"}`

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		setup      func(r *http.Request)
		operators  domain.TokenVerifier
		wantStatus int
		wantCalls  int
	}{
		{
			name: "webhook with credentials", method: http.MethodPost, path: "/webhooks/pretix", body: payload,
			setup: func(r *http.Request) { r.SetBasicAuth("pretix", "secret") }, wantStatus: http.StatusOK, wantCalls: 1,
		},
		{
			name: "webhook without credentials", method: http.MethodPost, path: "/webhooks/pretix", body: payload,
			setup: func(r *http.Request) {}, wantStatus: http.StatusUnauthorized,
		},
		{
			name: "webhook wrong method", method: http.MethodGet, path: "/webhooks/pretix",
			setup: func(r *http.Request) { r.SetBasicAuth("pretix", "secret") }, wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name: "verify endpoint", method: http.MethodPost, path: "/webhooks/verify", body: `{}`,
			setup: func(r *http.Request) { r.SetBasicAuth("pretix", "secret") }, wantStatus: http.StatusOK,
		},
		{
			name: "scan with operator token", method: http.MethodPost, path: "/jobs/scan", operators: stubVerifier{},
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, wantStatus: http.StatusOK,
		},
		{
			name: "scan with bad token", method: http.MethodPost, path: "/jobs/scan", operators: stubVerifier{},
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") }, wantStatus: http.StatusUnauthorized,
		},
		{
			name: "scan disabled without operator secret", method: http.MethodPost, path: "/jobs/scan",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, wantStatus: http.StatusNotFound,
		},
		{
			name: "health", method: http.MethodGet, path: "/health",
			setup: func(r *http.Request) {}, wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &stubDispatcher{}
			router := newTestRouter(dispatcher, tt.operators)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			tt.setup(req)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalls, dispatcher.calls)
		})
	}
}
