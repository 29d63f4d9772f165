package pretix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noshowblocklist/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (domain.TicketingGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.Client(), Config{BaseURL: srv.URL + "/api/v1/", Token: "secret", Organizer: "esnhamburg"}, testLogger())
	return c, srv
}

func TestClient_GetEvent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/organizers/esnhamburg/events/harbour-tour/", r.URL.Path)
		require.Equal(t, "Token secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"slug":"harbour-tour","name":{"en":"Harbour Tour"},"date_from":"2026-10-01T18:00:00Z","date_to":null}`))
	})

	ev, err := c.GetEvent(context.Background(), "harbour-tour")
	require.NoError(t, err)
	assert.Equal(t, "harbour-tour", ev.Slug)
	assert.Equal(t, "Harbour Tour", ev.DisplayName("en"))
	assert.Nil(t, ev.DateTo)
}

func TestClient_GetEvent_Non200(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetEvent(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestClient_WalkOrders_FollowsNextCursor(t *testing.T) {
	var srvURL string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/organizers/esnhamburg/events/e1/orders/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "":
			next := srvURL + "/api/v1/organizers/esnhamburg/events/e1/orders/?page=2&status=n"
			_ = json.NewEncoder(w).Encode(map[string]any{
				"count":   2,
				"next":    next,
				"results": []map[string]any{{"code": "A1", "status": "n", "email": "a@x.com"}},
			})
		case "2":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"count":   2,
				"next":    nil,
				"results": []map[string]any{{"code": "B2", "status": "n", "email": "b@x.com"}},
			})
		default:
			t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
		}
		assert.Equal(t, "n", r.URL.Query().Get("status"))
	})
	srvURL = srv.URL

	var codes []string
	err := c.WalkOrders(context.Background(), "e1", domain.OrderStatusPending, func(o domain.Order) error {
		codes = append(codes, o.Code)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2"}, codes)
}

func TestClient_WalkOrders_DecodesPositions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"count":1,"next":null,"results":[{"code":"A1","status":"p","email":"alice@x.com",
			"positions":[{"id":1,"checkins":[],"answers":[{"question_identifier":"RFRGMYPK","answer":"Alice"}]}]}]}`))
	})

	var orders []domain.Order
	err := c.WalkOrders(context.Background(), "e1", "", func(o domain.Order) error {
		orders = append(orders, o)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].IsNoShow())
	first, last := orders[0].AttendeeName("RFRGMYPK", "ZRV87CSB")
	assert.Equal(t, "Alice", first)
	assert.Equal(t, "", last)
}

func TestClient_WalkOrders_PageErrorAborts(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	called := false
	err := c.WalkOrders(context.Background(), "e1", "", func(o domain.Order) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.False(t, called)
}

func TestClient_WalkOrders_CallbackErrorStops(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":2,"next":null,"results":[{"code":"A1"},{"code":"B2"}]}`))
	})

	stop := errors.New("stop")
	seen := 0
	err := c.WalkOrders(context.Background(), "e1", "", func(o domain.Order) error {
		seen++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestClient_ListItems(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/organizers/esnhamburg/events/e1/items/", r.URL.Path)
		_, _ = w.Write([]byte(`{"count":1,"next":null,"results":[{"id":3,"name":{"en":"Regular Ticket"},"default_price":"0.00","variations":[]}]}`))
	})

	items, err := c.ListItems(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, domain.IsFreeEvent(items))
}

func TestClient_OrderActions(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c domain.TicketingGateway) (int, error)
		wantPath   string
		respStatus int
	}{
		{
			name:       "approve",
			call:       func(c domain.TicketingGateway) (int, error) { return c.ApproveOrder(context.Background(), "e1", "ABC12") },
			wantPath:   "/api/v1/organizers/esnhamburg/events/e1/orders/ABC12/approve/",
			respStatus: http.StatusOK,
		},
		{
			name:       "deny",
			call:       func(c domain.TicketingGateway) (int, error) { return c.DenyOrder(context.Background(), "e1", "ABC12") },
			wantPath:   "/api/v1/organizers/esnhamburg/events/e1/orders/ABC12/deny/",
			respStatus: http.StatusOK,
		},
		{
			name:       "non-2xx is reported not returned as error",
			call:       func(c domain.TicketingGateway) (int, error) { return c.ApproveOrder(context.Background(), "e1", "ABC12") },
			wantPath:   "/api/v1/organizers/esnhamburg/events/e1/orders/ABC12/approve/",
			respStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, tt.wantPath, r.URL.Path)
				body, _ := io.ReadAll(r.Body)
				require.JSONEq(t, `{}`, string(body))
				w.WriteHeader(tt.respStatus)
			})

			status, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, tt.respStatus, status)
		})
	}
}
