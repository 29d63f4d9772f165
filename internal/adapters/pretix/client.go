package pretix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"noshowblocklist/internal/domain"
)

// Config holds the API location and credentials of a pretix organizer.
type Config struct {
	BaseURL   string
	Token     string
	Organizer string
}

type client struct {
	hc        *http.Client
	baseURL   string
	token     string
	organizer string
	logger    *slog.Logger
}

// page is the pagination envelope of pretix list endpoints.
type page[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// NewClient returns a TicketingGateway that calls the pretix REST API.
func NewClient(hc *http.Client, cfg Config, logger *slog.Logger) domain.TicketingGateway {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &client{
		hc:        hc,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.Token,
		organizer: cfg.Organizer,
		logger:    logger,
	}
}

func (c *client) eventURL(eventSlug string, parts ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/organizers/%s/events/%s/", c.baseURL, url.PathEscape(c.organizer), url.PathEscape(eventSlug))
	for _, p := range parts {
		b.WriteString(url.PathEscape(p))
		b.WriteString("/")
	}
	return b.String()
}

func (c *client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *client) getJSON(ctx context.Context, target string, dest any) error {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", domain.ErrUpstream, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned status %d", domain.ErrUpstream, target, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode pretix response: %w", err)
	}
	return nil
}

func (c *client) ListItems(ctx context.Context, eventSlug string) ([]domain.Item, error) {
	var items []domain.Item
	next := c.eventURL(eventSlug, "items")
	for next != "" {
		var p page[domain.Item]
		if err := c.getJSON(ctx, next, &p); err != nil {
			return nil, err
		}
		items = append(items, p.Results...)
		next = nextURL(p.Next)
	}
	return items, nil
}

func (c *client) GetEvent(ctx context.Context, eventSlug string) (*domain.TicketEvent, error) {
	var ev domain.TicketEvent
	if err := c.getJSON(ctx, c.eventURL(eventSlug), &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *client) WalkOrders(ctx context.Context, eventSlug, status string, fn func(domain.Order) error) error {
	next := c.eventURL(eventSlug, "orders")
	if status != "" {
		next += "?" + url.Values{"status": {status}}.Encode()
	}
	for next != "" {
		var p page[domain.Order]
		if err := c.getJSON(ctx, next, &p); err != nil {
			return err
		}
		for _, o := range p.Results {
			if err := fn(o); err != nil {
				return err
			}
		}
		next = nextURL(p.Next)
	}
	return nil
}

func (c *client) ApproveOrder(ctx context.Context, eventSlug, orderCode string) (int, error) {
	return c.orderAction(ctx, eventSlug, orderCode, "approve")
}

func (c *client) DenyOrder(ctx context.Context, eventSlug, orderCode string) (int, error) {
	return c.orderAction(ctx, eventSlug, orderCode, "deny")
}

// orderAction posts an empty object to an order action endpoint and returns the
// response status. Non-2xx statuses are reported, not treated as errors.
func (c *client) orderAction(ctx context.Context, eventSlug, orderCode, action string) (int, error) {
	target := c.eventURL(eventSlug, "orders", orderCode, action)
	req, err := c.newRequest(ctx, http.MethodPost, target, bytes.NewBufferString("{}"))
	if err != nil {
		return 0, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: POST %s: %v", domain.ErrUpstream, target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.InfoContext(ctx, "order action", "action", action, "event", eventSlug, "order", orderCode, "status", resp.StatusCode)
	return resp.StatusCode, nil
}

func nextURL(next *string) string {
	if next == nil {
		return ""
	}
	return *next
}
