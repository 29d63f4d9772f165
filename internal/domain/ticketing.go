package domain

import (
	"context"
	"strconv"
	"strings"
)

// Order status codes used by the ticketing platform.
const (
	OrderStatusPending   = "n"
	OrderStatusCancelled = "c"
)

// RegularTicketName is the item name whose price decides whether an event is free.
const RegularTicketName = "Regular Ticket"

// LocalizedString is a map from language code to text.
type LocalizedString map[string]string

// Get returns the first non-empty translation among langs.
func (l LocalizedString) Get(langs ...string) string {
	for _, lang := range langs {
		if v := strings.TrimSpace(l[lang]); v != "" {
			return v
		}
	}
	return ""
}

// TicketEvent is the event resource of the ticketing platform.
type TicketEvent struct {
	Slug     string          `json:"slug"`
	Name     LocalizedString `json:"name"`
	DateFrom string          `json:"date_from"`
	DateTo   *string         `json:"date_to"`
}

// DisplayName returns the name in the first available language, or the slug.
func (e TicketEvent) DisplayName(langs ...string) string {
	if n := e.Name.Get(langs...); n != "" {
		return n
	}
	return e.Slug
}

// Date returns the calendar date part of DateFrom.
func (e TicketEvent) Date() string {
	d, _, _ := strings.Cut(e.DateFrom, "T")
	return d
}

// EndTime returns DateTo, or DateFrom plus DefaultEventDuration when no end is set.
func (e TicketEvent) EndTime() (string, error) {
	if e.DateTo != nil && strings.TrimSpace(*e.DateTo) != "" {
		return *e.DateTo, nil
	}
	start, err := ParseEventTime(e.DateFrom)
	if err != nil {
		return "", err
	}
	return start.Add(DefaultEventDuration).UTC().Format("2006-01-02T15:04:05.000Z"), nil
}

// Item is a product sold for an event.
type Item struct {
	ID           int             `json:"id"`
	Name         LocalizedString `json:"name"`
	DefaultPrice string          `json:"default_price"`
	Variations   []ItemVariation `json:"variations"`
}

// ItemVariation is a priced variant of an Item.
type ItemVariation struct {
	ID    int             `json:"id"`
	Value LocalizedString `json:"value"`
	Price string          `json:"price"`
}

// IsRegularTicket reports whether the item is the regular ticket in English or German.
func (i Item) IsRegularTicket() bool {
	return i.Name["en"] == RegularTicketName || i.Name["de"] == RegularTicketName
}

// IsFree reports whether the default price and every variation price are zero.
// Unparseable prices count as not free.
func (i Item) IsFree() bool {
	if !isZeroPrice(i.DefaultPrice) {
		return false
	}
	for _, v := range i.Variations {
		if v.Price != "" && !isZeroPrice(v.Price) {
			return false
		}
	}
	return true
}

func isZeroPrice(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && f == 0
}

// IsFreeEvent reports whether the event has regular tickets and all of them are free.
func IsFreeEvent(items []Item) bool {
	found := false
	for _, it := range items {
		if !it.IsRegularTicket() {
			continue
		}
		found = true
		if !it.IsFree() {
			return false
		}
	}
	return found
}

// Checkin is one recorded entry scan of a position.
type Checkin struct {
	ID       int    `json:"id"`
	List     int    `json:"list"`
	Datetime string `json:"datetime"`
}

// Answer is a response to an order question.
type Answer struct {
	QuestionIdentifier string `json:"question_identifier"`
	Answer             string `json:"answer"`
}

// OrderPosition is a single ticket within an order.
type OrderPosition struct {
	ID       int       `json:"id"`
	Checkins []Checkin `json:"checkins"`
	Answers  []Answer  `json:"answers"`
}

// Order is an order resource of the ticketing platform.
type Order struct {
	Code      string          `json:"code"`
	Status    string          `json:"status"`
	Email     string          `json:"email"`
	Positions []OrderPosition `json:"positions"`
}

// IsCancelled reports whether the order was cancelled.
func (o Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsNoShow reports whether the order is active and at least one of its positions
// has an empty check-in list.
func (o Order) IsNoShow() bool {
	if o.IsCancelled() {
		return false
	}
	for _, p := range o.Positions {
		if p.Checkins != nil && len(p.Checkins) == 0 {
			return true
		}
	}
	return false
}

// AttendeeName reads first and last name from the answers of the first position.
func (o Order) AttendeeName(firstQuestion, lastQuestion string) (first, last string) {
	if len(o.Positions) == 0 {
		return "", ""
	}
	for _, a := range o.Positions[0].Answers {
		switch a.QuestionIdentifier {
		case firstQuestion:
			first = a.Answer
		case lastQuestion:
			last = a.Answer
		}
	}
	return first, last
}

// Attendee is a no-show collected for one event.
type Attendee struct {
	Email     string
	FirstName string
	LastName  string
}

// NoShows maps normalized emails to attendees, in first-seen order.
type NoShows struct {
	order  []string
	byMail map[string]Attendee
}

// NewNoShows returns an empty mapping.
func NewNoShows() *NoShows {
	return &NoShows{byMail: make(map[string]Attendee)}
}

// Add records an attendee. A later entry for the same email replaces the names.
func (n *NoShows) Add(a Attendee) {
	key := NormalizeEmail(a.Email)
	if key == "" {
		return
	}
	if _, ok := n.byMail[key]; !ok {
		n.order = append(n.order, key)
	}
	a.Email = key
	n.byMail[key] = a
}

// Get returns the attendee for email.
func (n *NoShows) Get(email string) (Attendee, bool) {
	a, ok := n.byMail[NormalizeEmail(email)]
	return a, ok
}

// Len is the number of distinct emails.
func (n *NoShows) Len() int { return len(n.order) }

// All returns the attendees in first-seen order.
func (n *NoShows) All() []Attendee {
	out := make([]Attendee, 0, len(n.order))
	for _, k := range n.order {
		out = append(out, n.byMail[k])
	}
	return out
}

// TicketingGateway is the ticketing platform REST API.
type TicketingGateway interface {
	ListItems(ctx context.Context, eventSlug string) ([]Item, error)
	GetEvent(ctx context.Context, eventSlug string) (*TicketEvent, error)
	// WalkOrders calls fn for each order of the event, following the next-page
	// cursor until it is null. status filters by order status when non-empty.
	WalkOrders(ctx context.Context, eventSlug, status string, fn func(Order) error) error
	ApproveOrder(ctx context.Context, eventSlug, orderCode string) (int, error)
	DenyOrder(ctx context.Context, eventSlug, orderCode string) (int, error)
}
