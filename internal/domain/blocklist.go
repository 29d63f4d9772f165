package domain

import (
	"context"
	"strings"
)

// BlockThreshold is the number of recorded no-shows at which an email gets its
// pending orders denied.
const BlockThreshold = 2

// Blocklist sheet layout: A email, B first name, C last name, then one group of
// SlotWidth columns per missed event starting at FirstSlotColumn.
const (
	FirstSlotColumn = 3
	SlotWidth       = 4
)

// MissedEvent is one missed-event group of a blocklist row.
type MissedEvent struct {
	Slug      string
	Name      string
	Date      string
	FlaggedOn string
}

// IsEmpty reports whether the group is free. Only the first cell decides.
func (m MissedEvent) IsEmpty() bool {
	return strings.TrimSpace(m.Slug) == ""
}

func (m MissedEvent) hasAnyValue() bool {
	for _, c := range m.Cells() {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// Cells returns the group in sheet column order.
func (m MissedEvent) Cells() []string {
	return []string{m.Slug, m.Name, m.Date, m.FlaggedOn}
}

// BlocklistRow is one attendee on the blocklist sheet. RowNumber is the 1-based
// sheet row; zero for rows not yet written.
type BlocklistRow struct {
	RowNumber int
	Email     string
	FirstName string
	LastName  string
	Slots     []MissedEvent
}

// NewBlocklistRow returns a row for a first-time no-show.
func NewBlocklistRow(email, firstName, lastName string, first MissedEvent) BlocklistRow {
	return BlocklistRow{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Slots:     []MissedEvent{first},
	}
}

// ParseBlocklistRow maps raw sheet cells onto the row schema. Missing trailing
// cells are treated as empty.
func ParseBlocklistRow(rowNumber int, cells []string) BlocklistRow {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	row := BlocklistRow{
		RowNumber: rowNumber,
		Email:     cell(0),
		FirstName: cell(1),
		LastName:  cell(2),
	}
	for c := FirstSlotColumn; c < len(cells); c += SlotWidth {
		row.Slots = append(row.Slots, MissedEvent{
			Slug:      cell(c),
			Name:      cell(c + 1),
			Date:      cell(c + 2),
			FlaggedOn: cell(c + 3),
		})
	}
	return row
}

// Cells returns the row in sheet column order.
func (r BlocklistRow) Cells() []string {
	out := []string{r.Email, r.FirstName, r.LastName}
	for _, s := range r.Slots {
		out = append(out, s.Cells()...)
	}
	return out
}

// NormalizedEmail is the lookup key for the row.
func (r BlocklistRow) NormalizedEmail() string {
	return NormalizeEmail(r.Email)
}

// MissedCount is the number of occupied groups.
func (r BlocklistRow) MissedCount() int {
	n := 0
	for _, s := range r.Slots {
		if !s.IsEmpty() {
			n++
		}
	}
	return n
}

// IsBlocklisted reports whether any cell from group BlockThreshold onward holds a
// value. A single missed event never blocks.
func IsBlocklisted(row BlocklistRow) bool {
	for i := BlockThreshold - 1; i < len(row.Slots); i++ {
		if row.Slots[i].hasAnyValue() {
			return true
		}
	}
	return false
}

// FindFreeSlot returns the index of the first free group within capacity.
func FindFreeSlot(row BlocklistRow, capacity int) (int, bool) {
	for i := 0; i < capacity; i++ {
		if i >= len(row.Slots) || row.Slots[i].IsEmpty() {
			return i, true
		}
	}
	return 0, false
}

// SlotColumn is the 0-based sheet column of the first cell of group index.
func SlotColumn(index int) int {
	return FirstSlotColumn + index*SlotWidth
}

// SlotCapacityForWidth returns how many groups a sheet row of the given width
// provisions. A partially provisioned trailing group still counts.
func SlotCapacityForWidth(width int) int {
	if width <= FirstSlotColumn {
		return 0
	}
	return (width - FirstSlotColumn + SlotWidth - 1) / SlotWidth
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BlocklistSheet is a snapshot of the blocklist taken for one invocation.
type BlocklistSheet struct {
	Rows     []BlocklistRow
	Capacity int
}

// Find returns the index into Rows of the row for email, matched case-insensitively.
func (s *BlocklistSheet) Find(email string) (int, bool) {
	key := NormalizeEmail(email)
	if key == "" {
		return 0, false
	}
	for i, r := range s.Rows {
		if r.NormalizedEmail() == key {
			return i, true
		}
	}
	return 0, false
}

// BlockedEmails returns the normalized emails of all blocklisted rows.
func (s *BlocklistSheet) BlockedEmails() map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range s.Rows {
		key := r.NormalizedEmail()
		if key == "" {
			continue
		}
		if IsBlocklisted(r) {
			out[key] = struct{}{}
		}
	}
	return out
}

// BlocklistRepository reads and writes the blocklist sheet.
type BlocklistRepository interface {
	Load(ctx context.Context) (*BlocklistSheet, error)
	Append(ctx context.Context, row BlocklistRow) error
	WriteSlot(ctx context.Context, rowNumber, slot int, missed MissedEvent) error
}
