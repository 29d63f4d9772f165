package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Checked flag values of the registry sheet.
const (
	CheckedYes = "yes"
	CheckedNo  = "no"
)

// DefaultEventDuration is used as the end time when the ticketing platform has no end date.
const DefaultEventDuration = 24 * time.Hour

// RegistryRow is one free event tracked on the registry sheet.
type RegistryRow struct {
	RowNumber int
	Slug      string
	Name      string
	Start     string
	End       string
	Checked   string
}

// Unchecked reports whether the event still needs a no-show scan.
func (r RegistryRow) Unchecked() bool {
	return strings.EqualFold(strings.TrimSpace(r.Checked), CheckedNo)
}

// Cells returns the row in sheet column order.
func (r RegistryRow) Cells() []string {
	return []string{r.Slug, r.Name, r.Start, r.End, r.Checked}
}

// ParseRegistryRow maps raw sheet cells onto a RegistryRow.
func ParseRegistryRow(rowNumber int, cells []string) RegistryRow {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return RegistryRow{
		RowNumber: rowNumber,
		Slug:      cell(0),
		Name:      cell(1),
		Start:     cell(2),
		End:       cell(3),
		Checked:   cell(4),
	}
}

var eventTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseEventTime parses the timestamp formats found in the registry sheet.
// Values without a zone are read as UTC.
func ParseEventTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable time %q", ErrInvalidInput, value)
}

// RegistryRepository reads and writes the registry sheet.
type RegistryRepository interface {
	List(ctx context.Context) ([]RegistryRow, error)
	Slugs(ctx context.Context) ([]string, error)
	Append(ctx context.Context, row RegistryRow) error
	MarkChecked(ctx context.Context, rowNumber int) error
}
