package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"noshowblocklist/internal/domain"
)

// ValuesService is the part of the Sheets values API the gateway needs.
type ValuesService interface {
	Get(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error)
	Append(ctx context.Context, spreadsheetID, a1Range string, rows [][]string) error
	Update(ctx context.Context, spreadsheetID, a1Range string, rows [][]string) error
}

type googleValues struct {
	svc *gsheets.Service
}

// NewGoogleValues authenticates with a service-account JSON key and returns a
// ValuesService backed by Google Sheets v4.
func NewGoogleValues(ctx context.Context, credentialsJSON []byte) (ValuesService, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("%w: missing service account credentials", domain.ErrInvalidInput)
	}
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &googleValues{svc: svc}, nil
}

func (g *googleValues) Get(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrUpstream, a1Range, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out, nil
}

func (g *googleValues) Append(ctx context.Context, spreadsheetID, a1Range string, rows [][]string) error {
	_, err := g.svc.Spreadsheets.Values.Append(spreadsheetID, a1Range, toValueRange(rows)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", domain.ErrUpstream, a1Range, err)
	}
	return nil
}

func (g *googleValues) Update(ctx context.Context, spreadsheetID, a1Range string, rows [][]string) error {
	_, err := g.svc.Spreadsheets.Values.Update(spreadsheetID, a1Range, toValueRange(rows)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", domain.ErrUpstream, a1Range, err)
	}
	return nil
}

func toValueRange(rows [][]string) *gsheets.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return &gsheets.ValueRange{Values: values}
}

// Gateway performs row operations against one spreadsheet.
type Gateway struct {
	values        ValuesService
	spreadsheetID string
}

// NewGateway returns a Gateway for spreadsheetID.
func NewGateway(values ValuesService, spreadsheetID string) *Gateway {
	return &Gateway{values: values, spreadsheetID: spreadsheetID}
}

// ReadRange returns the rectangular range; trailing empty cells are omitted by the API.
func (g *Gateway) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	return g.values.Get(ctx, g.spreadsheetID, a1Range)
}

// ReadCell returns the trimmed value of a single cell, or "" when it is empty.
func (g *Gateway) ReadCell(ctx context.Context, a1Cell string) (string, error) {
	rows, err := g.ReadRange(ctx, a1Cell)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", nil
	}
	return strings.TrimSpace(rows[0][0]), nil
}

// AppendRow appends one row after the table found in a1Range.
func (g *Gateway) AppendRow(ctx context.Context, a1Range string, row []string) error {
	return g.values.Append(ctx, g.spreadsheetID, a1Range, [][]string{row})
}

// UpdateRange overwrites the cells of a1Range with row.
func (g *Gateway) UpdateRange(ctx context.Context, a1Range string, row []string) error {
	return g.values.Update(ctx, g.spreadsheetID, a1Range, [][]string{row})
}

// ColumnName converts a 0-based column index to its A1 letters (0 → A, 26 → AA).
func ColumnName(index int) string {
	name := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}

// quoteSheet wraps a tab name in single quotes for A1 notation. Names come from
// user-edited cells, so they are always quoted; embedded quotes are doubled.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// A1 joins a tab name and a cell or range reference, e.g. A1("Info", "C2") is 'Info'!C2.
func A1(sheet, ref string) string {
	return quoteSheet(sheet) + "!" + ref
}
