package sheets

import (
	"context"
	"fmt"

	"noshowblocklist/internal/domain"
)

// RegistryConfig locates the registry tab.
type RegistryConfig struct {
	Sheet        string
	FirstDataRow int
}

type registryRepository struct {
	gw       *Gateway
	sheet    string
	firstRow int
}

// NewRegistryRepository returns a domain.RegistryRepository backed by a sheet tab.
func NewRegistryRepository(gw *Gateway, cfg RegistryConfig) domain.RegistryRepository {
	first := cfg.FirstDataRow
	if first < 1 {
		first = 1
	}
	return &registryRepository{gw: gw, sheet: quoteSheet(cfg.Sheet), firstRow: first}
}

func (r *registryRepository) List(ctx context.Context) ([]domain.RegistryRow, error) {
	values, err := r.gw.ReadRange(ctx, fmt.Sprintf("%s!A%d:E", r.sheet, r.firstRow))
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	rows := make([]domain.RegistryRow, 0, len(values))
	for i, cells := range values {
		rows = append(rows, domain.ParseRegistryRow(r.firstRow+i, cells))
	}
	return rows, nil
}

// Slugs returns every value of column A, header rows included.
func (r *registryRepository) Slugs(ctx context.Context) ([]string, error) {
	values, err := r.gw.ReadRange(ctx, r.sheet+"!A:A")
	if err != nil {
		return nil, fmt.Errorf("failed to read registry slugs: %w", err)
	}
	var slugs []string
	for _, row := range values {
		for _, cell := range row {
			slugs = append(slugs, cell)
		}
	}
	return slugs, nil
}

func (r *registryRepository) Append(ctx context.Context, row domain.RegistryRow) error {
	if err := r.gw.AppendRow(ctx, r.sheet+"!A:E", row.Cells()); err != nil {
		return fmt.Errorf("failed to append registry row %s: %w", row.Slug, err)
	}
	return nil
}

func (r *registryRepository) MarkChecked(ctx context.Context, rowNumber int) error {
	if rowNumber < r.firstRow {
		return fmt.Errorf("%w: registry row %d is above the data area", domain.ErrInvalidInput, rowNumber)
	}
	if err := r.gw.UpdateRange(ctx, fmt.Sprintf("%s!E%d", r.sheet, rowNumber), []string{domain.CheckedYes}); err != nil {
		return fmt.Errorf("failed to mark registry row %d checked: %w", rowNumber, err)
	}
	return nil
}
