package sheets

import (
	"context"
	"fmt"

	"noshowblocklist/internal/domain"
)

// BlocklistConfig locates the blocklist tab. When Sheet is empty the tab name is
// read from NameCell on every Load. HeaderRow is the row directly above the
// first data row; its width decides the slot capacity unless Capacity is set.
type BlocklistConfig struct {
	Sheet     string
	NameCell  string
	HeaderRow int
	Capacity  int
}

type blocklistRepository struct {
	gw  *Gateway
	cfg BlocklistConfig
	tab string
}

// NewBlocklistRepository returns a domain.BlocklistRepository backed by a sheet tab.
func NewBlocklistRepository(gw *Gateway, cfg BlocklistConfig) domain.BlocklistRepository {
	if cfg.HeaderRow < 1 {
		cfg.HeaderRow = 1
	}
	return &blocklistRepository{gw: gw, cfg: cfg}
}

func (r *blocklistRepository) resolveTab(ctx context.Context) (string, error) {
	if r.cfg.Sheet != "" {
		return quoteSheet(r.cfg.Sheet), nil
	}
	if r.cfg.NameCell == "" {
		return "", fmt.Errorf("%w: blocklist tab name", domain.ErrSheetNotConfigured)
	}
	name, err := r.gw.ReadCell(ctx, r.cfg.NameCell)
	if err != nil {
		return "", fmt.Errorf("failed to read blocklist tab name: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("%w: cell %s is empty", domain.ErrSheetNotConfigured, r.cfg.NameCell)
	}
	return quoteSheet(name), nil
}

func (r *blocklistRepository) tabName(ctx context.Context) (string, error) {
	if r.tab != "" {
		return r.tab, nil
	}
	tab, err := r.resolveTab(ctx)
	if err != nil {
		return "", err
	}
	r.tab = tab
	return tab, nil
}

// Load reads the header row and every data row below it. The tab name is
// resolved again on each call.
func (r *blocklistRepository) Load(ctx context.Context) (*domain.BlocklistSheet, error) {
	tab, err := r.resolveTab(ctx)
	if err != nil {
		return nil, err
	}
	r.tab = tab

	values, err := r.gw.ReadRange(ctx, fmt.Sprintf("%s!A%d:ZZ", tab, r.cfg.HeaderRow))
	if err != nil {
		return nil, fmt.Errorf("failed to read blocklist: %w", err)
	}

	sheet := &domain.BlocklistSheet{Capacity: r.cfg.Capacity}
	if len(values) == 0 {
		return sheet, nil
	}
	if sheet.Capacity <= 0 {
		sheet.Capacity = domain.SlotCapacityForWidth(len(values[0]))
	}
	for i, cells := range values[1:] {
		row := domain.ParseBlocklistRow(r.cfg.HeaderRow+1+i, cells)
		if row.NormalizedEmail() == "" {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func (r *blocklistRepository) Append(ctx context.Context, row domain.BlocklistRow) error {
	tab, err := r.tabName(ctx)
	if err != nil {
		return err
	}
	cells := row.Cells()
	rng := fmt.Sprintf("%s!A:%s", tab, ColumnName(len(cells)-1))
	if err := r.gw.AppendRow(ctx, rng, cells); err != nil {
		return fmt.Errorf("failed to append blocklist row: %w", err)
	}
	return nil
}

func (r *blocklistRepository) WriteSlot(ctx context.Context, rowNumber, slot int, missed domain.MissedEvent) error {
	if rowNumber <= r.cfg.HeaderRow {
		return fmt.Errorf("%w: blocklist row %d is not a data row", domain.ErrInvalidInput, rowNumber)
	}
	tab, err := r.tabName(ctx)
	if err != nil {
		return err
	}
	start := domain.SlotColumn(slot)
	rng := fmt.Sprintf("%s!%s%d:%s%d", tab, ColumnName(start), rowNumber, ColumnName(start+domain.SlotWidth-1), rowNumber)
	if err := r.gw.UpdateRange(ctx, rng, missed.Cells()); err != nil {
		return fmt.Errorf("failed to write blocklist slot: %w", err)
	}
	return nil
}
