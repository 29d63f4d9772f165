package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"noshowblocklist/internal/domain"
)

type decisionRepository struct {
	DB *sql.DB
}

func NewDecisionRepository(db *sql.DB) domain.DecisionJournal {
	return &decisionRepository{
		DB: db,
	}
}

func (r *decisionRepository) Record(ctx context.Context, d *domain.Decision) error {
	query := `
		INSERT INTO approval_decisions (event_slug, order_code, email, outcome, status_code, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, d.EventSlug, d.OrderCode, d.Email, d.Outcome, d.StatusCode, d.DecidedAt)
	if err != nil {
		return fmt.Errorf("record decision for order %s: %w", d.OrderCode, err)
	}
	return nil
}

func (r *decisionRepository) ListByEvent(ctx context.Context, eventSlug string) ([]*domain.Decision, error) {
	query := `
		SELECT event_slug, order_code, email, outcome, status_code, decided_at
		FROM approval_decisions
		WHERE event_slug = $1
		ORDER BY decided_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Decision
	for rows.Next() {
		d := &domain.Decision{}
		if err := rows.Scan(&d.EventSlug, &d.OrderCode, &d.Email, &d.Outcome, &d.StatusCode, &d.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.Decision{}
	}
	return out, nil
}
