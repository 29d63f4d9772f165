package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"noshowblocklist/internal/domain"
)

type advisoryLocker struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewAdvisoryLocker returns a RunLocker backed by Postgres session advisory locks.
// Each Acquire pins its own connection until the release func runs.
func NewAdvisoryLocker(db *sql.DB, logger *slog.Logger) domain.RunLocker {
	return &advisoryLocker{DB: db, logger: logger}
}

func (l *advisoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	conn, err := l.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire conn for lock %q: %w", key, err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		conn.Close()
		return nil, fmt.Errorf("acquire lock %q: %w", key, err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
				l.logger.Warn("failed to release advisory lock", "key", key, "error", err)
			}
			conn.Close()
		})
	}
	return release, nil
}
