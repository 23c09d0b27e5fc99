// Package admin provides administrative operations for catalog maintenance.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// ResetTimeout is the maximum duration for reset operations.
const ResetTimeout = 30 * time.Second

// Execer is implemented by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Resetter deletes catalog data. It is destructive; callers confirm first.
type Resetter struct {
	DB     Execer
	Logger *slog.Logger
}

// ResetAll deletes every product, then every category.
// It returns the number of rows deleted per table.
func (r *Resetter) ResetAll(ctx context.Context) (map[string]int64, error) {
	return r.runResets(ctx, []string{"products", "categories"})
}

// ResetProducts deletes every product and keeps categories.
func (r *Resetter) ResetProducts(ctx context.Context) (map[string]int64, error) {
	return r.runResets(ctx, []string{"products"})
}

// runResets deletes tables in order; products reference categories.
func (r *Resetter) runResets(ctx context.Context, tables []string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	deleted := make(map[string]int64, len(tables))
	for _, table := range tables {
		query, args, err := sb.Delete(table).ToSql()
		if err != nil {
			return deleted, fmt.Errorf("build reset %s: %w", table, err)
		}

		tag, err := r.DB.Exec(ctx, query, args...)
		if err != nil {
			return deleted, fmt.Errorf("reset %s: %w", table, err)
		}
		deleted[table] = tag.RowsAffected()
		logger.Info("table reset", "table", table, "rows", tag.RowsAffected())
	}
	return deleted, nil
}
