// Package repository implements the storage ports on Postgres.
package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/cropmart/internal/adapter/storage"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ port.OrderRepository        = (*Repository)(nil)
	_ port.PriceSampleStore       = (*Repository)(nil)
	_ port.AggregateRepository    = (*Repository)(nil)
	_ port.NotificationRepository = (*Repository)(nil)
	_ port.AlertRepository        = (*Repository)(nil)
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("repository needs a database")
	}
	return &Repository{db: db}, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDataNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domain.ErrConflictingData
	}
	return err
}

func (r *Repository) exec(ctx context.Context, q querier, statement sq.Sqlizer) (int64, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

func ciEq(column, value string) sq.Sqlizer {
	return sq.Expr("lower("+column+") = lower(?)", value)
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
