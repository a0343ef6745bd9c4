package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

var notificationColumns = []string{"id", "user_id", "type", "title", "message", "read", "action", "created_at"}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	n := domain.Notification{}
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.Action, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = utc(n.CreatedAt)
	return &n, nil
}

func (r *Repository) listNotifications(ctx context.Context, statement sq.SelectBuilder) ([]*domain.Notification, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *Repository) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	_, err := r.exec(ctx, r.db, r.db.QueryBuilder.Insert("notifications").
		Columns(notificationColumns...).
		Values(n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.Action, n.CreatedAt))
	if err != nil {
		return nil, err
	}
	saved := *n
	return &saved, nil
}

func (r *Repository) ReadNotification(ctx context.Context, userID, id string) (*domain.Notification, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID, "id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	n, err := scanNotification(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return n, nil
}

func (r *Repository) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	statement := r.db.QueryBuilder.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if unreadOnly {
		statement = statement.Where(sq.Eq{"read": false})
	}
	return r.listNotifications(ctx, statement)
}

func (r *Repository) NotificationsSince(ctx context.Context, userID string, after time.Time, afterID string,
	limit int) ([]*domain.Notification, error) {
	statement := r.db.QueryBuilder.
		Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Expr("(created_at, id) > (?, ?)", after, afterID)).
		OrderBy("created_at", "id")
	if limit > 0 {
		statement = statement.Limit(uint64(limit))
	}
	return r.listNotifications(ctx, statement)
}

func (r *Repository) MarkRead(ctx context.Context, userID, id string) error {
	n, err := r.exec(ctx, r.db, r.db.QueryBuilder.
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"user_id": userID, "id": id}))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, r.db, r.db.QueryBuilder.
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"user_id": userID, "read": false}))
}

func (r *Repository) ClearNotifications(ctx context.Context, userID string) (int64, error) {
	return r.exec(ctx, r.db, r.db.QueryBuilder.
		Delete("notifications").
		Where(sq.Eq{"user_id": userID}))
}
