package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/cropmart/internal/core/domain"
)

var alertColumns = []string{
	"id", "user_id", "crop_id", "scope_level", "scope_state", "scope_district",
	"condition", "threshold", "active", "armed", "created_at", "fired_at",
}

func (r *Repository) CreateAlert(ctx context.Context, alert *domain.PriceAlert) (*domain.PriceAlert, error) {
	_, err := r.exec(ctx, r.db, r.db.QueryBuilder.Insert("price_alerts").
		Columns(alertColumns...).
		Values(alert.ID, alert.UserID, alert.CropID, alert.Scope.Level, alert.Scope.State,
			alert.Scope.District, alert.Condition, alert.Threshold, alert.Active, alert.Armed,
			alert.CreatedAt, alert.FiredAt))
	if err != nil {
		return nil, err
	}
	saved := *alert
	return &saved, nil
}

func (r *Repository) listAlerts(ctx context.Context, where sq.Sqlizer) ([]*domain.PriceAlert, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(alertColumns...).
		From("price_alerts").
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := make([]*domain.PriceAlert, 0)
	for rows.Next() {
		a := domain.PriceAlert{}
		err := rows.Scan(&a.ID, &a.UserID, &a.CropID, &a.Scope.Level, &a.Scope.State,
			&a.Scope.District, &a.Condition, &a.Threshold, &a.Active, &a.Armed, &a.CreatedAt, &a.FiredAt)
		if err != nil {
			return nil, err
		}
		a.CreatedAt = utc(a.CreatedAt)
		if a.FiredAt != nil {
			at := a.FiredAt.UTC()
			a.FiredAt = &at
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *Repository) ListAlertsByUser(ctx context.Context, userID string) ([]*domain.PriceAlert, error) {
	return r.listAlerts(ctx, sq.Eq{"user_id": userID})
}

func (r *Repository) ListActiveAlertsByCrop(ctx context.Context, cropID string) ([]*domain.PriceAlert, error) {
	return r.listAlerts(ctx, sq.And{sq.Eq{"active": true}, ciEq("crop_id", cropID)})
}

func (r *Repository) UpdateAlertState(ctx context.Context, id string, armed bool, firedAt *time.Time) error {
	statement := r.db.QueryBuilder.
		Update("price_alerts").
		Set("armed", armed).
		Where(sq.Eq{"id": id})
	if firedAt != nil {
		statement = statement.Set("fired_at", *firedAt)
	}

	n, err := r.exec(ctx, r.db, statement)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

func (r *Repository) DeleteAlert(ctx context.Context, userID, id string) error {
	n, err := r.exec(ctx, r.db, r.db.QueryBuilder.
		Delete("price_alerts").
		Where(sq.Eq{"id": id, "user_id": userID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}
