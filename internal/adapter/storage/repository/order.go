package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id", "crop_id", "listing_id", "buyer_id", "farmer_id",
	"quantity", "unit", "unit_price", "total", "status", "version", "created_at", "updated_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.CropID,
		&order.ListingID,
		&order.BuyerID,
		&order.FarmerID,
		&order.Quantity,
		&order.Unit,
		&order.UnitPrice,
		&order.Total,
		&order.Status,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.CreatedAt = utc(order.CreatedAt)
	order.UpdatedAt = utc(order.UpdatedAt)
	return &order, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	statement := r.db.QueryBuilder.Insert("orders").
		Columns(orderColumns...).
		Values(order.ID, order.CropID, order.ListingID, order.BuyerID, order.FarmerID,
			order.Quantity, order.Unit, order.UnitPrice, order.Total, order.Status,
			order.Version, order.CreatedAt, order.UpdatedAt)

	if _, err := r.exec(ctx, r.db, statement); err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.readOrder(ctx, r.db, orderID)
}

func (r *Repository) readOrder(ctx context.Context, q querier, orderID string) (*domain.Order, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	history, err := r.readHistory(ctx, q, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.StatusHistory = history[order.ID]
	return order, nil
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Or{sq.Eq{"buyer_id": userID}, sq.Eq{"farmer_id": userID}}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	ids := make([]string, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	history, err := r.readHistory(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range list {
		order.StatusHistory = history[order.ID]
	}
	return list, nil
}

func (r *Repository) readHistory(ctx context.Context, q querier, orderIDs []string) (map[string][]domain.StatusEntry, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("order_id", "from_status", "status", "actor_id", "actor_role", "note", "at").
		From("order_status_history").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	history := make(map[string][]domain.StatusEntry, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			entry   domain.StatusEntry
		)
		err := rows.Scan(&orderID, &entry.From, &entry.Status, &entry.ActorID,
			&entry.ActorRole, &entry.Note, &entry.At)
		if err != nil {
			return nil, err
		}
		entry.At = utc(entry.At)
		history[orderID] = append(history[orderID], entry)
	}
	return history, rows.Err()
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID string, entry domain.StatusEntry,
	expectedVersion int64) (*domain.Order, error) {
	var updated *domain.Order

	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		n, err := r.exec(ctx, tx, r.db.QueryBuilder.
			Update("orders").
			Set("status", entry.Status).
			Set("version", sq.Expr("version + 1")).
			Set("updated_at", entry.At).
			Where(sq.Eq{"id": orderID, "version": expectedVersion, "status": entry.From}))
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := r.readOrder(ctx, tx, orderID); err != nil {
				return err
			}
			return domain.ErrConcurrentModification
		}

		// history position follows the version, which starts at 1 with no entries
		_, err = r.exec(ctx, tx, r.db.QueryBuilder.
			Insert("order_status_history").
			Columns("order_id", "position", "from_status", "status", "actor_id", "actor_role", "note", "at").
			Values(orderID, expectedVersion, entry.From, entry.Status, entry.ActorID,
				entry.ActorRole, entry.Note, entry.At))
		if err != nil {
			return err
		}

		updated, err = r.readOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
