package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) RecordSample(ctx context.Context, sample *domain.PriceSample) (*domain.PriceSample, error) {
	sql, args, err := r.db.QueryBuilder.Insert("price_samples").
		Columns("id", "crop_id", "listing_id", "price", "unit", "state", "district",
			"observed_at", "recorded_at").
		Values(sample.ID, sample.CropID, sample.ListingID, sample.Price, sample.Unit,
			sample.State, sample.District, sample.ObservedAt, sample.RecordedAt).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	saved := *sample
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&saved.Seq); err != nil {
		return nil, mapError(err)
	}
	return &saved, nil
}

// QuerySamples reads the high-water mark and the samples in one snapshot. A
// sample whose lower seq commits after the mark was taken is invisible to
// both reads.
func (r *Repository) QuerySamples(ctx context.Context, cropID string, scope domain.Scope,
	from, to time.Time) ([]*domain.PriceSample, error) {
	var list []*domain.PriceSample
	err := r.db.InSnapshot(ctx, func(tx pgx.Tx) error {
		asOf, err := r.lastSeq(ctx, tx)
		if err != nil {
			return err
		}
		list, err = r.querySamples(ctx, tx, cropID, scope, from, to, asOf)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

func (r *Repository) lastSeq(ctx context.Context, q querier) (int64, error) {
	sql, args, err := r.db.QueryBuilder.
		Select("COALESCE(MAX(seq), 0)").
		From("price_samples").
		ToSql()
	if err != nil {
		return 0, err
	}

	var seq int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *Repository) querySamples(ctx context.Context, q querier, cropID string, scope domain.Scope,
	from, to time.Time, asOfSeq int64) ([]*domain.PriceSample, error) {
	where := sq.And{
		ciEq("crop_id", cropID),
		sq.LtOrEq{"seq": asOfSeq},
		sq.GtOrEq{"observed_at": from},
		sq.Lt{"observed_at": to},
	}
	switch scope.Level {
	case domain.ScopeState:
		where = append(where, ciEq("state", scope.State))
	case domain.ScopeDistrict:
		where = append(where, ciEq("state", scope.State), ciEq("district", scope.District))
	}

	sql, args, err := r.db.QueryBuilder.
		Select("id", "seq", "crop_id", "listing_id", "price", "unit", "state", "district",
			"observed_at", "recorded_at").
		From("price_samples").
		Where(where).
		OrderBy("observed_at", "seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.PriceSample, 0)
	for rows.Next() {
		s := domain.PriceSample{}
		err := rows.Scan(&s.ID, &s.Seq, &s.CropID, &s.ListingID, &s.Price, &s.Unit,
			&s.State, &s.District, &s.ObservedAt, &s.RecordedAt)
		if err != nil {
			return nil, err
		}
		s.ObservedAt = utc(s.ObservedAt)
		s.RecordedAt = utc(s.RecordedAt)
		list = append(list, &s)
	}
	return list, rows.Err()
}

var aggregateColumns = []string{
	"key", "version", "crop_id", "scope_level", "scope_state", "scope_district",
	"count", "mean", "m2", "min", "max", "last_price", "first_sample_at", "updated_at",
}

// SaveAggregate inserts a new aggregate or updates a stored one whose version
// still matches. Either way a lost race affects no rows.
func (r *Repository) SaveAggregate(ctx context.Context, agg *domain.PriceAggregate) error {
	var firstSampleAt *time.Time
	if !agg.FirstSampleAt.IsZero() {
		firstSampleAt = &agg.FirstSampleAt
	}

	var statement sq.Sqlizer
	if agg.Version == 0 {
		statement = r.db.QueryBuilder.Insert("price_aggregates").
			Columns(aggregateColumns...).
			Values(agg.Key, 1, agg.CropID, agg.Scope.Level, agg.Scope.State, agg.Scope.District,
				agg.Count, agg.Mean, agg.M2, agg.Min, agg.Max, agg.LastPrice, firstSampleAt, agg.UpdatedAt).
			Suffix("ON CONFLICT (key) DO NOTHING")
	} else {
		statement = r.db.QueryBuilder.Update("price_aggregates").
			Set("version", sq.Expr("version + 1")).
			Set("count", agg.Count).
			Set("mean", agg.Mean).
			Set("m2", agg.M2).
			Set("min", agg.Min).
			Set("max", agg.Max).
			Set("last_price", agg.LastPrice).
			Set("first_sample_at", firstSampleAt).
			Set("updated_at", agg.UpdatedAt).
			Where(sq.Eq{"key": agg.Key, "version": agg.Version})
	}

	n, err := r.exec(ctx, r.db, statement)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConcurrentModification
	}
	agg.Version++
	return nil
}

func scanAggregate(row pgx.Row) (*domain.PriceAggregate, error) {
	agg := domain.PriceAggregate{}
	var firstSampleAt *time.Time
	err := row.Scan(&agg.Key, &agg.Version, &agg.CropID, &agg.Scope.Level, &agg.Scope.State, &agg.Scope.District,
		&agg.Count, &agg.Mean, &agg.M2, &agg.Min, &agg.Max, &agg.LastPrice, &firstSampleAt, &agg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if firstSampleAt != nil {
		agg.FirstSampleAt = firstSampleAt.UTC()
	}
	agg.UpdatedAt = utc(agg.UpdatedAt)
	return &agg, nil
}

func (r *Repository) ReadAggregate(ctx context.Context, key domain.ScopeKey) (*domain.PriceAggregate, error) {
	sql, args, err := r.db.QueryBuilder.
		Select(aggregateColumns...).
		From("price_aggregates").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	agg, err := scanAggregate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return agg, nil
}

func (r *Repository) ListAggregates(ctx context.Context, cropID string) ([]*domain.PriceAggregate, error) {
	statement := r.db.QueryBuilder.
		Select(aggregateColumns...).
		From("price_aggregates").
		OrderBy("key")
	if cropID != "" {
		statement = statement.Where(ciEq("crop_id", cropID))
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := make([]*domain.PriceAggregate, 0)
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, agg)
	}
	return list, rows.Err()
}
