package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var endOfTime = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// aggregateSaveAttempts bounds re-reads after another instance saved the
// same aggregate first.
const aggregateSaveAttempts = 5

// PriceService owns the live aggregates. Each scope key has a single writer
// at a time; readers get copies.
type PriceService struct {
	samples    port.PriceSampleStore
	aggregates port.AggregateRepository
	events     port.EventPublisher
	locks      *keyedMutex
	metrics    port.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewPriceService(samples port.PriceSampleStore, aggregates port.AggregateRepository,
	events port.EventPublisher, m port.Metrics, logger *zap.Logger) (*PriceService, error) {
	if m == nil {
		m = port.NopMetrics{}
	}
	return &PriceService{
		samples:    samples,
		aggregates: aggregates,
		events:     events,
		locks:      newKeyedMutex(),
		metrics:    m,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Ingest records the sample and folds it into its district, state and national
// aggregates. A sample observed before an aggregate's last update stays in the
// history but leaves that aggregate untouched; the call then returns the
// current aggregates together with ErrOutOfOrderSample.
func (s *PriceService) Ingest(ctx context.Context, sample domain.PriceSample) (*domain.AggregateSet, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("sample id: %w", err)
	}
	sample.ID = id.String()
	sample.ObservedAt = sample.ObservedAt.UTC()
	sample.RecordedAt = s.now()

	recorded, err := s.samples.RecordSample(ctx, &sample)
	if err != nil {
		s.logger.Error("Record price sample", zap.Error(err))
		return nil, err
	}

	var (
		set        domain.AggregateSet
		outOfOrder bool
	)
	for i, scope := range recorded.Scopes() {
		agg, applied, err := s.apply(ctx, recorded, scope)
		if err != nil {
			return nil, err
		}
		if !applied {
			outOfOrder = true
		}
		switch i {
		case 0:
			set.District = *agg
		case 1:
			set.State = *agg
		default:
			set.National = *agg
		}
	}
	s.metrics.RecordSample(recorded.CropID, outOfOrder)

	if outOfOrder {
		return &set, domain.ErrOutOfOrderSample
	}
	return &set, nil
}

// apply folds the sample into one scope's aggregate. The update event is
// published after the save and before the key is released, so events of one
// key leave in the order their saves committed.
func (s *PriceService) apply(ctx context.Context, sample *domain.PriceSample,
	scope domain.Scope) (*domain.PriceAggregate, bool, error) {
	key := domain.NewScopeKey(sample.CropID, scope)
	unlock := s.locks.Lock(string(key))
	defer unlock()

	var applied bool
	agg, err := s.update(ctx, sample.CropID, scope, true, func(agg *domain.PriceAggregate) bool {
		applied = agg.Count == 0 || !sample.ObservedAt.Before(agg.UpdatedAt)
		if applied {
			agg.Add(sample.Price, sample.ObservedAt)
		}
		return applied
	})
	if err != nil {
		return nil, false, err
	}
	if !applied {
		s.logger.Debug("Out of order sample",
			zap.String("key", string(key)),
			zap.Time("observed", sample.ObservedAt),
			zap.Time("aggregate", agg.UpdatedAt))
		return agg, false, nil
	}

	ev := domain.NewPriceUpdatedEvent(domain.PriceUpdated{
		CropID:    agg.CropID,
		Scope:     agg.Scope,
		Aggregate: *agg,
	})
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("Publish price update", zap.String("key", string(key)), zap.Error(err))
	}
	return agg, true, nil
}

// update loads an aggregate, lets change modify it and saves it. A save that
// lost to another instance is retried on a fresh read. When change returns
// false nothing is saved. Without create a missing aggregate is an error.
func (s *PriceService) update(ctx context.Context, cropID string, scope domain.Scope, create bool,
	change func(agg *domain.PriceAggregate) bool) (*domain.PriceAggregate, error) {
	for attempt := 1; ; attempt++ {
		agg, err := s.load(ctx, cropID, scope, create)
		if err != nil {
			return nil, err
		}
		if !change(agg) {
			return agg, nil
		}
		err = s.aggregates.SaveAggregate(ctx, agg)
		if err == nil {
			return agg, nil
		}
		if !errors.Is(err, domain.ErrConcurrentModification) || attempt == aggregateSaveAttempts {
			s.logger.Error("Save aggregate",
				zap.String("key", string(agg.Key)), zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}
		s.logger.Debug("Aggregate saved elsewhere first, reloading", zap.String("key", string(agg.Key)))
	}
}

// load returns the stored aggregate, or with create a fresh one for a key
// never seen.
func (s *PriceService) load(ctx context.Context, cropID string, scope domain.Scope,
	create bool) (*domain.PriceAggregate, error) {
	fresh := domain.NewPriceAggregate(cropID, scope)
	agg, err := s.aggregates.ReadAggregate(ctx, fresh.Key)
	if err != nil {
		if create && errors.Is(err, domain.ErrDataNotFound) {
			return fresh, nil
		}
		if !errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Error("Read aggregate", zap.String("key", string(fresh.Key)), zap.Error(err))
		}
		return nil, err
	}
	return agg, nil
}

func (s *PriceService) GetAggregate(ctx context.Context, cropID string, scope domain.Scope) (*domain.PriceAggregate, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.aggregates.ReadAggregate(ctx, domain.NewScopeKey(cropID, scope.Normalize()))
}

func (s *PriceService) ListAggregates(ctx context.Context, cropID string) ([]*domain.PriceAggregate, error) {
	if cropID == "" {
		return nil, fmt.Errorf("%w: crop is required", domain.ErrBadRequest)
	}
	return s.aggregates.ListAggregates(ctx, cropID)
}

// Query buckets the samples of q's window into trend points. It reads a fixed
// cut of the sample store, so ingestion running alongside cannot change the
// answer halfway through.
func (s *PriceService) Query(ctx context.Context, q domain.TrendQuery) ([]domain.TrendPoint, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	samples, err := s.samples.QuerySamples(ctx, q.CropID, q.Scope.Normalize(), q.From, q.To)
	if err != nil {
		s.logger.Error("Query samples", zap.Error(err))
		return nil, err
	}
	return bucketize(samples, q.From, q.Bucket), nil
}

func bucketize(samples []*domain.PriceSample, from time.Time, bucket time.Duration) []domain.TrendPoint {
	buckets := make(map[int64]*domain.PriceAggregate)
	for _, sample := range samples {
		idx := int64(sample.ObservedAt.Sub(from) / bucket)
		b, ok := buckets[idx]
		if !ok {
			b = &domain.PriceAggregate{}
			buckets[idx] = b
		}
		b.Add(sample.Price, sample.ObservedAt)
	}

	points := make([]domain.TrendPoint, 0, len(buckets))
	for idx, b := range buckets {
		points = append(points, domain.TrendPoint{
			Start: from.Add(time.Duration(idx) * bucket),
			Count: b.Count,
			Mean:  b.Mean,
			Min:   b.Min,
			Max:   b.Max,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Start.Before(points[j].Start) })
	return points
}

// Recompute folds every recorded sample of the scope from scratch. The live
// aggregate is not modified.
func (s *PriceService) Recompute(ctx context.Context, cropID string, scope domain.Scope) (*domain.PriceAggregate, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	samples, err := s.samples.QuerySamples(ctx, cropID, scope.Normalize(), time.Time{}, endOfTime)
	if err != nil {
		s.logger.Error("Query samples", zap.Error(err))
		return nil, err
	}
	agg := domain.NewPriceAggregate(cropID, scope)
	for _, sample := range samples {
		agg.Add(sample.Price, sample.ObservedAt)
	}
	return agg, nil
}

// Reseed zeroes one live aggregate.
func (s *PriceService) Reseed(ctx context.Context, cropID string, scope domain.Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	key := domain.NewScopeKey(cropID, scope.Normalize())
	unlock := s.locks.Lock(string(key))
	defer unlock()

	_, err := s.update(ctx, cropID, scope, false, func(agg *domain.PriceAggregate) bool {
		agg.Reset(s.now())
		return true
	})
	if err != nil {
		return err
	}
	s.logger.Info("Aggregate reseeded", zap.String("key", string(key)))
	return nil
}

// ReseedAll zeroes every known aggregate and reports how many were reset.
func (s *PriceService) ReseedAll(ctx context.Context) int {
	all, err := s.aggregates.ListAggregates(ctx, "")
	if err != nil {
		s.logger.Error("List aggregates for reseed", zap.Error(err))
		return 0
	}
	n := 0
	for _, agg := range all {
		if err := s.Reseed(ctx, agg.CropID, agg.Scope); err != nil {
			s.logger.Warn("Reseed aggregate", zap.String("key", string(agg.Key)), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// RunReseed calls ReseedAll every interval until ctx is done.
func (s *PriceService) RunReseed(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			n := s.ReseedAll(ctx)
			s.logger.Info("Periodic reseed finished", zap.Int("aggregates", n))
		case <-ctx.Done():
			return nil
		}
	}
}
