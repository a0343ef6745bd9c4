package service_test

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/cropmart/internal/adapter/storage/memory"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port/mock"
	"github.com/MikeRez0/cropmart/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	day0     = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	national = domain.Scope{Level: domain.ScopeNational}
	mysuru   = domain.Scope{Level: domain.ScopeDistrict, State: "Karnataka", District: "Mysuru"}
)

func tomato(price float64, at time.Time) domain.PriceSample {
	return domain.PriceSample{
		CropID: "tomato", Price: price, Unit: "kg",
		State: "Karnataka", District: "Mysuru", ObservedAt: at,
	}
}

func newPriceService(t *testing.T) (*service.PriceService, *memory.Store, *recorder) {
	t.Helper()
	store := memory.New()
	events := &recorder{}
	s, err := service.NewPriceService(store, store, events, nil, zap.NewNop())
	require.NoError(t, err)
	return s, store, events
}

func TestPriceService_IngestValidation(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	tests := []struct {
		name   string
		sample domain.PriceSample
	}{
		{name: "No crop", sample: domain.PriceSample{Price: 10, Unit: "kg", State: "KA", District: "M", ObservedAt: day0}},
		{name: "No district", sample: domain.PriceSample{CropID: "tomato", Price: 10, Unit: "kg", State: "KA", ObservedAt: day0}},
		{name: "Negative price", sample: domain.PriceSample{CropID: "tomato", Price: -1, Unit: "kg", State: "KA", District: "M", ObservedAt: day0}},
		{name: "NaN price", sample: domain.PriceSample{CropID: "tomato", Price: math.NaN(), Unit: "kg", State: "KA", District: "M", ObservedAt: day0}},
		{name: "No time", sample: domain.PriceSample{CropID: "tomato", Price: 10, Unit: "kg", State: "KA", District: "M"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			samples := mock.NewMockPriceSampleStore(mockCtrl)
			aggs := mock.NewMockAggregateRepository(mockCtrl)
			events := mock.NewMockEventPublisher(mockCtrl)

			s, err := service.NewPriceService(samples, aggs, events, nil, logger)
			assert.NoError(t, err)

			set, err := s.Ingest(context.Background(), test.sample)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, domain.ErrInvalidSample)
		})
	}
}

func TestPriceService_IngestCommitsBeforePublish(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	samples := mock.NewMockPriceSampleStore(mockCtrl)
	aggs := mock.NewMockAggregateRepository(mockCtrl)
	events := mock.NewMockEventPublisher(mockCtrl)

	saved := make(map[domain.ScopeKey]bool)
	record := samples.EXPECT().RecordSample(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.PriceSample) (*domain.PriceSample, error) {
			c := *s
			c.Seq = 1
			return &c, nil
		})
	aggs.EXPECT().ReadAggregate(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDataNotFound).Times(3).After(record)
	aggs.EXPECT().SaveAggregate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, agg *domain.PriceAggregate) error {
			saved[agg.Key] = true
			return nil
		}).Times(3)
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e domain.Event) error {
			assert.Equal(t, domain.EventPriceUpdated, e.Type)
			assert.Equal(t, domain.PriceTopic("tomato"), e.Topic)
			assert.Equal(t, int64(1), e.PriceUpdated.Aggregate.Count)
			// every event follows the save of its own aggregate
			assert.True(t, saved[e.PriceUpdated.Aggregate.Key], "published %s before saving it", e.PriceUpdated.Aggregate.Key)
			return nil
		}).Times(3)

	s, err := service.NewPriceService(samples, aggs, events, nil, zap.NewNop())
	require.NoError(t, err)

	set, err := s.Ingest(context.Background(), tomato(42, day0))
	require.NoError(t, err)
	assert.Equal(t, domain.ScopeDistrict, set.District.Scope.Level)
	assert.Equal(t, domain.ScopeState, set.State.Scope.Level)
	assert.Equal(t, domain.ScopeNational, set.National.Scope.Level)
	assert.Equal(t, 42.0, set.National.Mean)
}

// slowPublisher stalls every publish for a moment before recording it.
type slowPublisher struct {
	recorder
}

func (p *slowPublisher) Publish(ctx context.Context, e domain.Event) error {
	time.Sleep(time.Duration(rand.Intn(200)) * time.Microsecond)
	return p.recorder.Publish(ctx, e)
}

func TestPriceService_UpdatesPublishedInCommitOrder(t *testing.T) {
	ctx := context.Background()
	const writers = 8

	for round := range 20 {
		store := memory.New()
		events := &slowPublisher{}
		s, err := service.NewPriceService(store, store, events, nil, zap.NewNop())
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sample := tomato(float64(40+i), day0)
				sample.District = fmt.Sprintf("District-%d", i)
				_, err := s.Ingest(ctx, sample)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		counts := map[domain.ScopeLevel][]int64{}
		for _, e := range events.take() {
			level := e.PriceUpdated.Scope.Level
			counts[level] = append(counts[level], e.PriceUpdated.Aggregate.Count)
		}
		for _, level := range []domain.ScopeLevel{domain.ScopeState, domain.ScopeNational} {
			require.Len(t, counts[level], writers, "round %d", round)
			for i, c := range counts[level] {
				assert.Equal(t, int64(i+1), c, "round %d: %s events out of order: %v", round, level, counts[level])
			}
		}
	}
}

// rivalInstance saves one competing sample into each aggregate right before
// the service's first save of it, as another instance sharing the store would.
type rivalInstance struct {
	*memory.Store
	price float64
	done  map[domain.ScopeKey]bool
}

func (r *rivalInstance) SaveAggregate(ctx context.Context, agg *domain.PriceAggregate) error {
	if !r.done[agg.Key] {
		r.done[agg.Key] = true
		theirs, err := r.Store.ReadAggregate(ctx, agg.Key)
		if err != nil {
			theirs = domain.NewPriceAggregate(agg.CropID, agg.Scope)
		}
		theirs.Add(r.price, day0)
		if err := r.Store.SaveAggregate(ctx, theirs); err != nil {
			return err
		}
	}
	return r.Store.SaveAggregate(ctx, agg)
}

func TestPriceService_SaveRetriesAfterOtherInstance(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	rival := &rivalInstance{Store: store, price: 30, done: map[domain.ScopeKey]bool{}}
	events := &recorder{}
	s, err := service.NewPriceService(store, rival, events, nil, zap.NewNop())
	require.NoError(t, err)

	set, err := s.Ingest(ctx, tomato(50, day0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), set.National.Count)
	assert.Equal(t, 40.0, set.National.Mean)

	for _, scope := range []domain.Scope{mysuru, national} {
		agg, err := s.GetAggregate(ctx, "tomato", scope)
		require.NoError(t, err)
		// both samples survive: neither save overwrote the other
		assert.Equal(t, int64(2), agg.Count)
		assert.Equal(t, 30.0, agg.Min)
		assert.Equal(t, 50.0, agg.Max)
		assert.Equal(t, int64(2), agg.Version)
	}

	published := events.take()
	require.Len(t, published, 3)
	for _, e := range published {
		assert.Equal(t, int64(2), e.PriceUpdated.Aggregate.Count)
	}
}

func TestPriceService_SaveGivesUpOnPersistentConflict(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	samples := mock.NewMockPriceSampleStore(mockCtrl)
	aggs := mock.NewMockAggregateRepository(mockCtrl)
	events := mock.NewMockEventPublisher(mockCtrl)

	samples.EXPECT().RecordSample(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.PriceSample) (*domain.PriceSample, error) {
			return s, nil
		})
	aggs.EXPECT().ReadAggregate(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDataNotFound).Times(5)
	aggs.EXPECT().SaveAggregate(gomock.Any(), gomock.Any()).Return(domain.ErrConcurrentModification).Times(5)

	s, err := service.NewPriceService(samples, aggs, events, nil, zap.NewNop())
	require.NoError(t, err)

	set, err := s.Ingest(context.Background(), tomato(42, day0))
	assert.Nil(t, set)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestPriceService_MeanIsOrderIndependent(t *testing.T) {
	prices := []float64{41.5, 38, 44.25, 39.9, 52, 47.1, 36.4, 45, 43.3, 40.8, 49.95, 37.2}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	want := sum / float64(len(prices))

	rnd := rand.New(rand.NewSource(7))
	for round := range 20 {
		shuffled := append([]float64(nil), prices...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		s, _, _ := newPriceService(t)
		for _, p := range shuffled {
			_, err := s.Ingest(context.Background(), tomato(p, day0))
			require.NoError(t, err)
		}

		agg, err := s.GetAggregate(context.Background(), "tomato", national)
		require.NoError(t, err)
		assert.Equal(t, int64(len(prices)), agg.Count, "round %d", round)
		assert.InDelta(t, want, agg.Mean, 1e-9, "round %d", round)
		assert.Equal(t, 36.4, agg.Min)
		assert.Equal(t, 52.0, agg.Max)
	}
}

func TestPriceService_OutOfOrderSample(t *testing.T) {
	ctx := context.Background()
	s, _, events := newPriceService(t)

	_, err := s.Ingest(ctx, tomato(40, day0.Add(2*time.Hour)))
	require.NoError(t, err)
	events.take()

	set, err := s.Ingest(ctx, tomato(10, day0.Add(time.Hour)))
	assert.ErrorIs(t, err, domain.ErrOutOfOrderSample)
	require.NotNil(t, set)
	assert.Equal(t, int64(1), set.National.Count)
	assert.Equal(t, 40.0, set.National.Mean)
	assert.Empty(t, events.take())

	// the late sample is still part of the history
	points, err := s.Query(ctx, domain.TrendQuery{
		CropID: "tomato", Scope: national, From: day0, To: day0.Add(3 * time.Hour), Bucket: 3 * time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, int64(2), points[0].Count)
	assert.Equal(t, 25.0, points[0].Mean)
}

func TestPriceService_Query(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPriceService(t)

	for i, p := range []float64{10, 20, 30, 40, 50} {
		_, err := s.Ingest(ctx, tomato(p, day0.Add(time.Duration(i)*30*time.Minute)))
		require.NoError(t, err)
	}
	other := tomato(999, day0.Add(3*time.Hour))
	other.District = "Kolar"
	_, err := s.Ingest(ctx, other)
	require.NoError(t, err)

	tests := []struct {
		name      string
		query     domain.TrendQuery
		expError  error
		expPoints []domain.TrendPoint
	}{
		{
			name:  "Hourly district",
			query: domain.TrendQuery{CropID: "tomato", Scope: mysuru, From: day0, To: day0.Add(4 * time.Hour), Bucket: time.Hour},
			expPoints: []domain.TrendPoint{
				{Start: day0, Count: 2, Mean: 15, Min: 10, Max: 20},
				{Start: day0.Add(time.Hour), Count: 2, Mean: 35, Min: 30, Max: 40},
				{Start: day0.Add(2 * time.Hour), Count: 1, Mean: 50, Min: 50, Max: 50},
			},
		},
		{
			name:  "Window end is exclusive",
			query: domain.TrendQuery{CropID: "tomato", Scope: national, From: day0.Add(2 * time.Hour), To: day0.Add(3 * time.Hour), Bucket: time.Hour},
			expPoints: []domain.TrendPoint{
				{Start: day0.Add(2 * time.Hour), Count: 1, Mean: 50, Min: 50, Max: 50},
			},
		},
		{
			name:      "Empty window",
			query:     domain.TrendQuery{CropID: "tomato", Scope: national, From: day0.Add(-time.Hour), To: day0, Bucket: time.Hour},
			expPoints: []domain.TrendPoint{},
		},
		{
			name:     "Unknown scope",
			query:    domain.TrendQuery{CropID: "tomato", Scope: domain.Scope{Level: "village"}, From: day0, To: day0.Add(time.Hour), Bucket: time.Hour},
			expError: domain.ErrUnknownScope,
		},
		{
			name:     "Inverted period",
			query:    domain.TrendQuery{CropID: "tomato", Scope: national, From: day0.Add(time.Hour), To: day0, Bucket: time.Hour},
			expError: domain.ErrBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			first, err := s.Query(ctx, test.query)
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expPoints, first)

			second, err := s.Query(ctx, test.query)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestPriceService_ReseedAndRecompute(t *testing.T) {
	ctx := context.Background()
	s, _, events := newPriceService(t)

	for i, p := range []float64{30, 36} {
		_, err := s.Ingest(ctx, tomato(p, day0.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	events.take()

	require.NoError(t, s.Reseed(ctx, "tomato", national))
	assert.Empty(t, events.take())

	agg, err := s.GetAggregate(ctx, "tomato", national)
	require.NoError(t, err)
	assert.Equal(t, int64(0), agg.Count)

	district, err := s.GetAggregate(ctx, "tomato", mysuru)
	require.NoError(t, err)
	assert.Equal(t, int64(2), district.Count)

	full, err := s.Recompute(ctx, "tomato", national)
	require.NoError(t, err)
	assert.Equal(t, int64(2), full.Count)
	assert.InDelta(t, 33.0, full.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(18), full.StdDev(), 1e-9)

	// a reseeded aggregate accepts samples again, even older ones
	_, err = s.Ingest(ctx, tomato(50, day0))
	assert.ErrorIs(t, err, domain.ErrOutOfOrderSample)
	agg, err = s.GetAggregate(ctx, "tomato", national)
	require.NoError(t, err)
	assert.Equal(t, 50.0, agg.Mean)

	assert.Equal(t, 3, s.ReseedAll(ctx))
	assert.ErrorIs(t, s.Reseed(ctx, "potato", national), domain.ErrDataNotFound)
}
