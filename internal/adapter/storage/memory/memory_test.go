package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/MikeRez0/cropmart/internal/adapter/storage/memory"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ port.OrderRepository        = (*memory.Store)(nil)
	_ port.PriceSampleStore       = (*memory.Store)(nil)
	_ port.AggregateRepository    = (*memory.Store)(nil)
	_ port.NotificationRepository = (*memory.Store)(nil)
	_ port.AlertRepository        = (*memory.Store)(nil)
)

func TestStore_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, err := s.CreateOrder(ctx, &domain.Order{ID: "o1", Status: domain.OrderStatusPending, Version: 1})
	require.NoError(t, err)

	confirm := domain.StatusEntry{From: domain.OrderStatusPending, Status: domain.OrderStatusConfirmed, At: time.Now()}

	tests := []struct {
		name       string
		orderID    string
		entry      domain.StatusEntry
		version    int64
		expError   error
		expVersion int64
	}{
		{name: "unknown order", orderID: "nope", entry: confirm, version: 1, expError: domain.ErrDataNotFound},
		{name: "stale version", orderID: "o1", entry: confirm, version: 7, expError: domain.ErrConcurrentModification},
		{name: "commit", orderID: "o1", entry: confirm, version: 1, expVersion: 2},
		{name: "status moved on", orderID: "o1", entry: confirm, version: 2, expError: domain.ErrConcurrentModification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := s.UpdateOrderStatus(ctx, tt.orderID, tt.entry, tt.version)
			if tt.expError != nil {
				assert.ErrorIs(t, err, tt.expError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expVersion, o.Version)
			assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
			assert.Len(t, o.StatusHistory, 1)
		})
	}
}

func TestStore_ReadOrderIsACopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, err := s.CreateOrder(ctx, &domain.Order{ID: "o1", Status: domain.OrderStatusPending, Version: 1})
	require.NoError(t, err)

	o, err := s.ReadOrder(ctx, "o1")
	require.NoError(t, err)
	o.Status = domain.OrderStatusDelivered

	o, err = s.ReadOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
}

func TestStore_QuerySamples(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	record := func(price float64, at time.Time, district string) {
		_, err := s.RecordSample(ctx, &domain.PriceSample{
			CropID: "tomato", Price: price, Unit: "kg", State: "Karnataka", District: district, ObservedAt: at,
		})
		require.NoError(t, err)
	}
	record(30, base.Add(2*time.Hour), "Mysuru")
	record(20, base.Add(time.Hour), "Kolar")
	record(40, base.Add(90*time.Minute), "Mysuru")
	record(25, base.Add(3*time.Hour), "Mysuru")

	all, err := s.QuerySamples(ctx, "TOMATO", domain.Scope{Level: domain.ScopeNational}, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []float64{20, 40, 30}, []float64{all[0].Price, all[1].Price, all[2].Price})

	district := domain.Scope{Level: domain.ScopeDistrict, State: "karnataka", District: "mysuru"}
	mysuru, err := s.QuerySamples(ctx, "tomato", district, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, mysuru, 1)
	assert.Equal(t, 40.0, mysuru[0].Price)

	again, err := s.QuerySamples(ctx, "TOMATO", domain.Scope{Level: domain.ScopeNational}, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestStore_SaveAggregateVersion(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	national := domain.Scope{Level: domain.ScopeNational}

	first := domain.NewPriceAggregate("tomato", national)
	first.Add(40, time.Now())
	require.NoError(t, s.SaveAggregate(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	// a second writer that also started from nothing loses
	rival := domain.NewPriceAggregate("tomato", national)
	rival.Add(50, time.Now())
	assert.ErrorIs(t, s.SaveAggregate(ctx, rival), domain.ErrConcurrentModification)

	a, err := s.ReadAggregate(ctx, first.Key)
	require.NoError(t, err)
	b, err := s.ReadAggregate(ctx, first.Key)
	require.NoError(t, err)
	a.Add(42, time.Now())
	require.NoError(t, s.SaveAggregate(ctx, a))
	b.Add(44, time.Now())
	assert.ErrorIs(t, s.SaveAggregate(ctx, b), domain.ErrConcurrentModification)

	stored, err := s.ReadAggregate(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Count)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, 41.0, stored.Mean)
}

func TestStore_NotificationsSince(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, n := range []domain.Notification{
		{ID: "01", UserID: "u1", CreatedAt: at},
		{ID: "02", UserID: "u1", CreatedAt: at},
		{ID: "03", UserID: "u1", CreatedAt: at.Add(time.Second)},
		{ID: "04", UserID: "u2", CreatedAt: at.Add(time.Second)},
	} {
		_, err := s.CreateNotification(ctx, &n)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		after   time.Time
		afterID string
		limit   int
		expIDs  []string
	}{
		{name: "from start", expIDs: []string{"01", "02", "03"}},
		{name: "same timestamp cursor", after: at, afterID: "01", expIDs: []string{"02", "03"}},
		{name: "limit", limit: 2, expIDs: []string{"01", "02"}},
		{name: "caught up", after: at.Add(time.Second), afterID: "03", expIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.NotificationsSince(ctx, "u1", tt.after, tt.afterID, tt.limit)
			require.NoError(t, err)
			ids := make([]string, 0, len(list))
			for _, n := range list {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.expIDs, ids)
		})
	}
}

func TestStore_Alerts(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, err := s.CreateAlert(ctx, &domain.PriceAlert{ID: "a1", UserID: "u1", CropID: "tomato", Active: true, Armed: true})
	require.NoError(t, err)

	fired := time.Now()
	require.NoError(t, s.UpdateAlertState(ctx, "a1", false, &fired))

	list, err := s.ListActiveAlertsByCrop(ctx, "Tomato")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Armed)
	assert.NotNil(t, list[0].FiredAt)

	assert.ErrorIs(t, s.DeleteAlert(ctx, "u2", "a1"), domain.ErrDataNotFound)
	assert.NoError(t, s.DeleteAlert(ctx, "u1", "a1"))
	list, err = s.ListAlertsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
