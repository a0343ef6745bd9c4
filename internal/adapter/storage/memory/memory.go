// Package memory keeps every repository in process memory. It backs the
// service when no database is configured and the concurrency tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
)

type Store struct {
	mu            sync.RWMutex
	orders        map[string]*domain.Order
	samples       []*domain.PriceSample
	seq           int64
	aggregates    map[domain.ScopeKey]*domain.PriceAggregate
	notifications map[string][]*domain.Notification
	alerts        map[string]*domain.PriceAlert
}

func New() *Store {
	return &Store{
		orders:        make(map[string]*domain.Order),
		aggregates:    make(map[domain.ScopeKey]*domain.PriceAggregate),
		notifications: make(map[string][]*domain.Notification),
		alerts:        make(map[string]*domain.PriceAlert),
	}
}

func (s *Store) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; ok {
		return nil, domain.ErrConflictingData
	}
	s.orders[order.ID] = order.Clone()
	return order.Clone(), nil
}

func (s *Store) ReadOrder(_ context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return o.Clone(), nil
}

func (s *Store) ListOrdersByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Order, 0)
	for _, o := range s.orders {
		if o.BuyerID == userID || o.FarmerID == userID {
			list = append(list, o.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID string, entry domain.StatusEntry,
	expectedVersion int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	if o.Version != expectedVersion || o.Status != entry.From {
		return nil, domain.ErrConcurrentModification
	}
	o.Status = entry.Status
	o.StatusHistory = append(o.StatusHistory, entry)
	o.Version++
	o.UpdatedAt = entry.At
	return o.Clone(), nil
}

func (s *Store) RecordSample(_ context.Context, sample *domain.PriceSample) (*domain.PriceSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	c := *sample
	c.Seq = s.seq
	s.samples = append(s.samples, &c)
	out := c
	return &out, nil
}

// QuerySamples reads under the store lock, which makes the cut the last
// sample recorded before the call.
func (s *Store) QuerySamples(_ context.Context, cropID string, scope domain.Scope,
	from, to time.Time) ([]*domain.PriceSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.PriceSample, 0)
	for _, sample := range s.samples {
		if !strings.EqualFold(sample.CropID, cropID) || !scope.Matches(sample) {
			continue
		}
		if sample.ObservedAt.Before(from) || !sample.ObservedAt.Before(to) {
			continue
		}
		c := *sample
		list = append(list, &c)
	}
	// samples are kept in seq order, so ties stay in recording order
	sort.SliceStable(list, func(i, j int) bool { return list[i].ObservedAt.Before(list[j].ObservedAt) })
	return list, nil
}

func (s *Store) SaveAggregate(_ context.Context, agg *domain.PriceAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored int64
	if cur, ok := s.aggregates[agg.Key]; ok {
		stored = cur.Version
	}
	if stored != agg.Version {
		return domain.ErrConcurrentModification
	}
	agg.Version++
	c := *agg
	s.aggregates[agg.Key] = &c
	return nil
}

func (s *Store) ReadAggregate(_ context.Context, key domain.ScopeKey) (*domain.PriceAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg, ok := s.aggregates[key]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	c := *agg
	return &c, nil
}

func (s *Store) ListAggregates(_ context.Context, cropID string) ([]*domain.PriceAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.PriceAggregate, 0)
	for _, agg := range s.aggregates {
		if cropID != "" && !strings.EqualFold(agg.CropID, cropID) {
			continue
		}
		c := *agg
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list, nil
}

func (s *Store) CreateNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *n
	s.notifications[n.UserID] = append(s.notifications[n.UserID], &c)
	out := c
	return &out, nil
}

func (s *Store) ReadNotification(_ context.Context, userID, id string) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications[userID] {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, domain.ErrDataNotFound
}

func (s *Store) ListNotifications(_ context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Notification, 0)
	all := s.notifications[userID]
	for i := len(all) - 1; i >= 0; i-- {
		if unreadOnly && all[i].Read {
			continue
		}
		c := *all[i]
		list = append(list, &c)
	}
	return list, nil
}

func (s *Store) NotificationsSince(_ context.Context, userID string, after time.Time, afterID string,
	limit int) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*domain.Notification, len(s.notifications[userID]))
	copy(all, s.notifications[userID])
	sort.SliceStable(all, func(i, j int) bool { return notificationBefore(all[i], all[j]) })

	list := make([]*domain.Notification, 0)
	for _, n := range all {
		if !n.CreatedAt.After(after) && !(n.CreatedAt.Equal(after) && n.ID > afterID) {
			continue
		}
		c := *n
		list = append(list, &c)
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list, nil
}

func notificationBefore(a, b *domain.Notification) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func (s *Store) MarkRead(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userID] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrDataNotFound
}

func (s *Store) MarkAllRead(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, item := range s.notifications[userID] {
		if !item.Read {
			item.Read = true
			n++
		}
	}
	return n, nil
}

func (s *Store) ClearNotifications(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.notifications[userID]))
	delete(s.notifications, userID)
	return n, nil
}

func cloneAlert(a *domain.PriceAlert) *domain.PriceAlert {
	c := *a
	if a.FiredAt != nil {
		at := *a.FiredAt
		c.FiredAt = &at
	}
	return &c
}

func (s *Store) CreateAlert(_ context.Context, alert *domain.PriceAlert) (*domain.PriceAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.ID]; ok {
		return nil, domain.ErrConflictingData
	}
	s.alerts[alert.ID] = cloneAlert(alert)
	return cloneAlert(alert), nil
}

func (s *Store) listAlerts(keep func(*domain.PriceAlert) bool) []*domain.PriceAlert {
	list := make([]*domain.PriceAlert, 0)
	for _, a := range s.alerts {
		if keep(a) {
			list = append(list, cloneAlert(a))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (s *Store) ListAlertsByUser(_ context.Context, userID string) ([]*domain.PriceAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAlerts(func(a *domain.PriceAlert) bool { return a.UserID == userID }), nil
}

func (s *Store) ListActiveAlertsByCrop(_ context.Context, cropID string) ([]*domain.PriceAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAlerts(func(a *domain.PriceAlert) bool {
		return a.Active && strings.EqualFold(a.CropID, cropID)
	}), nil
}

func (s *Store) UpdateAlertState(_ context.Context, id string, armed bool, firedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return domain.ErrDataNotFound
	}
	a.Armed = armed
	if firedAt != nil {
		at := *firedAt
		a.FiredAt = &at
	}
	return nil
}

func (s *Store) DeleteAlert(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok || a.UserID != userID {
		return domain.ErrDataNotFound
	}
	delete(s.alerts, id)
	return nil
}
