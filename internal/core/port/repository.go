package port

import (
	"context"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// UpdateOrderStatus commits the order's new status and appends entry to its
	// history only if the stored version still equals expectedVersion.
	UpdateOrderStatus(ctx context.Context, orderID string, entry domain.StatusEntry,
		expectedVersion int64) (*domain.Order, error)
}

// PriceSampleStore is the append-only record of price observations.
type PriceSampleStore interface {
	RecordSample(ctx context.Context, sample *domain.PriceSample) (*domain.PriceSample, error)
	// QuerySamples returns samples observed in [from, to) ordered by
	// observation time. They come from one consistent cut of the store: every
	// sample up to the highest sequence visible when the read started and
	// none recorded after it.
	QuerySamples(ctx context.Context, cropID string, scope domain.Scope,
		from, to time.Time) ([]*domain.PriceSample, error)
}

type AggregateRepository interface {
	// SaveAggregate stores agg only if the stored version still equals
	// agg.Version (zero for an aggregate not stored yet) and then increments
	// agg.Version. Otherwise it returns ErrConcurrentModification.
	SaveAggregate(ctx context.Context, agg *domain.PriceAggregate) error
	ReadAggregate(ctx context.Context, key domain.ScopeKey) (*domain.PriceAggregate, error)
	// ListAggregates returns the aggregates of a crop, or of every crop when
	// cropID is empty.
	ListAggregates(ctx context.Context, cropID string) ([]*domain.PriceAggregate, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ReadNotification(ctx context.Context, userID, id string) (*domain.Notification, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error)
	// NotificationsSince returns notifications created strictly after the
	// (after, afterID) cursor in creation order.
	NotificationsSince(ctx context.Context, userID string, after time.Time, afterID string,
		limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	ClearNotifications(ctx context.Context, userID string) (int64, error)
}

type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *domain.PriceAlert) (*domain.PriceAlert, error)
	ListAlertsByUser(ctx context.Context, userID string) ([]*domain.PriceAlert, error)
	ListActiveAlertsByCrop(ctx context.Context, cropID string) ([]*domain.PriceAlert, error)
	UpdateAlertState(ctx context.Context, id string, armed bool, firedAt *time.Time) error
	DeleteAlert(ctx context.Context, userID, id string) error
}
