package port

import (
	"context"

	"github.com/MikeRez0/cropmart/internal/core/domain"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyer domain.Actor, draft domain.OrderDraft) (*domain.Order, error)
	GetOrder(ctx context.Context, viewer domain.Actor, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, viewer domain.Actor) ([]*domain.Order, error)
	Transition(ctx context.Context, req domain.TransitionRequest) (*domain.Order, error)
}

type PriceService interface {
	Ingest(ctx context.Context, sample domain.PriceSample) (*domain.AggregateSet, error)
	GetAggregate(ctx context.Context, cropID string, scope domain.Scope) (*domain.PriceAggregate, error)
	ListAggregates(ctx context.Context, cropID string) ([]*domain.PriceAggregate, error)
	Query(ctx context.Context, q domain.TrendQuery) ([]domain.TrendPoint, error)
	Recompute(ctx context.Context, cropID string, scope domain.Scope) (*domain.PriceAggregate, error)
	Reseed(ctx context.Context, cropID string, scope domain.Scope) error
	ReseedAll(ctx context.Context) int
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	ClearNotifications(ctx context.Context, userID string) (int64, error)

	CreateAlert(ctx context.Context, userID string, alert domain.PriceAlert) (*domain.PriceAlert, error)
	ListAlerts(ctx context.Context, userID string) ([]*domain.PriceAlert, error)
	DeleteAlert(ctx context.Context, userID, id string) error
}
