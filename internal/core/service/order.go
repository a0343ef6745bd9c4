package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService is the order state machine. Every status change goes through
// Transition; the event for a change is published only after the repository
// has committed it.
type OrderService struct {
	repo    port.OrderRepository
	events  port.EventPublisher
	locks   *keyedMutex
	metrics port.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrderService(repo port.OrderRepository, events port.EventPublisher,
	m port.Metrics, logger *zap.Logger) (*OrderService, error) {
	if m == nil {
		m = port.NopMetrics{}
	}
	return &OrderService{
		repo:    repo,
		events:  events,
		locks:   newKeyedMutex(),
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, buyer domain.Actor,
	draft domain.OrderDraft) (*domain.Order, error) {
	if buyer.Role != domain.RoleBuyer {
		return nil, domain.ErrForbidden
	}
	if draft.CropID == "" || draft.FarmerID == "" || draft.Unit == "" {
		return nil, domain.ErrInvalidOrder
	}
	if draft.FarmerID == buyer.UserID {
		return nil, fmt.Errorf("%w: buyer and farmer must differ", domain.ErrInvalidOrder)
	}
	if !draft.Quantity.IsPos() || !draft.UnitPrice.IsPos() {
		return nil, fmt.Errorf("%w: quantity and price must be positive", domain.ErrInvalidOrder)
	}
	total, err := draft.Quantity.Mul(draft.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidOrder, err)
	}

	now := s.now()
	order := &domain.Order{
		ID:        uuid.NewString(),
		CropID:    draft.CropID,
		ListingID: draft.ListingID,
		BuyerID:   buyer.UserID,
		FarmerID:  draft.FarmerID,
		Quantity:  draft.Quantity,
		Unit:      draft.Unit,
		UnitPrice: draft.UnitPrice,
		Total:     total,
		Status:    domain.OrderStatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.Error(err))
		return nil, err
	}

	s.publish(ctx, domain.NewOrderPlacedEvent(domain.OrderPlaced{
		OrderID:  created.ID,
		CropID:   created.CropID,
		BuyerID:  created.BuyerID,
		FarmerID: created.FarmerID,
		Total:    created.Total.String(),
	}))

	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, viewer domain.Actor, orderID string) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, party := order.PartyRole(viewer.UserID); !party && viewer.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, viewer domain.Actor) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, viewer.UserID)
	if err != nil {
		s.logger.Error("List orders for user", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// Transition moves an order to req.Target. Validation failures are returned
// as-is and never retried. Calls for the same order are serialized; a caller
// whose ExpectedVersion is stale loses with ErrConcurrentModification.
// Without an ExpectedVersion the version seen on arrival is used, so a change
// committed while the call waited for the lock also loses the race.
func (s *OrderService) Transition(ctx context.Context, req domain.TransitionRequest) (*domain.Order, error) {
	expected := req.ExpectedVersion
	if expected == 0 {
		seen, err := s.repo.ReadOrder(ctx, req.OrderID)
		if err != nil {
			s.observe("not_found", err)
			return nil, err
		}
		expected = seen.Version
	}

	unlock := s.locks.Lock(req.OrderID)
	defer unlock()

	order, err := s.repo.ReadOrder(ctx, req.OrderID)
	if err != nil {
		s.observe("not_found", err)
		return nil, err
	}

	if expected != order.Version {
		s.observe("conflict", domain.ErrConcurrentModification)
		return nil, domain.ErrConcurrentModification
	}

	if err := checkTransition(order, req); err != nil {
		s.observe("rejected", err)
		return nil, err
	}

	entry := domain.StatusEntry{
		From:      order.Status,
		Status:    req.Target,
		ActorID:   req.Actor.UserID,
		ActorRole: req.Actor.Role,
		Note:      req.Note,
		At:        s.nextEntryTime(order),
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, order.ID, entry, order.Version)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			s.observe("conflict", err)
			return nil, err
		}
		s.logger.Error("Commit order transition", zap.String("order", order.ID), zap.Error(err))
		s.observe("error", err)
		return nil, err
	}
	s.observe("ok", nil)

	s.publish(ctx, domain.NewOrderStatusChangedEvent(domain.OrderStatusChanged{
		OrderID:   updated.ID,
		From:      entry.From,
		To:        entry.Status,
		ActorID:   entry.ActorID,
		ActorRole: entry.ActorRole,
		BuyerID:   updated.BuyerID,
		FarmerID:  updated.FarmerID,
		Version:   updated.Version,
	}))

	return updated, nil
}

// checkTransition validates req against the transition table.
func checkTransition(order *domain.Order, req domain.TransitionRequest) error {
	if !req.Target.Valid() {
		return &domain.TransitionError{Err: domain.ErrInvalidTransition, From: order.Status, To: req.Target}
	}
	if order.Status.Terminal() {
		return &domain.TransitionError{Err: domain.ErrTerminalState, From: order.Status, To: req.Target}
	}
	roles, ok := domain.AllowedRoles(order.Status, req.Target)
	if !ok {
		return &domain.TransitionError{Err: domain.ErrInvalidTransition, From: order.Status, To: req.Target}
	}
	if !slices.Contains(roles, req.Actor.Role) {
		return &domain.TransitionError{Err: domain.ErrUnauthorizedActor, From: order.Status, To: req.Target}
	}
	if req.Actor.Role == domain.RoleAdmin {
		return nil
	}
	// the role must also be the actor's side of this particular order
	if party, ok := order.PartyRole(req.Actor.UserID); !ok || party != req.Actor.Role {
		return &domain.TransitionError{Err: domain.ErrUnauthorizedActor, From: order.Status, To: req.Target}
	}
	return nil
}

// nextEntryTime keeps history timestamps strictly increasing even when the
// wall clock stalls or steps back.
func (s *OrderService) nextEntryTime(order *domain.Order) time.Time {
	at := s.now().Truncate(time.Microsecond)
	if n := len(order.StatusHistory); n > 0 {
		if last := order.StatusHistory[n-1].At; !at.After(last) {
			at = last.Add(time.Microsecond)
		}
	}
	return at
}

// publish hands the event to the bus. The state change is already committed,
// so a failure here is logged and the caller still succeeds.
func (s *OrderService) publish(ctx context.Context, event domain.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Publish order event",
			zap.String("topic", event.Topic), zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (s *OrderService) observe(result string, err error) {
	s.metrics.RecordTransition(result)
	if err != nil {
		s.logger.Debug("Order transition refused", zap.String("result", result), zap.Error(err))
	}
}
