package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DispatcherOptions struct {
	QueueSize     int
	RetryAttempts int
	RetryBackoff  time.Duration
}

// Dispatcher turns order and price events into persisted notifications and
// announces each one on the recipient's notification topic.
type Dispatcher struct {
	bus           port.EventBus
	notifications port.NotificationRepository
	alerts        port.AlertRepository
	opts          DispatcherOptions
	metrics       port.Metrics
	logger        *zap.Logger
	now           func() time.Time
	subs          []port.Subscription
}

func NewDispatcher(bus port.EventBus, notifications port.NotificationRepository, alerts port.AlertRepository,
	opts DispatcherOptions, m port.Metrics, logger *zap.Logger) (*Dispatcher, error) {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	if m == nil {
		m = port.NopMetrics{}
	}
	return &Dispatcher{
		bus:           bus,
		notifications: notifications,
		alerts:        alerts,
		opts:          opts,
		metrics:       m,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

// Start subscribes to order and price topics. The dispatcher retries
// persistence itself, so the bus delivers each event once.
func (d *Dispatcher) Start() error {
	opts := port.SubscribeOptions{
		QueueSize:   d.opts.QueueSize,
		Overflow:    port.OverflowDropNewest,
		MaxAttempts: 1,
	}
	orders, err := d.bus.Subscribe(domain.TopicOrdersPrefix+"*", "dispatcher.orders", d.HandleOrderEvent, opts)
	if err != nil {
		return fmt.Errorf("subscribe to orders: %w", err)
	}
	prices, err := d.bus.Subscribe(domain.TopicPricesPrefix+"*", "dispatcher.prices", d.HandlePriceEvent, opts)
	if err != nil {
		orders.Close()
		return fmt.Errorf("subscribe to prices: %w", err)
	}
	d.subs = []port.Subscription{orders, prices}
	return nil
}

func (d *Dispatcher) Stop() {
	for _, s := range d.subs {
		s.Close()
	}
	d.subs = nil
}

// HandleOrderEvent notifies the parties of an order. Events relayed from
// another instance were already handled there.
func (d *Dispatcher) HandleOrderEvent(ctx context.Context, ev domain.Event) error {
	if ev.Remote {
		return nil
	}
	switch ev.Type {
	case domain.EventOrderPlaced:
		p := ev.OrderPlaced
		if p == nil {
			return nil
		}
		return d.Notify(ctx, domain.Notification{
			UserID:  p.FarmerID,
			Type:    domain.NotificationOrderPlaced,
			Title:   "New order",
			Message: fmt.Sprintf("Order %s for %s was placed, total %s", p.OrderID, p.CropID, p.Total),
			Action:  "order:" + p.OrderID,
		})
	case domain.EventOrderStatusChanged:
		p := ev.OrderStatusChanged
		if p == nil {
			return nil
		}
		var errs []error
		for _, userID := range []string{p.BuyerID, p.FarmerID} {
			if userID == "" || userID == p.ActorID {
				continue
			}
			errs = append(errs, d.Notify(ctx, domain.Notification{
				UserID:  userID,
				Type:    domain.NotificationOrderStatus,
				Title:   "Order " + string(p.To),
				Message: fmt.Sprintf("Order %s moved from %s to %s", p.OrderID, p.From, p.To),
				Action:  "order:" + p.OrderID,
			}))
		}
		return errors.Join(errs...)
	}
	return nil
}

// HandlePriceEvent evaluates the crop's active alerts watching the updated
// scope. Price events for all crops arrive on one subscription, so alert
// state has a single writer.
func (d *Dispatcher) HandlePriceEvent(ctx context.Context, ev domain.Event) error {
	if ev.Remote || ev.Type != domain.EventPriceUpdated || ev.PriceUpdated == nil {
		return nil
	}
	agg := ev.PriceUpdated.Aggregate
	if agg.Count == 0 {
		return nil
	}

	alerts, err := d.alerts.ListActiveAlertsByCrop(ctx, ev.PriceUpdated.CropID)
	if err != nil {
		d.logger.Error("List alerts", zap.String("crop", ev.PriceUpdated.CropID), zap.Error(err))
		return err
	}

	var errs []error
	for _, alert := range alerts {
		if domain.NewScopeKey(alert.CropID, alert.Scope) != agg.Key {
			continue
		}
		fire, changed := alert.Evaluate(agg.LastPrice)
		if !changed {
			continue
		}
		var firedAt *time.Time
		if fire {
			at := d.now()
			firedAt = &at
		}
		if err := d.alerts.UpdateAlertState(ctx, alert.ID, alert.Armed, firedAt); err != nil {
			d.logger.Error("Update alert state", zap.String("alert", alert.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if !fire {
			continue
		}
		d.metrics.RecordAlertFired(alert.CropID)
		errs = append(errs, d.Notify(ctx, domain.Notification{
			UserID: alert.UserID,
			Type:   domain.NotificationPriceAlert,
			Title:  fmt.Sprintf("%s price %s %s", alert.CropID, alert.Condition, formatPrice(alert.Threshold)),
			Message: fmt.Sprintf("%s %s price is now %s",
				alert.CropID, scopeLabel(alert.Scope), formatPrice(agg.LastPrice)),
			Action: "crop:" + alert.CropID,
		}))
	}
	return errors.Join(errs...)
}

// Notify persists n with bounded retries and then publishes it. When every
// attempt fails it returns ErrDeliveryTimeout.
func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("notification id: %w", err)
	}
	n.ID = id.String()
	// stored timestamps keep microseconds; the replay cursor compares them exactly
	n.CreatedAt = d.now().Truncate(time.Microsecond)

	var (
		saved   *domain.Notification
		lastErr error
		backoff = d.opts.RetryBackoff
	)
retry:
	for attempt := 1; attempt <= d.opts.RetryAttempts; attempt++ {
		saved, lastErr = d.notifications.CreateNotification(ctx, &n)
		if lastErr == nil {
			break
		}
		d.logger.Warn("Persist notification",
			zap.String("user", n.UserID), zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt == d.opts.RetryAttempts {
			break
		}
		t := time.NewTimer(backoff)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			lastErr = errors.Join(lastErr, ctx.Err())
			break retry
		}
		backoff *= 2
	}
	if lastErr != nil {
		d.metrics.RecordNotification("failed")
		d.logger.Error("Notification dropped", zap.String("user", n.UserID), zap.Error(lastErr))
		return fmt.Errorf("%w: %w", domain.ErrDeliveryTimeout, lastErr)
	}
	d.metrics.RecordNotification("created")

	if err := d.bus.Publish(ctx, domain.NewNotificationCreatedEvent(*saved)); err != nil {
		d.logger.Warn("Publish notification", zap.String("user", saved.UserID), zap.Error(err))
	}
	return nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func scopeLabel(s domain.Scope) string {
	switch s.Level {
	case domain.ScopeDistrict:
		return strings.Join([]string{s.District, s.State}, ", ")
	case domain.ScopeState:
		return s.State
	}
	return "national"
}
