package service

import (
	"context"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService serves the user-facing notification and alert operations.
type NotificationService struct {
	notifications port.NotificationRepository
	alerts        port.AlertRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewNotificationService(notifications port.NotificationRepository, alerts port.AlertRepository,
	logger *zap.Logger) (*NotificationService, error) {
	return &NotificationService{
		notifications: notifications,
		alerts:        alerts,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string,
	unreadOnly bool) ([]*domain.Notification, error) {
	list, err := s.notifications.ListNotifications(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("List notifications", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) ClearNotifications(ctx context.Context, userID string) (int64, error) {
	return s.notifications.ClearNotifications(ctx, userID)
}

// CreateAlert registers an armed alert. Without an explicit scope the alert
// watches the national aggregate.
func (s *NotificationService) CreateAlert(ctx context.Context, userID string,
	alert domain.PriceAlert) (*domain.PriceAlert, error) {
	if alert.Scope.Level == "" {
		alert.Scope = domain.Scope{Level: domain.ScopeNational}
	}
	if err := alert.Validate(); err != nil {
		return nil, err
	}

	alert.ID = uuid.NewString()
	alert.UserID = userID
	alert.Scope = alert.Scope.Normalize()
	alert.Active = true
	alert.Armed = true
	alert.CreatedAt = s.now()
	alert.FiredAt = nil

	created, err := s.alerts.CreateAlert(ctx, &alert)
	if err != nil {
		s.logger.Error("Create alert", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *NotificationService) ListAlerts(ctx context.Context, userID string) ([]*domain.PriceAlert, error) {
	return s.alerts.ListAlertsByUser(ctx, userID)
}

func (s *NotificationService) DeleteAlert(ctx context.Context, userID, id string) error {
	return s.alerts.DeleteAlert(ctx, userID, id)
}
