package http

import (
	"net/http"
	"strconv"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	Handler
	service port.NotificationService
}

func NewNotificationHandler(service port.NotificationService, logger *zap.Logger) (*NotificationHandler, error) {
	return &NotificationHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type AlertReq struct {
	CropID    string                `json:"crop_id" binding:"required"`
	Scope     domain.Scope          `json:"scope"`
	Condition domain.AlertCondition `json:"condition" binding:"required"`
	Threshold float64               `json:"threshold" binding:"required"`
}

// ListNotifications godoc
//
//	@Summary	List the caller's notifications, newest first
//	@Tags		notifications
//	@Produce	json
//	@Param		unread	query		bool	false	"Unread only"
//	@Success	200		{array}		domain.Notification
//	@Failure	401		{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/notifications [get]
func (nh *NotificationHandler) ListNotifications(ctx *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(ctx.Query("unread"))
	list, err := nh.service.ListNotifications(ctx, getAuthPayload(ctx).UserID, unreadOnly)
	if err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccess(ctx, list)
}

// MarkRead godoc
//
//	@Summary	Mark one notification read
//	@Tags		notifications
//	@Param		id	path	string	true	"Notification ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/notifications/{id}/read [post]
func (nh *NotificationHandler) MarkRead(ctx *gin.Context) {
	if err := nh.service.MarkRead(ctx, getAuthPayload(ctx).UserID, ctx.Param("id")); err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

// MarkAllRead godoc
//
//	@Summary	Mark every notification read
//	@Tags		notifications
//	@Produce	json
//	@Success	200	{object}	map[string]int
//	@Security	BearerAuth
//	@Router		/notifications/read [post]
func (nh *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	n, err := nh.service.MarkAllRead(ctx, getAuthPayload(ctx).UserID)
	if err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccess(ctx, gin.H{"updated": n})
}

// ClearNotifications godoc
//
//	@Summary	Delete every notification
//	@Tags		notifications
//	@Produce	json
//	@Success	200	{object}	map[string]int
//	@Security	BearerAuth
//	@Router		/notifications [delete]
func (nh *NotificationHandler) ClearNotifications(ctx *gin.Context) {
	n, err := nh.service.ClearNotifications(ctx, getAuthPayload(ctx).UserID)
	if err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccess(ctx, gin.H{"deleted": n})
}

// ListAlerts godoc
//
//	@Summary	List the caller's price alerts
//	@Tags		alerts
//	@Produce	json
//	@Success	200	{array}	domain.PriceAlert
//	@Security	BearerAuth
//	@Router		/alerts [get]
func (nh *NotificationHandler) ListAlerts(ctx *gin.Context) {
	list, err := nh.service.ListAlerts(ctx, getAuthPayload(ctx).UserID)
	if err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccess(ctx, list)
}

// CreateAlert godoc
//
//	@Summary	Watch a price threshold
//	@Tags		alerts
//	@Accept		json
//	@Produce	json
//	@Param		alert	body		AlertReq	true	"Alert"
//	@Success	201		{object}	domain.PriceAlert
//	@Failure	400		{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/alerts [post]
func (nh *NotificationHandler) CreateAlert(ctx *gin.Context) {
	req := AlertReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		nh.handleValidationError(ctx, err)
		return
	}

	alert, err := nh.service.CreateAlert(ctx, getAuthPayload(ctx).UserID, domain.PriceAlert{
		CropID:    req.CropID,
		Scope:     req.Scope,
		Condition: req.Condition,
		Threshold: req.Threshold,
	})
	if err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccessWithStatus(ctx, alert, http.StatusCreated)
}

// DeleteAlert godoc
//
//	@Summary	Delete a price alert
//	@Tags		alerts
//	@Param		id	path	string	true	"Alert ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/alerts/{id} [delete]
func (nh *NotificationHandler) DeleteAlert(ctx *gin.Context) {
	if err := nh.service.DeleteAlert(ctx, getAuthPayload(ctx).UserID, ctx.Param("id")); err != nil {
		nh.handleError(ctx, err)
		return
	}
	nh.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
