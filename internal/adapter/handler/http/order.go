package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.OrderService
}

func NewOrderHandler(service port.OrderService, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type CreateOrderReq struct {
	CropID    string      `json:"crop_id" binding:"required"`
	ListingID string      `json:"listing_id"`
	FarmerID  string      `json:"farmer_id" binding:"required"`
	Quantity  json.Number `json:"quantity" binding:"required"`
	Unit      string      `json:"unit"`
	UnitPrice json.Number `json:"unit_price" binding:"required"`
}

func (r CreateOrderReq) draft() (domain.OrderDraft, error) {
	quantity, err := decimal.Parse(string(r.Quantity))
	if err != nil {
		return domain.OrderDraft{}, fmt.Errorf("%w: quantity: %w", domain.ErrBadRequest, err)
	}
	price, err := decimal.Parse(string(r.UnitPrice))
	if err != nil {
		return domain.OrderDraft{}, fmt.Errorf("%w: unit price: %w", domain.ErrBadRequest, err)
	}
	return domain.OrderDraft{
		CropID:    r.CropID,
		ListingID: r.ListingID,
		FarmerID:  r.FarmerID,
		Quantity:  quantity,
		Unit:      r.Unit,
		UnitPrice: price,
	}, nil
}

type TransitionReq struct {
	Status          domain.OrderStatus `json:"status" binding:"required"`
	Note            string             `json:"note"`
	ExpectedVersion int64              `json:"expected_version"`
}

type OrderResp struct {
	ID            string               `json:"id"`
	CropID        string               `json:"crop_id"`
	ListingID     string               `json:"listing_id,omitempty"`
	BuyerID       string               `json:"buyer_id"`
	FarmerID      string               `json:"farmer_id"`
	Quantity      jsonDecimal          `json:"quantity"`
	Unit          string               `json:"unit,omitempty"`
	UnitPrice     jsonDecimal          `json:"unit_price"`
	Total         jsonDecimal          `json:"total"`
	Status        domain.OrderStatus   `json:"status"`
	StatusHistory []domain.StatusEntry `json:"status_history"`
	Version       int64                `json:"version"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func newOrderResp(o *domain.Order) OrderResp {
	history := o.StatusHistory
	if history == nil {
		history = []domain.StatusEntry{}
	}
	return OrderResp{
		ID:            o.ID,
		CropID:        o.CropID,
		ListingID:     o.ListingID,
		BuyerID:       o.BuyerID,
		FarmerID:      o.FarmerID,
		Quantity:      jsonDecimal(o.Quantity),
		Unit:          o.Unit,
		UnitPrice:     jsonDecimal(o.UnitPrice),
		Total:         jsonDecimal(o.Total),
		Status:        o.Status,
		StatusHistory: history,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// CreateOrder godoc
//
//	@Summary	Place an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		order	body		CreateOrderReq	true	"Order draft"
//	@Success	201		{object}	OrderResp
//	@Failure	400		{object}	errorResponse
//	@Failure	401		{object}	errorResponse
//	@Failure	403		{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/orders [post]
func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := CreateOrderReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	draft, err := req.draft()
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.CreateOrder(ctx, getActor(ctx), draft)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResp(order), http.StatusCreated)
}

// ListOrders godoc
//
//	@Summary	List orders visible to the caller
//	@Tags		orders
//	@Produce	json
//	@Success	200	{array}		OrderResp
//	@Failure	401	{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/orders [get]
func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	list, err := oh.service.ListOrders(ctx, getActor(ctx))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]OrderResp, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResp(o))
	}
	oh.handleSuccess(ctx, result)
}

// GetOrder godoc
//
//	@Summary	Get an order
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	OrderResp
//	@Failure	401	{object}	errorResponse
//	@Failure	403	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/orders/{id} [get]
func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	order, err := oh.service.GetOrder(ctx, getActor(ctx), ctx.Param("id"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order))
}

// Transition godoc
//
//	@Summary	Move an order to another status
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string			true	"Order ID"
//	@Param		transition	body		TransitionReq	true	"Target status"
//	@Success	200			{object}	OrderResp
//	@Failure	400			{object}	errorResponse
//	@Failure	403			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Failure	409			{object}	errorResponse
//	@Failure	422			{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/orders/{id}/transitions [post]
func (oh *OrderHandler) Transition(ctx *gin.Context) {
	req := TransitionReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.Transition(ctx, domain.TransitionRequest{
		OrderID:         ctx.Param("id"),
		Target:          req.Status,
		Actor:           getActor(ctx),
		Note:            req.Note,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResp(order))
}
