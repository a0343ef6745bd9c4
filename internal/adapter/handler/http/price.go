package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryPeriod = 7 * 24 * time.Hour
	defaultHistoryBucket = 24 * time.Hour
)

type PriceHandler struct {
	Handler
	service port.PriceService
}

func NewPriceHandler(service port.PriceService, logger *zap.Logger) (*PriceHandler, error) {
	return &PriceHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type SampleReq struct {
	CropID     string    `json:"crop_id" binding:"required"`
	ListingID  string    `json:"listing_id"`
	Price      float64   `json:"price" binding:"required"`
	Unit       string    `json:"unit" binding:"required"`
	State      string    `json:"state" binding:"required"`
	District   string    `json:"district" binding:"required"`
	ObservedAt time.Time `json:"observed_at"`
}

type AggregateResp struct {
	*domain.PriceAggregate
	StdDev float64 `json:"std_dev"`
}

func newAggregateResp(agg *domain.PriceAggregate) AggregateResp {
	return AggregateResp{PriceAggregate: agg, StdDev: agg.StdDev()}
}

type IngestResp struct {
	District   AggregateResp `json:"district"`
	State      AggregateResp `json:"state"`
	National   AggregateResp `json:"national"`
	OutOfOrder bool          `json:"out_of_order,omitempty"`
}

type ReseedReq struct {
	CropID string       `json:"crop_id"`
	Scope  domain.Scope `json:"scope"`
}

// scopeFromQuery reads level, state and district; national when level is absent.
func scopeFromQuery(ctx *gin.Context) domain.Scope {
	level := domain.ScopeLevel(ctx.DefaultQuery("level", string(domain.ScopeNational)))
	return domain.Scope{
		Level:    level,
		State:    ctx.Query("state"),
		District: ctx.Query("district"),
	}
}

// IngestSample godoc
//
//	@Summary		Record a price sample
//	@Description	Returns 202 when the sample is older than the live aggregates; it is kept in history only.
//	@Tags			prices
//	@Accept			json
//	@Produce		json
//	@Param			sample	body		SampleReq	true	"Price sample"
//	@Success		201		{object}	IngestResp
//	@Success		202		{object}	IngestResp
//	@Failure		400		{object}	errorResponse
//	@Failure		403		{object}	errorResponse
//	@Security		BearerAuth
//	@Router			/prices/samples [post]
func (ph *PriceHandler) IngestSample(ctx *gin.Context) {
	req := SampleReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	if req.ObservedAt.IsZero() {
		req.ObservedAt = time.Now().UTC()
	}

	set, err := ph.service.Ingest(ctx, domain.PriceSample{
		CropID:     req.CropID,
		ListingID:  req.ListingID,
		Price:      req.Price,
		Unit:       req.Unit,
		State:      req.State,
		District:   req.District,
		ObservedAt: req.ObservedAt,
	})
	outOfOrder := errors.Is(err, domain.ErrOutOfOrderSample)
	if err != nil && !outOfOrder {
		ph.handleError(ctx, err)
		return
	}

	resp := IngestResp{
		District:   newAggregateResp(&set.District),
		State:      newAggregateResp(&set.State),
		National:   newAggregateResp(&set.National),
		OutOfOrder: outOfOrder,
	}
	if outOfOrder {
		// recorded in history, live aggregates left as they were
		ph.handleSuccessWithStatus(ctx, resp, http.StatusAccepted)
		return
	}
	ph.handleSuccessWithStatus(ctx, resp, http.StatusCreated)
}

// ListAggregates godoc
//
//	@Summary	List every aggregate of a crop
//	@Tags		prices
//	@Produce	json
//	@Param		crop	path		string	true	"Crop ID"
//	@Success	200		{array}		AggregateResp
//	@Failure	401		{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/prices/{crop}/aggregates [get]
func (ph *PriceHandler) ListAggregates(ctx *gin.Context) {
	list, err := ph.service.ListAggregates(ctx, ctx.Param("crop"))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}
	result := make([]AggregateResp, 0, len(list))
	for _, agg := range list {
		result = append(result, newAggregateResp(agg))
	}
	ph.handleSuccess(ctx, result)
}

// GetAggregate godoc
//
//	@Summary	Get the live aggregate of one scope
//	@Tags		prices
//	@Produce	json
//	@Param		crop		path		string	true	"Crop ID"
//	@Param		level		query		string	false	"Scope level"	Enums(national, state, district)
//	@Param		state		query		string	false	"State"
//	@Param		district	query		string	false	"District"
//	@Success	200			{object}	AggregateResp
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/prices/{crop}/aggregate [get]
func (ph *PriceHandler) GetAggregate(ctx *gin.Context) {
	agg, err := ph.service.GetAggregate(ctx, ctx.Param("crop"), scopeFromQuery(ctx))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}
	ph.handleSuccess(ctx, newAggregateResp(agg))
}

func parseTimeParam(ctx *gin.Context, name string, def time.Time) (time.Time, error) {
	v := ctx.Query(name)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", domain.ErrBadRequest, name, err)
	}
	return t, nil
}

// History godoc
//
//	@Summary	Bucketed price trend
//	@Tags		prices
//	@Produce	json
//	@Param		crop		path		string	true	"Crop ID"
//	@Param		level		query		string	false	"Scope level"	Enums(national, state, district)
//	@Param		state		query		string	false	"State"
//	@Param		district	query		string	false	"District"
//	@Param		from		query		string	false	"RFC3339 start"
//	@Param		to			query		string	false	"RFC3339 end"
//	@Param		bucket		query		string	false	"Bucket width, e.g. 24h"
//	@Success	200			{array}		domain.TrendPoint
//	@Failure	400			{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/prices/{crop}/history [get]
func (ph *PriceHandler) History(ctx *gin.Context) {
	to, err := parseTimeParam(ctx, "to", time.Now().UTC())
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	from, err := parseTimeParam(ctx, "from", to.Add(-defaultHistoryPeriod))
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	bucket := defaultHistoryBucket
	if v := ctx.Query("bucket"); v != "" {
		bucket, err = time.ParseDuration(v)
		if err != nil {
			ph.handleValidationError(ctx, fmt.Errorf("%w: bucket: %w", domain.ErrBadRequest, err))
			return
		}
	}

	points, err := ph.service.Query(ctx, domain.TrendQuery{
		CropID: ctx.Param("crop"),
		Scope:  scopeFromQuery(ctx),
		From:   from,
		To:     to,
		Bucket: bucket,
	})
	if err != nil {
		ph.handleError(ctx, err)
		return
	}
	ph.handleSuccess(ctx, points)
}

// Reseed godoc
//
//	@Summary	Rebuild live aggregates from history
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		reseed	body		ReseedReq	false	"One crop and scope; all aggregates when empty"
//	@Success	200		{object}	map[string]int
//	@Failure	403		{object}	errorResponse
//	@Failure	404		{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/admin/prices/reseed [post]
func (ph *PriceHandler) Reseed(ctx *gin.Context) {
	req := ReseedReq{}
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ph.handleValidationError(ctx, err)
			return
		}
	}

	if req.CropID == "" {
		n := ph.service.ReseedAll(ctx)
		ph.handleSuccess(ctx, gin.H{"reseeded": n})
		return
	}

	if req.Scope.Level == "" {
		req.Scope.Level = domain.ScopeNational
	}
	if err := ph.service.Reseed(ctx, req.CropID, req.Scope); err != nil {
		ph.handleError(ctx, err)
		return
	}
	ph.handleSuccess(ctx, gin.H{"reseeded": 1})
}

// Recompute godoc
//
//	@Summary	Fold history into a fresh aggregate without storing it
//	@Tags		admin
//	@Produce	json
//	@Param		crop		path		string	true	"Crop ID"
//	@Param		level		query		string	false	"Scope level"	Enums(national, state, district)
//	@Param		state		query		string	false	"State"
//	@Param		district	query		string	false	"District"
//	@Success	200			{object}	AggregateResp
//	@Failure	403			{object}	errorResponse
//	@Security	BearerAuth
//	@Router		/admin/prices/{crop}/recompute [get]
func (ph *PriceHandler) Recompute(ctx *gin.Context) {
	agg, err := ph.service.Recompute(ctx, ctx.Param("crop"), scopeFromQuery(ctx))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}
	ph.handleSuccess(ctx, newAggregateResp(agg))
}
