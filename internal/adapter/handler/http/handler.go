package http

import (
	"errors"
	"net/http"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// errorStatuses is walked in order with errors.Is, so wrapped errors resolve
// to the first sentinel they carry.
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrInternal, http.StatusInternalServerError},
	{domain.ErrDataNotFound, http.StatusNotFound},
	{domain.ErrConflictingData, http.StatusConflict},

	{domain.ErrEmptyAuthorizationHeader, http.StatusUnauthorized},
	{domain.ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{domain.ErrInvalidAuthorizationType, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrExpiredToken, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrUnauthorizedActor, http.StatusForbidden},

	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrNoUpdatedData, http.StatusBadRequest},
	{domain.ErrInvalidOrder, http.StatusBadRequest},
	{domain.ErrInvalidSample, http.StatusBadRequest},
	{domain.ErrInvalidAlert, http.StatusBadRequest},
	{domain.ErrUnknownScope, http.StatusBadRequest},

	{domain.ErrConcurrentModification, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{domain.ErrTerminalState, http.StatusUnprocessableEntity},
}

func statusFor(err error) (int, bool) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, true
		}
	}
	return http.StatusInternalServerError, false
}

type errorResponse struct {
	Error string             `json:"error"`
	From  domain.OrderStatus `json:"from,omitempty"`
	To    domain.OrderStatus `json:"to,omitempty"`
}

func newErrorResponse(err error, status int) errorResponse {
	if status == http.StatusInternalServerError {
		return errorResponse{Error: domain.ErrInternal.Error()}
	}
	resp := errorResponse{Error: err.Error()}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		resp.Error = te.Err.Error()
		resp.From, resp.To = te.From, te.To
	}
	return resp
}

// jsonDecimal renders money as a JSON number instead of a string.
type jsonDecimal decimal.Decimal

func (j jsonDecimal) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(j).String()), nil
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError answers 400 for a request that could not be bound.
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := statusFor(err)
	if !ok {
		h.logger.Error("error processing request",
			zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	ctx.JSON(statusCode, newErrorResponse(err, statusCode))
}

func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}

// handleAbort stops the middleware chain with the status mapped from err.
func handleAbort(ctx *gin.Context, err error) {
	statusCode, _ := statusFor(err)
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(statusCode, newErrorResponse(err, statusCode))
}
