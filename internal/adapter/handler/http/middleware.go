package http

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const userPayloadKey = "user_payload"

func authCheck(tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			handleAbort(ctx, domain.ErrEmptyAuthorizationHeader)
			return
		}

		words := strings.Fields(header)
		if len(words) != 2 {
			handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}
		payload, err := tokenService.VerifyToken(words[1])
		if err != nil {
			handleAbort(ctx, err)
			return
		}

		ctx.Set(userPayloadKey, payload)

		ctx.Next()
	}
}

// requireRole must run after authCheck.
func requireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !slices.Contains(roles, getAuthPayload(ctx).Role) {
			handleAbort(ctx, domain.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

func getAuthPayload(ctx *gin.Context) *port.TokenPayload {
	return ctx.MustGet(userPayloadKey).(*port.TokenPayload)
}

func getActor(ctx *gin.Context) domain.Actor {
	return getAuthPayload(ctx).Actor()
}

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	ObserveHTTP(method, route, status string, d time.Duration)
}

func requestLog(logger *zap.Logger, observer RequestObserver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := ctx.Writer.Status()
		elapsed := time.Since(start)
		if observer != nil {
			observer.ObserveHTTP(ctx.Request.Method, route, strconv.Itoa(status), elapsed)
		}

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("path", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		}
		if v, ok := ctx.Get(userPayloadKey); ok {
			fields = append(fields, zap.String("user", v.(*port.TokenPayload).UserID))
		}
		switch {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Debug("HTTP request", fields...)
		}
	}
}
