package http

import (
	"context"
	"errors"
	"strings"

	"github.com/MikeRez0/cropmart/internal/adapter/realtime"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type realtimeGateway interface {
	Serve(ctx context.Context, conn realtime.Conn) error
	Stats() realtime.Stats
}

type RealtimeHandler struct {
	Handler
	gateway        realtimeGateway
	originPatterns []string
}

// NewRealtimeHandler accepts browser origins in the same form as the CORS
// configuration; websocket origin checks match on host only.
func NewRealtimeHandler(gateway realtimeGateway, allowedOrigins []string, logger *zap.Logger) (*RealtimeHandler, error) {
	if gateway == nil {
		return nil, errors.New("realtime handler needs a gateway")
	}
	patterns := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://")
		patterns = append(patterns, strings.TrimSuffix(o, "/"))
	}
	return &RealtimeHandler{
		Handler:        *NewHandler(logger),
		gateway:        gateway,
		originPatterns: patterns,
	}, nil
}

// Connect upgrades the request and serves the connection until it closes.
// Authentication happens inside the channel with an auth message.
func (rh *RealtimeHandler) Connect(ctx *gin.Context) {
	conn, err := realtime.Accept(ctx.Writer, ctx.Request, rh.originPatterns)
	if err != nil {
		// Accept has already written the HTTP error
		rh.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	if err := rh.gateway.Serve(ctx.Request.Context(), conn); err != nil {
		rh.logger.Debug("realtime connection closed", zap.Error(err))
	}
}

func (rh *RealtimeHandler) Stats(ctx *gin.Context) {
	rh.handleSuccess(ctx, rh.gateway.Stats())
}
