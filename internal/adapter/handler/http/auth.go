package http

import (
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenHandler issues tokens for arbitrary identities. Accounts live in an
// external identity service, so the router mounts it in development only.
type TokenHandler struct {
	Handler
	tokens port.TokenService
}

type TokenReq struct {
	UserID string      `json:"user_id" binding:"required"`
	Role   domain.Role `json:"role" binding:"required"`
}

func NewTokenHandler(tokens port.TokenService, logger *zap.Logger) (*TokenHandler, error) {
	return &TokenHandler{
		Handler: *NewHandler(logger),
		tokens:  tokens,
	}, nil
}

func (th *TokenHandler) IssueToken(ctx *gin.Context) {
	req := TokenReq{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		th.handleValidationError(ctx, err)
		return
	}
	if !req.Role.Valid() {
		th.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	token, err := th.tokens.CreateToken(domain.Actor{UserID: req.UserID, Role: req.Role})
	if err != nil {
		th.handleError(ctx, err)
		return
	}

	th.handleSuccess(ctx, struct {
		Token string `json:"token"`
	}{Token: token})
}
