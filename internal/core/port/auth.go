package port

import "github.com/MikeRez0/cropmart/internal/core/domain"

type TokenPayload struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

func (p *TokenPayload) Actor() domain.Actor {
	return domain.Actor{UserID: p.UserID, Role: p.Role}
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(actor domain.Actor) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
