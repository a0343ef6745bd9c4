package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/cropmart/internal/adapter/config"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
)

const defaultTokenTTL = 24 * time.Hour

type PasetoToken struct {
	parser paseto.Parser
	key    paseto.V4SymmetricKey
	ttl    time.Duration
}

// New builds the token service. Without a configured key a random one is
// generated, so tokens do not survive a restart.
func New(conf *config.Auth) (*PasetoToken, error) {
	key := paseto.NewV4SymmetricKey()
	if conf.TokenKey != "" {
		var err error
		key, err = paseto.V4SymmetricKeyFromHex(conf.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("error parsing token key: %w", err)
		}
	}
	ttl := conf.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	// expiry is checked after decryption to tell expired tokens apart
	parser := paseto.NewParserWithoutExpiryCheck()

	return &PasetoToken{
		parser: parser,
		key:    key,
		ttl:    ttl,
	}, nil
}

func (p *PasetoToken) CreateToken(actor domain.Actor) (string, error) {
	if actor.UserID == "" || !actor.Role.Valid() {
		return "", domain.ErrTokenCreation
	}

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(p.ttl))
	token.SetSubject(actor.UserID)

	payload := port.TokenPayload{UserID: actor.UserID, Role: actor.Role}
	err := token.Set("payload", payload)
	if err != nil {
		return "", domain.ErrTokenCreation
	}

	return token.V4Encrypt(p.key, nil), nil
}

func (p *PasetoToken) VerifyToken(token string) (*port.TokenPayload, error) {
	parsedToken, err := p.parser.ParseV4Local(p.key, token, nil)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	exp, err := parsedToken.GetExpiration()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if !time.Now().Before(exp) {
		return nil, domain.ErrExpiredToken
	}

	payload := port.TokenPayload{}
	err = parsedToken.Get("payload", &payload)
	if err != nil || payload.UserID == "" || !payload.Role.Valid() {
		return nil, domain.ErrInvalidToken
	}
	return &payload, nil
}
