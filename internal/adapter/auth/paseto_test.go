package auth_test

import (
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/cropmart/internal/adapter/auth"
	"github.com/MikeRez0/cropmart/internal/adapter/config"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ port.TokenService = (*auth.PasetoToken)(nil)

func TestPasetoToken_RoundTrip(t *testing.T) {
	key := paseto.NewV4SymmetricKey().ExportHex()
	issuer, err := auth.New(&config.Auth{TokenKey: key})
	require.NoError(t, err)
	// a second instance with the same key accepts the token
	verifier, err := auth.New(&config.Auth{TokenKey: key})
	require.NoError(t, err)

	token, err := issuer.CreateToken(domain.Actor{UserID: "farmer-1", Role: domain.RoleFarmer})
	require.NoError(t, err)

	payload, err := verifier.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "farmer-1", payload.UserID)
	assert.Equal(t, domain.RoleFarmer, payload.Role)
}

func TestPasetoToken_Rejects(t *testing.T) {
	svc, err := auth.New(&config.Auth{})
	require.NoError(t, err)
	other, err := auth.New(&config.Auth{})
	require.NoError(t, err)
	short, err := auth.New(&config.Auth{TokenTTL: time.Nanosecond})
	require.NoError(t, err)

	foreign, err := other.CreateToken(domain.Actor{UserID: "u1", Role: domain.RoleBuyer})
	require.NoError(t, err)
	expired, err := short.CreateToken(domain.Actor{UserID: "u1", Role: domain.RoleBuyer})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	tests := []struct {
		name     string
		verifier *auth.PasetoToken
		token    string
		expError error
	}{
		{name: "garbage", verifier: svc, token: "v4.local.nope", expError: domain.ErrInvalidToken},
		{name: "other key", verifier: svc, token: foreign, expError: domain.ErrInvalidToken},
		{name: "expired", verifier: short, token: expired, expError: domain.ErrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.VerifyToken(tt.token)
			assert.ErrorIs(t, err, tt.expError)
		})
	}

	_, err = svc.CreateToken(domain.Actor{UserID: "u1", Role: "guest"})
	assert.ErrorIs(t, err, domain.ErrTokenCreation)
	_, err = auth.New(&config.Auth{TokenKey: "not-hex"})
	assert.Error(t, err)
}
