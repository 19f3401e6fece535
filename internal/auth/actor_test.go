package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, key, subject, name string) string {
	t.Helper()
	claims := actorClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestValidateRoundTrip(t *testing.T) {
	validator := NewTokenValidator("test-signing-key")
	token := signToken(t, "test-signing-key", "citizen-1", "Rahim")

	actor, err := validator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "citizen-1", actor.ID)
	assert.Equal(t, "Rahim", actor.Name)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	validator := NewTokenValidator("test-signing-key")
	token := signToken(t, "another-key", "citizen-1", "Rahim")

	_, err := validator.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsMissingSubject(t *testing.T) {
	validator := NewTokenValidator("test-signing-key")
	token := signToken(t, "test-signing-key", "", "Rahim")

	_, err := validator.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	validator := NewTokenValidator("test-signing-key")
	claims := actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "citizen-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	validator := NewTokenValidator("test-signing-key")
	_, err := validator.Validate("not-a-token")
	assert.Error(t, err)
}

func TestActorContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := ActorFrom(ctx)
	assert.False(t, ok)

	ctx = WithActor(ctx, Actor{ID: "citizen-1", Name: "Rahim"})
	actor, ok := ActorFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "citizen-1", actor.ID)
}
