// Package auth provides the read-only actor identity consumed by the
// submission flow. Token issuance and session management live in a separate
// system; this package only verifies bearer tokens and exposes the actor
// through the request context.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Actor is the authenticated citizen on whose behalf applications are filed.
type Actor struct {
	ID   string
	Name string
}

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom reads the actor from the context. ok is false for anonymous
// requests.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// TokenValidator verifies HMAC-signed bearer tokens into actors.
type TokenValidator struct {
	signingKey []byte
}

func NewTokenValidator(signingKey string) *TokenValidator {
	return &TokenValidator{signingKey: []byte(signingKey)}
}

type actorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Validate parses and verifies a token string, returning the actor it names.
func (v *TokenValidator) Validate(tokenString string) (Actor, error) {
	claims := &actorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return Actor{}, fmt.Errorf("token has no subject")
	}
	return Actor{ID: claims.Subject, Name: claims.Name}, nil
}
