package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/esteham/eland-portal/internal/auth"
)

// ActorValidator verifies a bearer token into an actor identity.
type ActorValidator interface {
	Validate(tokenString string) (auth.Actor, error)
}

// Identify resolves the Authorization header into an actor on the request
// context when present. It never rejects: anonymous browsing is allowed and
// the submission workflow enforces authentication at the transition that
// needs it.
func Identify(validator ActorValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}
			actor, err := validator.Validate(token)
			if err != nil {
				logger.WarnContext(r.Context(), "invalid bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}
