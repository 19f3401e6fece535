package testutil

import (
	"net/http"

	"github.com/esteham/eland-portal/internal/auth"
)

// WithActor adds an authenticated actor to the request context, simulating
// what the identity middleware does for a valid bearer token.
func WithActor(req *http.Request, id, name string) *http.Request {
	ctx := auth.WithActor(req.Context(), auth.Actor{ID: id, Name: name})
	return req.WithContext(ctx)
}
