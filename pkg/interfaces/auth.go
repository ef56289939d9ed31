package interfaces

import (
	"context"
	"net/http"
)

// Authorizer verifies the capability token attached to a request. The engine
// never inspects token internals; it only consumes the boolean outcome.
type Authorizer interface {
	Authorize(ctx context.Context, r *http.Request) bool
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, r *http.Request) bool

// Authorize satisfies Authorizer.
func (f AuthorizerFunc) Authorize(ctx context.Context, r *http.Request) bool {
	if f == nil {
		return false
	}
	return f(ctx, r)
}
