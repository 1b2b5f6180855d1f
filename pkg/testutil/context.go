package testutil

import (
	"net/http"

	"linkshelf/pkg/requestcontext"
)

// PrivilegeFrom marks every request privileged while *admin is true. It
// stands in for the session middleware in handler tests.
func PrivilegeFrom(admin *bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithPrivileged(r.Context(), *admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestID tags req as the request ID middleware would.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}
