package session

import (
	"net/http"

	"linkshelf/pkg/requestcontext"
)

// CookieName is the session marker cookie.
const CookieName = "admin"

// Middleware marks the request privileged when it carries a valid marker.
// Requests without one continue unprivileged.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			privileged := false
			if c, err := r.Cookie(CookieName); err == nil {
				privileged = s.IsPrivileged(c.Value)
			}
			ctx := requestcontext.WithPrivileged(r.Context(), privileged)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
