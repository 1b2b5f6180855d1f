package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"linkshelf/pkg/platform/httputil"
	"linkshelf/pkg/requestcontext"
	"linkshelf/pkg/types"
)

// Handler serves /api/auth.
type Handler struct {
	service *Service
	logger  *slog.Logger
	secure  bool
}

// NewHandler builds the auth handler. secure sets the Secure flag on the
// cookie and should be on behind TLS.
func NewHandler(service *Service, logger *slog.Logger, secure bool) *Handler {
	return &Handler{service: service, logger: logger, secure: secure}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/auth", h.handleStatus)
	r.Post("/api/auth", h.handleLogin)
	r.Delete("/api/auth", h.handleLogout)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, types.AuthStatus{IsAdmin: requestcontext.Privileged(r.Context())})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	token, ok, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, types.OKResponse{OK: false})
		return
	}

	http.SetCookie(w, h.cookie(token, h.service.Expiry(requestcontext.Now(ctx))))
	httputil.WriteJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	c := h.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
	httputil.WriteJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

func (h *Handler) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
