package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkshelf/internal/bookmark/models"
	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/platform/httputil"
	"linkshelf/pkg/requestcontext"
	"linkshelf/pkg/types"
)

// Service is the collection API the handler drives.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Bookmark, error)
	Insert(ctx context.Context, name, url, typ, region string) (*models.Bookmark, error)
	Update(ctx context.Context, id string, patch models.Patch) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
	Reset(ctx context.Context) ([]*models.Bookmark, error)
}

// Handler serves /api/bookmarks.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the bookmark routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/bookmarks", h.handleList)
	r.Post("/api/bookmarks", h.handleCreate)
	r.Patch("/api/bookmarks", h.handleUpdate)
	r.Delete("/api/bookmarks", h.handleDelete)
	r.Put("/api/bookmarks", h.handleReorder)
}

// handleList returns the ordered collection. ?reset=1 (or the older
// ?reseed=1) clears and reseeds first.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		records []*models.Bookmark
		err     error
	)
	if wantsReset(r) {
		records, err = h.service.Reset(ctx)
	} else {
		records, err = h.service.ListAll(ctx)
	}
	if err != nil {
		h.fail(ctx, w, "failed to list bookmarks", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponses(records))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.CreateBookmarkRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid create request", err)
		return
	}
	b, err := h.service.Insert(ctx, req.Name, req.URL, req.Type, req.Region)
	if err != nil {
		h.fail(ctx, w, "failed to create bookmark", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Authorization is checked before the body is read.
	if !requestcontext.Privileged(ctx) {
		h.fail(ctx, w, "update rejected", dErrors.New(dErrors.CodeUnauthorized, "Unauthorized"))
		return
	}
	var req types.UpdateBookmarkRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid update request", err)
		return
	}
	if req.ID == "" {
		h.fail(ctx, w, "invalid update request", dErrors.New(dErrors.CodeInvalidInput, "id required"))
		return
	}
	patch := models.Patch{Name: req.Name, URL: req.URL, Type: req.Type, Region: req.Region}
	if err := h.service.Update(ctx, req.ID, patch); err != nil {
		h.fail(ctx, w, "failed to update bookmark", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !requestcontext.Privileged(ctx) {
		h.fail(ctx, w, "delete rejected", dErrors.New(dErrors.CodeUnauthorized, "Unauthorized"))
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		h.fail(ctx, w, "invalid delete request", dErrors.New(dErrors.CodeInvalidInput, "id required"))
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(ctx, w, "failed to delete bookmark", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

func (h *Handler) handleReorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.ReorderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "invalid reorder request", err)
		return
	}
	if err := h.service.Reorder(ctx, req.IDs); err != nil {
		h.fail(ctx, w, "failed to reorder", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types.OKResponse{OK: true})
}

// fail logs at warn for caller mistakes and at error for server faults, then
// writes the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := requestcontext.RequestID(ctx)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeStoreUnavailable:
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	default:
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}

func wantsReset(r *http.Request) bool {
	q := r.URL.Query()
	for _, key := range []string{"reset", "reseed"} {
		switch q.Get(key) {
		case "1", "true":
			return true
		}
	}
	return false
}
