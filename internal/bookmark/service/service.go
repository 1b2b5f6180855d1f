package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"linkshelf/internal/bookmark/metrics"
	"linkshelf/internal/bookmark/models"
	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/platform/audit"
	"linkshelf/pkg/platform/sentinel"
	"linkshelf/pkg/requestcontext"
)

// Store persists the ordered collection. Implementations return sentinel
// errors; the service translates them.
type Store interface {
	ListAll(ctx context.Context) ([]*models.Bookmark, error)
	Insert(ctx context.Context, b *models.Bookmark) error
	Update(ctx context.Context, id string, patch models.Patch) error
	SetRank(ctx context.Context, id string, rank int) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	SeedIfEmpty(ctx context.Context, records []*models.Bookmark) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// reorderFanout bounds the number of concurrent rank updates.
const reorderFanout = 16

// Service owns the ordered collection: listing with seeding, inserts at the
// end, privileged edits and full reorders.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	defaults       []models.Bookmark
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithDefaultSet replaces the records used to seed an empty store.
func WithDefaultSet(records []models.Bookmark) Option {
	return func(s *Service) {
		s.defaults = records
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("bookmark store is required")
	}
	s := &Service{
		store:    store,
		logger:   slog.Default(),
		tracer:   otel.Tracer("linkshelf/bookmark"),
		defaults: DefaultSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListAll returns the collection sorted by (rank, id), seeding it first when
// the store is empty.
func (s *Service) ListAll(ctx context.Context) ([]*models.Bookmark, error) {
	const op = "list"
	ctx, span := s.tracer.Start(ctx, "bookmark.ListAll")
	defer span.End()
	defer s.observe(op, time.Now())

	seeded, err := s.store.SeedIfEmpty(ctx, s.seedRecords())
	if err != nil {
		return nil, s.storeFailure(ctx, span, "seed", err, "failed to seed collection")
	}
	if seeded {
		s.logAudit(ctx, audit.Event{Action: audit.ActionCollectionSeeded, Count: len(s.defaults)})
		if s.metrics != nil {
			s.metrics.IncSeeded()
		}
	}

	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, span, op, err, "failed to load collection")
	}
	models.Sort(records)
	span.SetAttributes(attribute.Int("bookmark.count", len(records)))
	return records, nil
}

// Insert appends a record at rank max+1.
func (s *Service) Insert(ctx context.Context, name, url, typ, region string) (*models.Bookmark, error) {
	const op = "insert"
	ctx, span := s.tracer.Start(ctx, "bookmark.Insert")
	defer span.End()
	defer s.observe(op, time.Now())

	b, err := models.NewBookmark(name, url, typ, region)
	if err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, s.storeFailure(ctx, span, op, err, "failed to add bookmark")
	}
	span.SetAttributes(attribute.String("bookmark.id", b.ID), attribute.Int("bookmark.rank", b.Rank))
	s.logAudit(ctx, audit.Event{Action: audit.ActionBookmarkCreated, Subject: b.ID})
	s.incMutation(op)
	return b, nil
}

// Update overwrites the supplied fields of an existing record.
func (s *Service) Update(ctx context.Context, id string, patch models.Patch) error {
	const op = "update"
	ctx, span := s.tracer.Start(ctx, "bookmark.Update", trace.WithAttributes(attribute.String("bookmark.id", id)))
	defer span.End()
	defer s.observe(op, time.Now())

	if !requestcontext.Privileged(ctx) {
		span.SetStatus(codes.Error, "unauthorized")
		return dErrors.New(dErrors.CodeUnauthorized, "Unauthorized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id required")
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			span.SetStatus(codes.Error, "not found")
			return dErrors.New(dErrors.CodeNotFound, "bookmark not found")
		}
		return s.storeFailure(ctx, span, op, err, "failed to update bookmark")
	}
	s.logAudit(ctx, audit.Event{Action: audit.ActionBookmarkUpdated, Subject: id})
	s.incMutation(op)
	return nil
}

// Delete removes a record. Deleting an absent id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "delete"
	ctx, span := s.tracer.Start(ctx, "bookmark.Delete", trace.WithAttributes(attribute.String("bookmark.id", id)))
	defer span.End()
	defer s.observe(op, time.Now())

	if !requestcontext.Privileged(ctx) {
		span.SetStatus(codes.Error, "unauthorized")
		return dErrors.New(dErrors.CodeUnauthorized, "Unauthorized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeFailure(ctx, span, op, err, "failed to delete bookmark")
	}
	s.logAudit(ctx, audit.Event{Action: audit.ActionBookmarkDeleted, Subject: id})
	s.incMutation(op)
	return nil
}

// Reorder sets rank = index for every id. Updates run concurrently and
// independently, so a failure part way leaves earlier ranks applied; callers
// repair by sending the full order again. Unknown ids are skipped by the store.
func (s *Service) Reorder(ctx context.Context, ids []string) error {
	const op = "reorder"
	ctx, span := s.tracer.Start(ctx, "bookmark.Reorder", trace.WithAttributes(attribute.Int("bookmark.count", len(ids))))
	defer span.End()
	defer s.observe(op, time.Now())

	if err := validateOrder(ids); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reorderFanout)
	for rank, id := range ids {
		g.Go(func() error {
			return s.store.SetRank(gctx, id, rank)
		})
	}
	if err := g.Wait(); err != nil {
		return s.storeFailure(ctx, span, op, err, "failed to reorder")
	}
	s.logAudit(ctx, audit.Event{Action: audit.ActionCollectionReordered, Count: len(ids)})
	s.incMutation(op)
	return nil
}

// ClearAll removes every record. The next ListAll reseeds.
func (s *Service) ClearAll(ctx context.Context) error {
	const op = "clear"
	ctx, span := s.tracer.Start(ctx, "bookmark.ClearAll")
	defer span.End()
	defer s.observe(op, time.Now())

	if err := s.store.Clear(ctx); err != nil {
		return s.storeFailure(ctx, span, op, err, "failed to clear collection")
	}
	s.logAudit(ctx, audit.Event{Action: audit.ActionCollectionCleared})
	s.incMutation(op)
	return nil
}

// Reset clears the collection and returns the freshly seeded default set.
func (s *Service) Reset(ctx context.Context) ([]*models.Bookmark, error) {
	if err := s.ClearAll(ctx); err != nil {
		return nil, err
	}
	return s.ListAll(ctx)
}

func validateOrder(ids []string) error {
	if ids == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "ids array required")
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "malformed id: "+id)
		}
		if _, dup := seen[id]; dup {
			return dErrors.New(dErrors.CodeInvalidInput, "duplicate id: "+id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// seedRecords copies the default set so stores may assign ids in place.
func (s *Service) seedRecords() []*models.Bookmark {
	out := make([]*models.Bookmark, len(s.defaults))
	for i, d := range s.defaults {
		d.ID = ""
		d.Rank = i
		out[i] = &d
	}
	return out
}

func (s *Service) storeFailure(ctx context.Context, span trace.Span, op string, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.ErrorContext(ctx, msg,
		"op", op,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncStoreFailure(op)
	}
	return dErrors.Wrap(err, dErrors.CodeStoreUnavailable, msg)
}

func (s *Service) logAudit(ctx context.Context, e audit.Event) {
	e.Category = audit.CategoryOf(e.Action)
	e.Timestamp = requestcontext.Now(ctx)
	e.RequestID = requestcontext.RequestID(ctx)
	e.Privileged = requestcontext.Privileged(ctx)
	e.ClientIP = requestcontext.ClientIP(ctx)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(e.Action), "error", err)
	}
}

func (s *Service) incMutation(op string) {
	if s.metrics != nil {
		s.metrics.IncMutation(op)
	}
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}
