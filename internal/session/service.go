// Package session implements the admin login: credential check, the signed
// session marker cookie and the middleware that marks requests privileged.
package session

import (
	"context"
	"log/slog"
	"time"

	"linkshelf/pkg/platform/audit"
	"linkshelf/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service checks credentials and issues session markers.
type Service struct {
	credentials    *Credentials
	signer         *Signer
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

func New(credentials *Credentials, signer *Signer, opts ...Option) *Service {
	s := &Service{
		credentials: credentials,
		signer:      signer,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login returns a signed marker and true when the credentials match.
func (s *Service) Login(ctx context.Context, email, password string) (string, bool, error) {
	if !s.credentials.Check(email, password) {
		s.logAudit(ctx, audit.ActionLoginFailed, email)
		return "", false, nil
	}
	token, err := s.signer.Issue(email, requestcontext.Now(ctx))
	if err != nil {
		return "", false, err
	}
	s.logAudit(ctx, audit.ActionLoginSucceeded, email)
	return token, true, nil
}

// Logout records the event. The marker itself is cleared by the transport.
func (s *Service) Logout(ctx context.Context) {
	s.logAudit(ctx, audit.ActionLogout, "")
}

// IsPrivileged reports whether token is a valid, unexpired marker.
func (s *Service) IsPrivileged(token string) bool {
	if token == "" {
		return false
	}
	_, err := s.signer.Validate(token)
	return err == nil
}

// Expiry is when a marker issued at now stops being valid.
func (s *Service) Expiry(now time.Time) time.Time {
	return now.Add(s.signer.TTL())
}

func (s *Service) logAudit(ctx context.Context, action audit.Action, subject string) {
	client := parseUserAgent(requestcontext.UserAgent(ctx))
	e := audit.Event{
		Category:   audit.CategoryOf(action),
		Action:     action,
		Timestamp:  requestcontext.Now(ctx),
		RequestID:  requestcontext.RequestID(ctx),
		Subject:    subject,
		Privileged: action == audit.ActionLoginSucceeded,
		ClientIP:   requestcontext.ClientIP(ctx),
		Browser:    client.Browser,
		OS:         client.OS,
	}
	if action == audit.ActionLoginFailed {
		s.logger.WarnContext(ctx, "admin login failed",
			"request_id", e.RequestID,
			"client_ip", e.ClientIP,
			"browser", e.Browser,
		)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(action), "error", err)
	}
}
