// Package logpub writes audit events to a structured logger.
package logpub

import (
	"context"
	"log/slog"

	"linkshelf/pkg/platform/audit"
)

type Publisher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, e audit.Event) error {
	p.logger.InfoContext(ctx, string(e.Action),
		"log_type", "audit",
		"category", string(e.Category),
		"timestamp", e.Timestamp,
		"request_id", e.RequestID,
		"subject", e.Subject,
		"privileged", e.Privileged,
		"client_ip", e.ClientIP,
		"browser", e.Browser,
		"os", e.OS,
		"count", e.Count,
	)
	return nil
}

func (p *Publisher) Close() error { return nil }
