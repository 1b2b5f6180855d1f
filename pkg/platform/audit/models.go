// Package audit carries the audit trail of collection and session changes.
package audit

import (
	"context"
	"time"
)

// Category routes events to retention and alerting.
type Category string

const (
	CategorySecurity   Category = "security"
	CategoryOperations Category = "operations"
)

// Action names an audited change.
type Action string

const (
	ActionBookmarkCreated     Action = "bookmark_created"
	ActionBookmarkUpdated     Action = "bookmark_updated"
	ActionBookmarkDeleted     Action = "bookmark_deleted"
	ActionCollectionReordered Action = "collection_reordered"
	ActionCollectionSeeded    Action = "collection_seeded"
	ActionCollectionCleared   Action = "collection_cleared"

	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"
	ActionLogout         Action = "logout"
)

// CategoryOf classifies an action. Session actions are security events.
func CategoryOf(a Action) Category {
	switch a {
	case ActionLoginSucceeded, ActionLoginFailed, ActionLogout:
		return CategorySecurity
	default:
		return CategoryOperations
	}
}

// Event is one audit record. It stays transport-agnostic so publishers can
// log it, stream it or keep it in memory.
type Event struct {
	Category  Category  `json:"category"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	// Subject is the bookmark id, or the login email for session events.
	Subject    string `json:"subject,omitempty"`
	Privileged bool   `json:"privileged"`
	ClientIP   string `json:"client_ip,omitempty"`
	Browser    string `json:"browser,omitempty"`
	OS         string `json:"os,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// Publisher accepts audit events. Emit must not block on slow sinks.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
