// Package requestcontext carries request-scoped values without net/http.
// Middleware writes them; services and audit publishers read them.
//
//	if !requestcontext.Privileged(ctx) { ... }
//	ctx = requestcontext.WithTime(ctx, fixedTime) // tests
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	privilegedKey key = iota
	clientIPKey
	userAgentKey
	requestIDKey
	requestTimeKey
)

func stringValue(ctx context.Context, k key) string {
	v, _ := ctx.Value(k).(string)
	return v
}

// Privileged reports whether the request carried a valid admin session marker.
func Privileged(ctx context.Context) bool {
	v, _ := ctx.Value(privilegedKey).(bool)
	return v
}

// WithPrivileged records the outcome of session marker validation.
func WithPrivileged(ctx context.Context, privileged bool) context.Context {
	return context.WithValue(ctx, privilegedKey, privileged)
}

func ClientIP(ctx context.Context) string {
	return stringValue(ctx, clientIPKey)
}

// UserAgent is the raw User-Agent header.
func UserAgent(ctx context.Context) string {
	return stringValue(ctx, userAgentKey)
}

// WithClientMetadata stores the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func RequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now is the time pinned for the request, or the wall clock outside one
// (CLI, background tasks).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
