package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, Privileged(ctx))
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestValuesDoNotCollide(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := WithPrivileged(context.Background(), true)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithClientMetadata(ctx, "192.0.2.1", "curl/8.0")
	ctx = WithTime(ctx, fixed)

	assert.True(t, Privileged(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "192.0.2.1", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
