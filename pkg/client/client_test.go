package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/types"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: url})
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires base url", func(t *testing.T) {
		t.Parallel()
		c, err := New(Config{})
		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "BaseURL is required")
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, " http://example.invalid/ ")
		assert.Equal(t, "http://example.invalid", c.baseURL)
		assert.Equal(t, defaultTimeout, c.http.Timeout)
		assert.NotNil(t, c.http.Jar)
	})
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "store_unavailable"})
		case http.MethodPost:
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_input", "error_description": "name and url required"})
		case http.MethodPatch:
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		case http.MethodDelete:
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.List(ctx)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStoreUnavailable), "envelope code wins over status")

	_, err = c.Create(ctx, types.CreateBookmarkRequest{Name: "x"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Contains(t, err.Error(), "name and url required")

	err = c.Update(ctx, types.UpdateBookmarkRequest{ID: "x"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = c.Delete(ctx, "x")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	err = c.Reorder(ctx, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestUnreachableServerIsStoreUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).List(context.Background())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStoreUnavailable))
}

func TestLocalValidation(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "http://example.invalid")

	err := c.Delete(context.Background(), " ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	err = c.Update(context.Background(), types.UpdateBookmarkRequest{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
