package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStoreUnavailable, "failed to list bookmarks")
	outer := fmt.Errorf("handler: %w", err)

	assert.True(t, HasCode(outer, CodeStoreUnavailable))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.ErrorIs(t, outer, cause)
	assert.Equal(t, CodeStoreUnavailable, CodeOf(outer))
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidInput:     http.StatusBadRequest,
		CodeNotFound:         http.StatusNotFound,
		CodeUnauthorized:     http.StatusUnauthorized,
		CodeStoreUnavailable: http.StatusInternalServerError,
		CodeInternal:         http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
	assert.Equal(t, CodeUnauthorized, FromHTTPStatus(http.StatusUnauthorized))
	assert.Equal(t, CodeInvalidInput, FromHTTPStatus(http.StatusBadRequest))
	assert.Equal(t, CodeInternal, FromHTTPStatus(http.StatusInternalServerError))
}
