package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindAuth, http.StatusUnauthorized},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.kind), "kind %q", tt.kind)
	}
}

func TestFrom_WrapsUntaggedAsInternal(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	got := From(cause)

	require.NotNil(t, got)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "Server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestFrom_FindsWrappedTaggedError(t *testing.T) {
	t.Parallel()

	tagged := NotFound("Course not found")
	wrapped := fmt.Errorf("update course: %w", tagged)

	assert.Same(t, tagged, From(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindValidation))
}

func TestFrom_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, From(nil))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.False(t, Is(nil, KindInternal))
}

func TestResponse_HidesCause(t *testing.T) {
	t.Parallel()

	err := Internal(errors.New("pq: password authentication failed for user app"))
	resp := err.Response()

	assert.Equal(t, "Server error", resp.Message)
	assert.Equal(t, "internal", resp.Error)
	assert.NotContains(t, resp.Message, "password authentication")
}
