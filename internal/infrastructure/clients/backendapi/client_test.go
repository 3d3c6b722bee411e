package backendapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	apperrors "github.com/bloomwell/maternity-ai/backend/pkg/errors"
)

func testResult() *entities.RecommendationResult {
	return &entities.RecommendationResult{
		ResultID:     "abc12345",
		ExpiresInSec: entities.ResultExpirySeconds,
		Items:        []entities.RecommendationItem{},
	}
}

func TestForward_PostsResult(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, resultsPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Forward(context.Background(), testResult())

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestForward_RetriesOnceThenSucceeds(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Forward(context.Background(), testResult())

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestForward_ExhaustedRetriesReportExternalError(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Forward(context.Background(), testResult())

	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestForward_NilResultRejected(t *testing.T) {
	client := NewClient("http://localhost:1")
	assert.Error(t, client.Forward(context.Background(), nil))
}
