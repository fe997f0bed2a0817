package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/logger"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var envelope ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	return envelope.Error
}

func TestWriteSuccessStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"price": "9000.00"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var envelope Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	assert.Equal(t, "9000.00", envelope.Data.(map[string]any)["price"])
}

func TestWriteErrorOverlapKeepsMessageAndDetails(t *testing.T) {
	w := httptest.NewRecorder()
	ctx := WithRequestID(context.Background(), "req-1")
	err := pkgerrors.New(pkgerrors.CodePeriodOverlap, "price period overlaps an existing period").
		WithDetails(map[string]string{"conflicting_id": "abc"})

	WriteError(ctx, logger.New(logger.Options{ServiceName: "test"}), w, err)

	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, string(pkgerrors.CodePeriodOverlap), body.Code)
	assert.Equal(t, "price period overlaps an existing period", body.Message)
	assert.Equal(t, "req-1", body.RequestID)
	assert.NotNil(t, body.Details)
	assert.False(t, body.Retryable)
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Code)
	assert.NotEqual(t, "boom", body.Message)
	assert.Nil(t, body.Details)
	assert.Empty(t, body.RequestID)
}

func TestWriteErrorMarksDependencyRetryable(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp"), "load services"))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeError(t, w)
	assert.True(t, body.Retryable)
	assert.NotContains(t, body.Message, "dial tcp")
}
