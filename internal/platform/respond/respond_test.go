// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/ctxutil"
	"github.com/taibuivan/animes/internal/platform/respond"
)

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

func TestOK_WrapsData(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]string{"name": "Naruto"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"name":"Naruto"}}`, recorder.Body.String())
}

func TestError_MapsAppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/animes/2", nil)

	respond.Error(recorder, request, apperr.NotFound("Anime"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, "Anime not found", envelope.Error)
	assert.Equal(t, apperr.CodeNotFound, envelope.Code)
	assert.Empty(t, envelope.Trace)
}

func TestError_UnknownErrorIsInternal(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/animes", nil)

	respond.Error(recorder, request, errors.New("select failed: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, apperr.CodeInternal, envelope.Code)
	assert.NotContains(t, envelope.Error, "relation")
}

func TestError_TraceOnlyWhenEnabled(t *testing.T) {
	err := apperr.Storage(fmt.Errorf("find_anime: %w", errors.New("connection refused")))

	request := httptest.NewRequest(http.MethodGet, "/animes/1", nil)
	request = request.WithContext(ctxutil.WithTrace(request.Context()))
	recorder := httptest.NewRecorder()

	respond.Error(recorder, request, err)

	envelope := decodeError(t, recorder)
	assert.Equal(t, []string{"find_anime: connection refused", "connection refused"}, envelope.Trace)
}
