// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/animes/internal/platform/request"
	"github.com/taibuivan/animes/internal/platform/sec"
	"github.com/taibuivan/animes/internal/platform/validate"
)

func withURLParam(request *http.Request, key, value string) *http.Request {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

func TestIntID(t *testing.T) {
	request := withURLParam(httptest.NewRequest(http.MethodGet, "/animes/42", nil), "id", "42")
	id, err := requestutil.IntID(request, "id")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	request = withURLParam(httptest.NewRequest(http.MethodGet, "/animes/abc", nil), "id", "abc")
	_, err = requestutil.IntID(request, "id")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/animes", strings.NewReader(`{"name":"Bleach"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &target))
	assert.Equal(t, "Bleach", target.Name)

	request = httptest.NewRequest(http.MethodPost, "/animes", strings.NewReader(`{"name":`))
	assert.Equal(t, validate.ErrInvalidJSON, requestutil.DecodeJSON(request, &target))
}

func TestRequiredClaims(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/animes", nil)
	_, err := requestutil.RequiredClaims(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	claims := &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleUser)}
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	got, err := requestutil.RequiredClaims(request)
	require.NoError(t, err)
	assert.Same(t, claims, got)
	assert.Same(t, claims, requestutil.Claims(request))
}
