// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/animes/internal/platform/constants"
	"github.com/taibuivan/animes/internal/platform/ctxutil"
)

// ErrorTrace lets development callers opt into cause traces on error bodies
// with '?trace=true'. It is a no-op outside development.
//
// Mount it before [Authenticate] so 401 and 403 bodies honour the flag too.
func ErrorTrace(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if cfg.IsDevelopment() && request.URL.Query().Get(constants.QueryTrace) == "true" {
				request = request.WithContext(ctxutil.WithTrace(request.Context()))
			}
			next.ServeHTTP(writer, request)
		})
	}
}
