// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the per-request values shared by the
// middleware chain and the handlers: request id, logger, caller identity and
// the development trace flag.
//
// Each value has its own unexported key type, so no other package can read or
// overwrite it through [context.WithValue].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/animes/internal/platform/sec"
)

type (
	requestIDKey struct{}
	loggerKey    struct{}
	authUserKey  struct{}
	traceKey     struct{}
)

// lookup returns the value stored under key, or the zero T when absent.
func lookup[T any](ctx context.Context, key any) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// # Request Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, requestIDKey{})
	return id
}

// # Structured Logging

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the request-scoped logger, falling back to [slog.Default].
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := lookup[*slog.Logger](ctx, loggerKey{}); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, authUserKey{}, user)
}

// AuthUser returns the authenticated caller, or nil for anonymous requests.
func AuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := lookup[*sec.AuthClaims](ctx, authUserKey{})
	return claims
}

// # Diagnostics

// WithTrace marks the context as allowed to expose error causes.
func WithTrace(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceKey{}, true)
}

func TraceEnabled(ctx context.Context) bool {
	enabled, _ := lookup[bool](ctx, traceKey{})
	return enabled
}
