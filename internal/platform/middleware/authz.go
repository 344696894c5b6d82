// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/constants"
	"github.com/taibuivan/animes/internal/platform/ctxutil"
	"github.com/taibuivan/animes/internal/platform/respond"
	"github.com/taibuivan/animes/internal/platform/sec"
)

// CredentialChecker verifies a username/password pair (HTTP Basic).
type CredentialChecker interface {
	Authenticate(ctx context.Context, username, password string) (*sec.AuthClaims, error)
}

// TokenVerifier defines the interface needed to verify Bearer tokens.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate resolves the caller's identity from the Authorization header.
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. 'Basic': credentials are checked through [CredentialChecker].
//  3. 'Bearer': the token is verified through [TokenVerifier] when one is configured.
//  4. The resulting [*sec.AuthClaims] is injected into the request context.
//
// A nil verifier disables Bearer authentication.
func Authenticate(credentials CredentialChecker, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			scheme, _, _ := strings.Cut(authHeader, " ")

			var (
				claims *sec.AuthClaims
				err    error
			)

			switch strings.ToLower(scheme) {

			// ── 2. Basic Credentials ──────────────────────────────────────────
			case "basic":
				username, password, ok := request.BasicAuth()
				if !ok {
					challenge(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}
				claims, err = credentials.Authenticate(request.Context(), username, password)

			// ── 3. Bearer Token ───────────────────────────────────────────────
			case "bearer":
				if verifier == nil {
					challenge(writer, request, apperr.Unauthorized("Bearer tokens are not accepted"))
					return
				}
				_, token, _ := strings.Cut(authHeader, " ")
				claims, err = verifier.VerifyToken(strings.TrimSpace(token))
				if err != nil {
					err = apperr.Unauthorized("Invalid or expired token")
				}

			default:
				challenge(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			if err != nil {
				// Storage failures while loading the account are not the caller's fault.
				if apperr.HasCode(err, apperr.CodeUnauthorized) {
					challenge(writer, request, err)
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Anonymous callers
// are rejected here, so no separate authentication guard is needed.
//
// # Flow
//  1. Anonymous callers get 401 with a Basic challenge.
//  2. Callers whose role is below the target (see [sec.UserRole.AtLeast]) get 403.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.AuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				challenge(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// challenge writes a 401 response advertising Basic authentication.
func challenge(writer http.ResponseWriter, request *http.Request, err error) {
	writer.Header().Set(constants.HeaderWWWAuthenticate, fmt.Sprintf("Basic realm=%q", constants.AuthRealm))
	respond.Error(writer, request, err)
}
