// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the Anime API.

Categories:

  - Metadata: application name and version.
  - Lifecycle: startup, request and shutdown deadlines.
  - Rate Limiting: per-IP token bucket sizing.
  - Security: authentication realm and password policy.
  - Transport: header and query parameter names.
  - Cache: group labels and key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "animes"
	AppVersion = "0.1.0-dev"
)

// # Lifecycle

const (
	// StartupTimeout bounds connecting and migrating the store at boot.
	StartupTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on SIGTERM.
	ShutdownTimeout = 30 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ReadinessTimeout bounds the dependency probes of one /ready call.
	ReadinessTimeout = 2 * time.Second
)

// # HTTP Server

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the sustained requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the bucket size of the per-IP limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often idle limiter entries are swept.
	RateLimitCleanupInterval = time.Minute

	// RateLimitClientTTL is how long a client must be idle before it is forgotten.
	RateLimitClientTTL = 3 * time.Minute
)

// # Security

const (
	// AuthRealm is advertised in WWW-Authenticate challenges.
	AuthRealm = "animes"

	// MinPasswordLength applies to provisioned accounts.
	MinPasswordLength = 8
)

// # Transport

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderOrigin          = "Origin"
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	HeaderRetryAfter      = "Retry-After"

	// QueryTrace enables cause traces on error bodies in development.
	QueryTrace = "trace"
)

// # Cache

const (
	// CacheGroupAnime labels the anime cache in Prometheus series.
	CacheGroupAnime = "anime"

	// CachePrefixAnime prefixes anime ids in cache keys.
	CachePrefixAnime = "anime:"
)
