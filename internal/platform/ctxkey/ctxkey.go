// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package ctxkey holds the typed context keys for per-request values:
// correlation ID, authenticated identity claims, and the request logger.
//
// The unexported key type guarantees no collision with any other package
// storing values in the same context, since context lookups match on both
// value and type.
package ctxkey

type key string

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser carries the authenticated [sec.IdentityClaims].
	KeyUser key = "user"

	// KeyLogger carries the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
