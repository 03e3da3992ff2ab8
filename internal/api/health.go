// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package api

import (
	"log/slog"
	"net/http"

	"github.com/verdano/marketplace-api/internal/platform/respond"
)

// HealthDependencies holds the dependency probes behind the /ready endpoint.
//
// A nil probe is skipped, which keeps the handler usable in tests that stand
// up the server without real backends.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type dependencyCheck struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers returns the /health and /ready handler funcs.
//
// Liveness answers "is the process up"; readiness answers "can it serve
// authenticated traffic", which requires both stores to respond.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {

	checks := make([]dependencyCheck, 0, 2)
	ready := true

	run := func(name string, probe func() error) {
		if probe == nil {
			return
		}
		check := dependencyCheck{Name: name, IsOK: true}
		if err := probe(); err != nil {
			check.IsOK = false
			check.Error = err.Error()
			ready = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
		}
		checks = append(checks, check)
	}

	run("postgres", handler.dependencies.CheckDatabase)
	run("redis", handler.dependencies.CheckCache)

	status := http.StatusOK
	label := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		label = "degraded"
	}

	respond.JSON(writer, status, map[string]any{
		"status": label,
		"checks": checks,
	})
}
