// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdano/marketplace-api/internal/platform/middleware"
	requestutil "github.com/verdano/marketplace-api/internal/platform/request"
	"github.com/verdano/marketplace-api/internal/platform/respond"
	"github.com/verdano/marketplace-api/internal/platform/validate"
)

// SessionHandler exposes the session lifecycle over HTTP.
//
// Validation is public by design: resource servers exchange an opaque session
// token for the authenticated user without holding credentials themselves.
type SessionHandler struct {
	sessions *SessionService
}

// NewSessionHandler constructs a new [SessionHandler].
func NewSessionHandler(sessions *SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Routes returns a [chi.Router] configured with session lifecycle routes.
//
// # Endpoints
//   - POST /                  : Creates a session for the authenticated user.
//   - GET /validate/{token}   : Exchanges a session token for its user.
//   - DELETE /{token}         : Invalidates one session.
//   - DELETE /                : Invalidates every session of the caller.
//   - POST /cleanup           : Triggers the expired-session sweep.
func (handler *SessionHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/validate/{token}", handler.validate)
	router.Delete("/{token}", handler.invalidate)
	router.Post("/cleanup", handler.cleanup)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Delete("/", handler.invalidateAll)
	})

	return router
}

/*
Create establishes a fresh session for the authenticated caller.

POST /api/v1/sessions

Description: Supersedes any previously active session for the user. This is
the only endpoint besides login that returns a session token.

Response:
  - 201: Session metadata including the new token
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *SessionHandler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.sessions.Create(request.Context(), userID, request.UserAgent(), getClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldSessionToken: session.Token,
		"expires_at":      session.ExpiresAt,
	})
}

/*
Validate exchanges a session token for its bound user.

GET /api/v1/sessions/validate/{token}

Description: The read side of the session lifecycle. Expired sessions are
invalidated on the spot and rejected.

Response:
  - 200: {user, session} — session metadata without the token
  - 401: ErrUnauthorized: Unknown, invalidated, or expired token
  - 404: The bound user record no longer exists
*/
func (handler *SessionHandler) validate(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	user, session, err := handler.sessions.Validate(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser:    user,
		FieldSession: session,
	})
}

/*
Invalidate terminates a single session by its token.

DELETE /api/v1/sessions/{token}

Description: Idempotent: deleting an unknown token still yields 204.

Response:
  - 204: No Content
*/
func (handler *SessionHandler) invalidate(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.sessions.Invalidate(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
InvalidateAll terminates every session of the authenticated caller.

DELETE /api/v1/sessions

Description: "Log out everywhere" for the calling account.

Response:
  - 204: No Content
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *SessionHandler) invalidateAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.InvalidateAllForUser(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Cleanup triggers the expired-session sweep on demand.

POST /api/v1/sessions/cleanup

Description: The same sweep the background ticker runs. Idempotent and safe
to call repeatedly.

Response:
  - 200: Success message
*/
func (handler *SessionHandler) cleanup(writer http.ResponseWriter, request *http.Request) {
	if err := handler.sessions.CleanupExpired(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Expired sessions invalidated",
	})
}
