// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdano/marketplace-api/internal/platform/middleware"
	requestutil "github.com/verdano/marketplace-api/internal/platform/request"
	"github.com/verdano/marketplace-api/internal/platform/respond"
	"github.com/verdano/marketplace-api/internal/platform/sec"
	"github.com/verdano/marketplace-api/internal/platform/validate"
	"github.com/verdano/marketplace-api/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public Directory
	router.Get("/sellers", handler.listSellers)

	// Authenticated Directory & Profile Management
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
		r.Get("/me", handler.getMe)
		r.Get("/{id}", handler.get)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.deactivate)
		r.Patch("/{id}/status", handler.updateStatus)
	})

	return router
}

// # Directory Endpoints

/*
GET /api/v1/users.

Description: Lists the user directory with optional search and role/status
filters. Paginated via ?page and ?limit.

Query:
  - search: Matches first name, last name, or email (case-insensitive)
  - role: seller | buyer
  - status: active | inactive | pending

Response:
  - 200: Paginated list of redacted users
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	filter := ListFilter{
		Search: request.URL.Query().Get("search"),
		Role:   sec.UserRole(request.URL.Query().Get("role")),
		Status: sec.UserStatus(request.URL.Query().Get("status")),
	}

	v := &validate.Validator{}
	if filter.Role != "" {
		v.OneOf("role", string(filter.Role), string(sec.RoleSeller), string(sec.RoleBuyer))
	}
	if filter.Status != "" {
		v.OneOf("status", string(filter.Status),
			string(sec.StatusActive), string(sec.StatusInactive), string(sec.StatusPending))
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, meta, err := handler.accountService.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

/*
GET /api/v1/users/sellers.

Description: Public directory of active sellers.

Response:
  - 200: []SellerInfo
*/
func (handler *Handler) listSellers(writer http.ResponseWriter, request *http.Request) {
	sellers, err := handler.accountService.ListSellers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sellers)
}

// # Profile Endpoints

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Redacted user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves the profile of any user by ID.

Response:
  - 200: User: Redacted user profile
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	v.Required("id", id).UUID("id", id)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateRequest defines the expected JSON payload for profile updates.
type updateRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

/*
PATCH /api/v1/users/{id}.

Description: Applies partial updates to a profile. Owner-only.

Request:
  - body: updateRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON: Invalid input data
  - 403: ErrForbidden: Caller is not the account holder
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), callerID, id, UpdateProfileInput{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Description: Deactivates an account (soft delete). Owner-only. All active
sessions are terminated.

Response:
  - 204: No Content
  - 403: ErrForbidden: Caller is not the account holder
*/
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	if err := handler.accountService.Deactivate(request.Context(), callerID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// updateStatusRequest carries the target lifecycle status.
type updateStatusRequest struct {
	Status string `json:"status"`
}

/*
PATCH /api/v1/users/{id}/status.

Description: Transitions an account's lifecycle status. Drives the
PENDING -> ACTIVE activation step after registration.

Request:
  - body: updateStatusRequest (Status)

Response:
  - 204: No Content
  - 400: Invalid status value
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("status", input.Status).
		OneOf("status", input.Status,
			string(sec.StatusActive), string(sec.StatusInactive), string(sec.StatusPending))
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.UpdateStatus(request.Context(), id, sec.UserStatus(input.Status)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
