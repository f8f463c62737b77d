// Package handlers implements the HTTP surface. Handlers decode, delegate
// to the services and encode; all authorization and validation decisions
// live below.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/middleware"
	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/pkg/api"
)

// statusForKind maps service error kinds to HTTP status codes.
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindInvalidOrExpired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// sendError maps a service error to a response. Internal detail never
// reaches the client; it is logged with the request id instead.
func sendError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := service.KindOf(err)
	status := statusForKind(kind)

	message := "internal server error"
	if status != http.StatusInternalServerError {
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			message = svcErr.Message
		}
	} else {
		logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
	}

	sendJSON(w, status, api.ErrorResponse{Error: message})
}

// authedUser returns the authenticated user, answering 401 when the
// request reached the handler without one. The ok result must be checked: a
// route mounted outside the auth middleware would otherwise dereference a
// nil user.
func authedUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		sendJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "not authenticated"})
	}
	return user, ok
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// sendBadJSON reports an undecodable body.
func sendBadJSON(w http.ResponseWriter) {
	sendJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
}
