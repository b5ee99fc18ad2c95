package handler

import (
	"errors"
	"net/http"
	"strconv"

	"wrenchway-api/internal/apperror"
	"wrenchway-api/internal/delivery/http/middleware"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps a use case error to its HTTP status. Domain errors carry
// their own message; anything else is reported as a generic failure.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := apperror.HTTPStatus(err)
	switch {
	case status == http.StatusServiceUnavailable:
		response.ServiceUnavailable(w, "")
	case status >= http.StatusInternalServerError:
		response.InternalServerError(w, fallback)
	default:
		response.Error(w, status, err.Error(), nil)
	}
}

func currentActor(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return actor, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

const maxPageSize = 100

// pagination reads ?page= and ?limit=, falling back to defaultLimit.
func pagination(r *http.Request, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

var errMalformedQuery = errors.New("malformed query parameter")

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errMalformedQuery
	}
	return &id, nil
}
