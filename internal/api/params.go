package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// URLParamUUID parses a chi path parameter, writing a 400 when it is not a UUID.
func URLParamUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return uuid.Nil, false
	}
	return id, true
}

// URLParamInt parses a non-negative integer path parameter, writing a 400 otherwise.
func URLParamInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n < 0 {
		ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s, expected a non-negative integer", name))
		return 0, false
	}
	return n, true
}

// QueryUUID reads a required UUID query parameter such as ?id=.
func QueryUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Query parameter %q is required", name))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Query parameter %q must be a UUID", name))
		return uuid.Nil, false
	}
	return id, true
}
