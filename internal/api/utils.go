package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const maxBodyBytes = 1_048_576

// ErrorResponse writes the standard JSON error envelope including the request id.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, map[string]any{
		"success":    false,
		"error":      message,
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// ValidationErrorResponse writes a 400 listing every violating field.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, verr *types.ValidationError) {
	WriteJSONResponse(w, r, http.StatusBadRequest, map[string]any{
		"success":    false,
		"error":      "validation failed",
		"fields":     verr.Fields,
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// ServiceErrorResponse maps the service error taxonomy onto HTTP statuses. Storage
// failures are reported generically.
func ServiceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationErrorResponse(w, r, verr)
	case errors.Is(err, types.ErrUnauthenticated):
		ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, types.ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, types.ErrInvalidTransition):
		ErrorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrStaleRequest):
		ErrorResponse(w, r, http.StatusConflict, "A newer request has already been sent for this trip")
	case errors.Is(err, types.ErrConflict):
		ErrorResponse(w, r, http.StatusConflict, err.Error())
	default:
		ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// WriteJSONResponse encodes data as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody decodes a single JSON object, rejecting unknown keys and bodies over 1MB.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return fmt.Errorf("body contains unknown key %q", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// DecodeAndValidate decodes the body into dst and runs struct-tag validation.
// The returned error is either a decode error or a *types.ValidationError.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := DecodeJSONBody(w, r, dst); err != nil {
		return types.NewValidationError("body", err.Error())
	}
	return ValidateStruct(dst)
}

// ReadRawBody returns the request body, capped at 1MB, for payloads that are
// validated by the schema package instead of decoded into a request struct.
func ReadRawBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	b, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, types.NewValidationError("body", fmt.Sprintf("must not be larger than %d bytes", maxBytesError.Limit))
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return b, nil
}

func VerifyAudience(claimsAudience jwt.ClaimStrings, expectedAudience string) bool {
	if expectedAudience == "" {
		return true
	}
	for _, aud := range claimsAudience {
		if aud == expectedAudience {
			return true
		}
	}
	return false
}
