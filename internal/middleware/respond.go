package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amolv/contesthub/internal/apperr"
)

// errorBody is the failure envelope shared by every endpoint.
type errorBody struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Detail  string             `json:"detail,omitempty"`
}

// JSONResponse writes a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse writes a JSON failure envelope with the given message.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, errorBody{Success: false, Message: message})
}

// WriteError maps a domain error to its HTTP status and envelope. Unknown
// errors become a generic 500; with dev set, their detail is included,
// otherwise nothing internal leaks to the caller.
func WriteError(w http.ResponseWriter, err error, dev bool) {
	if ve, ok := apperr.AsValidation(err); ok {
		JSONResponse(w, http.StatusBadRequest, errorBody{
			Success: false,
			Message: "Validation Error",
			Errors:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrDuplicateIdentity),
		errors.Is(err, apperr.ErrInvalidTransition):
		ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrUnauthenticated),
		errors.Is(err, apperr.ErrTokenExpired),
		errors.Is(err, apperr.ErrTokenInvalid):
		ErrorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrCompetitionClosed),
		errors.Is(err, apperr.ErrEntryLimitReached):
		ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrRateLimited):
		ErrorResponse(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, apperr.ErrAuthSetup):
		ErrorResponse(w, http.StatusInternalServerError, err.Error())
	default:
		body := errorBody{Success: false, Message: "Server error"}
		if dev {
			body.Detail = err.Error()
		}
		JSONResponse(w, http.StatusInternalServerError, body)
	}
}

// ParseJSONBody decodes the request body into v.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
