package api

import (
	"encoding/json"
	"net/http"

	"github.com/planstack/floorplan/pkg/errors"
)

// errorBody is the JSON envelope for all error responses.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its HTTP status and writes the envelope.
// Errors without a known code become opaque 500s so internals never
// leak to clients.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	message := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		code = errors.ErrCodeInternal
		message = "internal server error"
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: message,
	}})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidRules,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeLayoutNotFound,
		errors.ErrCodeObjectNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNoPath,
		errors.ErrCodePlacementBlocked:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
