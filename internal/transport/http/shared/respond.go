package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "verifyhr/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Unknown
// errors collapse to an opaque 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: string(dErrors.CodeInternal), Message: "internal error"})
		return
	}
	WriteJSON(w, statusFor(domainErr.Code), errorBody{Error: string(domainErr.Code), Message: domainErr.Message})
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodePrecondition:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTransport, dErrors.CodeFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
