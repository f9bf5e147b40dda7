// Package shared holds the JSON response helpers every handler uses, keeping
// the envelope consistent across features.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "todotrack/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteError translates a coded error into the JSON error envelope. Errors
// without a code surface as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	message := ""
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}
