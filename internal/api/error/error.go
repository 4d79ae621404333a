// Package error contains the API error envelope and its error codes.
package error

import (
	"encoding/json"
	"net/http"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	return e.Message
}

// EncodeError writes the JSON error envelope for the given code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	body := Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: requestID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	return json.NewEncoder(w).Encode(body)
}

func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}
