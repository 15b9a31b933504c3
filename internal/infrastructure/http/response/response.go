package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents an error response. Slot and State are set when
// the error concerns one showcase slot.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Slot    *int   `json:"slot,omitempty"`
	State   string `json:"state,omitempty"`
}

var errorTypes = map[int]string{
	http.StatusBadRequest:          "bad_request",
	http.StatusNotFound:            "not_found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "unprocessable_entity",
	http.StatusTooManyRequests:     "too_many_requests",
	http.StatusInternalServerError: "internal_server_error",
}

// ErrorType returns the machine readable error type for status
func ErrorType(status int) string {
	if t, ok := errorTypes[status]; ok {
		return t
	}
	return "error"
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, ErrorResponse{
		Error:   ErrorType(status),
		Message: err.Error(),
	})
}

// SlotError sends an error response for an operation on one slot.
// state is the editor state at the time of the error, empty if unknown.
func SlotError(w http.ResponseWriter, status int, slot int, state string, err error) {
	JSON(w, status, ErrorResponse{
		Error:   ErrorType(status),
		Message: err.Error(),
		Slot:    &slot,
		State:   state,
	})
}
