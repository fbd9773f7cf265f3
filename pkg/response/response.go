package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body. Bodies are written as-is: the detail
// endpoint returns the view object, the list endpoint a bare array.
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// NoContent answers 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, statusCode int, msg string) {
	JSON(w, statusCode, map[string]string{"error": msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}

func Unauthorized(w http.ResponseWriter, msg string) {
	Error(w, http.StatusUnauthorized, msg)
}

// NotFound answers a bare 404. No body, so an absent note and a foreign-
// owned note are byte-identical on the wire.
func NotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func InternalError(w http.ResponseWriter, msg string) {
	Error(w, http.StatusInternalServerError, msg)
}
