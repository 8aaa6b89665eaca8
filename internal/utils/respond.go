package utils

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes v as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes the standard {"error": msg} body. Store and upstream
// failure details stay in the logs, not in the response.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, map[string]string{"error": msg})
}
