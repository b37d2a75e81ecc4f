package res

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`             // message for the caller
	Details any    `json:"details,omitempty"` // provider payload or validation detail
}

// JsonResponse writes data as JSON with the given status.
func JsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Success writes {"success": true, ...payload}. Payload keys named "success" are overwritten.
func Success(w http.ResponseWriter, payload map[string]any, status int) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	JsonResponse(w, body, status)
}

// Error writes the failure envelope.
func Error(w http.ResponseWriter, message string, details any, status int) {
	JsonResponse(w, ErrorResponse{Success: false, Error: message, Details: details}, status)
}
