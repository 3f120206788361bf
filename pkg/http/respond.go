package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape every auth endpoint follows:
// {success, message, ...operation-specific fields}.
type Envelope map[string]interface{}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Log-worthy only; never exposed to the client.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes a 200 success envelope with extra fields merged in.
func WriteOK(w http.ResponseWriter, message string, extra Envelope) {
	WriteSuccess(w, http.StatusOK, message, extra)
}

// WriteSuccess writes a success envelope with the given status.
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, extra Envelope) {
	body := Envelope{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, statusCode, body)
}

// WriteError writes a failure envelope with the given status.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteErrorExtra(w, statusCode, message, nil)
}

// WriteErrorExtra writes a failure envelope with extra fields merged in
// (attempts-remaining hints, lockedUntil, requiresVerification).
func WriteErrorExtra(w http.ResponseWriter, statusCode int, message string, extra Envelope) {
	body := Envelope{
		"success": false,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, statusCode, body)
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
