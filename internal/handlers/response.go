package handlers

import (
	"encoding/json"
	"net/http"

	"taskflow/internal/middleware"
	"taskflow/internal/models"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	storage := make(map[string]any)
	for _, pl := range payload {
		storage[pl.Key] = pl.Payload
	}
	json.NewEncoder(w).Encode(storage)
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, toPayload("message", message))
}

func responseWithServerError(w http.ResponseWriter, message string, err error) {
	responseWithJSON(w, http.StatusInternalServerError,
		toPayload("message", message),
		toPayload("error", err.Error()),
	)
}

// caller достаёт личность вызывающего, положенную Auth-middleware
func caller(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		responseWithError(w, http.StatusUnauthorized, "Authorization token required")
		return nil, false
	}
	return user, true
}
