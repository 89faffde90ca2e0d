package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// envelope is the wire shape every endpoint responds with. Consumers branch
// on success before touching data.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeSuccess writes a 200 response with the data wrapped in the envelope.
func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

// writeError writes an error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: msg}); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}
