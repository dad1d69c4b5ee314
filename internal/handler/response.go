package handler

import (
	"encoding/json"
	"net/http"

	"github.com/authgate/authgate-go/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, model.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
