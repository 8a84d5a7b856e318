package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"credit-engine/internal/api/handler/dto"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, code, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(status, code, reason, message, "", r.URL.Path, time.Now()))
}
