package dto

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string `json:"code" example:"APZ000005"`
	Error     string `json:"error" example:"CUSTOMER_NOT_FOUND"`
	Message   string `json:"message"`
	Status    int    `json:"status" example:"404"`
	Path      string `json:"path" example:"/v1/customers/5f1f8f86-9a4e-4a53-9a3c-2b7a1a0d6c11"`
	Timestamp string `json:"timestamp" example:"2026-03-01T12:00:00Z"`
	Field     string `json:"field,omitempty"`
}

func NewErrorResponse(status int, code, reason, message, field, path string, at time.Time) ErrorResponse {
	return ErrorResponse{
		Code:      code,
		Error:     reason,
		Message:   message,
		Status:    status,
		Path:      path,
		Timestamp: at.UTC().Format(time.RFC3339),
		Field:     field,
	}
}
