package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var now = time.Now

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"code":"APZ000000","error":"INTERNAL_ERROR","message":"Internal server error","status":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// respondError is the single place where domain errors become HTTP responses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, reason, message, field := http.StatusInternalServerError, apperrors.CodeInternal, apperrors.ReasonInternal, "An unexpected error occurred.", ""

	if appErr, ok := apperrors.As(err); ok {
		status = statusForKind(appErr.Kind)
		code, reason, message, field = appErr.Code, appErr.Reason, appErr.Message, appErr.Field
		if appErr.Kind == apperrors.KindValidation {
			code, reason = validationCodeForPath(r.URL.Path)
		}
		if appErr.Kind == apperrors.KindInternal {
			slog.Default().ErrorContext(r.Context(), "Internal error", "error", err)
			message = "An unexpected error occurred."
		}
	} else if errors.Is(err, apperrors.ErrInvalidArgument) || errors.Is(err, apperrors.ErrValidation) {
		status, message = http.StatusBadRequest, err.Error()
		code, reason = validationCodeForPath(r.URL.Path)
	} else {
		slog.Default().ErrorContext(r.Context(), "Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.NewErrorResponse(status, code, reason, message, field, r.URL.Path, now()))
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidAge, apperrors.KindInvalidCustomerData, apperrors.KindInsufficientCredit:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindPersistenceConflict, apperrors.KindDuplicateRequest:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func validationCodeForPath(path string) (string, string) {
	switch {
	case strings.HasPrefix(path, "/v1/customers"):
		return apperrors.CodeInvalidCustomerRequest, apperrors.ReasonInvalidCustomerRequest
	case strings.HasPrefix(path, "/v1/loans"):
		return apperrors.CodeInvalidLoanRequest, apperrors.ReasonInvalidLoanRequest
	default:
		return apperrors.CodeInvalidRequest, apperrors.ReasonInvalidRequest
	}
}

func uuidFromURL(r *http.Request, param string) (uuid.UUID, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return uuid.Nil, apperrors.NewValidationError(param, "not found in URL path")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(param, "must be a valid UUID")
	}
	return id, nil
}

func malformedBody(err error) error {
	return apperrors.NewValidationError("", fmt.Sprintf("malformed request body: %v", err))
}
