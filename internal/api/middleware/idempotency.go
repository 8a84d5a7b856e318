package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5/middleware"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

type IdempotencyStore interface {
	// Reserve reports false when key is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a repeated Idempotency-Key with 409 while the first
// request is running or after it succeeded. A failed request frees its key,
// including one that panicked before writing a response.
// Requests without the header pass through.
func Idempotency(store IdempotencyStore, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLength {
				writeError(w, r, http.StatusBadRequest, apperrors.CodeInvalidRequest, apperrors.ReasonInvalidRequest,
					fmt.Sprintf("%s must be at most %d characters", IdempotencyKeyHeader, maxIdempotencyKeyLength))
				return
			}

			scoped := r.Method + ":" + r.URL.Path + ":" + key
			reserved, err := store.Reserve(r.Context(), scoped, ttl)
			if err != nil {
				logger.ErrorContext(r.Context(), "Idempotency store unavailable", "error", err)
				writeError(w, r, http.StatusInternalServerError, apperrors.CodeInternal, apperrors.ReasonInternal, "An unexpected error occurred.")
				return
			}
			if !reserved {
				logger.WarnContext(r.Context(), "Duplicate request rejected", "idempotency_key", key)
				dup, _ := apperrors.As(apperrors.DuplicateRequest(key))
				writeError(w, r, http.StatusConflict, dup.Code, dup.Reason, dup.Message)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if status := ww.Status(); status == 0 || status >= http.StatusBadRequest {
					if err := store.Release(context.WithoutCancel(r.Context()), scoped); err != nil {
						logger.ErrorContext(r.Context(), "Failed to release idempotency key", "idempotency_key", key, "error", err)
					}
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
