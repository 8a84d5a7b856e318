package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/config"
	"credit-engine/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps the bcrypt cost constant for unknown usernames.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("credit-engine"), bcrypt.DefaultCost)
	return hash
})

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// Login exchanges API client credentials for a signed bearer token.
//
// @Summary Obtain a JWT bearer token
// @Description Verifies the configured API client credentials and returns an HS256 token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "API client credentials"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", "error", err)
		respondError(w, r, malformedBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	if !h.verifyCredentials(req.Username, req.Password) {
		h.logger.WarnContext(r.Context(), "Rejected login attempt", "username", req.Username)
		respondError(w, r, apperrors.Unauthorized("invalid username or password"))
		return
	}

	issuedAt := now()
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		Issuer:    h.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(h.tokenTTL())),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		respondError(w, r, apperrors.Internal("failed to sign token", err))
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", "username", req.Username)
	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokenTTL() / time.Second),
	})
}

func (h *AuthHandler) verifyCredentials(username, password string) bool {
	hash := dummyHash()
	found := false
	for _, u := range h.cfg.Users {
		if subtle.ConstantTimeCompare([]byte(u.Username), []byte(username)) == 1 {
			hash = []byte(u.PasswordHash)
			found = true
			break
		}
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	return found && err == nil
}

func (h *AuthHandler) tokenTTL() time.Duration {
	if h.cfg.TokenTTL <= 0 {
		return time.Hour
	}
	return h.cfg.TokenTTL
}
