package dto

import "credit-engine/internal/pkg/apperrors"

type LoginRequest struct {
	Username string `json:"username" example:"backoffice"`
	Password string `json:"password" example:"s3cret"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return apperrors.NewValidationError("username", "must not be blank")
	}
	if r.Password == "" {
		return apperrors.NewValidationError("password", "must not be blank")
	}
	return nil
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType" example:"Bearer"`
	ExpiresIn int64  `json:"expiresIn" example:"3600"`
}
