package models

import (
	"fmt"
	"time"
)

// PasswordResetToken, şifre sıfırlama token'ının DB kaydı.
// Plaintext token sadece e-postada gider; DB'de SHA256 hash'i saklanır.
type PasswordResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ForgotPasswordRequest, "şifremi unuttum" isteği.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate, ForgotPasswordRequest'i doğrular.
func (r *ForgotPasswordRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return validateEmail(r.Email)
}

// ResetPasswordRequest, e-postadaki link ile şifre belirleme.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Validate, ResetPasswordRequest'i doğrular.
func (r *ResetPasswordRequest) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("token is required")
	}
	return validatePassword(r.NewPassword)
}
