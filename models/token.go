package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access token payload'ı.
// Middleware, ws ve services katmanları tarafından paylaşılır.
type TokenClaims struct {
	UserID string       `json:"user_id"`
	Email  string       `json:"email"`
	Role   PlatformRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair, login/refresh yanıtında dönen token çifti.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // saniye
}

// AuthResponse, login/register yanıtı.
type AuthResponse struct {
	User *User `json:"user"`
	TokenPair
}
