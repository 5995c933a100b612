// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Zincir: RequestLogger → AuthMiddleware → CompanyMiddleware → Handler.
// Her middleware func(next http.Handler) http.Handler şeklindedir; hata varsa
// next çağrılmaz ve istek burada biter.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/handlers"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/repository"
)

// TokenValidator, access token'ı sunucu tarafında doğrular.
// services.AuthService bunu karşılar.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*models.TokenClaims, error)
}

// AuthMiddleware, JWT doğrulama middleware'ı.
type AuthMiddleware struct {
	validator TokenValidator
	users     repository.UserRepository
	log       *zap.Logger
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(validator TokenValidator, users repository.UserRepository, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, users: users, log: log}
}

// Require, geçerli bir access token zorunlu kılar.
//
// Token önce "Authorization: Bearer <token>" header'ından, yoksa
// eihracat_access cookie'sinden okunur. Kullanıcı her istekte DB'den
// yeniden yüklenir; pasifleştirilmiş hesap 403 alır.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := m.validator.ValidateAccessToken(r.Context(), token)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
				return
			}
			m.log.Error("failed to load user", zap.String("user_id", claims.UserID), zap.Error(err))
			pkg.Error(w, err)
			return
		}
		if !user.IsActive {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "account is deactivated")
			return
		}

		// Hash context'te taşınmaz.
		user.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		ctx = context.WithValue(ctx, handlers.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return "", errors.New("invalid authorization format, use: Bearer <token>")
		}
		return strings.TrimSpace(token), nil
	}
	if c, err := r.Cookie(handlers.AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errors.New("authorization required")
}
