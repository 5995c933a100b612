package middleware

import (
	"net/http"

	"github.com/akinalp/eihracat/handlers"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

// RequireAdmin, platform admin rolü zorunlu kılar. AuthMiddleware'den sonra çalışır.
//
//	authMw.Require(middleware.RequireAdmin(http.HandlerFunc(h.Admin.Stats)))
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, "admin access required", (*models.User).IsAdmin)
}

// RequireConsultant, danışman veya admin rolü zorunlu kılar.
func RequireConsultant(next http.Handler) http.Handler {
	return requireRole(next, "consultant access required", func(u *models.User) bool {
		return u.IsConsultant() || u.IsAdmin()
	})
}

func requireRole(next http.Handler, msg string, allowed func(*models.User) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}
		if !allowed(user) {
			pkg.ErrorWithMessage(w, http.StatusForbidden, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}
