package middleware

import (
	"context"
	"net/http"

	"github.com/akinalp/eihracat/handlers"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

// PermissionResolver, kullanıcının firmadaki efektif yetkisini hesaplar.
// services.PermissionService bunu karşılar.
type PermissionResolver interface {
	Resolve(ctx context.Context, user *models.User, companyID string) (models.Permission, error)
}

// CompanyMiddleware, {companyId} path parametreli route'larda firma erişimini denetler.
//
// AuthMiddleware'den SONRA çalışır. Platform admin her firmaya PermAll ile girer;
// atanmış danışman PermConsultant alır; üye olmayan 403 alır.
type CompanyMiddleware struct {
	resolver PermissionResolver
}

// NewCompanyMiddleware, constructor.
func NewCompanyMiddleware(resolver PermissionResolver) *CompanyMiddleware {
	return &CompanyMiddleware{resolver: resolver}
}

// Member, firmaya herhangi bir erişimi (üyelik veya danışmanlık) yeterli sayar.
func (m *CompanyMiddleware) Member(next http.Handler) http.Handler {
	return m.Require(models.PermViewCompany, next)
}

// Require, belirli bir yetkiyi gerektiren middleware döner.
//
//	companyMw.Require(models.PermManageTasks, http.HandlerFunc(h.Project.CreateTask))
func (m *CompanyMiddleware) Require(perm models.Permission, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		companyID := r.PathValue("companyId")
		if companyID == "" {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "companyId is required")
			return
		}

		perms, err := m.resolver.Resolve(r.Context(), user, companyID)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		if perms == 0 {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "you do not have access to this company")
			return
		}
		if !perms.Has(perm) {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		ctx := context.WithValue(r.Context(), handlers.CompanyIDContextKey, companyID)
		ctx = context.WithValue(ctx, handlers.PermissionsContextKey, perms)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
