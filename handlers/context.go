package handlers

import (
	"net/http"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

// contextKey, context.Value çakışmalarını önlemek için özel key tipi.
type contextKey string

const (
	// UserContextKey, AuthMiddleware'in eklediği *models.User.
	UserContextKey contextKey = "user"
	// ClaimsContextKey, doğrulanmış *models.TokenClaims (jti = oturum ID).
	ClaimsContextKey contextKey = "claims"
	// CompanyIDContextKey, CompanyMiddleware'in URL'den okuduğu firma ID'si.
	CompanyIDContextKey contextKey = "company_id"
	// PermissionsContextKey, kullanıcının aktif firmadaki efektif yetkisi.
	PermissionsContextKey contextKey = "permissions"
)

// AccessTokenCookie, tarayıcı istemcilerinin access token taşıdığı cookie.
const AccessTokenCookie = "eihracat_access"

// currentUser, context'teki kullanıcıyı döner. Yoksa 401 yazar ve false döner.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return nil, false
	}
	return user, true
}

func currentClaims(r *http.Request) *models.TokenClaims {
	claims, _ := r.Context().Value(ClaimsContextKey).(*models.TokenClaims)
	return claims
}

// companyID, CompanyMiddleware'in context'e koyduğu ID'yi, yoksa path değerini döner.
func companyID(r *http.Request) string {
	if id, ok := r.Context().Value(CompanyIDContextKey).(string); ok && id != "" {
		return id
	}
	return r.PathValue("companyId")
}

func permissions(r *http.Request) models.Permission {
	perms, _ := r.Context().Value(PermissionsContextKey).(models.Permission)
	return perms
}

// decode, body'yi çözer; hata durumunda 400 yazar ve false döner.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := pkg.DecodeJSON(r, dst); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
