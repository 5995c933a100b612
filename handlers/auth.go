// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi "ince" olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler iş mantığı içermez ve doğrudan DB'ye erişmez.
package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/i18n"
	"github.com/akinalp/eihracat/pkg/ratelimit"
	"github.com/akinalp/eihracat/services"
)

// AuthHandler, /api/auth endpoint'lerini yönetir.
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.Limiter
}

// NewAuthHandler, constructor.
// loginLimiter nil ise login rate limiting devre dışı kalır.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
	}
}

// Register godoc
// POST /api/auth/register
// company_name verilirse kullanıcı adına firma açılır ve kullanıcı sahibi olur.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req, clientMeta(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	setAccessCookie(w, r, resp.AccessToken, resp.ExpiresIn)
	pkg.JSON(w, http.StatusCreated, resp)
}

// Login godoc
// POST /api/auth/login
//
// IP bazlı brute-force koruması: pencere içindeki deneme sayısı aşılınca
// 429 ve Retry-After döner. Başarılı login sayacı sıfırlar.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		writeRetryAfter(w, h.loginLimiter.RetryAfter(ip))
		return
	}

	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req, clientMeta(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	setAccessCookie(w, r, resp.AccessToken, resp.ExpiresIn)
	pkg.JSON(w, http.StatusOK, resp)
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Refresh(r.Context(), req.RefreshToken, clientMeta(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	setAccessCookie(w, r, resp.AccessToken, resp.ExpiresIn)
	pkg.JSON(w, http.StatusOK, resp)
}

// Logout godoc
// POST /api/auth/logout
// Body: { "refresh_token": "..." }. Token bilinmiyorsa da 200 döner.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	if req.RefreshToken != "" {
		if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
			pkg.Error(w, err)
			return
		}
	}

	clearAccessCookie(w, r)
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll godoc
// POST /api/auth/logout-all
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.authService.LogoutAll(r.Context(), user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	clearAccessCookie(w, r)
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "all sessions closed"})
}

// Session godoc
// GET /api/auth/session
// Her sayfanın çağırdığı tek oturum kontrolü: kullanıcı, firma üyelikleri ve yetkiler.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	info, err := h.authService.Session(r.Context(), user, currentClaims(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, info)
}

// Me godoc
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	me, err := h.authService.GetMe(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, me)
}

// UpdateMe godoc
// PATCH /api/auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.authService.UpdateMe(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// ChangePassword godoc
// POST /api/auth/change-password
// Body: { "current_password": "...", "new_password": "..." }
// Mevcut oturum açık kalır, diğerleri kapatılır.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	sessionID := ""
	if claims := currentClaims(r); claims != nil {
		sessionID = claims.ID
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, sessionID, &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
// Body: { "email": "..." }
//
// E-posta kayıtlı olmasa da aynı yanıt döner (enumeration koruması).
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	lang := i18n.Detect(r.Header.Get("Accept-Language"))
	if err := h.authService.ForgotPassword(r.Context(), &req, lang); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "if the email exists, a reset link has been sent",
	})
}

// ResetPassword godoc
// POST /api/auth/reset-password
// Body: { "token": "...", "new_password": "..." }
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "password has been reset successfully",
	})
}

func clientMeta(r *http.Request) services.ClientMeta {
	return services.ClientMeta{
		UserAgent: r.UserAgent(),
		IP:        ratelimit.ClientIP(r),
	}
}

func writeRetryAfter(w http.ResponseWriter, wait time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	pkg.ErrorWithMessage(w, http.StatusTooManyRequests, ratelimit.RetryMessage(wait))
}

// setAccessCookie, tarayıcı istemcileri için access token'ı HttpOnly cookie olarak yazar.
// Bearer header kullanan istemciler cookie'yi yok sayabilir.
func setAccessCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAccessCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
