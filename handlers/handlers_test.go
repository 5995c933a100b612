package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/ratelimit"
	"github.com/akinalp/eihracat/services"
)

// envelope, pkg.APIResponse'un test tarafı; Data ham bırakılır.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserContextKey, u))
}

// ─── Auth ───

type stubAuth struct {
	services.AuthService
	password string
	logins   int
}

func (s *stubAuth) Login(_ context.Context, req *models.LoginRequest, _ services.ClientMeta) (*models.AuthResponse, error) {
	s.logins++
	if req.Password != s.password {
		return nil, pkg.ErrUnauthorized
	}
	return &models.AuthResponse{
		User: &models.User{ID: "u1", Email: req.Email},
		TokenPair: models.TokenPair{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    900,
		},
	}, nil
}

func (s *stubAuth) Logout(context.Context, string) error { return nil }

func (s *stubAuth) Session(_ context.Context, u *models.User, claims *models.TokenClaims) (*models.SessionInfo, error) {
	info := &models.SessionInfo{
		User: u,
		Memberships: []models.MembershipAccess{{
			Company:     models.CompanySummary{ID: "c1", Name: "Ege Gıda", Status: models.CompanyStatusActive},
			RoleID:      "r1",
			RoleName:    "Member",
			Permissions: models.PermDefaultMember | models.PermConsultant,
		}},
		ConsultantOf: []models.CompanySummary{{ID: "c1", Name: "Ege Gıda", Status: models.CompanyStatusActive}},
	}
	if claims != nil && claims.ExpiresAt != nil {
		info.AccessExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

func login(h *AuthHandler, password string, header map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(models.LoginRequest{Email: "owner@firma.com", Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.RemoteAddr = "192.0.2.10:51000"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLogin_SetsAccessCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuth{password: "Secret123"}, nil)

	rec := login(h, "Secret123", map[string]string{"X-Forwarded-Proto": "https"})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "access-1", resp.AccessToken)
	assert.Equal(t, "refresh-1", resp.RefreshToken)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, AccessTokenCookie, c.Name)
	assert.Equal(t, "access-1", c.Value)
	assert.Equal(t, 900, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestLogin_CookieNotSecureOverPlainHTTP(t *testing.T) {
	h := NewAuthHandler(&stubAuth{password: "Secret123"}, nil)

	rec := login(h, "Secret123", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	t.Cleanup(limiter.Close)

	auth := &stubAuth{password: "Secret123"}
	h := NewAuthHandler(auth, limiter)

	assert.Equal(t, http.StatusUnauthorized, login(h, "wrong", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, login(h, "wrong", nil).Code)

	rec := login(h, "Secret123", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	// Limit aşıldığında service hiç çağrılmaz.
	assert.Equal(t, 2, auth.logins)

	wait, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, wait, 0)
	assert.LessOrEqual(t, wait, 61)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "too many attempts")
}

func TestLogin_SuccessResetsLimiter(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	t.Cleanup(limiter.Close)

	h := NewAuthHandler(&stubAuth{password: "Secret123"}, limiter)

	assert.Equal(t, http.StatusUnauthorized, login(h, "wrong", nil).Code)
	assert.Equal(t, http.StatusOK, login(h, "Secret123", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, login(h, "wrong", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, login(h, "wrong", nil).Code)
}

func TestLogin_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", jsonBody(t, models.RefreshRequest{RefreshToken: "refresh-1"}))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AccessTokenCookie, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMe_RequiresUserInContext(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─── Contact ───

type stubContact struct {
	services.ContactService
	submittedIP string
	handled     *bool
	limit       int
	offset      int
}

func (s *stubContact) Submit(_ context.Context, req *models.ContactRequest, ip string) (*models.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s.submittedIP = ip
	return &models.ContactMessage{ID: "m1", Name: req.Name}, nil
}

func (s *stubContact) List(_ context.Context, handled *bool, limit, offset int) ([]models.ContactMessage, int, error) {
	s.handled = handled
	s.limit = limit
	s.offset = offset
	return []models.ContactMessage{{ID: "m1"}}, 7, nil
}

func TestContactSubmit(t *testing.T) {
	svc := &stubContact{}
	h := NewContactHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", jsonBody(t, models.ContactRequest{
		Name:    "Ayşe Yılmaz",
		Email:   "ayse@firma.com",
		Subject: "Danışmanlık",
		Message: "Almanya pazarı için destek almak istiyoruz.",
	}))
	req.RemoteAddr = "203.0.113.7:40000"
	// Doğrudan bağlanan istemcinin header'ı RemoteAddr'ı ezmez.
	req.Header.Set("X-Forwarded-For", "10.9.9.9")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "203.0.113.7", svc.submittedIP)

	var data map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, "m1", data["id"])
	assert.NotEmpty(t, data["message"])
}

func TestContactList_HandledFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		status  int
		handled *bool
	}{
		{"no filter", "", http.StatusOK, nil},
		{"handled", "?handled=true", http.StatusOK, boolPtr(true)},
		{"open", "?handled=false", http.StatusOK, boolPtr(false)},
		{"garbage", "?handled=maybe", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubContact{}
			h := NewContactHandler(svc)

			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, "/api/admin/contact"+tt.query, nil))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.handled, svc.handled)
		})
	}
}

func TestContactList_Page(t *testing.T) {
	svc := &stubContact{}
	h := NewContactHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/admin/contact?limit=5&offset=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page pkg.Page[models.ContactMessage]
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &page))
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, 10, page.Offset)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, 10, svc.offset)
}

func (s *stubContact) SetHandled(_ context.Context, actorID, id string, req *models.UpdateContactRequest) (*models.ContactMessage, error) {
	return &models.ContactMessage{ID: id, IsHandled: req.IsHandled, HandledBy: &actorID}, nil
}

func TestContactSetHandled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/admin/contact/{id}", NewContactHandler(&stubContact{}).SetHandled)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/contact/m9", jsonBody(t, models.UpdateContactRequest{IsHandled: true}))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withUser(req, &models.User{ID: "admin-1"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var msg models.ContactMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &msg))
	assert.Equal(t, "m9", msg.ID)
	assert.True(t, msg.IsHandled)
	require.NotNil(t, msg.HandledBy)
	assert.Equal(t, "admin-1", *msg.HandledBy)
}

func boolPtr(b bool) *bool { return &b }

// ─── Report export ───

type stubReports struct {
	services.ReportService
	companyID, reportID string
}

func (s *stubReports) Export(_ context.Context, companyID, reportID string) ([]byte, string, error) {
	if reportID != "r1" {
		return nil, "", pkg.ErrNotFound
	}
	s.companyID, s.reportID = companyID, reportID
	return []byte("PK\x03\x04xlsx"), "rapor-2026-Q3.xlsx", nil
}

func exportMux(h *ReportHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/companies/{companyId}/reports/{id}/export.xlsx", h.Export)
	return mux
}

func TestReportExport_Headers(t *testing.T) {
	svc := &stubReports{}
	mux := exportMux(NewReportHandler(svc))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/c1/reports/r1/export.xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", svc.companyID)
	assert.Equal(t, "r1", svc.reportID)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rapor-2026-Q3.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, strconv.Itoa(len("PK\x03\x04xlsx")), rec.Header().Get("Content-Length"))
	assert.Equal(t, "PK\x03\x04xlsx", rec.Body.String())
}

func TestReportExport_NotFound(t *testing.T) {
	mux := exportMux(NewReportHandler(&stubReports{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies/c1/reports/zzz/export.xlsx", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestCompanyIDPrefersContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetPathValue("companyId", "from-path")
	assert.Equal(t, "from-path", companyID(req))

	req = req.WithContext(context.WithValue(req.Context(), CompanyIDContextKey, "from-ctx"))
	assert.Equal(t, "from-ctx", companyID(req))
}

func TestNormalizeMarket(t *testing.T) {
	assert.Equal(t, "DE", normalizeMarket(" de "))
	assert.Equal(t, "US", normalizeMarket("US"))
	assert.Empty(t, normalizeMarket("   "))
}

func TestSession_ReturnsEffectivePermissions(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = withUser(req, &models.User{ID: "u1", PlatformRole: models.PlatformRoleConsultant})
	req = req.WithContext(context.WithValue(req.Context(), ClaimsContextKey, &models.TokenClaims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ID: "s1", ExpiresAt: jwt.NewNumericDate(expires)},
	}))
	rec := httptest.NewRecorder()
	h.Session(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Memberships []struct {
			Company     struct{ ID string } `json:"company"`
			Permissions int64               `json:"permissions"`
		} `json:"memberships"`
		AccessExpiresAt time.Time             `json:"access_expires_at"`
		ConsultantOf    []struct{ ID string } `json:"consultant_of"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &body))

	require.Len(t, body.Memberships, 1)
	assert.Equal(t, "c1", body.Memberships[0].Company.ID)
	assert.Equal(t, int64(models.PermDefaultMember|models.PermConsultant), body.Memberships[0].Permissions)
	require.Len(t, body.ConsultantOf, 1)
	assert.Equal(t, "c1", body.ConsultantOf[0].ID)
	assert.True(t, expires.Equal(body.AccessExpiresAt))
}

func TestSession_RequiresUser(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)
	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
