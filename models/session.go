package models

import "time"

// Session, refresh token oturumu.
//
// Access token kısa ömürlüdür ve DB'ye gitmeden doğrulanır. Refresh token
// DB'de tutulur; logout, şifre değişikliği veya hesap pasifleştirmede
// oturumlar silinerek iptal edilir.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"`
	UserAgent    string    `json:"user_agent"`
	IPAddress    string    `json:"ip_address"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshRequest, /refresh ve /logout body'si.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionInfo, /api/auth/session yanıtı.
//
// Frontend her sayfada tek bu endpoint'i çağırır: kullanıcı, üyelikleri ve
// her firmadaki efektif yetkileri sunucu tarafından doğrulanmış olarak döner.
type SessionInfo struct {
	User            *User              `json:"user"`
	Memberships     []MembershipAccess `json:"memberships"`
	AccessExpiresAt time.Time          `json:"access_expires_at"`
	ConsultantOf    []CompanySummary   `json:"consultant_of,omitempty"`
}
