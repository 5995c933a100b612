package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/eihracat/pkg"
)

// bcryptCost, şifre hash maliyeti.
const bcryptCost = 12

// ClientMeta, oturum kaydına yazılan istemci bilgisi.
type ClientMeta struct {
	UserAgent string
	IP        string
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// randomToken, n byte'lık kriptografik rastgele değeri hex olarak döner.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashToken, reset token'ın DB'de saklanan SHA-256 hash'i.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// invalid, model validasyon hatasını ErrBadRequest ile sarar.
func invalid(err error) error {
	return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
}

// clock, test edilebilirlik için servislerin kullandığı zaman kaynağı.
type clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }
