// Package crypto, hassas firma alanlarını (vergi numarası gibi) veritabanında
// AES-256-GCM ile şifreli saklamak için kullanılır.
//
// Şifreli değerler "enc:v1:" prefix'i taşır. Prefix'siz değerler düz metin
// kabul edilir; anahtar tanımlanmadan önce yazılmış kayıtlar bu sayede okunabilir.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const prefix = "enc:v1:"

// ErrNoKey, şifreli bir değer anahtar olmadan çözülmeye çalışıldığında döner.
var ErrNoKey = errors.New("encryption key not configured")

// ParseKey, 64 hex karakterlik string'i 32-byte anahtara çevirir.
// Boş string boş anahtar döner (şifreleme kapalı).
func ParseKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be exactly 32 bytes (64 hex chars), got %d bytes", len(key))
	}
	return key, nil
}

// FieldCipher, tek bir kolon değerini şifreler/çözer.
// Anahtarsız FieldCipher değerleri olduğu gibi geçirir.
type FieldCipher struct {
	gcm cipher.AEAD
}

// NewFieldCipher, verilen anahtarla FieldCipher oluşturur. key boşsa şifreleme kapalıdır.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) == 0 {
		return &FieldCipher{}, nil
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return &FieldCipher{gcm: gcm}, nil
}

// Enabled, anahtar tanımlı mı.
func (f *FieldCipher) Enabled() bool {
	return f.gcm != nil
}

// Encrypt, değeri "enc:v1:base64(nonce+ciphertext)" formatında döner.
// Boş değer ve kapalı şifreleme durumunda değer değişmez.
func (f *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" || f.gcm == nil {
		return plaintext, nil
	}

	nonce := make([]byte, f.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}
	sealed := f.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt, Encrypt çıktısını çözer. Prefix'siz değerler aynen döner.
func (f *FieldCipher) Decrypt(stored string) (string, error) {
	encoded, ok := strings.CutPrefix(stored, prefix)
	if !ok {
		return stored, nil
	}
	if f.gcm == nil {
		return "", ErrNoKey
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	nonceSize := f.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := f.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}
