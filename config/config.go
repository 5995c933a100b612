// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/akinalp/eihracat/pkg/crypto"
	"github.com/akinalp/eihracat/pkg/ratelimit"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm tek bir concern'ü temsil eder.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Security  SecurityConfig
	Log       LogConfig
	Pricing   PricingConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	// TrustedProxies, X-Forwarded-For/X-Real-IP header'larına güvenilen
	// peer'lar (IP veya CIDR). Boşsa header'lar yok sayılır.
	TrustedProxies *ratelimit.ProxyTrust
}

// DatabaseConfig, veritabanı bağlantı ayarı.
// postgres:// ile başlayan URL Supabase/Postgres'e, diğerleri SQLite dosyasına gider.
type DatabaseConfig struct {
	URL string
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı, gizli tutulmalı
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// EmailConfig, Resend e-posta ayarları.
// ResendAPIKey boşsa e-posta gönderimi devre dışıdır.
type EmailConfig struct {
	ResendAPIKey string
	From         string
	AdminInbox   string // İletişim formu bildirimlerinin gideceği adres
	AppURL       string // Şifre sıfırlama linkleri için frontend adresi
}

// RateLimitConfig, IP bazlı limitler.
type RateLimitConfig struct {
	LoginMax      int
	LoginWindow   time.Duration
	ContactMax    int
	ContactWindow time.Duration
}

// KafkaConfig, domain event yayını. Brokers boşsa yayın no-op'tur.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SecurityConfig, hassas alanların şifrelenmesi için anahtar.
type SecurityConfig struct {
	EncryptionKey []byte // 32 byte (AES-256); boşsa şifreleme kapalı
}

// LogConfig, zap logger ayarları.
type LogConfig struct {
	Level string
	JSON  bool
}

// PricingConfig, başlangıçta yüklenecek YAML fiyat kataloğu.
type PricingConfig struct {
	CatalogPath string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// Dosya yoksa hata vermez. Production'da gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := getInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	accessExpiry, err := getInt("JWT_ACCESS_EXPIRY_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	refreshExpiry, err := getInt("JWT_REFRESH_EXPIRY_DAYS", 7)
	if err != nil {
		return nil, err
	}
	loginMax, err := getInt("LOGIN_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	loginWindow, err := getDuration("LOGIN_RATE_WINDOW", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	contactMax, err := getInt("CONTACT_RATE_LIMIT", 3)
	if err != nil {
		return nil, err
	}
	contactWindow, err := getDuration("CONTACT_RATE_WINDOW", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	logJSON, err := strconv.ParseBool(getEnv("LOG_JSON", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_JSON: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	encKey, err := crypto.ParseKey(getEnv("ENCRYPTION_KEY", ""))
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}

	trust, err := ratelimit.ParseTrustedProxies(splitList(getEnv("TRUSTED_PROXIES", "")))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			TrustedProxies: trust,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "./data/eihracat.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("RESEND_FROM", "E-İhracat <noreply@eihracat.local>"),
			AdminInbox:   getEnv("CONTACT_INBOX", ""),
			AppURL:       strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		},
		RateLimit: RateLimitConfig{
			LoginMax:      loginMax,
			LoginWindow:   loginWindow,
			ContactMax:    contactMax,
			ContactWindow: contactWindow,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "eihracat.events"),
		},
		Security: SecurityConfig{
			EncryptionKey: encKey,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  logJSON,
		},
		Pricing: PricingConfig{
			CatalogPath: getEnv("PRICING_CATALOG", ""),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:8080").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// splitList, virgülle ayrılmış listeyi boşlukları temizleyerek böler.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
