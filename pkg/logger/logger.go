// Package logger, uygulamanın yapılandırılmış (structured) log altyapısını kurar.
//
// Tüm bileşenler *zap.Logger alır ve kendi adıyla alt logger üretir:
//
//	log := logger.Named("auth")
//	log.Info("user logged in", zap.String("user_id", id))
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New, verilen seviye ve formatta bir zap logger oluşturur.
//
// jsonOutput=true → production encoder (JSON, ISO8601 zaman damgası)
// jsonOutput=false → development encoder (renkli konsol çıktısı)
func New(level string, jsonOutput bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// Nop, testlerde kullanılan sessiz logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}
