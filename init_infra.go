// Package main: Paylaşılan altyapı.
//
// initInfra; veritabanı, WebSocket hub, domain event publisher, e-posta
// gönderici ve alan şifreleyicisini kurar. Servis katmanı bunları
// interface'ler üzerinden kullanır.
package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/akinalp/eihracat/config"
	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/events"
	"github.com/akinalp/eihracat/pkg/crypto"
	"github.com/akinalp/eihracat/pkg/email"
	"github.com/akinalp/eihracat/pkg/i18n"
	"github.com/akinalp/eihracat/ws"
)

// Infra, servislerin paylaştığı altyapı bileşenleri.
type Infra struct {
	DB        *database.DB
	Hub       *ws.Hub
	Publisher events.Publisher
	Mailer    email.Sender
	Cipher    *crypto.FieldCipher
	Log       *zap.Logger
}

// Close, publisher ve veritabanını kapatır. Hub, Run context'i ile kapanır.
func (i *Infra) Close() {
	if err := i.Publisher.Close(); err != nil {
		i.Log.Warn("failed to close event publisher", zap.Error(err))
	}
	if err := i.DB.Close(); err != nil {
		i.Log.Warn("failed to close database", zap.Error(err))
	}
}

// openDatabase, bağlantıyı açar ve gömülü migration'ları uygular.
func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*database.DB, error) {
	db, err := database.Open(cfg.Database.URL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx, database.Migrations()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func initInfra(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Infra, error) {
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	cipher, err := crypto.NewFieldCipher(cfg.Security.EncryptionKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init field cipher: %w", err)
	}
	if !cipher.Enabled() {
		log.Warn("ENCRYPTION_KEY not set, tax numbers are stored in plaintext")
	}

	catalog, err := i18n.Default()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	composer := email.NewComposer(catalog, cfg.Email.AppURL)

	var mailer email.Sender
	if cfg.Email.ResendAPIKey != "" {
		mailer = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, composer)
		log.Info("email delivery enabled", zap.String("from", cfg.Email.From))
	} else {
		mailer = email.NewLogSender(log.Named("email"), composer)
		log.Info("email delivery disabled (RESEND_API_KEY not set), messages are logged")
	}

	var publisher events.Publisher = events.Nop()
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Named("events"))
		log.Info("domain events enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	return &Infra{
		DB:        db,
		Hub:       ws.NewHub(log.Named("ws")),
		Publisher: publisher,
		Mailer:    mailer,
		Cipher:    cipher,
		Log:       log,
	}, nil
}
