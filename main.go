// Package main, eihracat backend uygulamasının giriş noktasıdır.
//
// Komutlar:
//
//	eihracat serve          HTTP API'yi başlatır (varsayılan)
//	eihracat migrate        migration'ları uygular ve çıkar
//	eihracat create-admin   platform admin oluşturur veya yükseltir
//	eihracat seed-pricing   YAML kataloğundan fiyat paketlerini yükler
//
// serve akışı, Dependency Injection "wire-up":
//  1. Config ve logger
//  2. Altyapı: database + migration, hub, publisher, mailer, cipher
//  3. Repository → Service → Handler
//  4. Route'lar, CORS, access log
//  5. HTTP server + graceful shutdown
//
// Global state yok; her şey runServe içinde oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/config"
	"github.com/akinalp/eihracat/middleware"
	"github.com/akinalp/eihracat/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

var rootCmd = &cobra.Command{
	Use:           "eihracat",
	Short:         "E-ihracat destek platformu API sunucusu",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API sunucusunu başlatır",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, seedPricingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap, config ve logger'ı yükler. Tüm komutlar buradan başlar.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("eihracat server starting", zap.Int("port", cfg.Server.Port))

	// ─── Altyapı ───
	infra, err := initInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	// ─── Katmanlar ───
	repos := initRepositories(infra.DB)
	svcs, limiters, cleanup := initServices(infra, repos, cfg)
	defer limiters.Close()
	defer svcs.Permission.Close()

	if cfg.Pricing.CatalogPath != "" {
		if err := svcs.Pricing.SeedIfEmpty(ctx, cfg.Pricing.CatalogPath); err != nil {
			log.Warn("pricing catalog seed failed", zap.String("path", cfg.Pricing.CatalogPath), zap.Error(err))
		}
	}

	// Hub kendi context'iyle çalışır; shutdown'da HTTP server'dan önce kapatılır.
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go infra.Hub.Run(hubCtx)

	cleanup.Start()
	defer cleanup.Stop()

	h := initHandlers(svcs, limiters, infra.Hub, cfg)
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs, repos.User, limiters, log)

	// ─── Gerçek IP + CORS + access log ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		ExposedHeaders:   []string{"Retry-After", "Content-Disposition"},
		AllowCredentials: true,
	})
	handler := middleware.RealIP(cfg.Server.TrustedProxies)(
		middleware.RequestLogger(log.Named("http"))(corsHandler.Handler(mux)),
	)

	// ─── HTTP Server ───
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// ─── Graceful Shutdown ───
	// Önce WebSocket bağlantıları kapanır, sonra HTTP server yeni istek almayı
	// bırakır ve açık isteklerin bitmesini bekler.
	log.Info("shutting down")
	stopHub()
	<-infra.Hub.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
