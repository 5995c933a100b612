package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akinalp/eihracat/config"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/services"
)

// cliActor, komut satırından yapılan işlemlerin audit kaydındaki aktörü.
const cliActor = "cli"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Gömülü migration'ları uygular ve çıkar",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := openDatabase(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		log.Info("migrations applied", zap.String("dialect", string(db.Dialect)))
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Platform admin oluşturur; e-posta kayıtlıysa kullanıcıyı admin yapar",
	Long: `Platform admin hesabı oluşturur.

E-posta zaten kayıtlıysa şifreye dokunulmaz; kullanıcı admin rolüne
yükseltilir ve aktif hale getirilir.`,
	RunE: runCreateAdmin,
}

var seedPricingCmd = &cobra.Command{
	Use:   "seed-pricing",
	Short: "YAML kataloğundaki fiyat paketlerini koda göre ekler veya günceller",
	RunE:  runSeedPricing,
}

func init() {
	createAdminCmd.Flags().String("email", "", "admin e-posta adresi")
	createAdminCmd.Flags().String("password", "", "admin şifresi (yeni hesap için)")
	createAdminCmd.Flags().String("name", "Platform Admin", "görünen ad")
	_ = createAdminCmd.MarkFlagRequired("email")

	seedPricingCmd.Flags().String("file", "", "fiyat kataloğu YAML dosyası (varsayılan: PRICING_CATALOG)")
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := initRepositories(db)
	audit := services.NewAuditService(repos.Audit, log.Named("audit"))
	permissions := services.NewPermissionService(repos.Member, repos.Consultant)
	defer permissions.Close()
	users := services.NewUserService(repos.User, repos.Session, permissions, audit)

	existing, err := repos.User.GetByEmail(ctx, models.NormalizeEmail(email))
	switch {
	case err == nil:
		role := models.PlatformRoleAdmin
		active := true
		if _, err := users.Update(ctx, cliActor, existing.ID, &models.AdminUpdateUserRequest{
			PlatformRole: &role,
			IsActive:     &active,
		}); err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}
		log.Info("user promoted to admin", zap.String("user_id", existing.ID))
		return nil
	case !errors.Is(err, pkg.ErrNotFound):
		return err
	}

	user, err := users.Create(ctx, cliActor, &models.AdminCreateUserRequest{
		Email:        email,
		Password:     password,
		FullName:     name,
		PlatformRole: models.PlatformRoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

func runSeedPricing(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = cfg.Pricing.CatalogPath
	}
	if path == "" {
		return errors.New("catalog file is required (--file or PRICING_CATALOG)")
	}

	catalog, err := config.LoadPricingCatalog(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := initRepositories(db)
	audit := services.NewAuditService(repos.Audit, log.Named("audit"))
	pricing := services.NewPricingService(repos.Pricing, audit, log.Named("pricing"))

	created, updated, err := pricing.SeedFromCatalog(ctx, catalog)
	if err != nil {
		return err
	}

	log.Info("pricing catalog seeded",
		zap.String("file", path),
		zap.Int("created", created),
		zap.Int("updated", updated),
	)
	return nil
}
