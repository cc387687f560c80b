package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/equiptrack/inventory-management/internal/audit"
	auditPostgres "github.com/equiptrack/inventory-management/internal/audit/postgres"
	"github.com/equiptrack/inventory-management/internal/auth"
	"github.com/equiptrack/inventory-management/internal/permissions"
	permissionsPostgres "github.com/equiptrack/inventory-management/internal/permissions/postgres"
	"github.com/equiptrack/inventory-management/internal/user"
	userPostgres "github.com/equiptrack/inventory-management/internal/user/postgres"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an administrator account",
	Long:  `Create the initial administrator account and its permission row so the instance can be bootstrapped.`,
	Run: func(cmd *cobra.Command, args []string) {
		if seedAdminPassword == "" {
			log.Fatal("--admin-password is required")
		}

		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := seedAdmin(ctx, gormDB, cfg.Security.Iterations()); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	},
}

func seedAdmin(ctx context.Context, gormDB *gorm.DB, hashIterations int) error {
	userRepo := userPostgres.NewRepository(gormDB)
	permRepo := permissionsPostgres.NewRepository(gormDB)
	auditRepo := auditPostgres.NewRepository(gormDB)
	hasher := auth.NewPasswordHasher(hashIterations)

	existing, err := userRepo.GetByEmail(ctx, seedAdminEmail)
	if err == nil && existing != nil {
		fmt.Println("administrator already exists; ensuring permission row:", seedAdminEmail)
		set := permissions.DeriveForRole(permissions.RoleAdministrator)
		return permRepo.SavePermissionSet(ctx, existing.ID, set)
	}

	hash, err := hasher.Hash(seedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &user.User{
		Email:        seedAdminEmail,
		Name:         "Administrator",
		Role:         permissions.RoleAdministrator,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	set := permissions.DeriveForRole(permissions.RoleAdministrator)
	if err := permRepo.SavePermissionSet(ctx, admin.ID, set); err != nil {
		return fmt.Errorf("save admin permissions: %w", err)
	}

	if err := auditRepo.Insert(ctx, audit.Event{
		ActorID:    admin.ID,
		ModuleID:   audit.ModuleUsers,
		ActionID:   audit.ActionCreate,
		Details:    "seeded administrator account",
		OccurredAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("record seed event: %w", err)
	}

	fmt.Println("Seeded administrator:", seedAdminEmail)
	return nil
}
