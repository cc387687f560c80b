package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/equiptrack/inventory-management/internal"
	"github.com/equiptrack/inventory-management/internal/asset"
	assetPostgres "github.com/equiptrack/inventory-management/internal/asset/postgres"
	"github.com/equiptrack/inventory-management/internal/audit"
	auditPostgres "github.com/equiptrack/inventory-management/internal/audit/postgres"
	"github.com/equiptrack/inventory-management/internal/auth"
	authPostgres "github.com/equiptrack/inventory-management/internal/auth/postgres"
	"github.com/equiptrack/inventory-management/internal/permissions"
	permissionsPostgres "github.com/equiptrack/inventory-management/internal/permissions/postgres"
	"github.com/equiptrack/inventory-management/internal/profile"
	profilePostgres "github.com/equiptrack/inventory-management/internal/profile/postgres"
	"github.com/equiptrack/inventory-management/internal/transport/rest"
	"github.com/equiptrack/inventory-management/internal/user"
	userPostgres "github.com/equiptrack/inventory-management/internal/user/postgres"
	"github.com/equiptrack/inventory-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	DB          *sqlx.DB
	Router      *chi.Mux
	AuditWriter *audit.Writer
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		// Flush pending audit events before the DB goes away.
		deps.AuditWriter.Close()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	// auth
	hasher := auth.NewPasswordHasher(config.Security.Iterations())
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	credRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(credRepo, tokenGen, hasher, lg)
	authHandler := auth.NewHandler(authService)

	// permissions
	permRepo := permissionsPostgres.NewRepository(gormDB)
	permCache := permissions.NewCache(permRepo, config.Security.CacheTTL(), config.Security.PermissionCacheSize, lg)
	permService := permissions.NewService(permCache, lg)

	// audit
	auditRepo := auditPostgres.NewRepository(gormDB)
	auditWriter := audit.NewWriter(auditRepo, lg, config.Audit.QueueSize, config.Audit.WriteTimeout)

	// users
	userRepo := userPostgres.NewRepository(gormDB)
	userService := user.NewService(userRepo, permRepo, permCache, hasher, lg)
	userHandler := user.NewHandler(userService, auditWriter)

	// assets
	assetRepo := assetPostgres.NewAssetRepository(gormDB)
	assetService := asset.NewService(assetRepo, lg)
	assetHandler := asset.NewHandler(assetService, auditWriter)

	// equipment profiles
	profileRepo := profilePostgres.NewProfileRepository(gormDB)
	profileService := profile.NewService(profileRepo, lg)
	profileHandler := profile.NewHandler(profileService, auditWriter)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, userHandler, assetHandler, profileHandler, permService, lg)

	return &Dependencies{
		Config:      config,
		Logger:      lg,
		DB:          db,
		Router:      router,
		AuditWriter: auditWriter,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
