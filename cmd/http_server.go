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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/legal-practice/internal"
	"github.com/frahmantamala/legal-practice/internal/access"
	accessPostgres "github.com/frahmantamala/legal-practice/internal/access/postgres"
	"github.com/frahmantamala/legal-practice/internal/auth"
	authPostgres "github.com/frahmantamala/legal-practice/internal/auth/postgres"
	"github.com/frahmantamala/legal-practice/internal/client"
	clientPostgres "github.com/frahmantamala/legal-practice/internal/client/postgres"
	"github.com/frahmantamala/legal-practice/internal/core/common/validation"
	"github.com/frahmantamala/legal-practice/internal/core/events"
	"github.com/frahmantamala/legal-practice/internal/invoice"
	invoicePostgres "github.com/frahmantamala/legal-practice/internal/invoice/postgres"
	"github.com/frahmantamala/legal-practice/internal/legalcase"
	casePostgres "github.com/frahmantamala/legal-practice/internal/legalcase/postgres"
	"github.com/frahmantamala/legal-practice/internal/role"
	rolePostgres "github.com/frahmantamala/legal-practice/internal/role/postgres"
	"github.com/frahmantamala/legal-practice/internal/transport"
	"github.com/frahmantamala/legal-practice/internal/transport/middleware"
	"github.com/frahmantamala/legal-practice/internal/transport/rest"
	"github.com/frahmantamala/legal-practice/internal/user"
	userPostgres "github.com/frahmantamala/legal-practice/internal/user/postgres"
	"github.com/frahmantamala/legal-practice/pkg/logger"
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
	Config   *internal.Config
	GormDB   *gorm.DB
	DB       *sqlx.DB
	Redis    *redis.Client
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Error("Event bus drain error", "error", err)
		}
		deps.close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	db := deps.GormDB

	var revoker auth.TokenRevoker = auth.NoopRevoker{}
	if deps.Redis != nil {
		revoker = auth.NewRedisRevoker(deps.Redis)
	}

	store := accessPostgres.NewStore(deps.DB)
	resolver := access.NewResolver(store, lg, cfg.Database.QueryTimeout)
	unique := validation.NewGormUniqueChecker(db)
	base := transport.NewBaseHandler(lg)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(db), tokens, revoker, cfg.Security.BCryptCost, lg)

	userService := user.NewService(userPostgres.NewUserRepository(db), unique, authService, deps.EventBus, lg)
	roleService := role.NewService(rolePostgres.NewRoleRepository(db), unique, deps.EventBus, lg)
	caseService := legalcase.NewService(casePostgres.NewCaseRepository(db), resolver, deps.EventBus, lg)
	clientService := client.NewService(clientPostgres.NewClientRepository(db), unique, lg)
	invoiceService := invoice.NewService(invoicePostgres.NewInvoiceRepository(db), unique, lg)

	checks := []rest.HealthCheck{{Name: "database", Probe: deps.DB.PingContext}}
	if deps.Redis != nil {
		checks = append(checks, rest.HealthCheck{Name: "redis", Probe: func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}})
	}

	opts := rest.Options{Logger: lg, SpecPath: cfg.OpenAPI.SpecPath}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	if cfg.OpenAPI.ValidateRequest {
		validator, err := middleware.NewOpenAPIValidator(context.Background(), cfg.OpenAPI.SpecPath)
		if err != nil {
			return fmt.Errorf("load openapi spec: %w", err)
		}
		opts.Validator = validator
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:   rest.NewHealthHandler(checks...),
		Auth:     auth.NewHandler(authService, resolver),
		Users:    user.NewHandler(base, userService),
		Roles:    role.NewHandler(base, roleService),
		Cases:    legalcase.NewHandler(base, caseService),
		Clients:  client.NewHandler(base, clientService),
		Invoices: invoice.NewHandler(base, invoiceService),
	}, opts)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(os.Stdout, config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}

	var rdb *redis.Client
	if config.Redis.Enabled {
		rdb, err = initRedis(config.Redis)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		GormDB:   gormDB,
		DB:       sqlx.NewDb(sqlDB, "pgx"),
		Redis:    rdb,
		EventBus: bus,
		Router:   chi.NewRouter(),
	}, nil
}

// initDB opens the gorm pool; the access store shares the same *sql.DB through sqlx.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Source), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func initRedis(cfg internal.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
