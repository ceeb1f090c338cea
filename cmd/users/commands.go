package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AlibekovAA/user-registry/internal/common/bootstrap"
	"github.com/AlibekovAA/user-registry/internal/common/config"
	"github.com/AlibekovAA/user-registry/internal/common/db"
	commonhttp "github.com/AlibekovAA/user-registry/internal/common/http"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	srv "github.com/AlibekovAA/user-registry/internal/common/server"
	userhttp "github.com/AlibekovAA/user-registry/internal/user/http"
	"github.com/AlibekovAA/user-registry/internal/user/service"
)

const serviceName = "users"

var (
	envFile     string
	storeKind   string
	autoMigrate bool
)

var rootCmd = &cobra.Command{
	Use:           "users",
	Short:         "User registry service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			config.LoadDotEnv(envFile)
		} else {
			config.LoadDotEnv()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup(true)
		if err != nil {
			return err
		}
		return db.MigrateUp(log, cfg.DatabaseURL)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1 step)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}

		log, cfg, err := setup(true)
		if err != nil {
			return err
		}
		return db.MigrateDown(log, cfg.DatabaseURL, steps)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup(true)
		if err != nil {
			return err
		}

		version, dirty, err := db.MigrationVersion(log, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")

	serveCmd.Flags().StringVar(&storeKind, "store", string(bootstrap.StorePostgres), "user store: postgres or memory")
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply pending migrations before serving (postgres only)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func setup(requireDatabase bool) (*logger.Logger, config.UsersConfig, error) {
	cfg, err := config.LoadUsersConfig(requireDatabase)
	if err != nil {
		return nil, config.UsersConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := bootstrap.NewLogger(cfg, serviceName)
	if err != nil {
		return nil, config.UsersConfig{}, err
	}
	return log, cfg, nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := bootstrap.ParseStoreKind(storeKind)
	if err != nil {
		return err
	}

	log, cfg, err := setup(store == bootstrap.StorePostgres)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := bootstrap.NewApp(ctx, log, cfg, bootstrap.Options{Store: store, Migrate: autoMigrate})
	if err != nil {
		return err
	}
	defer app.Close()

	userService := service.NewUserService(
		service.UserServiceDeps{
			Repo:  app.UserRepo,
			Clock: app.Clock,
			Log:   log,
		},
		service.UserServiceConfig{MinAge: cfg.MinRegistrationAge},
	)

	rateLimiter := commonhttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	handler := userhttp.NewHandler(userService, log, userhttp.Options{
		RequestTimeout: cfg.RequestTimeout,
		JWTSecret:      cfg.JWTSecret,
		RateLimiter:    rateLimiter,
		HealthChecks:   app.HealthChecks,
		MetricsHandler: promhttp.Handler(),
		Clock:          app.Clock,
	})

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), commonhttp.BuildBaseHandler(log, handler))

	log.WithFields(ctx, logger.Fields{
		"store":      string(store),
		"min_age":    userService.MinAge(),
		"jwt_guard":  cfg.JWTSecret != "",
		"rate_limit": cfg.RateLimitRPS,
	}).Info("users service configured")

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("%s service: stopping background workers", serviceName)
			rateLimiter.Stop()
			cancel()
			return nil
		},
	}

	return srv.StartWithGracefulShutdownAndHooks(ctx, server, log, serviceName, shutdownHooks)
}
