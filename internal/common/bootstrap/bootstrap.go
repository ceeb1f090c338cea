package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	"github.com/AlibekovAA/user-registry/internal/common/config"
	"github.com/AlibekovAA/user-registry/internal/common/constants"
	"github.com/AlibekovAA/user-registry/internal/common/db"
	commonhttp "github.com/AlibekovAA/user-registry/internal/common/http"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	"github.com/AlibekovAA/user-registry/internal/common/resilience"
	userrepo "github.com/AlibekovAA/user-registry/internal/user/repository"
)

type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

func ParseStoreKind(value string) (StoreKind, error) {
	switch StoreKind(value) {
	case StorePostgres, StoreMemory:
		return StoreKind(value), nil
	default:
		return "", fmt.Errorf("unknown store %q: expected %s or %s", value, StorePostgres, StoreMemory)
	}
}

// App holds the process-wide dependencies shared by the serve command.
type App struct {
	Log          *logger.Logger
	Config       config.UsersConfig
	Clock        clock.Clock
	Pool         *pgxpool.Pool
	UserRepo     userrepo.Repository
	HealthChecks []commonhttp.HealthCheck
}

type Options struct {
	Store   StoreKind
	Migrate bool
}

func NewLogger(cfg config.UsersConfig, serviceName string) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// NewApp builds the user store selected by opts. For postgres it applies
// migrations when asked, opens the pool and starts pool metrics bound to ctx.
func NewApp(ctx context.Context, log *logger.Logger, cfg config.UsersConfig, opts Options) (*App, error) {
	app := &App{
		Log:    log,
		Config: cfg,
		Clock:  clock.NewRealClock(),
	}

	if opts.Store == StoreMemory {
		log.Warn("using in-memory user store; data is lost on restart")
		app.UserRepo = userrepo.NewMemoryRepository(app.Clock)
		return app, nil
	}

	if opts.Migrate {
		if err := db.MigrateUp(log, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "users_db",
		Expected:   userrepo.IsExpected,
		Logger:     log,
	})

	app.Pool = pool
	app.UserRepo = userrepo.NewPgRepository(pool, breaker, log)
	app.HealthChecks = append(app.HealthChecks, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	return app, nil
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
