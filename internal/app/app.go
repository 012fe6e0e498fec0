// Package app assembles the service from configuration: storage adapters,
// token store, core services and the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/api"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/service"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/config"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/db/gormdb"
	mongostore "github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/db/mongo"
	redisstore "github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/db/redis"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/http/handlers"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/janitor"
)

const (
	driverMongo     = "mongo"
	tokenStoreRedis = "redis"
)

// App holds the wired service and the resources it must release on exit.
type App struct {
	Echo *echo.Echo
	Auth *service.AuthService

	log     zerolog.Logger
	pruner  *janitor.Pruner
	closers []func(context.Context) error
}

type stores struct {
	users    ports.UserRepository
	students ports.StudentRepository
	tokens   ports.TokenStore
	checks   []handlers.DependencyCheck
	// expired is set for stores that need explicit cleanup of expired tokens.
	expired janitor.ExpiredTokenPruner
}

// Options tune how New wires the service. The zero value suits production.
type Options struct {
	// Registry backs /metrics. Nil means the global Prometheus registry.
	Registry *prometheus.Registry
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// New connects to the configured backends and builds the router. On error every
// connection opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	a := &App{log: log}

	st, err := a.openStores(ctx, cfg)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	if cfg.Auth.TokenStore == tokenStoreRedis {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = a.Close(context.Background())
			return nil, fmt.Errorf("app: %w", err)
		}
		a.onClose(func(context.Context) error { return rdb.Close() })
		st.tokens = redisstore.NewTokenStore(rdb)
		st.expired = nil
		st.checks = append(st.checks, handlers.RedisCheck(rdb))
		log.Info().Str("addr", rdb.Options().Addr).Msg("access tokens stored in redis")
	}

	if st.expired != nil {
		a.pruner = janitor.NewPruner(st.expired, cfg.Auth.PruneInterval, log)
		a.pruner.PruneOnce(ctx)
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	issuer := service.NewTokenIssuer(st.tokens, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.Auth = service.NewAuthService(st.users, service.NewBcryptHasher(cost), issuer, log)

	a.Echo = api.NewRouter(api.Dependencies{
		AuthService:    a.Auth,
		StudentService: service.NewStudentService(st.students, log),
		HealthChecks:   st.checks,
		Logger:         log,
		Debug:          cfg.Debug,
		Registry:       opts.Registry,
	})
	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Database.Driver == driverMongo {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.onClose(client.Disconnect)

		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

		return &stores{
			users:    mongostore.NewUserRepository(db),
			students: mongostore.NewStudentRepository(db),
			tokens:   mongostore.NewTokenStore(db),
			checks:   []handlers.DependencyCheck{handlers.MongoCheck(db)},
		}, nil
	}

	db, err := gormdb.Open(ctx, gormdb.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.LogLevel == "debug",
		Logger: a.log,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.onClose(func(context.Context) error { return gormdb.Close(db) })

	if err := gormdb.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.log.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	tokens := gormdb.NewTokenStore(db)
	return &stores{
		users:    gormdb.NewUserRepository(db),
		students: gormdb.NewStudentRepository(db),
		tokens:   tokens,
		checks:   []handlers.DependencyCheck{handlers.SQLCheck(cfg.Database.Driver, db)},
		expired:  tokens,
	}, nil
}

// Start launches background housekeeping. It stops when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a.pruner != nil {
		a.pruner.Start(ctx)
	}
}

// Seed creates the configured account unless a user with its email exists.
func (a *App) Seed(ctx context.Context, seed config.SeedConfig) error {
	user, created, err := a.Auth.EnsureUser(ctx, seed.Name, seed.Email, seed.Password)
	if err != nil {
		return fmt.Errorf("app: seed user: %w", err)
	}
	if created {
		a.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("seeded user")
	}
	return nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
