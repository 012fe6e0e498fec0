package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/app"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/config"
	infrahttp "github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/infrastructure/http"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Student CRUD API
// @version                     1.0
// @description                 Token-authenticated CRUD over students.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "students-api",
	})

	a, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to release resources")
		}
	}()

	if cfg.Seed.Enabled {
		if err := a.Seed(ctx, cfg.Seed); err != nil {
			return err
		}
	}

	a.Start(ctx)

	log.Info().Str("env", cfg.Env).Msg("starting students api")
	return infrahttp.NewServer(a.Echo, ":"+cfg.Port, log, shutdownTimeout).Run(ctx)
}
