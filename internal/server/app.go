// Package server wires the application together: configuration,
// logging, storage, the authentication service, and the HTTP API, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/eventspark/auth-service/internal/logging"
	"github.com/eventspark/auth-service/internal/server/auth"
	"github.com/eventspark/auth-service/internal/server/config"
	"github.com/eventspark/auth-service/internal/server/httpapi"
	"github.com/eventspark/auth-service/internal/server/identity"
	"github.com/eventspark/auth-service/internal/server/migrations"
	"github.com/eventspark/auth-service/internal/server/repositories/credentials"
	"github.com/eventspark/auth-service/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	repo := credentials.NewPostgresRepository(db)
	lookup := identity.NewClient(cfg.UserServiceBaseURL, logger)
	hasher := auth.NewSecretHasher(cfg.BcryptCost)

	issuer, err := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	service := services.NewAuthService(repo, lookup, hasher, issuer, cfg.RefreshTokenValidityDuration)
	httpServer := httpapi.NewServer(cfg.EndpointAddr, service, cfg.RefreshTokenValidityDuration, logger)

	return &App{config: cfg, logger: logger, db: db, httpServer: httpServer}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
