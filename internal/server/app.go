// Package server assembles the two userhub processes: the HTTP tier (App)
// and the account service (AccountsApp). Both share configuration, logging
// and storage wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/server/accountclient"
	"github.com/dmitrijs2005/userhub/internal/server/api"
	"github.com/dmitrijs2005/userhub/internal/server/api/handler"
	"github.com/dmitrijs2005/userhub/internal/server/auth"
	"github.com/dmitrijs2005/userhub/internal/server/config"
	"github.com/dmitrijs2005/userhub/internal/server/ratelimit"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userhub/internal/server/services"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/userhub/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

// App is the HTTP tier.
type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	accounts *accountclient.Client
	redis    *redis.Client
	server   *http.Server

	// embedded account service, memory storage only
	embedded    *gs.GRPCServer
	embeddedLis net.Listener
}

func newLogger(c *config.Config) logging.Logger {
	return logging.New(os.Stdout, c.LogLevel, c.LogFormat)
}

// NewApp validates c and wires the HTTP tier. With memory storage the account
// service runs inside the same process so both sides see one directory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger(c)

	issuer, err := auth.NewIssuer(c.TokenConfig())
	if err != nil {
		return nil, err
	}

	repos, err := repomanager.Open(ctx, c.StorageBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app := &App{config: c, logger: logger, repos: repos}

	accountAddr := c.AccountServiceAddr
	if c.StorageBackend == config.StorageMemory {
		lis, err := net.Listen("tcp", c.EndpointAddrGRPC)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("embedded account service: %w", err)
		}
		app.embeddedLis = lis
		app.embedded = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, repos.Accounts())
		accountAddr = lis.Addr().String()
	}

	app.accounts, err = accountclient.New(accountAddr)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	opts := []services.Option{
		services.WithStrictRefresh(c.StrictRefresh),
		services.WithAdminGuard(c.RequireAuth),
	}
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		opts = append(opts, services.WithLimiter(ratelimit.NewRedisLimiter(app.redis, c.LoginMaxAttempts, c.LoginWindow)))
	}

	users := services.NewUserService(repos.Accounts(), issuer, logger, opts...)
	removal := services.NewRemovalDelegate(app.accounts, c.RemovalTimeout, logger)

	router := api.NewRouter(handler.NewUserHandler(users, removal, logger), api.RouterConfig{
		RequireAuth:    c.RequireAuth,
		TokenAuth:      jwtauth.New("HS256", issuer.AccessSecret(), nil),
		RequestTimeout: 60 * time.Second,
	})

	app.server = &http.Server{
		Addr:              c.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *App) Handler() http.Handler {
	return app.server.Handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.logger.Info(shutdownCtx, "Stopping HTTP server...")
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "HTTP shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startEmbeddedAccountService(ctx context.Context, cancelFunc context.CancelFunc, lis net.Listener) {
	if err := app.embedded.Serve(ctx, lis); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases every resource.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.embedded != nil {
		// Serve owns the listener from here on.
		lis := app.embeddedLis
		app.embeddedLis = nil
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startEmbeddedAccountService(ctx, cancelFunc, lis)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "Close", "error", err)
	}
}

// Close releases clients and storage. It is safe to call on a partly built App.
func (app *App) Close() error {
	var errs []error
	if app.accounts != nil {
		errs = append(errs, app.accounts.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.embeddedLis != nil {
		errs = append(errs, app.embeddedLis.Close())
	}
	if app.repos != nil {
		errs = append(errs, app.repos.Close())
	}
	return errors.Join(errs...)
}
