package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/server/config"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/repomanager"

	gs "github.com/dmitrijs2005/userhub/internal/server/grpc"
)

// AccountsApp is the standalone account service.
type AccountsApp struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *gs.GRPCServer
}

// NewAccountsApp needs only storage settings; token secrets are not used here.
func NewAccountsApp(ctx context.Context, c *config.Config) (*AccountsApp, error) {
	if err := c.ValidateStorage(); err != nil {
		return nil, err
	}
	logger := newLogger(c)

	repos, err := repomanager.Open(ctx, c.StorageBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	if c.StorageBackend == config.StorageMemory {
		logger.Warn(ctx, "Account service uses memory storage; it shares nothing with a separate HTTP tier")
	}

	return &AccountsApp{
		config: c,
		logger: logger,
		repos:  repos,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, repos.Accounts()),
	}, nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *AccountsApp) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(context.Background(), "Close storage", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting account service...")
	return app.server.Run(ctx)
}
