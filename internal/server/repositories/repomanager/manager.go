package repomanager

import (
	"context"

	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
)

// RepositoryManager vends the account directory for a storage backend and
// prepares the backend's schema.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Close() error
}
