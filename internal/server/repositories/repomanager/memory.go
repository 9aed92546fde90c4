package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
)

// MemoryRepositoryManager hands out one shared in-memory directory.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{accounts: accounts.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }

// Open returns the manager for backend ("postgres" or "memory").
func Open(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	switch backend {
	case "memory":
		return NewMemoryRepositoryManager(), nil
	case "postgres":
		return OpenPostgres(ctx, dsn)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
