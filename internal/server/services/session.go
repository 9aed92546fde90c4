package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
)

// SessionStore persists the current token pair on the account record.
type SessionStore struct {
	repo accounts.Repository
}

func NewSessionStore(repo accounts.Repository) *SessionStore {
	return &SessionStore{repo: repo}
}

// Rotate replaces the stored session of the account matched by f in one
// write. Repeating it with the same session is harmless; concurrent rotations
// leave the last one written. No match yields common.ErrNotFound.
func (s *SessionStore) Rotate(ctx context.Context, f accounts.Filter, session models.Session) error {
	n, err := s.repo.Rotate(ctx, f, session)
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rotate session for %s: %w", f, common.ErrNotFound)
	}
	return nil
}
