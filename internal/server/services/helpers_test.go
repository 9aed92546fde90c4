package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/dmitrijs2005/userhub/internal/server/auth"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	i, err := auth.NewIssuer(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return i
}

// fakeRepo overrides selected Repository methods; the rest panic through the
// nil embedded interface.
type fakeRepo struct {
	accounts.Repository

	findOut *models.Account
	findErr error

	rotateN   int64
	rotateErr error
	rotated   []accounts.Filter

	patchN   int64
	patchErr error
}

func (f *fakeRepo) FindByEmail(context.Context, string) (*models.Account, error) {
	return f.findOut, f.findErr
}

func (f *fakeRepo) FindByID(context.Context, uuid.UUID) (*models.Account, error) {
	return f.findOut, f.findErr
}

func (f *fakeRepo) Rotate(_ context.Context, flt accounts.Filter, _ models.Session) (int64, error) {
	f.rotated = append(f.rotated, flt)
	return f.rotateN, f.rotateErr
}

func (f *fakeRepo) PatchName(context.Context, uuid.UUID, string) (int64, error) {
	return f.patchN, f.patchErr
}
