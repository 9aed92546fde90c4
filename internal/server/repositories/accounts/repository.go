// Package accounts stores account records. Two implementations share the
// Repository contract: PostgreSQL and an in-process map.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/google/uuid"
)

// Repository is the account directory.
//
// Create fails with common.ErrConflict on a duplicate email. FindByEmail,
// FindByID and Delete fail with common.ErrNotFound when no account matches.
// PatchName and Rotate report how many accounts matched.
type Repository interface {
	Create(ctx context.Context, a *models.Account) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	List(ctx context.Context) ([]models.AccountView, error)
	PatchName(ctx context.Context, id uuid.UUID, username string) (int64, error)
	Rotate(ctx context.Context, f Filter, s models.Session) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.AccountView, error)
}

type field string

const (
	fieldEmail field = "email"
	fieldID    field = "id"
)

// Filter selects one account by a unique key.
type Filter struct {
	field field
	value string
}

func ByEmail(email string) Filter { return Filter{field: fieldEmail, value: email} }

func ByID(id uuid.UUID) Filter { return Filter{field: fieldID, value: id.String()} }

func (f Filter) String() string { return string(f.field) + "=" + f.value }
