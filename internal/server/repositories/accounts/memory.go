package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It is safe for
// concurrent use and can be shared between the HTTP tier and the account
// service when both run in one process.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Account
	byEmail map[string]uuid.UUID
	order   []uuid.UUID
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]*models.Account),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, a *models.Account) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[a.Email]; ok {
		return uuid.Nil, fmt.Errorf("%w: email already registered", common.ErrConflict)
	}

	a.ID = uuid.New()
	a.CreatedAt = r.now().UTC()

	stored := clone(a)
	stored.Session = nil
	r.byID[a.ID] = stored
	r.byEmail[a.Email] = a.ID
	r.order = append(r.order, a.ID)

	return a.ID, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(a), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]models.AccountView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]models.AccountView, 0, len(r.order))
	for _, id := range r.order {
		views = append(views, r.byID[id].View())
	}
	return views, nil
}

func (r *MemoryRepository) PatchName(_ context.Context, id uuid.UUID, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	a.Username = username
	return 1, nil
}

func (r *MemoryRepository) Rotate(_ context.Context, f Filter, s models.Session) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id uuid.UUID
	switch f.field {
	case fieldEmail:
		var ok bool
		if id, ok = r.byEmail[f.value]; !ok {
			return 0, nil
		}
	case fieldID:
		var err error
		if id, err = uuid.Parse(f.value); err != nil {
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("unsupported filter %q", f.field)
	}

	a, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	a.Session = &s
	return 1, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (*models.AccountView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}

	delete(r.byID, id)
	delete(r.byEmail, a.Email)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	v := a.View()
	return &v, nil
}

func clone(a *models.Account) *models.Account {
	c := *a
	if a.Session != nil {
		s := *a.Session
		c.Session = &s
	}
	return &c
}
