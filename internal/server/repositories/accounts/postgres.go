package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/dbx"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAccount = `SELECT id, username, email, password_hash, role,
		 access_token, refresh_token, access_token_expires_at, refresh_token_expires_at, created_at
		 FROM accounts`

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (uuid.UUID, error) {
	query :=
		`INSERT INTO accounts (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.Username, a.Email, string(a.PasswordHash), string(a.Role)).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%w: email already registered", common.ErrConflict)
		}
		return uuid.Nil, fmt.Errorf("db error: %w", err)
	}

	return a.ID, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE id = $1`, id.String())
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		a                           models.Account
		hash, role                  string
		accessTok, refreshTok       sql.NullString
		accessExpiry, refreshExpiry sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &hash, &role,
		&accessTok, &refreshTok, &accessExpiry, &refreshExpiry, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.PasswordHash = models.HashedSecret(hash)
	a.Role = models.Role(role)
	if accessTok.Valid && refreshTok.Valid {
		a.Session = &models.Session{
			AccessToken:      models.SignedToken(accessTok.String),
			RefreshToken:     models.SignedToken(refreshTok.String),
			AccessExpiresAt:  accessExpiry.Time,
			RefreshExpiresAt: refreshExpiry.Time,
		}
	}

	return &a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.AccountView, error) {
	query := `SELECT id, username, role FROM accounts ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	views := make([]models.AccountView, 0)
	for rows.Next() {
		var v models.AccountView
		var role string
		if err := rows.Scan(&v.ID, &v.Username, &role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		v.Role = models.Role(role)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return views, nil
}

func (r *PostgresRepository) PatchName(ctx context.Context, id uuid.UUID, username string) (int64, error) {
	query := `UPDATE accounts SET username = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, username, id.String())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

// Rotate overwrites the four session columns in one statement.
func (r *PostgresRepository) Rotate(ctx context.Context, f Filter, s models.Session) (int64, error) {
	var column string
	switch f.field {
	case fieldEmail:
		column = "email"
	case fieldID:
		column = "id"
	default:
		return 0, fmt.Errorf("unsupported filter %q", f.field)
	}

	query := `UPDATE accounts
		 SET access_token = $1, refresh_token = $2,
		     access_token_expires_at = $3, refresh_token_expires_at = $4
		 WHERE ` + column + ` = $5`

	res, err := r.db.ExecContext(ctx, query,
		string(s.AccessToken), string(s.RefreshToken), s.AccessExpiresAt, s.RefreshExpiresAt, f.value)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (*models.AccountView, error) {
	query :=
		`DELETE FROM accounts
		 WHERE id = $1
		 RETURNING id, username, role
		 `

	var v models.AccountView
	var role string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&v.ID, &v.Username, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	v.Role = models.Role(role)

	return &v, nil
}
