package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var accountColumns = []string{
	"id", "username", "email", "password_hash", "role",
	"access_token", "refresh_token", "access_token_expires_at", "refresh_token_expires_at", "created_at",
}

const insertQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(username,\s*email,\s*password_hash,\s*role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "a@x.com", "$2a$hash", "User").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), created))

	a := &models.Account{Username: "alice", Email: "a@x.com", PasswordHash: "$2a$hash", Role: models.RoleUser}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got != id || a.ID != id || !a.CreatedAt.Equal(created) {
		t.Fatalf("unexpected result: id=%v account=%+v", got, a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "a@x.com", "$2a$hash", "User").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), &models.Account{Username: "alice", Email: "a@x.com", PasswordHash: "$2a$hash", Role: models.RoleUser})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want common.ErrConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{Username: "alice", Email: "a@x.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByEmail_WithSession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1$`

	mock.ExpectQuery(q).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), "alice", "a@x.com", "$2a$hash", "Admin", "acc", "ref", now, now.Add(time.Hour), now))

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.ID != id || got.Role != models.RoleAdmin || got.PasswordHash != "$2a$hash" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if got.Session == nil || got.Session.AccessToken != "acc" || got.Session.RefreshToken != "ref" {
		t.Fatalf("unexpected session: %+v", got.Session)
	}
}

func TestFindByID_NoSession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	q := `(?s)^SELECT\s+id,\s*username,.*FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1$`

	mock.ExpectQuery(q).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), "bob", "b@x.com", "$2a$hash", "User", nil, nil, nil, nil, time.Now()))

	got, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.Session != nil {
		t.Fatalf("expected no session, got %+v", got.Session)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`FROM\s+accounts\s+WHERE\s+id`).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), id)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id1, id2 := uuid.NewString(), uuid.NewString()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*username,\s*role\s+FROM\s+accounts\s+ORDER\s+BY\s+created_at,\s*id$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).
			AddRow(id1, "alice", "Admin").
			AddRow(id2, "bob", "User"))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := []models.AccountView{
		{ID: id1, Username: "alice", Role: models.RoleAdmin},
		{ID: id2, Username: "bob", Role: models.RoleUser},
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+accounts`).WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestPatchName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(`(?s)^UPDATE\s+accounts\s+SET\s+username\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2$`).
		WithArgs("alice2", id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.PatchName(context.Background(), id, "alice2")
	if err != nil || n != 1 {
		t.Fatalf("PatchName: n=%d err=%v", n, err)
	}
}

func TestRotate_ByEmailAndByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	s := models.Session{AccessToken: "a", RefreshToken: "r", AccessExpiresAt: now, RefreshExpiresAt: now.Add(time.Hour)}
	id := uuid.New()

	mock.ExpectExec(`(?s)^UPDATE\s+accounts\s+SET\s+access_token.*WHERE\s+email\s*=\s*\$5$`).
		WithArgs("a", "r", s.AccessExpiresAt, s.RefreshExpiresAt, "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^UPDATE\s+accounts\s+SET\s+access_token.*WHERE\s+id\s*=\s*\$5$`).
		WithArgs("a", "r", s.AccessExpiresAt, s.RefreshExpiresAt, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Rotate(context.Background(), ByEmail("a@x.com"), s)
	if err != nil || n != 1 {
		t.Fatalf("Rotate by email: n=%d err=%v", n, err)
	}
	n, err = repo.Rotate(context.Background(), ByID(id), s)
	if err != nil || n != 0 {
		t.Fatalf("Rotate by id: n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRotate_ZeroFilter(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	if _, err := repo.Rotate(context.Background(), Filter{}, models.Session{}); err == nil {
		t.Fatal("expected error for empty filter")
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	q := `(?s)^DELETE\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*username,\s*role\s*$`

	mock.ExpectQuery(q).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).AddRow(id.String(), "alice", "User"))

	v, err := repo.Delete(context.Background(), id)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if v.ID != id.String() || v.Username != "alice" || v.Role != models.RoleUser {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`DELETE\s+FROM\s+accounts`).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Delete(context.Background(), id); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
