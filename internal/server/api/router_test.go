package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/userhub/internal/logging"
	"github.com/dmitrijs2005/userhub/internal/models"
	"github.com/dmitrijs2005/userhub/internal/server/accountclient"
	"github.com/dmitrijs2005/userhub/internal/server/api/handler"
	"github.com/dmitrijs2005/userhub/internal/server/auth"
	"github.com/dmitrijs2005/userhub/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/userhub/internal/server/services"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	gs "github.com/dmitrijs2005/userhub/internal/server/grpc"
)

// countingRemover records how often the account service would be called.
type countingRemover struct {
	calls int
	reply *models.RemovalResult
}

func (c *countingRemover) RemoveUser(context.Context, string) (*models.RemovalResult, error) {
	c.calls++
	return c.reply, nil
}

type testEnv struct {
	handler http.Handler
	repo    *accounts.MemoryRepository
	issuer  *auth.Issuer
}

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	issuer, err := auth.NewIssuer(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	return issuer
}

// dialAccountService runs the account service over bufconn against repo.
func dialAccountService(t *testing.T, repo accounts.Repository) services.AccountRemover {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = gs.NewGRPCServer("", logging.Nop{}, repo).Serve(ctx, lis)
	}()

	c, err := accountclient.New("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func newTestEnv(t *testing.T, requireAuth bool, remover services.AccountRemover) *testEnv {
	t.Helper()

	repo := accounts.NewMemoryRepository()
	issuer := newIssuer(t)
	if remover == nil {
		remover = dialAccountService(t, repo)
	}

	users := services.NewUserService(repo, issuer, logging.Nop{}, services.WithAdminGuard(requireAuth))
	removal := services.NewRemovalDelegate(remover, 2*time.Second, logging.Nop{})
	h := NewRouter(handler.NewUserHandler(users, removal, logging.Nop{}), RouterConfig{
		RequireAuth: requireAuth,
		TokenAuth:   jwtauth.New("HS256", issuer.AccessSecret(), nil),
	})
	return &testEnv{handler: h, repo: repo, issuer: issuer}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, name, email, role string) string {
	t.Helper()
	body := `{"username":"` + name + `","email":"` + email + `","password":"secret","role":"` + role + `"}`
	rec := e.do(t, http.MethodPost, "/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp handler.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

func (e *testEnv) login(t *testing.T, email string) handler.TokenResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login", `{"email":"`+email+`","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false, &countingRemover{})
	rec := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, false, &countingRemover{})

	id := env.register(t, "alice", "alice@example.com", "")
	assert.NotEmpty(t, id)

	tokens := env.login(t, "alice@example.com")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
	assert.True(t, tokens.RefreshTokenExpiresAt.After(tokens.AccessTokenExpiresAt))

	rec := env.do(t, http.MethodPost, "/login", `{"email":"alice@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", `{"email":"nobody@example.com","password":"secret"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t, false, &countingRemover{})
	env.register(t, "alice", "alice@example.com", "User")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"duplicate email", `{"username":"a2","email":"alice@example.com","password":"secret"}`, http.StatusConflict},
		{"missing password", `{"username":"bob","email":"bob@example.com"}`, http.StatusBadRequest},
		{"unknown role", `{"username":"bob","email":"bob@example.com","password":"x","role":"root"}`, http.StatusBadRequest},
		{"malformed json", `{"username":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/register", tt.body, "")
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestListAndUpdate(t *testing.T) {
	env := newTestEnv(t, false, &countingRemover{})
	id := env.register(t, "alice", "alice@example.com", "")

	rec := env.do(t, http.MethodPatch, "/users/"+id, `{"username":"alicia"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"User updated successfully"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/users", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alicia"`)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "@example.com")

	rec = env.do(t, http.MethodPatch, "/users/00000000-0000-0000-0000-000000000001", `{"username":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, "/users/not-a-uuid", `{"username":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/users/"+id, `{"name":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_RotatesSession(t *testing.T) {
	env := newTestEnv(t, false, &countingRemover{})
	id := env.register(t, "alice", "alice@example.com", "")
	first := env.login(t, "alice@example.com")

	rec := env.do(t, http.MethodPatch, "/user/refresh/"+id, "", first.RefreshToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var second handler.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	rec = env.do(t, http.MethodPatch, "/user/refresh/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemove_RelaysAccountServiceReply(t *testing.T) {
	env := newTestEnv(t, false, nil)
	id := env.register(t, "alice", "alice@example.com", "Admin")

	rec := env.do(t, http.MethodDelete, "/users/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.RemoveUserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User removed successfully", resp.Message)
	require.NotNil(t, resp.Account)
	assert.Equal(t, id, resp.Account.ID)
	assert.Equal(t, "alice", resp.Account.Username)

	rec = env.do(t, http.MethodDelete, "/users/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestRemove_InvalidIDNeverReachesAccountService(t *testing.T) {
	remover := &countingRemover{}
	env := newTestEnv(t, false, remover)

	rec := env.do(t, http.MethodDelete, "/users/not-a-valid-id", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, remover.calls)
}

// seedAdmin creates an Admin account directly, the way an operator would.
func (e *testEnv) seedAdmin(t *testing.T, name, email string) string {
	t.Helper()
	id, err := services.NewUserService(e.repo, e.issuer, logging.Nop{}).Register(context.Background(), services.RegisterInput{
		Username: name, Email: email, Password: "secret", Role: "Admin",
	})
	require.NoError(t, err)
	return id.String()
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t, true, nil)
	adminID := env.seedAdmin(t, "root", "root@example.com")
	userID := env.register(t, "bob", "bob@example.com", "User")
	admin := env.login(t, "root@example.com").AccessToken
	user := env.login(t, "bob@example.com").AccessToken

	rec := env.do(t, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/users", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/users", "", user)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/users/"+adminID, "", user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/users/"+userID, "", admin)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Registration and login stay public.
	rec = env.do(t, http.MethodPost, "/login", `{"email":"root@example.com","password":"secret"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_AdminRegistrationNeedsAdmin(t *testing.T) {
	env := newTestEnv(t, true, &countingRemover{})
	env.seedAdmin(t, "root", "root@example.com")
	env.register(t, "bob", "bob@example.com", "User")
	admin := env.login(t, "root@example.com").AccessToken
	user := env.login(t, "bob@example.com").AccessToken

	body := `{"username":"mallory","email":"m@example.com","password":"secret","role":"Admin"}`

	rec := env.do(t, http.MethodPost, "/register", body, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/register", body, user)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/register", body, "garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/register", body, admin)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAdminRegistrationOpenWithoutRequireAuth(t *testing.T) {
	env := newTestEnv(t, false, &countingRemover{})
	env.register(t, "root", "root@example.com", "Admin")
}

func TestRemove_AccountServiceUnreachable(t *testing.T) {
	// nothing listens on port 1
	c, err := accountclient.New("127.0.0.1:1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	env := newTestEnv(t, false, c)
	id := env.register(t, "alice", "alice@example.com", "User")

	rec := env.do(t, http.MethodDelete, "/users/"+id, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"service temporarily unavailable"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "127.0.0.1")

	a, err := env.repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID.String())
}
