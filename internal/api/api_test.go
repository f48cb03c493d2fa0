package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"budget_system/internal/domain"
	"budget_system/internal/repository/memory"
	"budget_system/internal/service"
	"budget_system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI is the full router over an in-memory store
type testAPI struct {
	router *gin.Engine
	store  *memory.Store
	tokens *utils.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithLimiter(t, utils.NewMemoryRateLimiter(1000, time.Minute))
}

func newTestAPIWithLimiter(t *testing.T, limiter utils.RateLimiter) *testAPI {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Roles().Ensure(context.Background(), domain.DefaultRoles...)
	require.NoError(t, err)

	tokens := utils.NewTokenManager("api-test-secret")
	router, err := NewRouter(Deps{
		Auth:         service.NewAuthService(store.Users(), store.Roles(), tokens),
		Transactions: service.NewTransactionService(store.Transactions()),
		Admin:        service.NewAdminService(store.Users(), store.Roles()),
		Tokens:       tokens,
		Users:        store.Users(),
		Limiter:      limiter,
		CORSOrigins:  []string{"http://localhost:5173"},
		HealthChecks: map[string]HealthCheck{"database": func(context.Context) error { return nil }},
	})
	require.NoError(t, err)
	return &testAPI{router: router, store: store, tokens: tokens}
}

func (a *testAPI) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers username and logs in, returning the token and user id
func (a *testAPI) signup(t *testing.T, username string) (string, uint) {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-" + username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.request(t, http.MethodPost, "/api/login", "", gin.H{
		"email":    username + "@example.com",
		"password": "secret-" + username,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string          `json:"token"`
		User  domain.UserView `json:"user"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.User.ID
}

// makeAdmin switches a user to the admin role directly in the store
func (a *testAPI) makeAdmin(t *testing.T, id uint) {
	t.Helper()
	ctx := context.Background()
	role, err := a.store.Roles().FindByName(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	u, err := a.store.Users().FindByID(ctx, id)
	require.NoError(t, err)
	u.RoleID = role.ID
	require.NoError(t, a.store.Users().Update(ctx, u))
}

func (a *testAPI) createTx(t *testing.T, token string, body gin.H) domain.Transaction {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/transactions", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	decode(t, w, &resp)
	return resp.Transaction
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func txPath(id uint) string {
	return "/api/transactions/" + strconv.FormatUint(uint64(id), 10)
}

func userPath(id uint) string {
	return "/api/admin/users/" + strconv.FormatUint(uint64(id), 10)
}

func httptestGet(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}
