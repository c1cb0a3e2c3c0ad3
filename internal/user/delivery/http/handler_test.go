package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	"github.com/cepetdeal/marketplace/internal/user/usecase/command"
	"github.com/cepetdeal/marketplace/internal/user/usecase/query"
	"github.com/cepetdeal/marketplace/pkg/auth"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

func newTestRouter(t *testing.T) (*mux.Router, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	users, dealers := store.Users(), store.Dealers()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	queries := query.Handlers{
		GetUser:     query.NewGetUserHandler(users),
		ListUsers:   query.NewListUsersHandler(users),
		GetDealer:   query.NewGetDealerHandler(dealers),
		ListDealers: query.NewListDealersHandler(dealers),
	}
	commands := command.Handlers{
		Register:       command.NewRegisterUserHandler(users),
		Login:          command.NewLoginUserHandler(users, tokens),
		UpdateProfile:  command.NewUpdateProfileHandler(users),
		ChangeUsername: command.NewChangeUsernameHandler(users),
		ChangeRole:     command.NewChangeRoleHandler(users),
		ToggleActive:   command.NewToggleActiveHandler(users),
		ApplyDealer:    command.NewApplyDealerHandler(users, dealers),
		VerifyDealer:   command.NewVerifyDealerHandler(dealers),
	}

	authn := identity.NewAuthenticator(tokens, queries.GetUser.LookupPrincipal)
	h := NewUserHandler(commands, queries, authn, metrics.NewHTTPMetrics(prometheus.NewRegistry()))

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router, store
}

func do(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router http.Handler, username, role string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "rahasia123",
		"fullName": "User " + username,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": "rahasia123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp command.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestRegisterLoginProfile(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "budi", "SELLER")

	rec := do(t, router, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "budi", me["username"])
	assert.Equal(t, "SELLER", me["role"])
	assert.NotContains(t, me, "password")

	rec = do(t, router, http.MethodPut, "/users/me", token, map[string]string{"city": "Bandung"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Bandung", me["city"])
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "budi", "")

	rec := do(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "budi",
		"email":    "lain@example.com",
		"password": "rahasia123",
		"fullName": "Budi Lain",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUsernameChangeTooSoon(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "sari", "")

	rec := do(t, router, http.MethodPut, "/users/me/username", token, map[string]string{"username": "sari_baru"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, command.CodeUsernameChangeTooSoon, body.Code)
	assert.Contains(t, body.Error, "30 days")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "joko", "")

	rec := do(t, router, http.MethodGet, "/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDealerFlow(t *testing.T) {
	router, store := newTestRouter(t)
	sellerToken := registerAndLogin(t, router, "mobilku", "SELLER")
	registerAndLogin(t, router, "admin", "")

	// promote the second account directly in the store
	admin, err := store.Users().FindByUsername(t.Context(), "admin")
	require.NoError(t, err)
	admin.Role = identity.RoleAdmin
	require.NoError(t, store.Users().Update(t.Context(), admin))
	adminLogin := do(t, router, http.MethodPost, "/auth/login", "", map[string]string{"username": "admin", "password": "rahasia123"})
	var resp command.LoginResponse
	require.NoError(t, json.Unmarshal(adminLogin.Body.Bytes(), &resp))
	adminToken := resp.Token

	rec := do(t, router, http.MethodPost, "/dealers", sellerToken, map[string]string{
		"businessName": "Mobilku Motor",
		"address":      "Jl. Asia Afrika 8",
		"city":         "Bandung",
		"phone":        "0812345678",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dealer map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dealer))
	assert.Equal(t, false, dealer["isVerified"])

	rec = do(t, router, http.MethodGet, "/admin/dealers?verified=false", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page query.DealerPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Dealers, 1)

	rec = do(t, router, http.MethodPut, "/admin/dealers/1/verification", adminToken, map[string]bool{"verified": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the seller's next request already carries the DEALER role
	rec = do(t, router, http.MethodGet, "/users/me", sellerToken, nil)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "DEALER", me["role"])

	rec = do(t, router, http.MethodGet, "/dealers/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
