package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAPIServer wires the full stack against a test database.
func setupAPIServer(t *testing.T, db *TestDB) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()

	tokens, err := auth.NewTokenService("integration-test-secret", time.Hour)
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher()

	productRepo := repository.NewProductRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)

	productService := service.NewProductService(productRepo, logger)
	userService := service.NewUserService(userRepo, hasher, tokens, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	srv := httptest.NewServer(router.New(productHandler, userHandler, tokens, nil, logger))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, client *http.Client, url string, body any, token string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	srv := setupAPIServer(t, db)
	client := srv.Client()

	t.Run("health check is open", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("product routes require a token", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/products")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	var token string

	t.Run("register and login", func(t *testing.T) {
		db.TruncateTables(t)

		resp := postJSON(t, client, srv.URL+"/api/users", map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "correct horse battery",
		}, "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var registered model.UserResponse
		decodeInto(t, resp, &registered)
		assert.Equal(t, "alice", registered.Username)

		// A second registration with the same email conflicts.
		resp = postJSON(t, client, srv.URL+"/api/users", map[string]string{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "correct horse battery",
		}, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()

		// A wrong password is rejected without detail.
		resp = postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()

		resp = postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
		}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var authResp model.AuthResponse
		decodeInto(t, resp, &authResp)
		require.NotEmpty(t, authResp.Token)
		assert.Equal(t, registered.ID, authResp.User.ID)
		token = authResp.Token
	})

	t.Run("product lifecycle with token", func(t *testing.T) {
		require.NotEmpty(t, token)

		resp := postJSON(t, client, srv.URL+"/api/products", map[string]any{
			"name":     "Laptop",
			"price":    999.99,
			"category": "electronics",
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created model.Product
		decodeInto(t, resp, &created)
		assert.Equal(t, "Laptop", created.Name)

		req, err := http.NewRequest(http.MethodGet,
			srv.URL+"/api/products?name=lap&min_price=500", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		listResp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, listResp.StatusCode)

		var products []model.Product
		decodeInto(t, listResp, &products)
		require.Len(t, products, 1)
		assert.Equal(t, created.ID, products[0].ID)

		req, err = http.NewRequest(http.MethodDelete,
			srv.URL+"/api/products/"+created.ID.String(), nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		delResp, err := client.Do(req)
		require.NoError(t, err)
		delResp.Body.Close()
		assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/products", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer not-a-token")

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown body field is a bad request", func(t *testing.T) {
		resp := postJSON(t, client, srv.URL+"/api/users", map[string]string{
			"username": "bob",
			"email":    "bob@example.com",
			"password": "correct horse battery",
			"role":     "admin",
		}, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
