package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/store"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	url     string
	storage *session.GormStorage
	repos   repositories.Set
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repos := repositories.NewJSONSet(store.NewMemory())
	cfg := config.Config{JWTSecret: "test_jwt_secret", TokenTTL: time.Hour}
	srv := httptest.NewServer(adaptor.FiberApp(server.New(cfg, server.Dependencies{Repos: repos})))
	t.Cleanup(srv.Close)

	require.NoError(t, repos.Categories.Create(&models.Category{Name: "Bebidas"}))
	require.NoError(t, repos.Products.Create(&models.Product{Name: "Café", Price: 500, CategoryID: 1}))

	storage, err := session.OpenSQLiteStorage(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	return &harness{url: srv.URL, storage: storage, repos: repos}
}

// exec runs one command the way a fresh process would.
func (h *harness) exec(t *testing.T, lang string, args ...string) (string, error) {
	t.Helper()
	cache := session.New(h.storage)
	var out bytes.Buffer
	sh := newShopper(cache, client.New(h.url, cache), lang, &out)
	defer sh.close()
	err := sh.run(context.Background(), args)
	return out.String(), err
}

func TestShopperSession(t *testing.T) {
	h := newHarness(t)

	out, err := h.exec(t, "es", "register", "a@x.com", "Test1234!", "Ana", "Diaz")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered a@x.com")

	_, err = h.exec(t, "es", "register", "a@x.com", "Test1234!", "Ana", "Diaz")
	assert.EqualError(t, err, "Este email ya está registrado.")

	_, err = h.exec(t, "es", "login", "a@x.com", "Wrong123!")
	assert.EqualError(t, err, "Email o contraseña incorrectos.")

	out, err = h.exec(t, "es", "login", "a@x.com", "Test1234!")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as a@x.com")

	out, err = h.exec(t, "es", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "a@x.com")

	_, err = h.exec(t, "es", "logout")
	require.NoError(t, err)
	_, err = h.exec(t, "en", "whoami")
	assert.EqualError(t, err, "Please sign in to continue.")
}

func TestShopperCheckout(t *testing.T) {
	h := newHarness(t)
	_, err := h.exec(t, "es", "register", "a@x.com", "Test1234!", "Ana", "Diaz")
	require.NoError(t, err)
	_, err = h.exec(t, "es", "login", "a@x.com", "Test1234!")
	require.NoError(t, err)

	out, err := h.exec(t, "es", "products")
	require.NoError(t, err)
	assert.Contains(t, out, "Café")
	assert.Contains(t, out, "5.00")

	out, err = h.exec(t, "es", "add", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 items")
	assert.Contains(t, out, "10.00")

	_, err = h.exec(t, "es", "add-address", "Calle Mayor 1", "Madrid", "28001", "ES")
	require.NoError(t, err)
	out, err = h.exec(t, "es", "addresses")
	require.NoError(t, err)
	assert.Contains(t, out, "Calle Mayor 1")

	out, err = h.exec(t, "es", "checkout", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "placed: 10.00 (pending)")

	out, err = h.exec(t, "es", "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "0 items")

	out, err = h.exec(t, "es", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "ORD-")
}

func TestShopperUsage(t *testing.T) {
	h := newHarness(t)

	_, err := h.exec(t, "es")
	assert.ErrorIs(t, err, errUsage)
	_, err = h.exec(t, "es", "add", "x", "1")
	assert.ErrorIs(t, err, errUsage)
	_, err = h.exec(t, "es", "bogus")
	assert.ErrorIs(t, err, errUsage)

	_, err = h.exec(t, "es", "cart")
	assert.EqualError(t, err, "Inicia sesión para continuar.")
}
