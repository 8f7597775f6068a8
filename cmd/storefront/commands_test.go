package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/commercetest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func newTestCLI(t *testing.T, stdin string) (*cli, *bytes.Buffer, *commercetest.Server) {
	t.Helper()
	srv := commercetest.NewServer()
	t.Cleanup(srv.Close)

	cfg := config.Config{APIURL: srv.URL, RequestTimeout: 5 * time.Second, SerializeMutations: true}
	a, err := app.New(cfg, app.Deps{Logger: zap.NewNop(), Ephemeral: true})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &cli{app: a, out: out, in: strings.NewReader(stdin)}, out, srv
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	c, out, srv := newTestCLI(t, "secret123\n")
	srv.AddUser("Ann", "ann@example.com", "secret123", "customer")

	require.NoError(t, c.run(context.Background(), "login", []string{"-email", "ann@example.com"}))
	assert.Contains(t, out.String(), "logged in as Ann <ann@example.com> (customer)")

	out.Reset()
	require.NoError(t, c.run(context.Background(), "whoami", nil))
	assert.Contains(t, out.String(), "Ann <ann@example.com> role=customer")
}

func TestCartCommands(t *testing.T) {
	c, out, srv := newTestCLI(t, "")
	srv.AddUser("Ann", "ann@example.com", "secret123", "customer")
	lamp := srv.AddProduct(commercetest.Product{Title: "Lamp", Price: 10})
	ctx := context.Background()

	require.NoError(t, c.run(ctx, "login", []string{"-email", "ann@example.com", "-password", "secret123"}))

	out.Reset()
	require.NoError(t, c.run(ctx, "cart", []string{"add", lamp, "2"}))
	assert.Contains(t, out.String(), "Lamp")
	assert.Contains(t, out.String(), "20.00")

	require.NoError(t, c.run(ctx, "cart", []string{"dec", lamp}))
	err := c.run(ctx, "cart", []string{"dec", lamp})
	require.Error(t, err)
	assert.Equal(t, "Quantity cannot be less than 1", c.message(err))

	require.NoError(t, c.run(ctx, "cart", []string{"remove", lamp}))
	assert.Empty(t, c.app.Cart.Lines())
}

func TestCartRequiresLogin(t *testing.T) {
	c, _, _ := newTestCLI(t, "")

	err := c.run(context.Background(), "cart", nil)
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestFavCommands(t *testing.T) {
	c, out, srv := newTestCLI(t, "")
	srv.AddUser("Ann", "ann@example.com", "secret123", "customer")
	lamp := srv.AddProduct(commercetest.Product{Title: "Lamp", Price: 10})
	ctx := context.Background()
	require.NoError(t, c.run(ctx, "login", []string{"-email", "ann@example.com", "-password", "secret123"}))

	out.Reset()
	require.NoError(t, c.run(ctx, "fav", []string{"add", lamp}))
	assert.Contains(t, out.String(), "Lamp")

	favID, ok := c.app.Favorites.FavoriteIDFor(lamp)
	require.True(t, ok)
	require.NoError(t, c.run(ctx, "fav", []string{"remove", favID}))
	assert.Empty(t, c.app.Favorites.Entries())
}

func TestCatalogCommands(t *testing.T) {
	c, out, srv := newTestCLI(t, "")
	cat := srv.AddCategory("Home")
	srv.AddProduct(commercetest.Product{Title: "Desk Lamp", Price: 12.5, Category: cat})
	ctx := context.Background()

	require.NoError(t, c.run(ctx, "categories", nil))
	assert.Contains(t, out.String(), "Home")

	out.Reset()
	require.NoError(t, c.run(ctx, "products", []string{"-category", cat}))
	assert.Contains(t, out.String(), "Desk Lamp")
	assert.Contains(t, out.String(), "12.50")

	out.Reset()
	require.NoError(t, c.run(ctx, "search", []string{"desk", "lamp"}))
	assert.Contains(t, out.String(), "Desk Lamp")
}

func TestAdminCommands(t *testing.T) {
	c, out, srv := newTestCLI(t, "")
	srv.AddUser("Ada", "ada@example.com", "secret123", "admin")
	cat := srv.AddCategory("Home")
	ctx := context.Background()
	require.NoError(t, c.run(ctx, "login", []string{"-email", "ada@example.com", "-password", "secret123"}))

	img := filepath.Join(t.TempDir(), "chair.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o600))

	require.NoError(t, c.run(ctx, "admin", []string{
		"add-product", "-title", "Chair", "-price", "30", "-category", cat, "-description", "oak", "-image", img,
	}))
	assert.Contains(t, out.String(), "product added")
	products := srv.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "/uploads/chair.png", products[0].Image)

	require.NoError(t, c.run(ctx, "admin", []string{"delete-product", products[0].ID}))
	assert.Empty(t, srv.Products())
}

func TestAdminAddProductValidation(t *testing.T) {
	c, _, srv := newTestCLI(t, "")
	srv.AddUser("Ada", "ada@example.com", "secret123", "admin")
	ctx := context.Background()
	require.NoError(t, c.run(ctx, "login", []string{"-email", "ada@example.com", "-password", "secret123"}))

	err := c.run(ctx, "admin", []string{"add-product", "-title", "Chair"})
	require.Error(t, err)
	assert.Contains(t, c.message(err), "Please check")
}

func TestUnknownCommand(t *testing.T) {
	c, _, _ := newTestCLI(t, "")
	require.ErrorIs(t, c.run(context.Background(), "dance", nil), errUsage)
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "image/png", imageType("a/b.PNG"))
	assert.Equal(t, "image/webp", imageType("x.webp"))
	assert.Equal(t, "image/jpeg", imageType("photo"))
}
