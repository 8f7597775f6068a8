package catalog

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/commercetest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

type fixedRole bool

func (r fixedRole) IsAdmin() bool { return bool(r) }

type fixture struct {
	srv     *commercetest.Server
	users   *clients.UsersClient
	browser *Browser
	center  *notify.Center
}

func newFixture(t *testing.T, admin bool) *fixture {
	t.Helper()
	srv := commercetest.NewServer()
	t.Cleanup(srv.Close)

	httpClient, err := clients.NewHTTPClient(5 * time.Second)
	require.NoError(t, err)
	c := clients.NewClient("commerce-api", srv.URL, httpClient)

	center := notify.NewCenter(10)
	return &fixture{
		srv:     srv,
		users:   clients.NewUsersClient(c),
		browser: NewBrowser(clients.NewCatalogClient(c), fixedRole(admin), center, zap.NewNop()),
		center:  center,
	}
}

func TestListCategoriesAndProducts(t *testing.T) {
	f := newFixture(t, false)
	lighting := f.srv.AddCategory("Lighting")
	seating := f.srv.AddCategory("Seating")
	f.srv.AddProduct(commercetest.Product{ID: "p1", Title: "Lamp", Price: 10, Image: "lamp.png", Category: lighting})
	f.srv.AddProduct(commercetest.Product{ID: "p2", Title: "Chair", Price: 25, Category: seating})

	cats, err := f.browser.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: lighting, Name: "Lighting"}, {ID: seating, Name: "Seating"}}, cats)

	products, err := f.browser.ListProducts(context.Background(), lighting)
	require.NoError(t, err)
	assert.Equal(t, []Product{{ID: "p1", Title: "Lamp", UnitPrice: 10, ImageRef: "lamp.png", CategoryID: lighting}}, products)
}

func TestSearch(t *testing.T) {
	f := newFixture(t, false)
	f.srv.AddProduct(commercetest.Product{ID: "p1", Title: "Desk Lamp", Price: 10})
	f.srv.AddProduct(commercetest.Product{ID: "p2", Title: "Chair", Price: 25})

	products, err := f.browser.Search(context.Background(), "lamp")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestSearchBlankSendsNothing(t *testing.T) {
	f := newFixture(t, false)

	products, err := f.browser.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Zero(t, f.srv.CountCalls(http.MethodGet, "/api/v1/products/search"))
}

type statusRemote struct {
	Remote
	status string
}

func (r statusRemote) Search(ctx context.Context, text string) (dto.SearchResponse, error) {
	return dto.SearchResponse{Status: r.status, Products: []dto.Product{{ID: "p1"}}}, nil
}

func TestSearchWithoutSuccessStatusIsEmpty(t *testing.T) {
	b := NewBrowser(statusRemote{status: "fail"}, fixedRole(false), notify.Discard{}, zap.NewNop())

	products, err := b.Search(context.Background(), "lamp")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListCategoriesError(t *testing.T) {
	f := newFixture(t, false)
	f.srv.FailNext(http.MethodGet, "/api/v1/category/getAllCategory", http.StatusInternalServerError, "db down")

	_, err := f.browser.ListCategories(context.Background())
	require.Error(t, err)
	assert.True(t, clients.IsStatus(err, http.StatusInternalServerError))
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	f := newFixture(t, false)

	err := f.browser.DeleteProduct(context.Background(), "p1")
	require.ErrorIs(t, err, ErrAdminRequired)
	err = f.browser.AddProduct(context.Background(), NewProduct{Title: "x"})
	require.ErrorIs(t, err, ErrAdminRequired)
	assert.Empty(t, f.srv.Calls())
}

func loginAdmin(t *testing.T, f *fixture) {
	t.Helper()
	f.srv.AddUser("Ada", "ada@example.com", "secret123", "admin")
	_, err := f.users.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
}

func TestAddAndDeleteProduct(t *testing.T) {
	f := newFixture(t, true)
	loginAdmin(t, f)
	cat := f.srv.AddCategory("Lighting")

	err := f.browser.AddProduct(context.Background(), NewProduct{
		Title:       " Lamp ",
		Description: "warm light",
		Price:       19.5,
		CategoryID:  cat,
		ImageName:   "lamp.png",
		ImageType:   "image/png",
		Image:       strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	products := f.srv.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Title)
	assert.Equal(t, 19.5, products[0].Price)
	assert.Equal(t, cat, products[0].Category)
	assert.Equal(t, "Product added", f.center.Pending()[0].Message)

	require.NoError(t, f.browser.DeleteProduct(context.Background(), products[0].ID))
	assert.Empty(t, f.srv.Products())
}

func TestAddProductInvalidNotifies(t *testing.T) {
	f := newFixture(t, true)

	err := f.browser.AddProduct(context.Background(), NewProduct{Title: "Lamp", Price: 0})
	require.Error(t, err)

	var verr *clients.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, f.center.Pending(), 1)
	assert.Contains(t, f.center.Pending()[0].Message, "Please check")
	assert.Empty(t, f.srv.Calls())
}

func TestDeleteProductRejectedByServer(t *testing.T) {
	// the local role says admin but the server session is a customer
	f := newFixture(t, true)
	f.srv.AddUser("Cy", "cy@example.com", "secret123", "customer")
	_, err := f.users.Login(context.Background(), dto.LoginRequest{Email: "cy@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = f.browser.DeleteProduct(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, clients.IsStatus(err, http.StatusForbidden))
	assert.Equal(t, "Admins only", f.center.Pending()[0].Message)
}
