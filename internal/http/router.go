package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

type Deps struct {
	Logger *zap.Logger
	Cfg    config.Config
	App    *app.App
}

// NewRouter exposes the storefront services to a local UI process.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Health
	health := &handlers.HealthHandler{Probe: d.App.Health}
	mux.HandleFunc("GET /health", health.Bridge)
	mux.HandleFunc("GET /health/upstream", health.Upstream)

	// Session
	sess := handlers.NewSessionHandler(d.App)
	mux.HandleFunc("GET /session", sess.Get)
	mux.HandleFunc("POST /session/login", sess.Login)
	mux.HandleFunc("POST /session/register", sess.Register)
	mux.HandleFunc("POST /session/logout", sess.Logout)

	// Catalog
	cat := handlers.NewCatalogHandler(d.App.Catalog)
	mux.HandleFunc("GET /categories", cat.ListCategories)
	mux.HandleFunc("GET /categories/{id}/products", cat.ListProducts)
	mux.HandleFunc("GET /products/search", cat.Search)

	// Admin
	mux.HandleFunc("POST /admin/products", cat.AddProduct)
	mux.HandleFunc("DELETE /admin/products/{id}", cat.DeleteProduct)

	// Cart (me)
	cart := handlers.NewCartHandler(d.App.Cart)
	mux.HandleFunc("GET /me/cart", cart.GetCartMe)
	mux.HandleFunc("POST /me/cart/refresh", cart.RefreshMe)
	mux.HandleFunc("POST /me/cart/items", cart.AddItemMe)
	mux.HandleFunc("DELETE /me/cart/items/{productId}", cart.RemoveItemMe)
	mux.HandleFunc("POST /me/cart/items/{productId}/increase", cart.IncreaseMe)
	mux.HandleFunc("POST /me/cart/items/{productId}/decrease", cart.DecreaseMe)

	// Favorites (me)
	fav := handlers.NewFavoritesHandler(d.App.Favorites)
	mux.HandleFunc("GET /me/favorites", fav.ListMe)
	mux.HandleFunc("POST /me/favorites/refresh", fav.RefreshMe)
	mux.HandleFunc("POST /me/favorites", fav.AddMe)
	mux.HandleFunc("DELETE /me/favorites/{favoriteId}", fav.RemoveMe)

	// Notifications
	notes := handlers.NewNotificationsHandler(d.App.Notices)
	mux.HandleFunc("GET /notifications", notes.List)
	mux.HandleFunc("DELETE /notifications/{id}", notes.Dismiss)

	// Middlewares (outer -> inner)
	var h http.Handler = mux
	h = middleware.Recover(d.Logger)(h)
	h = middleware.RequireSession(d.App.Session)(h)
	h = middleware.CORS(d.Cfg.CORSAllowOrigins)(h)
	h = middleware.CorrelationID(h)
	h = middleware.Logging(d.Logger)(h)

	return h
}
