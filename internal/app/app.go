// Package app wires the storefront services together. Both the CLI and the
// UI bridge build one App and call into it.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/favorites"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// cookiesKey holds the API session cookie next to the identity so a new
// process can keep using a login.
const cookiesKey = "cookies"

type Deps struct {
	Logger *zap.Logger
	// Fs backs the sealed session slot. Defaults to the OS filesystem.
	Fs afero.Fs
	// Slot overrides the session slot entirely.
	Slot session.Slot
	// Ephemeral keeps the session in memory only.
	Ephemeral bool
}

type App struct {
	Cfg    config.Config
	Logger *zap.Logger

	API       *clients.Client
	Users     *clients.UsersClient
	Session   *session.Store
	Notices   *notify.Center
	Cart      *cart.Synchronizer
	Favorites *favorites.Synchronizer
	Catalog   *catalog.Browser
	Health    clients.HealthProbe

	slot session.Slot
}

func New(cfg config.Config, d Deps) (*App, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	slot, err := openSlot(cfg, d)
	if err != nil {
		return nil, err
	}

	httpClient, err := clients.NewHTTPClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("app: http client: %w", err)
	}
	api := clients.NewClient("commerce-api", cfg.APIURL, httpClient)

	store := session.NewStore(slot, logger.Named("session"))
	notices := notify.NewCenter(0)

	a := &App{
		Cfg:     cfg,
		Logger:  logger,
		API:     api,
		Users:   clients.NewUsersClient(api),
		Session: store,
		Notices: notices,
		Cart: cart.NewSynchronizer(clients.NewCartClient(api), notices, logger.Named("cart"), cart.Options{
			SerializePerProduct: cfg.SerializeMutations,
		}),
		Favorites: favorites.NewSynchronizer(clients.NewFavoritesClient(api), notices, logger.Named("favorites")),
		Catalog:   catalog.NewBrowser(clients.NewCatalogClient(api), store, notices, logger.Named("catalog")),
		Health:    clients.HealthProbe{Name: "commerce-api", Client: api, Path: "/api/v1/category/getAllCategory"},
		slot:      slot,
	}
	return a, nil
}

func openSlot(cfg config.Config, d Deps) (session.Slot, error) {
	if d.Slot != nil {
		return d.Slot, nil
	}
	if d.Ephemeral || cfg.StateDir == "" {
		return session.NewMemorySlot(), nil
	}

	fs := d.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		var err error
		secret, err = session.LoadOrCreateSecret(fs, cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("app: session secret: %w", err)
		}
	}
	slot, err := session.NewFileSlot(fs, cfg.StateDir, secret)
	if err != nil {
		return nil, fmt.Errorf("app: session slot: %w", err)
	}
	return slot, nil
}

// Start restores the saved session and, when someone is logged in, loads
// their cart and favorites. Refresh failures are logged, not returned.
func (a *App) Start(ctx context.Context) session.Session {
	a.restoreCookies(ctx)
	sess := a.Session.Load(ctx)
	if sess.Authenticated() {
		a.Logger.Info("session restored", zap.String("user_id", sess.User.ID))
		a.RefreshAll(ctx)
	}
	return sess
}

// RefreshAll refreshes the cart and favorites concurrently. One failing does
// not cancel the other.
func (a *App) RefreshAll(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return a.Cart.Refresh(ctx) })
	g.Go(func() error { return a.Favorites.Refresh(ctx) })
	if err := g.Wait(); err != nil {
		a.Logger.Warn("refresh incomplete", zap.Error(err))
	}
}

// Login authenticates, stores the identity and loads the user's data.
func (a *App) Login(ctx context.Context, email, password string) (session.Identity, error) {
	req := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	u, err := a.Users.Login(ctx, req)
	if err != nil {
		a.Logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		a.Notices.Notify(notify.LevelError, notify.UserMessage(err, "Login failed"))
		return session.Identity{}, fmt.Errorf("login: %w", err)
	}
	if u.ID == "" {
		err := fmt.Errorf("login: %w: identity has no id", clients.ErrMalformedResponse)
		a.Notices.Notify(notify.LevelError, "Login failed")
		return session.Identity{}, err
	}

	id := identityFromWire(u)
	// snapshots belong to the previous session until this user's refresh lands
	a.Cart.Reset()
	a.Favorites.Reset()
	a.Session.SetUser(ctx, &id)
	a.saveCookies(ctx)
	a.Logger.Info("logged in", zap.String("user_id", id.ID), zap.String("role", string(id.Role)))

	a.RefreshAll(ctx)
	return id, nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	req := dto.RegisterRequest{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Password: password}
	if err := a.Users.Register(ctx, req); err != nil {
		a.Logger.Warn("register failed", zap.String("email", req.Email), zap.Error(err))
		a.Notices.Notify(notify.LevelError, notify.UserMessage(err, "Sign up failed"))
		return fmt.Errorf("register: %w", err)
	}
	a.Notices.Notify(notify.LevelInfo, "Account created, please log in")
	return nil
}

// Logout forgets the user locally. The API has no logout endpoint; dropping
// the cookie ends the session from this client's side.
func (a *App) Logout(ctx context.Context) {
	a.Session.SetUser(ctx, nil)
	a.Cart.Reset()
	a.Favorites.Reset()
	if err := a.Users.ClearCookies(); err != nil {
		a.Logger.Error("clear cookies failed", zap.Error(err))
	}
	if err := a.slot.Delete(ctx, cookiesKey); err != nil && !errors.Is(err, session.ErrSlotEmpty) {
		a.Logger.Error("delete saved cookies failed", zap.Error(err))
	}
	a.Logger.Info("logged out")
}

// Reset drops every in-memory snapshot without touching persisted state.
func (a *App) Reset() {
	a.Session.Reset()
	a.Cart.Reset()
	a.Favorites.Reset()
	a.Notices.Clear()
}

// RequireUser returns the logged-in identity or session.ErrNotAuthenticated.
func (a *App) RequireUser() (session.Identity, error) {
	u := a.Session.User()
	if u == nil {
		return session.Identity{}, session.ErrNotAuthenticated
	}
	return *u, nil
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (a *App) saveCookies(ctx context.Context) {
	cookies := a.API.SessionCookies()
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		a.Logger.Error("encode cookies failed", zap.Error(err))
		return
	}
	if err := a.slot.Set(ctx, cookiesKey, raw); err != nil {
		a.Logger.Error("persist cookies failed", zap.Error(err))
	}
}

func (a *App) restoreCookies(ctx context.Context) {
	raw, err := a.slot.Get(ctx, cookiesKey)
	if err != nil {
		if !errors.Is(err, session.ErrSlotEmpty) {
			a.Logger.Warn("read saved cookies failed", zap.Error(err))
		}
		return
	}
	var saved []savedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		a.Logger.Warn("saved cookies are not valid json", zap.Error(err))
		return
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, s := range saved {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value})
	}
	a.API.RestoreCookies(cookies)
}

func identityFromWire(u dto.User) session.Identity {
	role := session.RoleCustomer
	if strings.EqualFold(u.Role, string(session.RoleAdmin)) {
		role = session.RoleAdmin
	}
	return session.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  role,
		Image: u.Image,
	}
}
