// Package catalog reads categories and products and carries the admin
// product upload and delete operations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

var ErrAdminRequired = errors.New("admin role required")

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	ImageRef    string  `json:"imageRef"`
	CategoryID  string  `json:"categoryId"`
}

// NewProduct is an admin upload.
type NewProduct struct {
	Title       string
	Description string
	Price       float64
	CategoryID  string
	ImageName   string
	ImageType   string
	Image       io.Reader
}

type Remote interface {
	ListCategories(ctx context.Context) ([]dto.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]dto.Product, error)
	Search(ctx context.Context, text string) (dto.SearchResponse, error)
	AddProduct(ctx context.Context, p clients.NewProduct) error
	DeleteProduct(ctx context.Context, productID string) error
}

// Roles reports the role of the current session.
type Roles interface {
	IsAdmin() bool
}

type Browser struct {
	remote   Remote
	roles    Roles
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewBrowser(remote Remote, roles Roles, notifier notify.Notifier, logger *zap.Logger) *Browser {
	return &Browser{remote: remote, roles: roles, notifier: notifier, logger: logger}
}

func (b *Browser) ListCategories(ctx context.Context) ([]Category, error) {
	cats, err := b.remote.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		if c.ID == "" {
			continue
		}
		out = append(out, Category{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (b *Browser) ListProducts(ctx context.Context, categoryID string) ([]Product, error) {
	products, err := b.remote.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products of %s: %w", categoryID, err)
	}
	return productsFromWire(products), nil
}

// Search matches products by text. Blank text returns nothing without a
// request, and so does a response whose status is not "success".
func (b *Browser) Search(ctx context.Context, text string) ([]Product, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Product{}, nil
	}
	resp, err := b.remote.Search(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	if resp.Status != "success" {
		b.logger.Debug("catalog: search returned no success status", zap.String("status", resp.Status))
		return []Product{}, nil
	}
	return productsFromWire(resp.Products), nil
}

func (b *Browser) AddProduct(ctx context.Context, p NewProduct) error {
	if !b.roles.IsAdmin() {
		return ErrAdminRequired
	}
	err := b.remote.AddProduct(ctx, clients.NewProduct{
		Title:       strings.TrimSpace(p.Title),
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Description: strings.TrimSpace(p.Description),
		ImageName:   p.ImageName,
		ImageType:   p.ImageType,
		Image:       p.Image,
	})
	if err != nil {
		b.logger.Error("catalog: add product failed", zap.String("title", p.Title), zap.Error(err))
		b.notifier.Notify(notify.LevelError, notify.UserMessage(err, "Failed to add product"))
		return fmt.Errorf("add product: %w", err)
	}
	b.notifier.Notify(notify.LevelInfo, "Product added")
	return nil
}

func (b *Browser) DeleteProduct(ctx context.Context, productID string) error {
	if !b.roles.IsAdmin() {
		return ErrAdminRequired
	}
	if err := b.remote.DeleteProduct(ctx, productID); err != nil {
		b.logger.Error("catalog: delete product failed", zap.String("product_id", productID), zap.Error(err))
		b.notifier.Notify(notify.LevelError, notify.UserMessage(err, "Failed to delete product"))
		return fmt.Errorf("delete product %s: %w", productID, err)
	}
	return nil
}

func productsFromWire(in []dto.Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if p.ID == "" {
			continue
		}
		price := float64(p.Price)
		if price < 0 {
			price = 0
		}
		out = append(out, Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			UnitPrice:   price,
			ImageRef:    p.Image,
			CategoryID:  string(p.Category),
		})
	}
	return out
}
