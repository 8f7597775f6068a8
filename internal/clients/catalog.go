package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
)

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListCategories(ctx context.Context) ([]dto.Category, error) {
	var resp dto.CategoriesResponse
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/category/getAllCategory", "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Categories == nil {
		return []dto.Category{}, nil
	}
	return resp.Categories, nil
}

func (cc *CatalogClient) ListProducts(ctx context.Context, categoryID string) ([]dto.Product, error) {
	var resp dto.ProductsResponse
	path := "/api/v1/category/" + url.PathEscape(categoryID) + "/products"
	if err := cc.c.doJSON(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		return []dto.Product{}, nil
	}
	return resp.Products, nil
}

func (cc *CatalogClient) Search(ctx context.Context, text string) (dto.SearchResponse, error) {
	var resp dto.SearchResponse
	q := url.Values{"search": {text}}
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/products/search", q.Encode(), nil, &resp); err != nil {
		return dto.SearchResponse{}, err
	}
	if resp.Products == nil {
		resp.Products = []dto.Product{}
	}
	return resp, nil
}

func (cc *CatalogClient) DeleteProduct(ctx context.Context, productID string) error {
	return cc.c.doJSON(ctx, http.MethodDelete, "/api/v1/products/"+url.PathEscape(productID), "", nil, nil)
}

// NewProduct is the admin upload form.
type NewProduct struct {
	Title       string    `validate:"required"`
	Price       float64   `validate:"gt=0"`
	CategoryID  string    `validate:"required"`
	Description string    `validate:"required"`
	ImageName   string    `validate:"required"`
	ImageType   string    // defaults to image/jpeg
	Image       io.Reader `validate:"required"`
}

func (cc *CatalogClient) AddProduct(ctx context.Context, p NewProduct) error {
	if err := validateRequest(p); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ k, v string }{
		{"title", p.Title},
		{"price", strconv.FormatFloat(p.Price, 'f', -1, 64)},
		{"categoryId", p.CategoryID},
		{"description", p.Description},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.k, f.v); err != nil {
			return fmt.Errorf("%s: write form: %w", cc.c.Name, err)
		}
	}

	contentType := p.ImageType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, p.ImageName))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("%s: write form: %w", cc.c.Name, err)
	}
	if _, err := io.Copy(part, p.Image); err != nil {
		return fmt.Errorf("%s: read image: %w", cc.c.Name, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: write form: %w", cc.c.Name, err)
	}

	headers := http.Header{"Content-Type": {mw.FormDataContentType()}}
	resp, err := cc.c.Do(ctx, http.MethodPost, "/api/v1/products/add", "", &buf, headers)
	if err != nil {
		return fmt.Errorf("%s POST /api/v1/products/add: %w", cc.c.Name, err)
	}
	return cc.c.readResponse(resp, nil)
}
