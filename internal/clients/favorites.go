package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
)

type FavoritesClient struct{ c *Client }

func NewFavoritesClient(c *Client) *FavoritesClient { return &FavoritesClient{c: c} }

func (fc *FavoritesClient) List(ctx context.Context) ([]dto.Favorite, error) {
	var resp dto.FavoritesResponse
	if err := fc.c.doJSON(ctx, http.MethodGet, "/api/v1/favorites", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.List(), nil
}

// Add creates the favorite relation and returns its server-assigned id.
func (fc *FavoritesClient) Add(ctx context.Context, productID string) (string, error) {
	var resp dto.FavoriteCreatedResponse
	req := dto.FavoriteRequest{ProductID: productID}
	if err := fc.c.doJSON(ctx, http.MethodPost, "/api/v1/favorites", "", req, &resp); err != nil {
		return "", err
	}
	id := resp.FavoriteID()
	if id == "" {
		return "", fmt.Errorf("%s: %w: favorite id missing", fc.c.Name, ErrMalformedResponse)
	}
	return id, nil
}

func (fc *FavoritesClient) Remove(ctx context.Context, favoriteID string) error {
	return fc.c.doJSON(ctx, http.MethodDelete, "/api/v1/favorites/"+url.PathEscape(favoriteID), "", nil, nil)
}
