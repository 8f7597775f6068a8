package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) GetCart(ctx context.Context) ([]dto.CartItem, error) {
	var resp dto.CartResponse
	if err := cc.c.doJSON(ctx, http.MethodGet, "/api/v1/cart", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.CartItems(), nil
}

func (cc *CartClient) AddItem(ctx context.Context, productID string, quantity int) error {
	req := dto.CartItemRequest{ProductID: productID, Quantity: quantity}
	return cc.c.doJSON(ctx, http.MethodPost, "/api/v1/cart/add", "", req, nil)
}

// UpdateItem sets the absolute quantity of a line.
func (cc *CartClient) UpdateItem(ctx context.Context, productID string, quantity int) error {
	req := dto.CartItemRequest{ProductID: productID, Quantity: quantity}
	return cc.c.doJSON(ctx, http.MethodPatch, "/api/v1/cart/update", "", req, nil)
}

// RemoveItem deletes a line and returns the updated cart.
func (cc *CartClient) RemoveItem(ctx context.Context, productID string) ([]dto.CartItem, error) {
	var resp dto.CartResponse
	req := dto.CartRemoveRequest{ProductID: productID}
	if err := cc.c.doJSON(ctx, http.MethodDelete, "/api/v1/cart/remove", "", req, &resp); err != nil {
		return nil, err
	}
	return resp.CartItems(), nil
}
