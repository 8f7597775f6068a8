package dto

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	// Quantity defaults to 1 when omitted.
	Quantity int `json:"quantity" validate:"gte=0"`
}

type CartResponse struct {
	Items []cart.Line `json:"items"`
	Total float64     `json:"total"`
	Count int         `json:"count"`
}
