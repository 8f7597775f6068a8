package dto

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/favorites"

// AddFavoriteRequest carries the product as the UI already knows it; the
// fields besides ProductID are only used for display.
type AddFavoriteRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	Title       string  `json:"title"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	ImageRef    string  `json:"imageRef"`
	Description string  `json:"description"`
}

type FavoritesResponse struct {
	Favorites []favorites.Entry `json:"favorites"`
}
