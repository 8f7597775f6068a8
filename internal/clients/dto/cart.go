package dto

type CartItem struct {
	// Product is nil when the product was deleted after it was added, and
	// carries only the id when the API sent an unpopulated reference.
	Product  *Product `json:"product"`
	Quantity Count    `json:"quantity"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

type CartResponse struct {
	Data *Cart `json:"data"`
}

// CartItems returns the items or an empty slice when any level is missing.
func (r CartResponse) CartItems() []CartItem {
	if r.Data == nil || r.Data.Items == nil {
		return []CartItem{}
	}
	return r.Data.Items
}

type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type CartRemoveRequest struct {
	ProductID string `json:"productId" validate:"required"`
}
