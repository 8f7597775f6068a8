package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

type CartHandler struct{ s *cart.Synchronizer }

func NewCartHandler(s *cart.Synchronizer) *CartHandler { return &CartHandler{s: s} }

func (h *CartHandler) writeCart(w http.ResponseWriter) {
	lines := h.s.Lines()
	writeJSON(w, http.StatusOK, dto.CartResponse{Items: lines, Total: cart.Total(lines), Count: h.s.Count()})
}

func (h *CartHandler) GetCartMe(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

func (h *CartHandler) RefreshMe(w http.ResponseWriter, r *http.Request) {
	if err := h.s.Refresh(r.Context()); err != nil {
		writeServiceError(w, r, err, "Failed to load cart")
		return
	}
	h.writeCart(w)
}

func (h *CartHandler) AddItemMe(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, "invalid cart item")
		return
	}
	if err := h.s.Add(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeServiceError(w, r, err, "Failed to add to cart")
		return
	}
	h.writeCart(w)
}

func (h *CartHandler) RemoveItemMe(w http.ResponseWriter, r *http.Request) {
	if err := h.s.Remove(r.Context(), r.PathValue("productId")); err != nil {
		writeServiceError(w, r, err, "Failed to remove from cart")
		return
	}
	h.writeCart(w)
}

func (h *CartHandler) IncreaseMe(w http.ResponseWriter, r *http.Request) {
	if err := h.s.IncreaseQuantity(r.Context(), r.PathValue("productId")); err != nil {
		writeServiceError(w, r, err, "Failed to update quantity")
		return
	}
	h.writeCart(w)
}

func (h *CartHandler) DecreaseMe(w http.ResponseWriter, r *http.Request) {
	if err := h.s.DecreaseQuantity(r.Context(), r.PathValue("productId")); err != nil {
		writeServiceError(w, r, err, "Failed to update quantity")
		return
	}
	h.writeCart(w)
}
