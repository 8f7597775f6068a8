package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/favorites"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

type FavoritesHandler struct{ s *favorites.Synchronizer }

func NewFavoritesHandler(s *favorites.Synchronizer) *FavoritesHandler {
	return &FavoritesHandler{s: s}
}

func (h *FavoritesHandler) writeFavorites(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, dto.FavoritesResponse{Favorites: h.s.Entries()})
}

func (h *FavoritesHandler) ListMe(w http.ResponseWriter, r *http.Request) {
	h.writeFavorites(w)
}

func (h *FavoritesHandler) RefreshMe(w http.ResponseWriter, r *http.Request) {
	if err := h.s.Refresh(r.Context()); err != nil {
		writeServiceError(w, r, err, "Failed to load favorites")
		return
	}
	h.writeFavorites(w)
}

func (h *FavoritesHandler) AddMe(w http.ResponseWriter, r *http.Request) {
	var req dto.AddFavoriteRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, r, err, "invalid favorite")
		return
	}
	err := h.s.Add(r.Context(), favorites.Product{
		ProductID:   req.ProductID,
		Title:       req.Title,
		UnitPrice:   req.UnitPrice,
		ImageRef:    req.ImageRef,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to add to favorites")
		return
	}
	h.writeFavorites(w)
}

func (h *FavoritesHandler) RemoveMe(w http.ResponseWriter, r *http.Request) {
	if err := h.s.Remove(r.Context(), r.PathValue("favoriteId")); err != nil {
		writeServiceError(w, r, err, "Failed to remove from favorites")
		return
	}
	h.writeFavorites(w)
}
