package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

// maxUploadBytes bounds the admin product form, image included.
const maxUploadBytes = 10 << 20

type CatalogHandler struct{ b *catalog.Browser }

func NewCatalogHandler(b *catalog.Browser) *CatalogHandler { return &CatalogHandler{b: b} }

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.b.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, dto.CategoriesResponse{Categories: cats})
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.b.ListProducts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, dto.ProductsResponse{Products: products})
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.b.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "Search failed")
		return
	}
	writeJSON(w, http.StatusOK, dto.ProductsResponse{Products: products})
}

// AddProduct takes the same multipart form the commerce API does: title,
// price, categoryId, description and an image file.
func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, r, http.StatusBadRequest, "multipart form required")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		writeServiceError(w, r, &clients.ValidationError{Fields: []string{"Price (number)"}}, "")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeServiceError(w, r, &clients.ValidationError{Fields: []string{"Image (required)"}}, "")
		return
	}
	defer file.Close()

	err = h.b.AddProduct(r.Context(), catalog.NewProduct{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       price,
		CategoryID:  r.FormValue("categoryId"),
		ImageName:   header.Filename,
		ImageType:   header.Header.Get("Content-Type"),
		Image:       file,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to add product")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
