package dto

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"

type CategoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

type ProductsResponse struct {
	Products []catalog.Product `json:"products"`
}
