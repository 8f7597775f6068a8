package favorites

import (
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
)

const PlaceholderTitle = "No Title"

type Product struct {
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	UnitPrice   float64 `json:"unitPrice"`
	ImageRef    string  `json:"imageRef"`
	Description string  `json:"description"`
}

// Entry is one favorite relation. FavoriteID is the relation id assigned by
// the server and is what Remove takes, not the product id.
type Entry struct {
	FavoriteID string  `json:"favoriteId"`
	Product    Product `json:"product"`
}

// entriesFromWire maps the server's favorites. A favorite whose product was
// deleted keeps its relation id with a placeholder product so it can still be
// removed.
func entriesFromWire(favs []dto.Favorite, logger *zap.Logger) []Entry {
	entries := make([]Entry, 0, len(favs))
	for _, f := range favs {
		if f.ID == "" {
			logger.Warn("favorites: dropping favorite without id")
			continue
		}
		e := Entry{FavoriteID: f.ID, Product: Product{Title: PlaceholderTitle}}
		if f.Product != nil {
			e.Product = productFromWire(*f.Product)
		} else {
			logger.Debug("favorites: product missing", zap.String("favorite_id", f.ID))
		}
		entries = append(entries, e)
	}
	return entries
}

func productFromWire(p dto.Product) Product {
	price := float64(p.Price)
	if price < 0 {
		price = 0
	}
	title := p.Title
	if title == "" {
		title = PlaceholderTitle
	}
	return Product{
		ProductID:   p.ID,
		Title:       title,
		UnitPrice:   price,
		ImageRef:    p.Image,
		Description: p.Description,
	}
}
