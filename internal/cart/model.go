package cart

import (
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients/dto"
)

const PlaceholderTitle = "No Title"

// Line is one product in the cart. Quantity is always at least 1.
// An Unavailable line stands for an item whose product no longer exists; it
// has no product id and quantity operations do not apply to it.
type Line struct {
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	UnitPrice   float64 `json:"unitPrice"`
	ImageRef    string  `json:"imageRef"`
	Quantity    int     `json:"quantity"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Total is the display total of lines; it is never stored.
func Total(lines []Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// linesFromWire maps the server's cart items to lines, keeping server order.
// Items with quantity below 1 are dropped, items without a product become
// placeholder lines, and repeated product ids are folded into the first line.
func linesFromWire(items []dto.CartItem, logger *zap.Logger) []Line {
	lines := make([]Line, 0, len(items))
	index := make(map[string]int, len(items))

	for _, it := range items {
		qty := int(it.Quantity)
		if qty < 1 {
			logger.Warn("cart: dropping item with quantity below 1", zap.Int("quantity", qty))
			continue
		}
		if it.Product == nil || it.Product.ID == "" {
			logger.Debug("cart: product missing", zap.Int("quantity", qty))
			lines = append(lines, Line{Title: PlaceholderTitle, Quantity: qty, Unavailable: true})
			continue
		}
		if i, ok := index[it.Product.ID]; ok {
			lines[i].Quantity += qty
			continue
		}

		price := float64(it.Product.Price)
		if price < 0 {
			price = 0
		}
		title := it.Product.Title
		if title == "" {
			title = PlaceholderTitle
		}

		index[it.Product.ID] = len(lines)
		lines = append(lines, Line{
			ProductID: it.Product.ID,
			Title:     title,
			UnitPrice: price,
			ImageRef:  it.Product.Image,
			Quantity:  qty,
		})
	}
	return lines
}
