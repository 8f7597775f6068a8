package dto

import (
	"bytes"
	"encoding/json"
)

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type Product struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       Amount `json:"price"`
	Image       string `json:"image"`
	Category    Ref    `json:"category"`
}

// UnmarshalJSON accepts the populated document or a bare id, as sent for
// references the API did not populate. A document with badly typed fields
// keeps only its id.
func (p *Product) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Product{}
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		p.ID = id
	case '{':
		type plain Product
		var doc plain
		if err := json.Unmarshal(b, &doc); err == nil {
			*p = Product(doc)
			return nil
		}
		var ref Ref
		if err := ref.UnmarshalJSON(b); err == nil {
			p.ID = string(ref)
		}
	}
	return nil
}

type ProductsResponse struct {
	Products []Product `json:"products"`
}

type SearchResponse struct {
	Status   string    `json:"status"`
	Products []Product `json:"products"`
}

// Ack is the body of endpoints that only confirm success.
type Ack struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
