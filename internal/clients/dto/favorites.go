package dto

type Favorite struct {
	ID string `json:"_id"`
	// Product is nil (or partially empty) when the product no longer exists.
	Product *Product `json:"product"`
}

type FavoritesResponse struct {
	Data *struct {
		Favorites []Favorite `json:"favorites"`
	} `json:"data"`
}

func (r FavoritesResponse) List() []Favorite {
	if r.Data == nil || r.Data.Favorites == nil {
		return []Favorite{}
	}
	return r.Data.Favorites
}

type FavoriteCreatedResponse struct {
	Data *struct {
		Favorite *Favorite `json:"favorite"`
	} `json:"data"`
}

// FavoriteID returns the relation id assigned by the server, or "".
func (r FavoriteCreatedResponse) FavoriteID() string {
	if r.Data == nil || r.Data.Favorite == nil {
		return ""
	}
	return r.Data.Favorite.ID
}

type FavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}
