package model

// FavoriteEntry one product marked as favorited
//
// Invariant: set semantics, no duplicate product id within the collection.
type FavoriteEntry struct {
	ProductID string  `json:"product_id"`
	Product   Product `json:"product"`
}
