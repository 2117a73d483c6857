package model

// CartLine one product entry in the cart with its quantity
//
// Invariants: at most one line per product id; quantity is always >= 1 (a
// quantity of zero means the line is removed, never stored).
type CartLine struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     Price    `json:"price"`
	Store     StoreRef `json:"store,omitempty"`
	Image     string   `json:"image,omitempty"`
	Quantity  int      `json:"quantity"`
}

// LineTotal effective price times quantity
func (l CartLine) LineTotal() float64 {
	return l.Price.Effective() * float64(l.Quantity)
}

// NewCartLine builds a cart line from a product snapshot
func NewCartLine(p Product, quantity int) CartLine {
	return CartLine{
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Store:     p.Store,
		Image:     p.Image,
		Quantity:  quantity,
	}
}
