package model

import (
	"encoding/json"
	"fmt"
)

// Price product price
//
// The backend is inconsistent about price shapes: listing endpoints return a
// plain number while product detail endpoints return {regular, sale}. Both
// decode into this struct.
type Price struct {
	Regular float64 `json:"regular,omitempty"`
	Sale    float64 `json:"sale,omitempty"`
	Amount  float64 `json:"amount,omitempty"` // raw price when no regular/sale split exists
}

// UnmarshalJSON implement json.Unmarshaler interface
func (p *Price) UnmarshalJSON(data []byte) error {
	var raw float64
	if err := json.Unmarshal(data, &raw); err == nil {
		*p = Price{Amount: raw}
		return nil
	}

	type priceAlias Price
	var obj priceAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("cannot unmarshal %s into Price", string(data))
	}
	*p = Price(obj)
	return nil
}

// Effective returns the price used for totals: sale if present, else regular,
// else the raw amount.
func (p Price) Effective() float64 {
	if p.Sale > 0 {
		return p.Sale
	}
	if p.Regular > 0 {
		return p.Regular
	}
	return p.Amount
}

// StoreRef store reference normalized to a plain identifier
//
// Older persisted cart records and some backend payloads carry the full store
// object instead of its id. Decoding through StoreRef heals both shapes.
type StoreRef string

// UnmarshalJSON implement json.Unmarshaler interface
func (s *StoreRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = StoreRef(id)
		return nil
	}

	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("cannot unmarshal %s into StoreRef", string(data))
	}
	if obj.ID != "" {
		*s = StoreRef(obj.ID)
	} else {
		*s = StoreRef(obj.AltID)
	}
	return nil
}

// Product product snapshot as carried by cart lines and favorites
type Product struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     Price    `json:"price"`
	Store     StoreRef `json:"store,omitempty"`
	Image     string   `json:"image,omitempty"`
	Category  string   `json:"category,omitempty"`
}
