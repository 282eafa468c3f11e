package domain

import "time"

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p Product) Validate() error {
	if p.Name == "" || p.Category == "" || p.Price < 0 || p.Stock < 0 {
		return ErrInvalid
	}
	return nil
}

type ProductFilter struct {
	Category     string
	Search       string
	FeaturedOnly bool
}
