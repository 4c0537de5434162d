package domain

import "time"

// Product is the local mirror of one upstream product, keyed by Slug.
type Product struct {
	ID         int64  `json:"id"`
	UpstreamID string `json:"upstream_id"`
	Slug       string `json:"slug"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Materials []string `json:"materials,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Room      *string  `json:"room,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Badges    []string `json:"badges,omitempty"`

	Price          int64  `json:"price"`
	CompareAtPrice *int64 `json:"compare_at_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Variant struct {
	ProductID int64 `json:"product_id"`
	Position  int   `json:"position"`

	Name    string  `json:"name"`
	Options Options `json:"options"`

	Price          int64   `json:"price"`
	CompareAtPrice *int64  `json:"compare_at_price,omitempty"`
	SKU            *string `json:"sku,omitempty"`
	Inventory      int     `json:"inventory"`
	Available      bool    `json:"available"`
}

type Image struct {
	ProductID int64   `json:"product_id"`
	Position  int     `json:"position"`
	URL       string  `json:"url"`
	AltText   *string `json:"alt_text,omitempty"`
}

type Collection struct {
	ID          int64   `json:"id"`
	Handle      string  `json:"handle"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
