package domain

// Attributes is the structured bundle decoded from a product's tags.
type Attributes struct {
	Materials []string
	Colors    []string
	Room      *string
	Category  *string
	Badges    []string
}
