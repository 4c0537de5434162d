package domain

// UpstreamProduct is one product as read from the upstream catalog.
// It is never mutated by the pipeline.
type UpstreamProduct struct {
	ID              string
	Handle          string
	Title           string
	DescriptionHTML string
	Tags            []string

	Variants    []UpstreamVariant
	Images      []UpstreamImage
	Collections []UpstreamCollection

	// Truncated names the nested lists ("variants", "images", "collections")
	// that had more entries upstream than one query returns.
	Truncated []string
}

type UpstreamVariant struct {
	ID      string
	Title   string
	Options Options
	SKU     string

	// Decimal strings as sent upstream. CompareAtPrice is empty when absent.
	Price          string
	CompareAtPrice string

	Inventory int
	Available bool
}

type UpstreamImage struct {
	URL     string
	AltText string
}

type UpstreamCollection struct {
	Handle      string
	Title       string
	Description string
}

// UpstreamPage is one page of the paginated catalog read.
type UpstreamPage struct {
	Products    []UpstreamProduct
	HasNextPage bool
	EndCursor   string
}
