package dto

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message    string                 `json:"message"`
	Path       []any                  `json:"path,omitempty"`
	Extensions map[string]any         `json:"extensions,omitempty"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
}

type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type ProductsQueryData struct {
	Products ProductConnection `json:"products"`
}

type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

type ProductConnection struct {
	Nodes    []Product `json:"nodes"`
	PageInfo PageInfo  `json:"pageInfo"`
}

type Product struct {
	ID              string   `json:"id"`
	Handle          string   `json:"handle"`
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
	Tags            []string `json:"tags,omitempty"`

	Variants    VariantConnection    `json:"variants"`
	Images      ImageConnection      `json:"images"`
	Collections CollectionConnection `json:"collections"`
}

type VariantConnection struct {
	Nodes    []Variant `json:"nodes"`
	PageInfo PageInfo  `json:"pageInfo"`
}

type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	SKU               *string          `json:"sku,omitempty"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions,omitempty"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compareAtPrice,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

type ImageConnection struct {
	Nodes    []Image  `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

type Image struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText,omitempty"`
}

type CollectionConnection struct {
	Nodes    []Collection `json:"nodes"`
	PageInfo PageInfo     `json:"pageInfo"`
}

type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
