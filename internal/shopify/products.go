package shopify

import (
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/shopify/dto"
)

const productsQuery = `
query catalogPage($first: Int!, $after: String) {
	products(first: $first, after: $after) {
		pageInfo { hasNextPage endCursor }
		nodes {
			id
			handle
			title
			descriptionHtml
			tags
			variants(first: 100) {
				pageInfo { hasNextPage }
				nodes {
					id
					title
					sku
					availableForSale
					quantityAvailable
					selectedOptions { name value }
					price { amount currencyCode }
					compareAtPrice { amount currencyCode }
				}
			}
			images(first: 50) {
				pageInfo { hasNextPage }
				nodes { url altText }
			}
			collections(first: 50) {
				pageInfo { hasNextPage }
				nodes { handle title description }
			}
		}
	}
}`

func toUpstreamPage(conn dto.ProductConnection) domain.UpstreamPage {
	page := domain.UpstreamPage{
		Products:    make([]domain.UpstreamProduct, 0, len(conn.Nodes)),
		HasNextPage: conn.PageInfo.HasNextPage,
		EndCursor:   conn.PageInfo.EndCursor,
	}
	for _, n := range conn.Nodes {
		page.Products = append(page.Products, toUpstreamProduct(n))
	}
	return page
}

func toUpstreamProduct(p dto.Product) domain.UpstreamProduct {
	out := domain.UpstreamProduct{
		ID:              p.ID,
		Handle:          p.Handle,
		Title:           p.Title,
		DescriptionHTML: p.DescriptionHTML,
		Tags:            p.Tags,
		Variants:        make([]domain.UpstreamVariant, 0, len(p.Variants.Nodes)),
		Images:          make([]domain.UpstreamImage, 0, len(p.Images.Nodes)),
		Collections:     make([]domain.UpstreamCollection, 0, len(p.Collections.Nodes)),
	}

	// nested lists are not paginated; report which ones hit the query cap
	if p.Variants.PageInfo.HasNextPage {
		out.Truncated = append(out.Truncated, "variants")
	}
	if p.Images.PageInfo.HasNextPage {
		out.Truncated = append(out.Truncated, "images")
	}
	if p.Collections.PageInfo.HasNextPage {
		out.Truncated = append(out.Truncated, "collections")
	}

	for _, v := range p.Variants.Nodes {
		uv := domain.UpstreamVariant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     v.Price.Amount,
			Available: v.AvailableForSale,
		}
		if v.SKU != nil {
			uv.SKU = *v.SKU
		}
		if v.CompareAtPrice != nil {
			uv.CompareAtPrice = v.CompareAtPrice.Amount
		}
		if v.QuantityAvailable != nil {
			uv.Inventory = *v.QuantityAvailable
		}
		if len(v.SelectedOptions) > 0 {
			uv.Options = make(domain.Options, 0, len(v.SelectedOptions))
			for _, o := range v.SelectedOptions {
				uv.Options = append(uv.Options, domain.Option{Name: o.Name, Value: o.Value})
			}
		}
		out.Variants = append(out.Variants, uv)
	}

	for _, img := range p.Images.Nodes {
		ui := domain.UpstreamImage{URL: img.URL}
		if img.AltText != nil {
			ui.AltText = *img.AltText
		}
		out.Images = append(out.Images, ui)
	}

	for _, c := range p.Collections.Nodes {
		out.Collections = append(out.Collections, domain.UpstreamCollection{
			Handle:      c.Handle,
			Title:       c.Title,
			Description: c.Description,
		})
	}

	return out
}
