package ingest

import (
	"context"
	"fmt"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/state"
)

type ReconcileResult struct {
	ProductID   int64 `json:"product_id"`
	Created     bool  `json:"created"`
	Variants    int   `json:"variants"`
	Images      int   `json:"images"`
	Collections int   `json:"collections"`
	NewLinks    int   `json:"new_links"`
}

type Reconciler struct {
	Store state.CatalogStore
}

func NewReconciler(store state.CatalogStore) Reconciler {
	return Reconciler{Store: store}
}

// mirror is the fully parsed local form of one upstream product.
type mirror struct {
	product  domain.Product
	variants []domain.Variant
	images   []domain.Image
}

// Reconcile mirrors one upstream product into the store. Prices are parsed
// before the first write, so a *PriceError leaves storage untouched. Any
// other error comes from the store.
func (r Reconciler) Reconcile(ctx context.Context, up domain.UpstreamProduct, attrs domain.Attributes) (ReconcileResult, error) {
	m, err := buildMirror(up, attrs)
	if err != nil {
		return ReconcileResult{}, err
	}

	id, created, err := r.Store.UpsertProduct(ctx, m.product)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("upsert product %s: %w", up.Handle, err)
	}

	if err := r.Store.ReplaceImages(ctx, id, m.images); err != nil {
		return ReconcileResult{}, fmt.Errorf("replace images for %s: %w", up.Handle, err)
	}
	if err := r.Store.ReplaceVariants(ctx, id, m.variants); err != nil {
		return ReconcileResult{}, fmt.Errorf("replace variants for %s: %w", up.Handle, err)
	}

	res := ReconcileResult{
		ProductID:   id,
		Created:     created,
		Variants:    len(m.variants),
		Images:      len(m.images),
		Collections: len(up.Collections),
	}

	for _, uc := range up.Collections {
		cid, err := r.Store.UpsertCollection(ctx, domain.Collection{
			Handle:      uc.Handle,
			Title:       uc.Title,
			Description: domain.StringPtr(uc.Description),
		})
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("upsert collection %s: %w", uc.Handle, err)
		}

		linked, err := r.Store.EnsureMembership(ctx, id, cid)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("link %s to %s: %w", up.Handle, uc.Handle, err)
		}
		if linked {
			res.NewLinks++
		}
	}

	return res, nil
}

func buildMirror(up domain.UpstreamProduct, attrs domain.Attributes) (mirror, error) {
	p := domain.Product{
		UpstreamID:  up.ID,
		Slug:        up.Handle,
		Title:       up.Title,
		Description: up.DescriptionHTML,
		Materials:   attrs.Materials,
		Colors:      attrs.Colors,
		Room:        attrs.Room,
		Category:    attrs.Category,
		Badges:      attrs.Badges,
	}

	variants := make([]domain.Variant, 0, len(up.Variants))
	for i, uv := range up.Variants {
		price, err := ParsePrice("variant price", uv.Price)
		if err != nil {
			return mirror{}, err
		}
		compareAt, err := ParseOptionalPrice("variant compare-at price", uv.CompareAtPrice)
		if err != nil {
			return mirror{}, err
		}

		variants = append(variants, domain.Variant{
			Position:       i,
			Name:           uv.Title,
			Options:        uv.Options,
			Price:          price,
			CompareAtPrice: compareAt,
			SKU:            domain.StringPtr(uv.SKU),
			Inventory:      uv.Inventory,
			Available:      uv.Available,
		})
	}

	// The listing price is the first variant's price.
	if len(variants) > 0 {
		p.Price = variants[0].Price
		p.CompareAtPrice = variants[0].CompareAtPrice
	}

	images := make([]domain.Image, 0, len(up.Images))
	for i, ui := range up.Images {
		images = append(images, domain.Image{
			Position: i,
			URL:      ui.URL,
			AltText:  domain.StringPtr(ui.AltText),
		})
	}

	return mirror{product: p, variants: variants, images: images}, nil
}
