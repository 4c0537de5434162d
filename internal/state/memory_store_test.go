package state

import (
	"context"
	"testing"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

func TestMemoryStore_UpsertProductBySlug(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, created, err := s.UpsertProduct(ctx, domain.Product{Slug: "indigo-quilt", Title: "Indigo Quilt", Price: 4999})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !created || id == 0 {
		t.Fatalf("expected new product, got id=%d created=%v", id, created)
	}

	id2, created, err := s.UpsertProduct(ctx, domain.Product{Slug: "indigo-quilt", Title: "Indigo Quilt v2"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created || id2 != id {
		t.Fatalf("expected update of %d, got id=%d created=%v", id, id2, created)
	}

	p, ok, err := s.GetProductBySlug(ctx, "indigo-quilt")
	if err != nil || !ok {
		t.Fatalf("GetProductBySlug ok=%v err=%v", ok, err)
	}
	if p.Title != "Indigo Quilt v2" || p.Price != 0 {
		t.Fatalf("expected full overwrite, got %+v", p)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.Before(p.CreatedAt) {
		t.Fatalf("unexpected timestamps: %+v", p)
	}
}

func TestMemoryStore_ReplaceChildren(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _, _ := s.UpsertProduct(ctx, domain.Product{Slug: "rug"})

	_ = s.ReplaceImages(ctx, id, []domain.Image{{Position: 0, URL: "a"}, {Position: 1, URL: "b"}})
	_ = s.ReplaceImages(ctx, id, []domain.Image{{Position: 0, URL: "c"}})

	imgs, err := s.ListImages(ctx, id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(imgs) != 1 || imgs[0].URL != "c" || imgs[0].ProductID != id {
		t.Fatalf("expected images replaced, got %+v", imgs)
	}

	_ = s.ReplaceVariants(ctx, id, []domain.Variant{{Name: "Small"}, {Name: "Large"}})
	_ = s.ReplaceVariants(ctx, id, nil)

	vars, err := s.ListVariants(ctx, id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(vars) != 0 {
		t.Fatalf("expected no variants, got %+v", vars)
	}
}

func TestMemoryStore_CollectionsAndMembership(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	pid, _, _ := s.UpsertProduct(ctx, domain.Product{Slug: "runner"})

	cid, err := s.UpsertCollection(ctx, domain.Collection{Handle: "dining", Title: "Dining"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	cid2, _ := s.UpsertCollection(ctx, domain.Collection{Handle: "dining", Title: "Dining Room"})
	if cid2 != cid {
		t.Fatalf("expected same collection id, got %d and %d", cid, cid2)
	}

	created, _ := s.EnsureMembership(ctx, pid, cid)
	again, _ := s.EnsureMembership(ctx, pid, cid)
	if !created || again {
		t.Fatalf("expected link created once, got %v then %v", created, again)
	}

	cols, _ := s.ListProductCollections(ctx, pid)
	if len(cols) != 1 || cols[0].Title != "Dining Room" {
		t.Fatalf("unexpected collections: %+v", cols)
	}
}

func TestMemoryStore_UncategorizedAndSetCategory(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rugs := "Rugs"
	a, _, _ := s.UpsertProduct(ctx, domain.Product{Slug: "a"})
	_, _, _ = s.UpsertProduct(ctx, domain.Product{Slug: "b", Category: &rugs})
	c, _, _ := s.UpsertProduct(ctx, domain.Product{Slug: "c"})

	list, err := s.ListUncategorized(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 2 || list[0].ID != a || list[1].ID != c {
		t.Fatalf("unexpected uncategorized: %+v", list)
	}

	if err := s.SetCategory(ctx, a, "Bedding"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	p, _, _ := s.GetProductBySlug(ctx, "a")
	if p.Category == nil || *p.Category != "Bedding" {
		t.Fatalf("expected category set, got %+v", p.Category)
	}

	list, _ = s.ListUncategorized(ctx)
	if len(list) != 1 || list[0].ID != c {
		t.Fatalf("unexpected uncategorized after set: %+v", list)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := domain.Product{Slug: "x", Materials: []string{"cotton"}}
	_, _, _ = s.UpsertProduct(ctx, in)
	in.Materials[0] = "mutated"

	p, _, _ := s.GetProductBySlug(ctx, "x")
	if p.Materials[0] != "cotton" {
		t.Fatalf("store must not alias caller slices, got %v", p.Materials)
	}
}
