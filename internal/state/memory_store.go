package state

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/domain"
)

type membership struct {
	productID    int64
	collectionID int64
}

type MemoryStore struct {
	mu sync.RWMutex

	now func() time.Time

	products      map[int64]domain.Product
	productBySlug map[string]int64
	images        map[int64][]domain.Image
	variants      map[int64][]domain.Variant
	nextProductID int64

	collections      map[int64]domain.Collection
	collectionByKey  map[string]int64
	members          map[int64][]int64 // product -> collections, link order
	memberSet        map[membership]struct{}
	nextCollectionID int64

	runs        map[string]RunRecord
	runFailures map[string][]domain.ProductFailure
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:             func() time.Time { return time.Now().UTC() },
		products:        make(map[int64]domain.Product),
		productBySlug:   make(map[string]int64),
		images:          make(map[int64][]domain.Image),
		variants:        make(map[int64][]domain.Variant),
		collections:     make(map[int64]domain.Collection),
		collectionByKey: make(map[string]int64),
		members:         make(map[int64][]int64),
		memberSet:       make(map[membership]struct{}),
		runs:            make(map[string]RunRecord),
		runFailures:     make(map[string][]domain.ProductFailure),
	}
}

func (s *MemoryStore) UpsertProduct(ctx context.Context, p domain.Product) (int64, bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p = cloneProduct(p)

	if id, ok := s.productBySlug[p.Slug]; ok {
		prev := s.products[id]
		p.ID = id
		p.CreatedAt = prev.CreatedAt
		p.UpdatedAt = now
		s.products[id] = p
		return id, false, nil
	}

	s.nextProductID++
	p.ID = s.nextProductID
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	s.productBySlug[p.Slug] = p.ID
	return p.ID, true, nil
}

func (s *MemoryStore) ReplaceImages(ctx context.Context, productID int64, images []domain.Image) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]domain.Image, len(images))
	for i, img := range images {
		img.ProductID = productID
		cp[i] = img
	}
	s.images[productID] = cp
	return nil
}

func (s *MemoryStore) ReplaceVariants(ctx context.Context, productID int64, variants []domain.Variant) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]domain.Variant, len(variants))
	for i, v := range variants {
		v.ProductID = productID
		v.Options = append(domain.Options(nil), v.Options...)
		cp[i] = v
	}
	s.variants[productID] = cp
	return nil
}

func (s *MemoryStore) UpsertCollection(ctx context.Context, c domain.Collection) (int64, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.collectionByKey[c.Handle]; ok {
		c.ID = id
		s.collections[id] = c
		return id, nil
	}

	s.nextCollectionID++
	c.ID = s.nextCollectionID
	s.collections[c.ID] = c
	s.collectionByKey[c.Handle] = c.ID
	return c.ID, nil
}

func (s *MemoryStore) EnsureMembership(ctx context.Context, productID, collectionID int64) (bool, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	key := membership{productID: productID, collectionID: collectionID}
	if _, ok := s.memberSet[key]; ok {
		return false, nil
	}
	s.memberSet[key] = struct{}{}
	s.members[productID] = append(s.members[productID], collectionID)
	return true, nil
}

func (s *MemoryStore) GetProductBySlug(ctx context.Context, slug string) (domain.Product, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.productBySlug[slug]
	if !ok {
		return domain.Product{}, false, nil
	}
	return cloneProduct(s.products[id]), true, nil
}

func (s *MemoryStore) ListImages(ctx context.Context, productID int64) ([]domain.Image, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Image, len(s.images[productID]))
	copy(out, s.images[productID])
	return out, nil
}

func (s *MemoryStore) ListVariants(ctx context.Context, productID int64) ([]domain.Variant, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Variant, len(s.variants[productID]))
	copy(out, s.variants[productID])
	return out, nil
}

func (s *MemoryStore) ListProductCollections(ctx context.Context, productID int64) ([]domain.Collection, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.members[productID]
	out := make([]domain.Collection, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.collections[id])
	}
	return out, nil
}

func (s *MemoryStore) ListUncategorized(ctx context.Context) ([]domain.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.Category == nil {
			out = append(out, cloneProduct(p))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SetCategory(ctx context.Context, productID int64, category string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil
	}
	p.Category = &category
	s.products[productID] = p
	return nil
}

func cloneProduct(p domain.Product) domain.Product {
	p.Materials = cloneStrings(p.Materials)
	p.Colors = cloneStrings(p.Colors)
	p.Badges = cloneStrings(p.Badges)
	p.Room = cloneStringPtr(p.Room)
	p.Category = cloneStringPtr(p.Category)
	if p.CompareAtPrice != nil {
		v := *p.CompareAtPrice
		p.CompareAtPrice = &v
	}
	return p
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
