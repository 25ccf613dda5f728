package repository

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/catalog"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// メモリ上のProductRepository。
// 絞り込みはcatalog.Apply（述語の正準実装）をそのまま使う。
// GORM実装を使わないテストやローカル確認用。
type ProductMemoryRepository struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]model.Product
}

func NewProductMemoryRepository(seed ...model.Product) *ProductMemoryRepository {
	r := &ProductMemoryRepository{items: make(map[int64]model.Product)}
	for _, p := range seed {
		if p.ID > r.seq {
			r.seq = p.ID
		}
		r.items[p.ID] = p
	}
	return r
}

// ID順の全件スナップショット。
func (r *ProductMemoryRepository) snapshot() []model.Product {
	out := make([]model.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *ProductMemoryRepository) ListFiltered(ctx context.Context, f catalog.Filter, key catalog.SortKey) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return catalog.Apply(r.snapshot(), f, key), nil
}

func (r *ProductMemoryRepository) ListFeatured(ctx context.Context, limit int) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := catalog.Apply(r.snapshot(), catalog.Filter{FeaturedOnly: true}, catalog.SortNewest)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProductMemoryRepository) ListRelated(ctx context.Context, categoryID int64, excludeID int64, limit int) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, 0, limit)
	for _, p := range r.snapshot() {
		if !p.IsActive || p.ID == excludeID {
			continue
		}
		if p.CategoryID == nil || *p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *ProductMemoryRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *ProductMemoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProductMemoryRepository) PriceRange(ctx context.Context, categoryID *int64) (repo.PriceRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pr repo.PriceRange
	for _, p := range r.items {
		if !p.IsActive {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		price := p.Price
		if pr.Min == nil || price.LessThan(*pr.Min) {
			pr.Min = &price
		}
		if pr.Max == nil || price.GreaterThan(*pr.Max) {
			pr.Max = &price
		}
	}
	return pr, nil
}

func (r *ProductMemoryRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.SKU == p.SKU {
			return model.Product{}, repo.ErrConflict
		}
	}

	r.seq++
	p.ID = r.seq
	r.items[p.ID] = p
	return p, nil
}

func (r *ProductMemoryRepository) Update(ctx context.Context, p model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; !ok {
		return repo.ErrNotFound
	}
	for _, existing := range r.items {
		if existing.ID != p.ID && existing.SKU == p.SKU {
			return repo.ErrConflict
		}
	}
	r.items[p.ID] = p
	return nil
}

func (r *ProductMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
