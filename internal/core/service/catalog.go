package service

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/url"
	"slices"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/niksmo/kvshop/internal/core/store"
)

var _ port.Catalog = (*CatalogService)(nil)

const (
	defaultStock     = 100
	placeholderImage = "https://via.placeholder.com/300x300/072b4e/ffffff?text="
)

//go:embed catalog.json
var catalogJSON []byte

// DefaultCatalog returns the products the shop starts with.
func DefaultCatalog() ([]domain.Product, error) {
	var ps []domain.Product
	if err := json.Unmarshal(catalogJSON, &ps); err != nil {
		return nil, opErr(err, "DefaultCatalog")
	}
	return ps, nil
}

type CatalogService struct {
	store port.Store
	opts  options
}

func NewCatalogService(s port.Store, opts ...Opt) CatalogService {
	return CatalogService{s, makeOptions(opts)}
}

// Seed writes ps as the product collection when the store has none.
// Products without stock get the default stock.
func (s CatalogService) Seed(ctx context.Context, ps []domain.Product) error {
	const op = "CatalogService.Seed"

	var existing []domain.Product
	err := s.store.Load(ctx, KeyProducts, &existing)
	if !errors.Is(err, store.ErrNotFound) {
		return nil
	}

	now := s.opts.now()
	seed := make([]domain.Product, len(ps))
	for i, p := range ps {
		if p.Stock == 0 {
			p.Stock = defaultStock
		}
		p.CreatedAt, p.UpdatedAt = now, now
		seed[i] = p
	}

	if err := s.store.Set(ctx, KeyProducts, seed); err != nil {
		return opErr(err, op)
	}
	slog.Info("products initialized", "op", op, "nProducts", len(seed))
	return nil
}

func (s CatalogService) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) []domain.Product {
	ps := loadProducts(ctx, s.store)
	return slices.DeleteFunc(ps, func(p domain.Product) bool {
		return !matchProduct(p, f)
	})
}

func (s CatalogService) Product(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "CatalogService.Product"

	p, ok := findProduct(loadProducts(ctx, s.store), id)
	if !ok {
		return domain.Product{}, opErr(domain.ErrNotFound, op)
	}
	return p, nil
}

func (s CatalogService) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "CatalogService.CreateProduct"

	if err := p.Validate(); err != nil {
		return domain.Product{}, opErr(err, op)
	}

	ps := loadProducts(ctx, s.store)
	p.ID = nextProductID(ps)
	p.Image = imageOrPlaceholder(p)
	p.CreatedAt = s.opts.now()
	p.UpdatedAt = p.CreatedAt
	ps = append(ps, p)

	if err := s.store.Set(ctx, KeyProducts, ps); err != nil {
		return domain.Product{}, opErr(err, op)
	}
	return p, nil
}

func (s CatalogService) UpdateProduct(
	ctx context.Context, id int, p domain.Product,
) (domain.Product, error) {
	const op = "CatalogService.UpdateProduct"

	if err := p.Validate(); err != nil {
		return domain.Product{}, opErr(err, op)
	}

	ps := loadProducts(ctx, s.store)
	i := slices.IndexFunc(ps, func(v domain.Product) bool { return v.ID == id })
	if i == -1 {
		return domain.Product{}, opErr(domain.ErrNotFound, op)
	}

	p.ID = id
	p.Image = imageOrPlaceholder(p)
	p.CreatedAt = ps[i].CreatedAt
	p.UpdatedAt = s.opts.now()
	ps[i] = p

	if err := s.store.Set(ctx, KeyProducts, ps); err != nil {
		return domain.Product{}, opErr(err, op)
	}
	return p, nil
}

func (s CatalogService) DeleteProduct(ctx context.Context, id int) error {
	const op = "CatalogService.DeleteProduct"

	ps := loadProducts(ctx, s.store)
	n := len(ps)
	ps = slices.DeleteFunc(ps, func(v domain.Product) bool { return v.ID == id })
	if len(ps) == n {
		return opErr(domain.ErrNotFound, op)
	}

	if err := s.store.Set(ctx, KeyProducts, ps); err != nil {
		return opErr(err, op)
	}
	return nil
}

// ExportProducts returns the product collection as indented JSON.
func (s CatalogService) ExportProducts(ctx context.Context) ([]byte, error) {
	const op = "CatalogService.ExportProducts"

	data, err := json.MarshalIndent(loadProducts(ctx, s.store), "", "  ")
	if err != nil {
		return nil, opErr(err, op)
	}
	return data, nil
}

// ImportProducts replaces the product collection with a JSON array.
func (s CatalogService) ImportProducts(
	ctx context.Context, data []byte,
) (int, error) {
	const op = "CatalogService.ImportProducts"

	var ps []domain.Product
	if err := json.Unmarshal(data, &ps); err != nil || ps == nil {
		return 0, opErr(domain.ErrInvalid, op)
	}

	if err := s.store.Set(ctx, KeyProducts, ps); err != nil {
		return 0, opErr(err, op)
	}
	return len(ps), nil
}

func matchProduct(p domain.Product, f domain.ProductFilter) bool {
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.Search != "" {
		return containsFold(p.Name, f.Search) ||
			containsFold(p.Description, f.Search)
	}
	return true
}

func findProduct(ps []domain.Product, id int) (domain.Product, bool) {
	i := slices.IndexFunc(ps, func(p domain.Product) bool { return p.ID == id })
	if i == -1 {
		return domain.Product{}, false
	}
	return ps[i], true
}

func nextProductID(ps []domain.Product) int {
	var maxID int
	for _, p := range ps {
		maxID = max(maxID, p.ID)
	}
	return maxID + 1
}

func imageOrPlaceholder(p domain.Product) string {
	if p.Image != "" {
		return p.Image
	}
	return placeholderImage + url.PathEscape(p.Name)
}
