package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	ps, err := service.DefaultCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, ps)

	ids := make(map[int]bool, len(ps))
	for _, p := range ps {
		assert.NoError(t, p.Validate(), p.Name)
		assert.False(t, ids[p.ID], "duplicate id %d", p.ID)
		ids[p.ID] = true
	}
}

func TestCatalogSeed(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	catalog := service.NewCatalogService(s, service.ClockOpt(clock()))

	seed := []domain.Product{
		{ID: 1, Name: "A", Category: "Medicine", Price: 1},
		{ID: 2, Name: "B", Category: "Medicine", Price: 2, Stock: 5},
	}
	require.NoError(t, catalog.Seed(ctx, seed))

	ps := catalog.ListProducts(ctx, domain.ProductFilter{})
	require.Len(t, ps, 2)
	assert.Equal(t, 100, ps[0].Stock)
	assert.Equal(t, 5, ps[1].Stock)
	assert.True(t, ps[0].CreatedAt.Equal(testNow))

	require.NoError(t, catalog.Seed(ctx, []domain.Product{{ID: 9, Name: "C"}}))
	assert.Len(t, catalog.ListProducts(ctx, domain.ProductFilter{}), 2)
}

func TestCatalogListProducts(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	putProducts(t, s, testProducts())
	catalog := service.NewCatalogService(s)

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   []int
	}{
		{"All", domain.ProductFilter{}, []int{1, 2, 3}},
		{"AllCategory", domain.ProductFilter{Category: "all"}, []int{1, 2, 3}},
		{"Category", domain.ProductFilter{Category: "Diagnostics"}, []int{3}},
		{"SearchName", domain.ProductFilter{Search: "vitamin"}, []int{2}},
		{"SearchDescription", domain.ProductFilter{Search: "IMMUNE"}, []int{2}},
		{"Featured", domain.ProductFilter{FeaturedOnly: true}, []int{1}},
		{"NoMatch", domain.ProductFilter{Category: "Medicine", Search: "vitamin"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int
			for _, p := range catalog.ListProducts(ctx, tt.filter) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCatalogCRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	putProducts(t, s, testProducts())
	catalog := service.NewCatalogService(s, service.ClockOpt(clock()))

	created, err := catalog.CreateProduct(ctx, domain.Product{
		Name: "Face Mask", Category: "Wellness", Price: 3, Stock: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.Contains(t, created.Image, "Face%20Mask")
	assert.True(t, created.CreatedAt.Equal(testNow))

	_, err = catalog.CreateProduct(ctx, domain.Product{Name: "", Category: "Wellness"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	got, err := catalog.Product(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Face Mask", got.Name)

	later := service.NewCatalogService(s, service.ClockOpt(func() time.Time {
		return testNow.Add(time.Hour)
	}))
	updated, err := later.UpdateProduct(ctx, 4, domain.Product{
		Name: "Face Mask N95", Category: "Wellness", Price: 4, Stock: 40, Image: "images/m.png",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.ID)
	assert.Equal(t, "images/m.png", updated.Image)
	assert.True(t, updated.CreatedAt.Equal(testNow))
	assert.True(t, updated.UpdatedAt.Equal(testNow.Add(time.Hour)))

	_, err = catalog.UpdateProduct(ctx, 42, domain.Product{Name: "X", Category: "Y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, catalog.DeleteProduct(ctx, 4))
	_, err = catalog.Product(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, catalog.DeleteProduct(ctx, 4), domain.ErrNotFound)
}

func TestCatalogExportImport(t *testing.T) {
	ctx := context.Background()
	src := newStore()
	putProducts(t, src, testProducts())

	data, err := service.NewCatalogService(src).ExportProducts(ctx)
	require.NoError(t, err)

	dst := newStore()
	catalog := service.NewCatalogService(dst)
	n, err := catalog.ImportProducts(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, testProducts(), catalog.ListProducts(ctx, domain.ProductFilter{}))

	_, err = catalog.ImportProducts(ctx, []byte(`{"id": 1}`))
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = catalog.ImportProducts(ctx, []byte(`null`))
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Len(t, catalog.ListProducts(ctx, domain.ProductFilter{}), 3)
}
