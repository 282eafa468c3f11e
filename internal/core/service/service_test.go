package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/niksmo/kvshop/internal/adapter/storage"
	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/niksmo/kvshop/internal/core/service"
	"github.com/niksmo/kvshop/internal/core/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() func() time.Time {
	return func() time.Time { return testNow }
}

func sequenceIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("order-%d", n)
	}
}

func newStore() *store.Adapter {
	return store.New(storage.NewMemory(), store.NamespaceOpt("test/"))
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Amoxicillin 500mg", Category: "Medicine", Price: 12.5, Stock: 10, Featured: true, Image: "images/a.png"},
		{ID: 2, Name: "Vitamin C", Category: "Supplements", Price: 5, Stock: 3, Description: "Immune support"},
		{ID: 3, Name: "Thermometer", Category: "Diagnostics", Price: 20, Stock: 0},
	}
}

func putProducts(t *testing.T, s port.Store, ps []domain.Product) {
	t.Helper()
	require.NoError(t, s.Set(context.Background(), service.KeyProducts, ps))
}

func loginUser(t *testing.T, s port.Store, email string) {
	t.Helper()
	err := s.SetMany(context.Background(), map[string]any{
		service.KeyIsUserLoggedIn: true,
		service.KeyUserEmail:      email,
		service.KeyUserName:       "Test",
	})
	require.NoError(t, err)
}

func loginAdmin(t *testing.T, s port.Store, email string) {
	t.Helper()
	err := s.SetMany(context.Background(), map[string]any{
		service.KeyIsAdminLoggedIn: true,
		service.KeyAdminEmail:      email,
	})
	require.NoError(t, err)
}

func cartAt(s port.Store, key string) domain.Cart {
	return store.Get(context.Background(), s, key, domain.Cart(nil))
}

var errRejected = errors.New("write rejected")

// rejectingStore fails every batch write.
type rejectingStore struct {
	port.Store
}

func (rejectingStore) SetMany(context.Context, map[string]any) error {
	return errRejected
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) ProduceOrder(ctx context.Context, o domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) EmitStatus(ctx context.Context, o domain.Order) error {
	return m.Called(ctx, o).Error(0)
}
