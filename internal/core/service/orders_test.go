package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/niksmo/kvshop/internal/core/service"
	"github.com/niksmo/kvshop/internal/core/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var checkout = domain.Checkout{
	CustomerName:    "Ulla",
	CustomerPhone:   "+100",
	DeliveryAddress: "Main st. 1",
	PaymentMethod:   "cash",
}

type orderFixture struct {
	store    port.Store
	carts    service.CartService
	orders   service.OrderService
	producer *MockProducer
	emitter  *MockEmitter
}

func newOrderFixture(t *testing.T) orderFixture {
	s := newStore()
	putProducts(t, s, testProducts())
	producer, emitter := new(MockProducer), new(MockEmitter)
	return orderFixture{
		store:    s,
		carts:    service.NewCartService(s),
		orders:   service.NewOrderService(s, producer, emitter, service.ClockOpt(clock()), service.OrderIDOpt(sequenceIDs())),
		producer: producer,
		emitter:  emitter,
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newOrderFixture(t)
		loginUser(t, f.store, "u@x.io")
		_, err := f.carts.AddItem(ctx, 1, 2)
		require.NoError(t, err)
		_, err = f.carts.AddItem(ctx, 2, 3)
		require.NoError(t, err)

		f.producer.On("ProduceOrder", mock.Anything, mock.AnythingOfType("domain.Order")).Return(nil)

		o, err := f.orders.PlaceOrder(ctx, checkout)
		require.NoError(t, err)

		assert.Equal(t, "order-1", o.ID)
		assert.Equal(t, "u@x.io", o.CustomerEmail)
		assert.Equal(t, domain.StatusPending, o.Status)
		assert.InDelta(t, 40.0, o.Total, 1e-9)
		assert.Equal(t, []domain.OrderItem{
			{ProductID: 1, ProductName: "Amoxicillin 500mg", Price: 12.5, Quantity: 2, Subtotal: 25},
			{ProductID: 2, ProductName: "Vitamin C", Price: 5, Quantity: 3, Subtotal: 15},
		}, o.Items)
		assert.True(t, o.OrderDate.Equal(testNow))

		assert.Empty(t, f.carts.GetCart(ctx))
		ps := store.Get(ctx, f.store, service.KeyProducts, []domain.Product{})
		assert.Equal(t, 8, ps[0].Stock)
		assert.Equal(t, 0, ps[1].Stock)

		stored, err := f.orders.Order(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, o.ID, stored.ID)
		f.producer.AssertExpectations(t)
	})

	t.Run("Guest", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.carts.AddItem(ctx, 1, 1)
		require.NoError(t, err)

		_, err = f.orders.PlaceOrder(ctx, checkout)
		assert.ErrorIs(t, err, domain.ErrNotIdentified)
		assert.Len(t, f.carts.GetCart(ctx), 1)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		f := newOrderFixture(t)
		loginUser(t, f.store, "u@x.io")

		_, err := f.orders.PlaceOrder(ctx, checkout)
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("InvalidCheckout", func(t *testing.T) {
		f := newOrderFixture(t)
		loginUser(t, f.store, "u@x.io")
		_, err := f.carts.AddItem(ctx, 1, 1)
		require.NoError(t, err)

		_, err = f.orders.PlaceOrder(ctx, domain.Checkout{CustomerName: "Ulla"})
		assert.ErrorIs(t, err, domain.ErrInvalid)
	})

	t.Run("OutOfStock", func(t *testing.T) {
		f := newOrderFixture(t)
		loginUser(t, f.store, "u@x.io")
		_, err := f.carts.AddItem(ctx, 2, 4)
		require.NoError(t, err)

		_, err = f.orders.PlaceOrder(ctx, checkout)
		assert.ErrorIs(t, err, domain.ErrOutOfStock)

		ps := store.Get(ctx, f.store, service.KeyProducts, []domain.Product{})
		assert.Equal(t, 3, ps[1].Stock)
		assert.Len(t, f.carts.GetCart(ctx), 1)
		assert.Empty(t, f.orders.ListOrders(ctx, "", ""))
	})

	t.Run("ProducerFailureKeepsOrder", func(t *testing.T) {
		f := newOrderFixture(t)
		loginUser(t, f.store, "u@x.io")
		_, err := f.carts.AddItem(ctx, 1, 1)
		require.NoError(t, err)

		f.producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		o, err := f.orders.PlaceOrder(ctx, checkout)
		require.NoError(t, err)
		assert.Len(t, f.orders.ListOrders(ctx, "", ""), 1)
		assert.Equal(t, "order-1", o.ID)
	})

	t.Run("AdminCart", func(t *testing.T) {
		f := newOrderFixture(t)
		loginAdmin(t, f.store, "a@x.io")
		_, err := f.carts.AddItem(ctx, 1, 1)
		require.NoError(t, err)
		f.producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(nil)

		o, err := f.orders.PlaceOrder(ctx, checkout)
		require.NoError(t, err)
		assert.Equal(t, "a@x.io", o.CustomerEmail)
		assert.Empty(t, cartAt(f.store, "cart:a@x.io"))
	})
}

func putOrders(t *testing.T, s port.Store) {
	t.Helper()
	orders := []domain.Order{
		{ID: "o1", CustomerName: "Ulla", CustomerEmail: "u@x.io", Total: 10, Status: domain.StatusPending, OrderDate: testNow.Add(-2 * time.Hour)},
		{ID: "o2", CustomerName: "Bob", CustomerEmail: "b@x.io", Total: 20, Status: domain.StatusCompleted, OrderDate: testNow.Add(-time.Hour)},
		{ID: "o3", CustomerName: "Ulla", CustomerEmail: "u@x.io", Total: 30, Status: domain.StatusCompleted, OrderDate: testNow},
	}
	require.NoError(t, s.Set(context.Background(), service.KeyOrders, orders))
}

func orderIDs(orders []domain.Order) (ids []string) {
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return
}

func TestMyOrders(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	putOrders(t, f.store)

	_, err := f.orders.MyOrders(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotIdentified)

	loginUser(t, f.store, "u@x.io")

	orders, err := f.orders.MyOrders(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"o3", "o1"}, orderIDs(orders))

	orders, err = f.orders.MyOrders(ctx, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, orderIDs(orders))
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	putOrders(t, f.store)

	assert.Equal(t, []string{"o3", "o2", "o1"}, orderIDs(f.orders.ListOrders(ctx, "", "")))
	assert.Equal(t, []string{"o3", "o2"}, orderIDs(f.orders.ListOrders(ctx, domain.StatusCompleted, "")))
	assert.Equal(t, []string{"o2"}, orderIDs(f.orders.ListOrders(ctx, "", "bob")))
	assert.Equal(t, []string{"o1"}, orderIDs(f.orders.ListOrders(ctx, "", "O1")))
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	putOrders(t, f.store)

	f.emitter.On("EmitStatus", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.ID == "o1" && o.Status == domain.StatusShipped
	})).Return(nil).Once()

	o, err := f.orders.UpdateStatus(ctx, "o1", domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, o.Status)
	assert.True(t, o.UpdatedAt.Equal(testNow))

	stored, err := f.orders.Order(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, stored.Status)

	_, err = f.orders.UpdateStatus(ctx, "o1", "Lost")
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = f.orders.UpdateStatus(ctx, "missing", domain.StatusShipped)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.emitter.AssertExpectations(t)
}

func TestDeleteOrderAndStats(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	putOrders(t, f.store)

	assert.Equal(t, domain.OrderStats{Total: 3, Pending: 1, Completed: 2, Revenue: 60}, f.orders.OrderStats(ctx))

	require.NoError(t, f.orders.DeleteOrder(ctx, "o2"))
	assert.ErrorIs(t, f.orders.DeleteOrder(ctx, "o2"), domain.ErrNotFound)
	_, err := f.orders.Order(ctx, "o2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, domain.OrderStats{Total: 2, Pending: 1, Completed: 1, Revenue: 40}, f.orders.OrderStats(ctx))
}
