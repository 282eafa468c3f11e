package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.OrderManager = (*OrderService)(nil)

type OrderService struct {
	store    port.Store
	producer port.OrdersProducer
	emitter  port.OrderStatusEmitter
	opts     options
}

func NewOrderService(
	s port.Store,
	producer port.OrdersProducer,
	emitter port.OrderStatusEmitter,
	opts ...Opt,
) OrderService {
	return OrderService{s, producer, emitter, makeOptions(opts)}
}

// PlaceOrder turns the cart of the logged in customer into a pending order.
//
// The order, the decremented stock and the emptied cart are written
// in one batch.
func (s OrderService) PlaceOrder(
	ctx context.Context, c domain.Checkout,
) (domain.Order, error) {
	const op = "OrderService.PlaceOrder"
	log := slog.With("op", op)

	id := readIdentity(ctx, s.store)
	if id.IsGuest() {
		return domain.Order{}, opErr(domain.ErrNotIdentified, op)
	}
	if err := c.Validate(); err != nil {
		return domain.Order{}, opErr(err, op)
	}

	cartKey := ScopeKey(id)
	cart := NewCartService(s.store).load(ctx, cartKey)
	if len(cart) == 0 {
		return domain.Order{}, opErr(domain.ErrEmptyCart, op)
	}

	products := loadProducts(ctx, s.store)
	items, total, err := reserveStock(products, cart)
	if err != nil {
		return domain.Order{}, opErr(err, op)
	}

	now := s.opts.now()
	order := domain.Order{
		ID:              s.opts.orderID(),
		CustomerName:    c.CustomerName,
		CustomerEmail:   id.Email(),
		CustomerPhone:   c.CustomerPhone,
		DeliveryAddress: c.DeliveryAddress,
		PaymentMethod:   c.PaymentMethod,
		OrderNotes:      c.OrderNotes,
		Items:           items,
		Total:           total,
		Status:          domain.StatusPending,
		OrderDate:       now,
		UpdatedAt:       now,
	}
	orders := append(loadOrders(ctx, s.store), order)

	err = s.store.SetMany(ctx, map[string]any{
		KeyOrders:   orders,
		KeyProducts: products,
		cartKey:     domain.Cart{},
	})
	if err != nil {
		return domain.Order{}, opErr(err, op)
	}

	if err := s.producer.ProduceOrder(ctx, order); err != nil {
		log.Error("failed to produce order", "orderID", order.ID, "err", err)
	}

	log.Info("order placed", "orderID", order.ID, "total", order.Total)
	return order, nil
}

// MyOrders lists the orders of the logged in customer, newest first.
// An empty status matches every order.
func (s OrderService) MyOrders(
	ctx context.Context, status domain.OrderStatus,
) ([]domain.Order, error) {
	const op = "OrderService.MyOrders"

	id := readIdentity(ctx, s.store)
	if id.IsGuest() {
		return nil, opErr(domain.ErrNotIdentified, op)
	}

	email := id.Email()
	orders := slices.DeleteFunc(loadOrders(ctx, s.store), func(o domain.Order) bool {
		return o.CustomerEmail != email || (status != "" && o.Status != status)
	})
	sortNewestFirst(orders)
	return orders, nil
}

// ListOrders lists all orders, newest first. Search matches the order id,
// customer name and customer email.
func (s OrderService) ListOrders(
	ctx context.Context, status domain.OrderStatus, search string,
) []domain.Order {
	orders := slices.DeleteFunc(loadOrders(ctx, s.store), func(o domain.Order) bool {
		if status != "" && o.Status != status {
			return true
		}
		return search != "" &&
			!containsFold(o.ID, search) &&
			!containsFold(o.CustomerName, search) &&
			!containsFold(o.CustomerEmail, search)
	})
	sortNewestFirst(orders)
	return orders
}

func (s OrderService) Order(ctx context.Context, id string) (domain.Order, error) {
	const op = "OrderService.Order"

	orders := loadOrders(ctx, s.store)
	i := indexOrder(orders, id)
	if i == -1 {
		return domain.Order{}, opErr(domain.ErrNotFound, op)
	}
	return orders[i], nil
}

func (s OrderService) UpdateStatus(
	ctx context.Context, id string, status domain.OrderStatus,
) (domain.Order, error) {
	const op = "OrderService.UpdateStatus"
	log := slog.With("op", op)

	if !status.Valid() {
		return domain.Order{}, opErr(domain.ErrInvalid, op)
	}

	orders := loadOrders(ctx, s.store)
	i := indexOrder(orders, id)
	if i == -1 {
		return domain.Order{}, opErr(domain.ErrNotFound, op)
	}

	orders[i].Status = status
	orders[i].UpdatedAt = s.opts.now()
	if err := s.store.Set(ctx, KeyOrders, orders); err != nil {
		return domain.Order{}, opErr(err, op)
	}

	if err := s.emitter.EmitStatus(ctx, orders[i]); err != nil {
		log.Error("failed to emit order status", "orderID", id, "err", err)
	}
	return orders[i], nil
}

func (s OrderService) DeleteOrder(ctx context.Context, id string) error {
	const op = "OrderService.DeleteOrder"

	orders := loadOrders(ctx, s.store)
	i := indexOrder(orders, id)
	if i == -1 {
		return opErr(domain.ErrNotFound, op)
	}

	orders = slices.Delete(orders, i, i+1)
	if err := s.store.Set(ctx, KeyOrders, orders); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (s OrderService) OrderStats(ctx context.Context) (stats domain.OrderStats) {
	for _, o := range loadOrders(ctx, s.store) {
		stats.Total++
		stats.Revenue += o.Total
		switch o.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusCompleted:
			stats.Completed++
		}
	}
	return
}

// reserveStock decrements products in place by the cart quantities and
// returns the order lines priced as they were added to the cart.
func reserveStock(
	products []domain.Product, cart domain.Cart,
) ([]domain.OrderItem, float64, error) {
	items := make([]domain.OrderItem, 0, len(cart))
	var total float64
	for _, line := range cart {
		i := slices.IndexFunc(products, func(p domain.Product) bool {
			return p.ID == line.ProductID
		})
		if i == -1 {
			return nil, 0, domain.ErrNotFound
		}
		if products[i].Stock < line.Quantity {
			return nil, 0, domain.ErrOutOfStock
		}
		products[i].Stock -= line.Quantity

		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Price:       line.Price,
			Quantity:    line.Quantity,
			Subtotal:    line.Subtotal(),
		})
		total += line.Subtotal()
	}
	return items, total, nil
}

func indexOrder(orders []domain.Order, id string) int {
	return slices.IndexFunc(orders, func(o domain.Order) bool { return o.ID == id })
}

func sortNewestFirst(orders []domain.Order) {
	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return cmp.Compare(b.OrderDate.UnixNano(), a.OrderDate.UnixNano())
	})
}

func newOrderID() string {
	return uuid.NewString()
}
