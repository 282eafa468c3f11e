package service

import (
	"context"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
	"github.com/niksmo/kvshop/internal/core/store"
)

var _ port.CartManager = (*CartService)(nil)

// A CartService keeps one cart per identity scope.
//
// The scope is resolved from the session values in the store on every
// call, so the store stays the only source of truth.
type CartService struct {
	store port.Store
}

func NewCartService(s port.Store) CartService {
	return CartService{s}
}

// ScopeKey resolves the cart key of the identity:
// admin email, then user email, then guest.
func ScopeKey(id domain.Identity) string {
	switch {
	case id.AdminEmail != "":
		return CartKey(id.AdminEmail)
	case id.UserEmail != "":
		return CartKey(id.UserEmail)
	default:
		return GuestCartKey
	}
}

func (s CartService) CurrentScopeKey(ctx context.Context) string {
	return ScopeKey(readIdentity(ctx, s.store))
}

func (s CartService) GetCart(ctx context.Context) domain.Cart {
	return s.load(ctx, s.CurrentScopeKey(ctx))
}

func (s CartService) SaveCart(ctx context.Context, cart domain.Cart) error {
	const op = "CartService.SaveCart"

	if err := cart.Validate(); err != nil {
		return opErr(err, op)
	}
	if err := s.store.Set(ctx, s.CurrentScopeKey(ctx), cart); err != nil {
		return opErr(err, op)
	}
	return nil
}

// ClearCart overwrites the current cart with an empty one.
// The key stays present.
func (s CartService) ClearCart(ctx context.Context) error {
	const op = "CartService.ClearCart"

	if err := s.store.Set(ctx, s.CurrentScopeKey(ctx), domain.Cart{}); err != nil {
		return opErr(err, op)
	}
	return nil
}

// MigrateGuestCart merges the guest cart into the cart of email and
// empties the guest cart. Both writes are committed together.
func (s CartService) MigrateGuestCart(ctx context.Context, email string) error {
	const op = "CartService.MigrateGuestCart"

	if email == "" {
		return opErr(domain.ErrInvalid, op)
	}

	targetKey := CartKey(email)
	if targetKey == GuestCartKey {
		return nil
	}

	guest := s.load(ctx, GuestCartKey)
	if len(guest) == 0 {
		return nil
	}

	merged := s.load(ctx, targetKey).Merge(guest)
	err := s.store.SetMany(ctx, map[string]any{
		targetKey:    merged,
		GuestCartKey: domain.Cart{},
	})
	if err != nil {
		return opErr(err, op)
	}
	return nil
}

// AddItem puts quantity units of the catalog product into the current cart.
func (s CartService) AddItem(
	ctx context.Context, productID, quantity int,
) (domain.Cart, error) {
	const op = "CartService.AddItem"

	if quantity < 1 {
		return nil, opErr(domain.ErrInvalid, op)
	}

	p, ok := findProduct(loadProducts(ctx, s.store), productID)
	if !ok {
		return nil, opErr(domain.ErrNotFound, op)
	}

	cart := s.GetCart(ctx).Add(domain.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
	})
	if err := s.SaveCart(ctx, cart); err != nil {
		return nil, opErr(err, op)
	}
	return cart, nil
}

// UpdateQuantity changes the quantity of a line by delta.
// A line that drops below 1 is removed.
func (s CartService) UpdateQuantity(
	ctx context.Context, productID, delta int,
) (domain.Cart, error) {
	const op = "CartService.UpdateQuantity"

	cart, ok := s.GetCart(ctx).Change(productID, delta)
	if !ok {
		return nil, opErr(domain.ErrNotFound, op)
	}
	if err := s.SaveCart(ctx, cart); err != nil {
		return nil, opErr(err, op)
	}
	return cart, nil
}

func (s CartService) RemoveItem(
	ctx context.Context, productID int,
) (domain.Cart, error) {
	const op = "CartService.RemoveItem"

	cart := s.GetCart(ctx)
	if _, ok := cart.Find(productID); !ok {
		return nil, opErr(domain.ErrNotFound, op)
	}
	cart = cart.Remove(productID)
	if err := s.SaveCart(ctx, cart); err != nil {
		return nil, opErr(err, op)
	}
	return cart, nil
}

func (s CartService) load(ctx context.Context, key string) domain.Cart {
	cart := store.Get(ctx, s.store, key, domain.Cart{})
	if cart == nil {
		return domain.Cart{}
	}
	return cart
}
