package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Keys of the collections and session values in the store.
const (
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyUsers    = "users"

	KeyIsAdminLoggedIn = "isAdminLoggedIn"
	KeyIsUserLoggedIn  = "isUserLoggedIn"
	KeyAdminEmail      = "adminEmail"
	KeyUserEmail       = "userEmail"
	KeyUserName        = "userName"

	cartKeyPrefix = "cart:"
	GuestCartKey  = cartKeyPrefix + "guest"
)

var sessionKeys = []string{
	KeyIsAdminLoggedIn, KeyIsUserLoggedIn,
	KeyAdminEmail, KeyUserEmail, KeyUserName,
}

type Opt func(*options)

type options struct {
	now     func() time.Time
	orderID func() string
}

func ClockOpt(now func() time.Time) Opt {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func OrderIDOpt(fn func() string) Opt {
	return func(o *options) {
		if fn != nil {
			o.orderID = fn
		}
	}
}

func makeOptions(opts []Opt) options {
	o := options{now: time.Now, orderID: newOrderID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CartKey is the store key of the cart owned by email.
func CartKey(email string) string {
	return cartKeyPrefix + email
}

func readIdentity(ctx context.Context, l store.Loader) domain.Identity {
	return domain.Identity{
		AdminLoggedIn: store.Get(ctx, l, KeyIsAdminLoggedIn, false),
		AdminEmail:    store.Get(ctx, l, KeyAdminEmail, ""),
		UserLoggedIn:  store.Get(ctx, l, KeyIsUserLoggedIn, false),
		UserEmail:     store.Get(ctx, l, KeyUserEmail, ""),
		UserName:      store.Get(ctx, l, KeyUserName, ""),
	}
}

func loadProducts(ctx context.Context, l store.Loader) []domain.Product {
	return store.Get(ctx, l, KeyProducts, []domain.Product{})
}

func loadOrders(ctx context.Context, l store.Loader) []domain.Order {
	return store.Get(ctx, l, KeyOrders, []domain.Order{})
}

func loadUsers(ctx context.Context, l store.Loader) []domain.User {
	return store.Get(ctx, l, KeyUsers, []domain.User{})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func opErr(err error, op string) error {
	return fmt.Errorf("%s: %w", op, err)
}
