package port

import (
	"context"
	"errors"

	"github.com/niksmo/kvshop/internal/core/domain"
)

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// A KVBackend is the host key-value facility.
//
// Get returns [ErrKeyNotFound] for a missing key. Put and PutBatch return
// [ErrQuotaExceeded] when the store refuses the write, in which case
// nothing is written. PutBatch applies all entries or none.
// Delete of a missing key is not an error.
type KVBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	PutBatch(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Usage(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// A Store keeps JSON encoded values under string keys.
type Store interface {
	Load(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any) error
	SetMany(ctx context.Context, entries map[string]any) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	IsAvailable(ctx context.Context) bool
}

type OrdersProducer interface {
	ProduceOrder(context.Context, domain.Order) error
}

type OrderStatusEmitter interface {
	EmitStatus(context.Context, domain.Order) error
}

type CartManager interface {
	CurrentScopeKey(context.Context) string
	GetCart(context.Context) domain.Cart
	SaveCart(context.Context, domain.Cart) error
	ClearCart(context.Context) error
	MigrateGuestCart(ctx context.Context, email string) error
	AddItem(ctx context.Context, productID, quantity int) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, productID, delta int) (domain.Cart, error)
	RemoveItem(ctx context.Context, productID int) (domain.Cart, error)
}

type SessionManager interface {
	Identity(context.Context) domain.Identity
	Login(context.Context, domain.Credentials) (domain.Identity, error)
	Logout(context.Context) error
}

type Catalog interface {
	ListProducts(context.Context, domain.ProductFilter) []domain.Product
	Product(ctx context.Context, id int) (domain.Product, error)
	CreateProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ExportProducts(context.Context) ([]byte, error)
	ImportProducts(ctx context.Context, data []byte) (int, error)
}

type OrderManager interface {
	PlaceOrder(context.Context, domain.Checkout) (domain.Order, error)
	MyOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListOrders(ctx context.Context, status domain.OrderStatus, search string) []domain.Order
	Order(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	OrderStats(context.Context) domain.OrderStats
}

type UserManager interface {
	ListUsers(ctx context.Context, search string) []domain.User
	User(ctx context.Context, id int64) (domain.User, error)
	CreateUser(context.Context, domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, u domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, name, phone string) (domain.User, error)
	UserStats(context.Context) domain.UserStats
}
