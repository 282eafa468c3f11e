package httphandler

import (
	"time"

	"github.com/niksmo/kvshop/internal/core/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type (
	LoginRequest struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Admin bool   `json:"admin"`
	}

	IdentityResponse struct {
		IsAdminLoggedIn bool   `json:"isAdminLoggedIn"`
		IsUserLoggedIn  bool   `json:"isUserLoggedIn"`
		AdminEmail      string `json:"adminEmail,omitempty"`
		UserEmail       string `json:"userEmail,omitempty"`
		UserName        string `json:"userName,omitempty"`
		CartKey         string `json:"cartKey"`
	}
)

type (
	CartResponse struct {
		Key   string            `json:"key"`
		Items []domain.LineItem `json:"items"`
		Count int               `json:"count"`
		Total float64           `json:"total"`
	}

	AddItemRequest struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}

	ChangeQuantityRequest struct {
		Delta int `json:"delta"`
	}
)

type ProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Featured    bool    `json:"featured"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type (
	CheckoutRequest struct {
		CustomerName    string `json:"customerName"`
		CustomerPhone   string `json:"customerPhone"`
		DeliveryAddress string `json:"deliveryAddress"`
		PaymentMethod   string `json:"paymentMethod"`
		OrderNotes      string `json:"orderNotes"`
	}

	StatusRequest struct {
		Status string `json:"status"`
	}

	OrderStatsResponse struct {
		Total     int     `json:"totalOrders"`
		Pending   int     `json:"pendingOrders"`
		Completed int     `json:"completedOrders"`
		Revenue   float64 `json:"totalRevenue"`
	}
)

type (
	UserRequest struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}

	ProfileRequest struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}

	UserStatsResponse struct {
		Total  int `json:"totalUsers"`
		Active int `json:"activeUsers"`
		New    int `json:"newUsers"`
	}
)

type HealthResponse struct {
	Storage   string    `json:"storage"`
	CheckedAt time.Time `json:"checkedAt"`
}

func (r LoginRequest) toDomain() domain.Credentials {
	return domain.Credentials{Email: r.Email, Name: r.Name, Admin: r.Admin}
}

func (r ProductRequest) toDomain() domain.Product {
	return domain.Product{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Description: r.Description,
		Image:       r.Image,
		Featured:    r.Featured,
	}
}

func (r CheckoutRequest) toDomain() domain.Checkout {
	return domain.Checkout{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		DeliveryAddress: r.DeliveryAddress,
		PaymentMethod:   r.PaymentMethod,
		OrderNotes:      r.OrderNotes,
	}
}

func (r UserRequest) toDomain() domain.User {
	return domain.User{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Role:   r.Role,
		Status: r.Status,
	}
}

func toIdentityResponse(id domain.Identity, cartKey string) IdentityResponse {
	return IdentityResponse{
		IsAdminLoggedIn: id.AdminLoggedIn,
		IsUserLoggedIn:  id.UserLoggedIn,
		AdminEmail:      id.AdminEmail,
		UserEmail:       id.UserEmail,
		UserName:        id.UserName,
		CartKey:         cartKey,
	}
}

func toCartResponse(key string, c domain.Cart) CartResponse {
	if c == nil {
		c = domain.Cart{}
	}
	return CartResponse{Key: key, Items: c, Count: c.Count(), Total: c.Total()}
}
