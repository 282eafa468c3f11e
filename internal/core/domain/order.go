package domain

import (
	"slices"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	StatusPending, StatusProcessing, StatusShipped,
	StatusCompleted, StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(orderStatuses, s)
}

type (
	Order struct {
		ID              string      `json:"id"`
		CustomerName    string      `json:"customerName"`
		CustomerEmail   string      `json:"customerEmail"`
		CustomerPhone   string      `json:"customerPhone"`
		DeliveryAddress string      `json:"deliveryAddress"`
		PaymentMethod   string      `json:"paymentMethod"`
		OrderNotes      string      `json:"orderNotes,omitempty"`
		Items           []OrderItem `json:"items"`
		Total           float64     `json:"total"`
		Status          OrderStatus `json:"status"`
		OrderDate       time.Time   `json:"orderDate"`
		UpdatedAt       time.Time   `json:"updatedAt"`
	}

	OrderItem struct {
		ProductID   int     `json:"productId"`
		ProductName string  `json:"productName"`
		Price       float64 `json:"price"`
		Quantity    int     `json:"quantity"`
		Subtotal    float64 `json:"subtotal"`
	}
)

// Checkout is what the customer fills in when placing an order.
type Checkout struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	PaymentMethod   string
	OrderNotes      string
}

func (c Checkout) Validate() error {
	if c.CustomerName == "" || c.DeliveryAddress == "" || c.PaymentMethod == "" {
		return ErrInvalid
	}
	return nil
}

type OrderStats struct {
	Total     int
	Pending   int
	Completed int
	Revenue   float64
}
