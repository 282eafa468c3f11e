package schema

import "github.com/hamba/avro/v2"

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "orders",
	"name": "order",
	"fields" : [
		{"name": "order_id", "type": "string"},
		{"name": "customer_name", "type": "string"},
		{"name": "customer_email", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "total", "type": "double"},
		{"name": "order_date", "type": "long"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "long"},
					{"name": "product_name", "type": "string"},
					{"name": "price", "type": "double"},
					{"name": "quantity", "type": "int"},
					{"name": "subtotal", "type": "double"}
				]
			}
		}}
	]
}`

type (
	OrderV1 struct {
		OrderID       string        `avro:"order_id"`
		CustomerName  string        `avro:"customer_name"`
		CustomerEmail string        `avro:"customer_email"`
		Status        string        `avro:"status"`
		Total         float64       `avro:"total"`
		OrderDate     int64         `avro:"order_date"`
		Items         []OrderItemV1 `avro:"items"`
	}

	OrderItemV1 struct {
		ProductID   int64   `avro:"product_id"`
		ProductName string  `avro:"product_name"`
		Price       float64 `avro:"price"`
		Quantity    int32   `avro:"quantity"`
		Subtotal    float64 `avro:"subtotal"`
	}
)

// OrderV1Avro parses [OrderSchemaTextV1]. Panics on invalid schema text.
func OrderV1Avro() avro.Schema {
	return avro.MustParse(OrderSchemaTextV1)
}
