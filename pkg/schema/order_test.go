package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := OrderV1{
			OrderID:       "testOrderID",
			CustomerName:  "testName",
			CustomerEmail: "test@example.com",
			Status:        "Shipped",
			Total:         12.99,
			OrderDate:     1760600000000,
			Items: []OrderItemV1{
				{ProductID: 1, ProductName: "testProduct", Price: 12.99, Quantity: 1, Subtotal: 12.99},
			},
		}

		var orderSchema avro.Schema
		require.NotPanics(t, func() {
			orderSchema = OrderV1Avro()
		})

		data, err := avro.Marshal(orderSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal OrderV1
		err = avro.Unmarshal(orderSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("NilItems", func(t *testing.T) {
		vMarshal := OrderV1{OrderID: "testOrderID", Status: "Pending"}

		data, err := avro.Marshal(OrderV1Avro(), vMarshal)
		require.NoError(t, err)

		var vUnmarshal OrderV1
		err = avro.Unmarshal(OrderV1Avro(), data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal.OrderID, vUnmarshal.OrderID)
		assert.Empty(t, vUnmarshal.Items)
	})
}
