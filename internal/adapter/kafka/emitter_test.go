package kafka

import (
	"errors"
	"testing"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGokaEmitter struct {
	mock.Mock
}

func (e *MockGokaEmitter) EmitSync(key string, msg any) error {
	return e.Called(key, msg).Error(0)
}

func (e *MockGokaEmitter) Finish() error {
	return e.Called().Error(0)
}

func TestOrderStatusEmitter(t *testing.T) {
	t.Run("EmitStatus", func(t *testing.T) {
		ge := new(MockGokaEmitter)
		order := testOrder()
		order.Status = domain.StatusShipped

		ge.On("EmitSync", order.ID, OrderStatus{
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			Status:        "Shipped",
			UpdatedAt:     order.UpdatedAt,
		}).Return(nil)

		e := OrderStatusEmitter{ge}
		require.NoError(t, e.EmitStatus(t.Context(), order))
		ge.AssertExpectations(t)
	})

	t.Run("EmitFailed", func(t *testing.T) {
		ge := new(MockGokaEmitter)
		emitErr := errors.New("emitter closed")
		ge.On("EmitSync", mock.Anything, mock.Anything).Return(emitErr)

		e := OrderStatusEmitter{ge}
		assert.ErrorIs(t, e.EmitStatus(t.Context(), testOrder()), emitErr)
	})

	t.Run("Close", func(t *testing.T) {
		ge := new(MockGokaEmitter)
		ge.On("Finish").Return(nil)

		OrderStatusEmitter{ge}.Close()
		ge.AssertExpectations(t)
	})
}

func TestOrderStatusCodec(t *testing.T) {
	var c orderStatusCodec

	t.Run("InvalidType", func(t *testing.T) {
		_, err := c.Encode("not a status")
		assert.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		v := OrderStatus{OrderID: "order-1", Status: "Completed"}

		data, err := c.Encode(v)
		require.NoError(t, err)

		got, err := c.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, v.OrderID, got.(OrderStatus).OrderID)
		assert.Equal(t, v.Status, got.(OrderStatus).Status)
	})
}
