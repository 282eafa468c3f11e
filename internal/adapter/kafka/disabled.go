package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

var (
	_ port.OrdersProducer     = Disabled{}
	_ port.OrderStatusEmitter = Disabled{}
)

// Disabled drops order events. Used when no brokers are configured.
type Disabled struct{}

func (Disabled) ProduceOrder(ctx context.Context, o domain.Order) error {
	slog.DebugContext(ctx, "order event dropped", "op", "Disabled.ProduceOrder", "orderID", o.ID)
	return nil
}

func (Disabled) EmitStatus(ctx context.Context, o domain.Order) error {
	slog.DebugContext(ctx, "order status dropped", "op", "Disabled.EmitStatus", "orderID", o.ID)
	return nil
}

func (Disabled) Close() {}
