package kafka

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

var _ port.OrderStatusEmitter = (*OrderStatusEmitter)(nil)

// An OrderStatus is the message emitted on order status change.
type OrderStatus struct {
	OrderID       string    `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// An orderStatusCodec used for serde [OrderStatus] in goka streams.
type orderStatusCodec struct{}

func (orderStatusCodec) Encode(v any) ([]byte, error) {
	const op = "orderStatusCodec.Encode"
	s, ok := v.(OrderStatus)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return json.Marshal(s)
}

func (orderStatusCodec) Decode(data []byte) (any, error) {
	const op = "orderStatusCodec.Decode"
	var s OrderStatus
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type gokaEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

// An OrderStatusEmitter emits [OrderStatus] keyed by order id.
type OrderStatusEmitter struct {
	ge gokaEmitter
}

// A OrderStatusEmitterConfig used for setup [OrderStatusEmitter].
//
// TLSConfig is optional.
type OrderStatusEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	TLSConfig   *tls.Config
}

func NewOrderStatusEmitter(
	config OrderStatusEmitterConfig,
) (OrderStatusEmitter, error) {
	const op = "NewOrderStatusEmitter"

	var opts []goka.EmitterOption
	if config.TLSConfig != nil {
		saramaCfg := goka.DefaultConfig()
		saramaCfg.Net.TLS.Enable = true
		saramaCfg.Net.TLS.Config = config.TLSConfig
		opts = append(opts, goka.WithEmitterProducerBuilder(
			goka.ProducerBuilderWithConfig(saramaCfg),
		))
	}

	ge, err := goka.NewEmitter(
		config.SeedBrokers,
		goka.Stream(config.Topic),
		orderStatusCodec{},
		opts...,
	)
	if err != nil {
		return OrderStatusEmitter{}, opErr(err, op)
	}
	return OrderStatusEmitter{ge}, nil
}

func (e OrderStatusEmitter) EmitStatus(ctx context.Context, o domain.Order) error {
	const op = "OrderStatusEmitter.EmitStatus"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	msg := OrderStatus{
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		Status:        string(o.Status),
		UpdatedAt:     o.UpdatedAt,
	}
	if err := e.ge.EmitSync(o.ID, msg); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e OrderStatusEmitter) Close() {
	const op = "OrderStatusEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
