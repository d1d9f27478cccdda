package consumer

import (
	"context"
	"encoding/json"
	"runtime/debug"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/common/amqp/connection"
)

type Unmarshal func(data []byte, v any) error

// Handler processes one decoded message. The handler owns the delivery and
// must ack or reject it.
type Handler[T any] func(ctx context.Context, data *T, delivery amqp.Delivery) error

type Config struct {
	Unmarshal Unmarshal
	Queue     string
	Consumer  string
	Prefetch  int
}

type Consumer interface {
	Subscribe(ctx context.Context) error
}

type consumer[T any] struct {
	cfg     *Config
	ch      *connection.Channel
	handler Handler[T]
	l       zerolog.Logger
}

func New[T any](ch *connection.Channel, handler Handler[T], cfg *Config) Consumer {
	if handler == nil {
		handler = func(_ context.Context, _ *T, d amqp.Delivery) error { return d.Ack(false) }
	}
	if cfg.Unmarshal == nil {
		cfg.Unmarshal = json.Unmarshal
	}
	return &consumer[T]{
		ch:      ch,
		handler: handler,
		cfg:     cfg,
		l: log.With().
			Str("component", "amqp-consumer").
			Type("type", *new(T)).
			Str("queue", cfg.Queue).
			Logger(),
	}
}

// Subscribe blocks until ctx is done or the channel is closed.
func (c *consumer[T]) Subscribe(ctx context.Context) error {
	if c.cfg.Prefetch > 0 {
		if err := c.ch.Qos(c.cfg.Prefetch); err != nil {
			return err
		}
	}
	msgCh := c.ch.Consume(ctx, c.cfg.Queue, c.cfg.Consumer, false)
	c.l.Debug().Msg("consumer connected")
	for {
		select {
		case <-ctx.Done():
			c.l.Debug().Msg("consumer stopped")
			return ctx.Err()
		case d, ok := <-msgCh:
			if !ok {
				c.l.Debug().Msg("consumer channel closed")
				return nil
			}
			c.dispatch(ctx, d)
		}
	}
}

func (c *consumer[T]) dispatch(ctx context.Context, d amqp.Delivery) {
	c.l.Debug().Uint64("delivery-tag", d.DeliveryTag).Msg("got new message")
	data := new(T)
	if err := c.cfg.Unmarshal(d.Body, data); err != nil {
		c.l.Error().Err(err).Msg("failed to unmarshal message, rejecting")
		if err := d.Reject(false); err != nil {
			c.l.Warn().Err(err).Msg("failed to reject message")
		}
		return
	}
	if err := c.handle(ctx, data, d); err != nil {
		c.l.Error().Err(err).Msg("failed to handle message")
	}
}

func (c *consumer[T]) handle(ctx context.Context, data *T, d amqp.Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.l.Error().Msgf("catch panic: %v\n%s", r, string(debug.Stack()))
			err = errors.Errorf("handler panic: %v", r)
			if nerr := d.Nack(false, !d.Redelivered); nerr != nil {
				c.l.Warn().Err(nerr).Msg("failed to nack message")
			}
		}
	}()
	return c.handler(ctx, data, d)
}
