package connection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Channel reopens itself on its Connection after the server closes it.
type Channel struct {
	l    zerolog.Logger
	conn *Connection

	mu     sync.RWMutex
	ch     *amqp.Channel
	closed atomic.Bool
	cancel context.CancelFunc
}

func (ch *Channel) current() *amqp.Channel {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.ch
}

func (ch *Channel) Close() error {
	if !ch.closed.CompareAndSwap(false, true) {
		return ErrChannelClosed
	}
	ch.cancel()
	if err := ch.current().Close(); err != nil {
		return errors.Wrap(err, "close amqp channel")
	}
	return nil
}

func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

func (ch *Channel) Qos(prefetch int) error {
	return errors.Wrap(ch.current().Qos(prefetch, 0, false), "set qos")
}

// Consume delivers messages from queue until ctx is done or the channel is
// closed, resubscribing after reconnects.
func (ch *Channel) Consume(ctx context.Context, queue, consumer string, autoAck bool) <-chan amqp.Delivery {
	deliveries := make(chan amqp.Delivery)
	go func() {
		defer close(deliveries)
		for !ch.IsClosed() {
			d, err := ch.current().ConsumeWithContext(ctx, queue, consumer, autoAck, false, false, false, nil)
			if err != nil {
				ch.l.Error().Err(err).Str("queue", queue).Msg("consume failed")
				select {
				case <-ctx.Done():
					return
				case <-time.After(ch.conn.reconnectTimeout):
				}
				continue
			}
			for msg := range d {
				select {
				case deliveries <- msg:
				case <-ctx.Done():
					return
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return deliveries
}

func (ch *Channel) Publish(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if err := ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg); err != nil {
		return errors.Wrap(err, "publish")
	}
	return nil
}

func (ch *Channel) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ch.l.Debug().Msg("watcher stopped")
			return
		case err, ok := <-ch.current().NotifyClose(make(chan *amqp.Error, 1)):
			if !ok && ch.closed.Load() {
				ch.l.Debug().Msg("watcher stopped")
				return
			}
			ch.l.Warn().Err(err).Msg("channel closed, reopening")
			if !ch.reopen(ctx) {
				return
			}
			ch.l.Info().Msg("channel reopened")
		}
	}
}

func (ch *Channel) reopen(ctx context.Context) bool {
	for !ch.closed.Load() {
		cc, err := ch.conn.current().Channel()
		if err == nil {
			ch.mu.Lock()
			ch.ch = cc
			ch.mu.Unlock()
			return true
		}
		ch.l.Warn().Err(err).Msg("reopen channel failed")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(ch.conn.reconnectTimeout):
		}
	}
	return false
}
