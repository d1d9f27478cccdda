package connection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrConnClosed    = errors.New("connection is already closed")
	ErrChannelClosed = errors.New("channel is already closed")
)

// Connection is an AMQP connection that redials after the broker drops it.
type Connection struct {
	l    zerolog.Logger
	uri  string
	opts amqp.Config

	reconnectTimeout time.Duration

	mu     sync.RWMutex
	conn   *amqp.Connection
	closed atomic.Bool
	cancel context.CancelFunc
}

func Dial(ctx context.Context, uri string, opts amqp.Config, reconnectTimeout time.Duration) (*Connection, error) {
	c, err := amqp.DialConfig(uri, opts)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp connection")
	}
	ctx, cancel := context.WithCancel(ctx)
	conn := &Connection{
		uri:              uri,
		opts:             opts,
		conn:             c,
		cancel:           cancel,
		reconnectTimeout: reconnectTimeout,
		l:                log.With().Str("component", "amqp-connection").Logger(),
	}
	go conn.watch(ctx)
	return conn, nil
}

func (c *Connection) current() *amqp.Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrConnClosed
	}
	c.cancel()
	if err := c.current().Close(); err != nil {
		return errors.Wrap(err, "close amqp connection")
	}
	return nil
}

func (c *Connection) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.l.Debug().Msg("watcher stopped")
			return
		case err, ok := <-c.current().NotifyClose(make(chan *amqp.Error, 1)):
			if !ok || c.closed.Load() {
				c.l.Debug().Msg("watcher stopped")
				return
			}
			c.l.Warn().Err(err).Msg("connection lost, reconnecting")
			if !c.redial(ctx) {
				return
			}
			c.l.Info().Msg("connection restored")
		}
	}
}

func (c *Connection) redial(ctx context.Context) bool {
	for !c.closed.Load() {
		cc, err := amqp.DialConfig(c.uri, c.opts)
		if err == nil {
			c.mu.Lock()
			c.conn = cc
			c.mu.Unlock()
			return true
		}
		c.l.Warn().Err(err).Dur("retry-in", c.reconnectTimeout).Msg("reconnect failed")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.reconnectTimeout):
		}
	}
	return false
}

func (c *Connection) Channel(ctx context.Context) (*Channel, error) {
	amqpCh, err := c.current().Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	ctx, cancel := context.WithCancel(ctx)
	ch := &Channel{
		ch:     amqpCh,
		conn:   c,
		cancel: cancel,
		l:      c.l.With().Str("component", "amqp-channel").Logger(),
	}
	go ch.watch(ctx)
	return ch, nil
}
