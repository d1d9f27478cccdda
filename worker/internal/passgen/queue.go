package passgen

import (
	"context"
	"encoding/xml"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	commonamqp "github.com/ykhdr/seedpass/common/amqp"
	amqpconn "github.com/ykhdr/seedpass/common/amqp/connection"
	"github.com/ykhdr/seedpass/common/amqp/consumer"
	"github.com/ykhdr/seedpass/common/amqp/publisher"
	"github.com/ykhdr/seedpass/pkg/messages"
	"github.com/ykhdr/seedpass/worker/pkg/worker"
)

type deriver interface {
	Derive(ctx context.Context, req *messages.DeriveRequest) (*messages.DeriveResponse, error)
}

type sender interface {
	SendMessage(ctx context.Context, message *messages.DeriveResponse, mode publisher.DeliveryMode) error
}

// QueueListener consumes DeriveRequest messages and publishes a
// DeriveResponse for each of them.
type QueueListener struct {
	l            zerolog.Logger
	svc          deriver
	amqpConn     *amqpconn.Connection
	consumerCfg  *consumer.Config
	publisherCfg *publisher.Config
	publisher    sender
}

func NewQueueListener(cfg *commonamqp.Config, svc deriver, amqpConn *amqpconn.Connection) *QueueListener {
	return &QueueListener{
		svc:          svc,
		amqpConn:     amqpConn,
		consumerCfg:  cfg.ConsumerConfig.ToConsumerConfig(xml.Unmarshal, worker.ServiceName),
		publisherCfg: cfg.PublisherConfig.ToPublisherConfig(xml.Marshal, "application/xml"),
		l: log.With().
			Str("domain", "passgen").
			Str("type", "amqp").
			Logger(),
	}
}

// Start blocks while consuming.
func (q *QueueListener) Start(ctx context.Context) error {
	ch, err := q.amqpConn.Channel(ctx)
	if err != nil {
		q.l.Warn().Err(err).Msg("error create amqp channel")
		return errors.Wrap(err, "create amqp channel")
	}
	defer func() { _ = ch.Close() }()
	q.publisher = publisher.New[messages.DeriveResponse](ch, q.publisherCfg)
	q.l.Info().Str("queue", q.consumerCfg.Queue).Msg("queue listener is running")
	return consumer.New[messages.DeriveRequest](ch, q.receive, q.consumerCfg).Subscribe(ctx)
}

func (q *QueueListener) receive(ctx context.Context, req *messages.DeriveRequest, d amqp.Delivery) error {
	resp, err := q.svc.Derive(ctx, req)
	if err != nil && !IsClientError(err) {
		// worker-side failure: leave it for another worker
		if nerr := d.Nack(false, !d.Redelivered); nerr != nil {
			return errors.Wrap(nerr, "nack delivery")
		}
		return err
	}
	if err := q.publisher.SendMessage(ctx, resp, publisher.Persistent); err != nil {
		if nerr := d.Nack(false, true); nerr != nil {
			q.l.Warn().Err(nerr).Msg("failed to nack delivery")
		}
		return err
	}
	return errors.Wrap(d.Ack(false), "ack delivery")
}
