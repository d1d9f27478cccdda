package passgen

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ykhdr/seedpass/common/amqp/publisher"
	"github.com/ykhdr/seedpass/pkg/messages"
)

type fakeAcknowledger struct {
	acked, nacked, rejected int
	requeue                 bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error { a.acked++; return nil }

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(uint64, bool) error { a.rejected++; return nil }

type fakeSender struct {
	sent []*messages.DeriveResponse
	err  error
}

func (s *fakeSender) SendMessage(_ context.Context, m *messages.DeriveResponse, _ publisher.DeliveryMode) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

type stubDeriver struct {
	resp *messages.DeriveResponse
	err  error
}

func (d stubDeriver) Derive(context.Context, *messages.DeriveRequest) (*messages.DeriveResponse, error) {
	return d.resp, d.err
}

func newTestListener(svc deriver, out sender) *QueueListener {
	return &QueueListener{svc: svc, publisher: out}
}

func TestReceive_PublishesThenAcks(t *testing.T) {
	svc, _ := newTestService(t)
	out := &fakeSender{}
	ack := &fakeAcknowledger{}
	q := newTestListener(svc, out)

	req := &messages.DeriveRequest{RequestId: "r1", Seed: "hello", Length: 32, Repetitions: 1}
	if err := q.receive(context.Background(), req, amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.acked != 1 || len(out.sent) != 1 {
		t.Fatalf("acked=%d sent=%d", ack.acked, len(out.sent))
	}
	if out.sent[0].Password != "|#auduHx~Lm>V00&2Pu{O;]rd-QZT+|:" {
		t.Fatalf("unexpected password %q", out.sent[0].Password)
	}
}

func TestReceive_ClientErrorsAreAnswered(t *testing.T) {
	svc, _ := newTestService(t)
	out := &fakeSender{}
	ack := &fakeAcknowledger{}
	q := newTestListener(svc, out)

	req := &messages.DeriveRequest{RequestId: "r2", Seed: "hello", Length: 0, Repetitions: 1}
	if err := q.receive(context.Background(), req, amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.acked != 1 || len(out.sent) != 1 || out.sent[0].Error == "" {
		t.Fatalf("expected an error response to be published and acked")
	}
}

func TestReceive_WorkerFailureIsRequeuedOnce(t *testing.T) {
	boom := errors.New("boom")
	q := newTestListener(stubDeriver{resp: &messages.DeriveResponse{}, err: boom}, &fakeSender{})

	ack := &fakeAcknowledger{}
	err := q.receive(context.Background(), &messages.DeriveRequest{}, amqp.Delivery{Acknowledger: ack})
	if !errors.Is(err, boom) || ack.nacked != 1 || !ack.requeue {
		t.Fatalf("first failure: err=%v nacked=%d requeue=%v", err, ack.nacked, ack.requeue)
	}

	ack = &fakeAcknowledger{}
	_ = q.receive(context.Background(), &messages.DeriveRequest{}, amqp.Delivery{Acknowledger: ack, Redelivered: true})
	if ack.nacked != 1 || ack.requeue {
		t.Fatalf("redelivered failure should be dropped: nacked=%d requeue=%v", ack.nacked, ack.requeue)
	}
}

func TestReceive_PublishFailureRequeues(t *testing.T) {
	svc, _ := newTestService(t)
	sendErr := errors.New("broker gone")
	ack := &fakeAcknowledger{}
	q := newTestListener(svc, &fakeSender{err: sendErr})

	req := &messages.DeriveRequest{Seed: "hello", Length: 8, Repetitions: 1}
	err := q.receive(context.Background(), req, amqp.Delivery{Acknowledger: ack})
	if !errors.Is(err, sendErr) || ack.acked != 0 || ack.nacked != 1 || !ack.requeue {
		t.Fatalf("err=%v acked=%d nacked=%d requeue=%v", err, ack.acked, ack.nacked, ack.requeue)
	}
}
