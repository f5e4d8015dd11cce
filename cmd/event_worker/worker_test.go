package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-graphql-blog/internal/application"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

type outcome struct {
	tag     uint64
	acked   bool
	requeue bool
}

type recordingAcker struct {
	mu  sync.Mutex
	out []outcome
}

func (a *recordingAcker) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.out = append(a.out, outcome{tag: tag, acked: true})
	return nil
}

func (a *recordingAcker) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.out = append(a.out, outcome{tag: tag, requeue: requeue})
	return nil
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type scriptedHandler map[string]error

func (h scriptedHandler) Handle(_ context.Context, e events.Event) (bool, error) {
	err := h[e.UserID]
	return err == nil, err
}

func TestConsume_AcksAndNacks(t *testing.T) {
	acker := &recordingAcker{}
	h := scriptedHandler{
		"ok":    nil,
		"dead":  fmt.Errorf("%w: no email", application.ErrUndeliverable),
		"flaky": errors.New("mailgun 503"),
	}

	msgs := make(chan amqp.Delivery, 4)
	for i, body := range []string{
		`{"type":"user.registered","userId":"ok"}`,
		`{"type":"user.registered","userId":"dead"}`,
		`{"type":"user.registered","userId":"flaky"}`,
		`not json`,
	} {
		msgs <- amqp.Delivery{Acknowledger: acker, DeliveryTag: uint64(i + 1), Body: []byte(body)}
	}
	close(msgs)

	consume(context.Background(), msgs, h, helpers.NewDiscardLogger())

	assert.Equal(t, []outcome{
		{tag: 1, acked: true},
		{tag: 2, requeue: false},
		{tag: 3, requeue: true},
		{tag: 4, requeue: false},
	}, acker.out)
}
