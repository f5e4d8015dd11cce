package main

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/application"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
)

const sendTimeout = 15 * time.Second

// EventHandler reacts to one domain event and reports whether it did anything.
type EventHandler interface {
	Handle(ctx context.Context, e events.Event) (bool, error)
}

// consume drains msgs until the channel closes. Broken payloads and
// undeliverable events are dropped; any other failure is requeued.
func consume(ctx context.Context, msgs <-chan amqp.Delivery, h EventHandler, logger logrus.FieldLogger) {
	for msg := range msgs {
		e, err := events.Decode(msg.Body)
		if err != nil {
			logger.WithError(err).WithField("message_id", msg.MessageId).Warn("bad message")
			_ = msg.Nack(false, false)
			continue
		}
		log := logger.WithFields(logrus.Fields{"event": e.Type, "user_id": e.UserID})

		c, cancel := context.WithTimeout(ctx, sendTimeout)
		handled, err := h.Handle(c, e)
		cancel()
		switch {
		case errors.Is(err, application.ErrUndeliverable):
			log.WithError(err).Warn("dropping event")
			_ = msg.Nack(false, false)
		case err != nil:
			log.WithError(err).Error("handle failed")
			_ = msg.Nack(false, true)
		default:
			if handled {
				log.Debug("event handled")
			}
			_ = msg.Ack(false)
		}
	}
}
