package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

const (
	UserRegistered = "user.registered"
	PostCreated    = "post.created"
	PostUpdated    = "post.updated"
	PostDeleted    = "post.deleted"
)

// Event is the JSON payload put on the events queue.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	PostID     string    `json:"postId,omitempty"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits domain events after a mutation has been committed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

func Decode(body []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(body, &e)
	return e, err
}

// RabbitPublisher publishes events on a durable RabbitMQ queue.
type RabbitPublisher struct {
	pub *helpers.RabbitPublisher
}

func NewRabbitPublisher(pub *helpers.RabbitPublisher) *RabbitPublisher {
	return &RabbitPublisher{pub: pub}
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = helpers.NowUTC()
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return p.pub.PublishJSON(c, e.Type, e)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

var (
	_ Publisher = (*RabbitPublisher)(nil)
	_ Publisher = Noop{}
)
