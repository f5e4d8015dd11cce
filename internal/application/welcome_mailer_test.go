package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/pkg/mailer"
)

type fakeSender struct {
	sent []mailer.EmailJob
	err  error
}

func (s *fakeSender) Send(_ context.Context, job mailer.EmailJob) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, job)
	return nil
}

func TestWelcomeMailer(t *testing.T) {
	s := &fakeSender{}
	m := NewWelcomeMailer(s, "Blog", nil)

	sent, err := m.Handle(context.Background(), events.Event{
		Type: events.UserRegistered, UserID: "u1", Email: "ada@example.com", Name: "Ada",
		Status: "I am new!", OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ada@example.com", s.sent[0].To)
	assert.Equal(t, "Welcome to Blog, Ada!", s.sent[0].Subject)
	assert.NotEmpty(t, s.sent[0].HTML)
}

func TestWelcomeMailer_IgnoresOtherEvents(t *testing.T) {
	s := &fakeSender{}
	sent, err := NewWelcomeMailer(s, "Blog", nil).Handle(context.Background(), events.Event{Type: events.PostCreated})
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, s.sent)
}

func TestWelcomeMailer_Failures(t *testing.T) {
	_, err := NewWelcomeMailer(&fakeSender{}, "Blog", nil).Handle(context.Background(), events.Event{Type: events.UserRegistered})
	assert.ErrorIs(t, err, ErrUndeliverable)

	boom := errors.New("mailgun down")
	_, err = NewWelcomeMailer(&fakeSender{err: boom}, "Blog", nil).Handle(context.Background(), events.Event{Type: events.UserRegistered, Email: "a@b.io"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUndeliverable)
}
