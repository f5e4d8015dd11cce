package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-graphql-blog/pkg/mailer/templates"
)

// ErrUndeliverable marks events that will never succeed on retry.
var ErrUndeliverable = errors.New("undeliverable event")

// WelcomeMailer sends a welcome email for every user.registered event.
type WelcomeMailer struct {
	Sender  mailer.Sender
	AppName string
	Logger  logrus.FieldLogger
}

func NewWelcomeMailer(sender mailer.Sender, appName string, logger logrus.FieldLogger) *WelcomeMailer {
	return &WelcomeMailer{Sender: sender, AppName: appName, Logger: logger}
}

// Handle sends the welcome email. Other event types are ignored and report false.
func (m *WelcomeMailer) Handle(ctx context.Context, e events.Event) (bool, error) {
	if e.Type != events.UserRegistered {
		return false, nil
	}
	if e.Email == "" {
		return false, fmt.Errorf("%w: user %s has no email", ErrUndeliverable, e.UserID)
	}

	subject, text, html, err := mailtpl.Render(mailtpl.Welcome, mailtpl.WelcomeData{
		AppName: m.AppName,
		Name:    e.Name,
		Email:   e.Email,
		Status:  e.Status,
		Joined:  e.OccurredAt,
	})
	if err != nil {
		return false, fmt.Errorf("%w: render welcome: %v", ErrUndeliverable, err)
	}
	if err := m.Sender.Send(ctx, mailer.EmailJob{To: e.Email, Subject: subject, Text: text, HTML: html}); err != nil {
		return false, err
	}
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"user_id": e.UserID, "to": e.Email}).Info("welcome email sent")
	}
	return true, nil
}
