package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
	"github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
	"github.com/oksasatya/go-graphql-blog/pkg/validation"
)

// Client-facing messages.
const (
	MsgNotAuthenticated   = "Not authenticated."
	MsgInvalidUserInput   = "Invalid Inputs"
	MsgInvalidPostInput   = "Invalid Inputs."
	MsgUserExists         = "User exists already!"
	MsgUserNotFoundLogin  = "User not found."
	MsgPasswordIncorrect  = "Password is incorrect"
	MsgInvalidUser        = "Invalid user."
	MsgPostNotFound       = "Post not found!."
	MsgNotAuthorized      = "Not Authorized."
	MsgUserNotFound       = "User not found!."
	MsgDeletingSuccessful = "Deleting successful"
)

// requireIdentity is the first step of every protected operation.
func requireIdentity(ctx context.Context) (identity.Identity, error) {
	id := identity.FromContext(ctx)
	if !id.Authenticated {
		return id, apperror.Unauthenticated(MsgNotAuthenticated)
	}
	return id, nil
}

// validate runs struct tag validation and folds every failure into one error.
func validate(msg string, in any) error {
	msgs := validation.Messages(in)
	if len(msgs) == 0 {
		return nil
	}
	violations := make([]apperror.Violation, 0, len(msgs))
	for _, m := range msgs {
		violations = append(violations, apperror.Violation{Message: m})
	}
	return apperror.Invalid(msg, violations)
}

func unexpected(op string, err error) error {
	return apperror.Unexpected(fmt.Errorf("%s: %w", op, err))
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// publish emits e and only logs a failure; the mutation already happened.
func publish(ctx context.Context, pub events.Publisher, logger logrus.FieldLogger, e events.Event) {
	if pub == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = helpers.NowUTC()
	}
	if err := pub.Publish(ctx, e); err != nil {
		helpers.LogWarn(logger, "publish event failed", err, logrus.Fields{"event": e.Type, "user_id": e.UserID, "post_id": e.PostID})
	}
}
