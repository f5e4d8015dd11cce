package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

// UserInput is the registration payload.
type UserInput struct {
	Email    string `json:"email" validate:"email" msg:"E-mail is invalid."`
	Name     string `json:"name"`
	Password string `json:"password" validate:"min=5" msg:"Password too short,invalid."`
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token     string
	UserID    string
	ExpiresAt string
}

type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	BcryptCost int
	Events     events.Publisher
	Logger     logrus.FieldLogger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, bcryptCost int, pub events.Publisher, logger logrus.FieldLogger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = helpers.PasswordCost
	}
	return &AuthService{Users: users, JWT: jwt, BcryptCost: bcryptCost, Events: pub, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default status. The password is stored as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in UserInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	if err := validate(MsgInvalidUserInput, UserInput{
		Email:    email,
		Name:     in.Name,
		Password: strings.TrimSpace(in.Password),
	}); err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict(MsgUserExists)
	} else if !isNotFound(err) {
		return nil, unexpected("lookup user", err)
	}

	hash, err := helpers.HashPasswordWithCost(in.Password, s.BcryptCost)
	if err != nil {
		return nil, unexpected("hash password", err)
	}

	u := &entity.User{
		Name:     in.Name,
		Email:    email,
		Password: hash,
		Status:   entity.DefaultUserStatus,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, apperror.Conflict(MsgUserExists)
		}
		return nil, unexpected("create user", err)
	}

	publish(ctx, s.Events, s.Logger, events.Event{
		Type:   events.UserRegistered,
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Status: u.Status,
	})
	return u, nil
}

// Login checks the credentials and issues a token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthenticated(MsgUserNotFoundLogin)
		}
		return nil, unexpected("lookup user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.Unauthenticated(MsgPasswordIncorrect)
	}

	token, exp, err := s.JWT.Issue(u.ID, u.Email)
	if err != nil {
		return nil, unexpected("issue token", err)
	}
	return &AuthResult{Token: token, UserID: u.ID, ExpiresAt: helpers.ISOTime(exp)}, nil
}
