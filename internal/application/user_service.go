package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-graphql-blog/internal/domain/apperror"
	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-graphql-blog/internal/domain/repository"
)

// UserService serves the current user's own profile. It never takes a user id
// from the client; the id always comes from the request identity.
type UserService struct {
	Users  repo.UserRepository
	Posts  repo.PostRepository
	Logger logrus.FieldLogger
}

func NewUserService(users repo.UserRepository, posts repo.PostRepository, logger logrus.FieldLogger) *UserService {
	return &UserService{Users: users, Posts: posts, Logger: logger}
}

func (s *UserService) load(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, unexpected("get user", err)
	}
	return u, nil
}

// Me returns the authenticated user.
func (s *UserService) Me(ctx context.Context) (*entity.User, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id.UserID)
}

// UpdateStatus replaces the authenticated user's status.
func (s *UserService) UpdateStatus(ctx context.Context, status string) (*entity.User, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdateStatus(ctx, u.ID, status); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound(MsgUserNotFound)
		}
		return nil, unexpected("update status", err)
	}
	return s.load(ctx, u.ID)
}

// PostsOf returns the posts in u's post list, oldest first.
func (s *UserService) PostsOf(ctx context.Context, u *entity.User) ([]*entity.Post, error) {
	if len(u.PostIDs) == 0 {
		return []*entity.Post{}, nil
	}
	posts, err := s.Posts.GetByIDs(ctx, u.PostIDs)
	if err != nil {
		return nil, unexpected("get user posts", err)
	}
	return posts, nil
}
