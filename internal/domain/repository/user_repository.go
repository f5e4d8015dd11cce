package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
)

var (
	// ErrNotFound is returned for missing entities and for ids the store cannot parse.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// AppendPost and RemovePost modify the post list in a single store operation.
	AppendPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
}
