package repository

import (
	"context"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
)

// PostRepository persists posts. List orders by CreatedAt descending.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Post, error)
	List(ctx context.Context, offset, limit int) ([]*entity.Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
}
