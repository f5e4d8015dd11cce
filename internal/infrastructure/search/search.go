package search

import (
	"context"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// PostIndexer keeps a full-text index of posts. Search returns matching post ids, best match first.
type PostIndexer interface {
	Index(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// ClampLimit applies the default and upper bound to a requested result size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Noop is used when search is disabled.
type Noop struct{}

func (Noop) Index(context.Context, *entity.Post) error { return nil }
func (Noop) Delete(context.Context, string) error      { return nil }
func (Noop) Search(context.Context, string, int) ([]string, error) {
	return []string{}, nil
}

var _ PostIndexer = Noop{}
