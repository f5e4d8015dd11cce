package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	"github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

const postColumns = `id, title, content, image_url, creator_id, created_at, updated_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) query(ctx context.Context, sql string, args ...any) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*entity.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	p.ID = uuid.NewString()
	now := helpers.NowUTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (id, title, content, image_url, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, p.ID, p.Title, p.Content, p.ImageURL, p.CreatorID, now)
	if err != nil {
		p.ID = ""
		return err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// GetByIDs keeps the order of ids and skips the ones that do not exist.
func (r *PostRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Post, error) {
	if len(ids) == 0 {
		return []*entity.Post{}, nil
	}
	return r.query(ctx, `
		SELECT `+postColumns+`
		FROM posts p JOIN unnest($1::text[]) WITH ORDINALITY AS o(id, ord) USING (id)
		ORDER BY o.ord
	`, ids)
}

func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]*entity.Post, error) {
	return r.query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC, seq DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n)
	return n, err
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE posts SET title = $1, content = $2, image_url = $3, updated_at = $4
		WHERE id = $5
	`, p.Title, p.Content, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
