package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	"github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password, status, post_ids, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Status, &u.PostIDs, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if u.PostIDs == nil {
		u.PostIDs = []string{}
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.ID = uuid.NewString()
	now := helpers.NowUTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password, status, post_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '{}', $6, $6)
	`, u.ID, u.Name, u.Email, u.Password, u.Status, now)
	if err != nil {
		u.ID = ""
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	u.PostIDs = []string{}
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	out := make(map[string]*entity.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.exec(ctx, `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`, status, helpers.NowUTC(), id)
}

func (r *UserRepository) AppendPost(ctx context.Context, userID, postID string) error {
	return r.exec(ctx, `UPDATE users SET post_ids = array_append(post_ids, $1), updated_at = $2 WHERE id = $3`,
		postID, helpers.NowUTC(), userID)
}

func (r *UserRepository) RemovePost(ctx context.Context, userID, postID string) error {
	return r.exec(ctx, `UPDATE users SET post_ids = array_remove(post_ids, $1), updated_at = $2 WHERE id = $3`,
		postID, helpers.NowUTC(), userID)
}

var _ repository.UserRepository = (*UserRepository)(nil)
