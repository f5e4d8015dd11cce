// Package memory is an in-process implementation of the repositories, used
// by tests and by STORE_DRIVER=memory for local development.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	"github.com/oksasatya/go-graphql-blog/internal/domain/repository"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

type Store struct {
	mu sync.RWMutex

	users   map[string]*entity.User
	byEmail map[string]string
	posts   map[string]*postRecord
	seq     int64
}

type postRecord struct {
	post entity.Post
	seq  int64
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
		posts:   make(map[string]*postRecord),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

type UserRepository struct{ s *Store }

type PostRepository struct{ s *Store }

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.PostRepository = (*PostRepository)(nil)
)

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.PostIDs = slices.Clone(u.PostIDs)
	return &cp
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := r.s.byEmail[key]; exists {
		return repository.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := helpers.NowUTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	r.s.users[u.ID] = cloneUser(u)
	r.s.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = helpers.NowUTC()
	return nil
}

func (r *UserRepository) AppendPost(_ context.Context, userID, postID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PostIDs = append(u.PostIDs, postID)
	u.UpdatedAt = helpers.NowUTC()
	return nil
}

func (r *UserRepository) RemovePost(_ context.Context, userID, postID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PostIDs = slices.DeleteFunc(u.PostIDs, func(id string) bool { return id == postID })
	u.UpdatedAt = helpers.NowUTC()
	return nil
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := helpers.NowUTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	r.s.seq++
	r.s.posts[p.ID] = &postRecord{post: *p, seq: r.s.seq}
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := rec.post
	return &p, nil
}

func (r *PostRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Post, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.s.posts[id]; ok {
			p := rec.post
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *PostRepository) sorted() []*postRecord {
	recs := make([]*postRecord, 0, len(r.s.posts))
	for _, rec := range r.s.posts {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.seq > b.seq
	})
	return recs
}

func (r *PostRepository) List(_ context.Context, offset, limit int) ([]*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	recs := r.sorted()
	if offset >= len(recs) {
		return []*entity.Post{}, nil
	}
	end := min(offset+limit, len(recs))
	out := make([]*entity.Post, 0, end-offset)
	for _, rec := range recs[offset:end] {
		p := rec.post
		out = append(out, &p)
	}
	return out, nil
}

func (r *PostRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.posts)), nil
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.post.Title = p.Title
	rec.post.Content = p.Content
	rec.post.ImageURL = p.ImageURL
	rec.post.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}
