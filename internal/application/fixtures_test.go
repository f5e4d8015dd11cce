package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-graphql-blog/internal/domain/entity"
	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/events"
	"github.com/oksasatya/go-graphql-blog/internal/infrastructure/memory"
	"github.com/oksasatya/go-graphql-blog/pkg/helpers"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed []string
	deleted []string
	hits    []string
}

func (f *fakeIndex) Index(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.hits, nil
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImages) Save(context.Context, string, string, io.Reader) (string, error) {
	return "images/1-x.png", nil
}

func (f *fakeImages) Delete(_ context.Context, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, p)
	return f.err
}

type fixture struct {
	store  *memory.Store
	jwt    *helpers.JWTManager
	auth   *AuthService
	posts  *PostService
	users  *UserService
	pub    *recordingPublisher
	index  *fakeIndex
	images *fakeImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	logger := helpers.NewDiscardLogger()
	pub := &recordingPublisher{}
	idx := &fakeIndex{}
	imgs := &fakeImages{}
	jwt := helpers.NewJWTManager("test-secret", 2*time.Hour)
	return &fixture{
		store:  store,
		jwt:    jwt,
		auth:   NewAuthService(store.Users(), jwt, bcrypt.MinCost, pub, logger),
		posts:  NewPostService(store.Posts(), store.Users(), imgs, idx, pub, logger),
		users:  NewUserService(store.Users(), store.Posts(), logger),
		pub:    pub,
		index:  idx,
		images: imgs,
	}
}

// register creates a user and returns a context authenticated as that user.
func (f *fixture) register(t *testing.T, email string) (context.Context, *entity.User) {
	t.Helper()
	u, err := f.auth.Register(context.Background(), UserInput{Email: email, Name: "Name " + email, Password: "secret1"})
	require.NoError(t, err)
	return identity.WithIdentity(context.Background(), identity.Authenticated(u.ID)), u
}

func (f *fixture) createPost(t *testing.T, ctx context.Context, title string) *PostDetail {
	t.Helper()
	p, err := f.posts.Create(ctx, PostInput{Title: title, Content: "Some content here", ImageURL: "images/1-" + title + ".png"})
	require.NoError(t, err)
	return p
}

func anonymous() context.Context {
	return identity.WithIdentity(context.Background(), identity.Anonymous())
}
